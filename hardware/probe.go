// This file is part of spipwm.
//
// spipwm is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// spipwm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with spipwm.  If not, see <https://www.gnu.org/licenses/>.

package hardware

import (
	"errors"

	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/hardware/pins"
)

// Probe implementations are notified of the state of the PWM waveform and the
// output groups on every tick.
type Probe interface {
	// Sample is called at the end of every tick
	Sample(tick uint64, level bool, out pins.Outputs) error

	// EndProbe is called when the probe is detached
	EndProbe() error
}

// AttachProbe adds a probe to the peripheral. A probe cannot be attached more
// than once.
func (p *Peripheral) AttachProbe(prb Probe) {
	if prb == nil {
		return
	}
	for _, q := range p.probes {
		if q == prb {
			return
		}
	}
	p.probes = append(p.probes, prb)
}

// DetachProbes removes all probes, calling EndProbe() on each. Errors from
// all probes are returned together.
func (p *Peripheral) DetachProbes() error {
	var errs []error
	for _, prb := range p.probes {
		if err := prb.EndProbe(); err != nil {
			errs = append(errs, err)
		}
	}
	p.probes = p.probes[:0]

	if len(errs) > 0 {
		return curated.Errorf("hardware: detaching probes: %v", errors.Join(errs...))
	}
	return nil
}

// NumProbes returns the number of attached probes.
func (p *Peripheral) NumProbes() int {
	return len(p.probes)
}

func (p *Peripheral) sample() error {
	level := p.PWM.Level()
	for _, prb := range p.probes {
		if err := prb.Sample(p.Cycles, level, p.Outputs); err != nil {
			return curated.Errorf("hardware: probe: %v", err)
		}
	}
	return nil
}
