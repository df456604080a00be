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
	"github.com/jetsetilly/spipwm/hardware/outputs"
	"github.com/jetsetilly/spipwm/hardware/pins"
)

// Step the peripheral forward one tick of the clock.
//
// The only error returned is from an attached probe. The peripheral itself
// never fails.
func (p *Peripheral) Step() error {
	p.Cycles++

	// enable is de-asserted. the clock is gated and nothing changes
	if !p.Ena {
		return p.sample()
	}

	// reset is held for as long as the reset input is low. outputs are driven
	// low and the PWM counter restarts when reset is released
	if !p.RstN {
		p.Reset()
		return p.sample()
	}

	in := p.Sync.Step(p.Inputs)

	if frm, ok := p.Decoder.Step(in); ok {
		if c, ok := p.Registers.Apply(frm); ok {
			p.LastChange = c
			p.LastChangeCycle = p.Cycles
		}
	}

	regs := p.Registers.Snapshot()
	level := p.PWM.Step(regs.PWMDuty)
	p.Outputs = outputs.Compute(regs, level)

	return p.sample()
}

// Tick sets the input pins and steps the peripheral one tick. It is a
// convenience function for drivers that set the pins on every tick.
func (p *Peripheral) Tick(in pins.Inputs) error {
	p.Inputs = in
	return p.Step()
}
