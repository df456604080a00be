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
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/pwm"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/hardware/spi"
)

// State stores the sub-systems of the peripheral. It is produced by the
// Snapshot() function and can be restored with the Plumb() function.
//
// Probes and the environment are not part of the snapshot.
type State struct {
	Sync      *spi.Synchroniser
	Decoder   *spi.Decoder
	Registers registers.Snapshot
	PWM       pwm.Engine

	Inputs  pins.Inputs
	Outputs pins.Outputs
	Cycles  uint64
}

// Snapshot the state of the peripheral.
func (p *Peripheral) Snapshot() *State {
	return &State{
		Sync:      p.Sync.Snapshot(),
		Decoder:   p.Decoder.Snapshot(),
		Registers: p.Registers.Snapshot(),
		PWM:       *p.PWM,
		Inputs:    p.Inputs,
		Outputs:   p.Outputs,
		Cycles:    p.Cycles,
	}
}

// Plumb a previously snapshotted state into the peripheral. The state can be
// plumbed more than once.
func (p *Peripheral) Plumb(state *State) {
	if state == nil {
		panic("hardware: cannot plumb in a nil state")
	}

	// take another copy of the state so that the peripheral doesn't change
	// what has been stored in the State instance
	p.Sync = state.Sync.Snapshot()
	p.Decoder = state.Decoder.Snapshot()

	p.Registers.Reset()
	p.Registers.Poke(registers.OutVal, state.Registers.OutVal)
	p.Registers.Poke(registers.IOVal, state.Registers.IOVal)
	p.Registers.Poke(registers.OutPWMEn, state.Registers.OutPWMEn)
	p.Registers.Poke(registers.IOPWMEn, state.Registers.IOPWMEn)
	p.Registers.Poke(registers.PWMDuty, state.Registers.PWMDuty)

	eng := state.PWM
	p.PWM = &eng

	p.Inputs = state.Inputs
	p.Outputs = state.Outputs
	p.Cycles = state.Cycles
}
