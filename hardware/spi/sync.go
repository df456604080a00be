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

package spi

import "github.com/jetsetilly/spipwm/hardware/pins"

// Synchroniser delays the input pins by a fixed number of ticks, in the same
// way as a chain of flip-flops in front of the decoder would. A synchroniser
// with zero stages passes inputs through unchanged.
type Synchroniser struct {
	stages []pins.Inputs
}

// NewSynchroniser is the preferred method of initialisation for the
// Synchroniser type.
func NewSynchroniser(stages int) *Synchroniser {
	if stages < 0 {
		stages = 0
	}
	syn := &Synchroniser{
		stages: make([]pins.Inputs, stages),
	}
	syn.Reset()
	return syn
}

// Reset fills the synchroniser with the idle state of the inputs.
func (syn *Synchroniser) Reset() {
	for i := range syn.stages {
		syn.stages[i] = pins.Idle
	}
}

// Stages returns the number of stages in the synchroniser.
func (syn *Synchroniser) Stages() int {
	return len(syn.stages)
}

// Step pushes the inputs into the synchroniser and returns the inputs that
// fall out of the final stage.
func (syn *Synchroniser) Step(in pins.Inputs) pins.Inputs {
	if len(syn.stages) == 0 {
		return in
	}
	out := syn.stages[0]
	copy(syn.stages, syn.stages[1:])
	syn.stages[len(syn.stages)-1] = in
	return out
}

// Snapshot makes a copy of the synchroniser.
func (syn *Synchroniser) Snapshot() *Synchroniser {
	cp := &Synchroniser{
		stages: make([]pins.Inputs, len(syn.stages)),
	}
	copy(cp.stages, syn.stages)
	return cp
}
