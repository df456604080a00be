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

// Trace records the state of a single input line and whether the immediately
// previous state was high or low.
//
// Moving from one state to the other is done with Tick(bool) where a value of
// true indicates a high state. Conditions are conveniently derived from more
// than one trace. For example, a bit is sampled by the decoder when:
//
//	if ncs.Lo() && sclk.Rising() {
//		sample()
//	}
type Trace struct {
	Label string

	// the most recent values are at the end of the array
	Activity []bool

	initial bool
	from    bool
	to      bool
}

const activityLength = 64

// NewTrace is the preferred method of initialisation for the Trace type. The
// initial value is the idle state of the line.
func NewTrace(label string, initial bool) Trace {
	tr := Trace{
		Label:    label,
		Activity: make([]bool, activityLength),
		initial:  initial,
	}
	tr.Reset()
	return tr
}

// Reset the trace to the idle state. No edge will be reported until the line
// changes from the idle state.
func (tr *Trace) Reset() {
	tr.from = tr.initial
	tr.to = tr.initial
	for i := range tr.Activity {
		tr.Activity[i] = tr.initial
	}
}

// Snapshot makes a copy of the trace.
func (tr *Trace) Snapshot() *Trace {
	cp := *tr
	cp.Activity = make([]bool, len(tr.Activity))
	copy(cp.Activity, tr.Activity)
	return &cp
}

func (tr *Trace) String() string {
	b := make([]byte, len(tr.Activity))
	for i, v := range tr.Activity {
		if v {
			b[i] = '-'
		} else {
			b[i] = '_'
		}
	}
	return string(b)
}

func (tr *Trace) Changed() bool {
	return tr.from != tr.to
}

func (tr *Trace) Falling() bool {
	return tr.from && !tr.to
}

func (tr *Trace) Rising() bool {
	return !tr.from && tr.to
}

func (tr *Trace) Hi() bool {
	return tr.to
}

func (tr *Trace) Lo() bool {
	return !tr.to
}

// Tick moves the trace on by one tick with the new value of the line.
func (tr *Trace) Tick(v bool) {
	tr.from = tr.to
	tr.to = v
	tr.Activity = append(tr.Activity[1:], v)
}
