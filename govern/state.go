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

// Package govern defines the states that a running peripheral model can be
// in. A continue check function returns one of these states to tell the
// Run() functions in the hardware package whether to keep going.
package govern

// State indicates the running state of the peripheral model.
type State int

// List of possible states.
const (
	// the model is being set up and should not be stepped
	Initialising State = iota

	// the model is being stepped as quickly as possible
	Running

	// the clock has been stopped but the model is still alive
	Paused

	// the run loop should return
	Ending
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "Initialising"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Ending:
		return "Ending"
	}
	return ""
}
