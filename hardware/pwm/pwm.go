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

// Package pwm implements the PWM engine of the peripheral.
//
// The engine is an 8-bit free-running counter compared against the duty
// register. The waveform is high while the counter is less than the duty
// value. The counter advances once every Divider ticks of the peripheral
// clock and wraps from 255 to 0. The period of the waveform is therefore 256 *
// Divider ticks, whatever the duty value.
//
// A duty value of zero means the waveform is always low. A duty value of 255
// means the waveform is low for exactly one counter step in every 256. There
// is no duty value that gives a waveform that is always high.
package pwm

import (
	"fmt"

	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/hardware/clocks"
	"periph.io/x/conn/v3/physic"
)

// Steps is the number of counter steps in one period of the waveform.
const Steps = 256

// sentinal errors.
const (
	InvalidDivider = "pwm: invalid divider (%d)"
)

// Engine is the PWM counter and comparator.
type Engine struct {
	// number of ticks for each step of the counter
	Divider int

	// the counter value compared with the duty value
	Counter uint8

	// TicksRemaining is the number of ticks remaining before the counter
	// advances. the following rules apply:
	//		* set to Divider-1 on reset
	//		* causes the counter to advance when it reaches -1
	//		* is reset to Divider-1 whenever the counter advances
	TicksRemaining int

	level bool
}

// NewEngine is the preferred method of initialisation for the Engine type. A
// divider of less than one is treated as one.
func NewEngine(divider int) *Engine {
	if divider < 1 {
		divider = 1
	}
	eng := &Engine{
		Divider: divider,
	}
	eng.Reset()
	return eng
}

func (eng *Engine) String() string {
	return fmt.Sprintf("counter=%#02x remn=%d div=%d level=%v",
		eng.Counter,
		eng.TicksRemaining,
		eng.Divider,
		eng.level,
	)
}

// Reset the counter to zero. The waveform is low until the next call to
// Step().
func (eng *Engine) Reset() {
	eng.Counter = 0
	eng.TicksRemaining = eng.Divider - 1
	eng.level = false
}

// SetDivider changes the number of ticks per counter step. The change takes
// effect at the next counter step unless the new divider is shorter than the
// time remaining.
func (eng *Engine) SetDivider(divider int) error {
	if divider < 1 {
		return curated.Errorf(InvalidDivider, divider)
	}
	eng.Divider = divider
	if eng.TicksRemaining > divider-1 {
		eng.TicksRemaining = divider - 1
	}
	return nil
}

// Step the engine forward one tick and compare the counter against the duty
// value. Returns the level of the waveform.
func (eng *Engine) Step(duty uint8) bool {
	eng.TicksRemaining--
	if eng.TicksRemaining < 0 {
		eng.Counter++
		eng.TicksRemaining = eng.Divider - 1
	}
	eng.level = eng.Counter < duty
	return eng.level
}

// Level returns the level of the waveform as of the most recent call to
// Step().
func (eng *Engine) Level() bool {
	return eng.level
}

// Period returns the number of ticks in one period of the waveform.
func (eng *Engine) Period() int {
	return Steps * eng.Divider
}

// Frequency returns the frequency of the waveform for the specified clock.
func (eng *Engine) Frequency(clk physic.Frequency) physic.Frequency {
	return clocks.TicksToFrequency(clk, eng.Period())
}

// DutyFraction returns the fraction of the period for which the waveform is
// high for the specified duty value.
func DutyFraction(duty uint8) float64 {
	return float64(duty) / Steps
}
