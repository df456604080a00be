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

// Package clocks defines the reference clock of the peripheral and helpers for
// converting between ticks of that clock and real time.
//
// The peripheral is designed for a Tiny Tapeout style carrier board, which
// supplies a 10MHz clock by default. The actual clock is a preference value
// (hardware.clock) so all code that needs the clock rate should use the
// functions in this package with the current preference value rather than the
// Reference constant.
package clocks

import (
	"math"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Reference is the default clock supplied to the peripheral.
const Reference = 10 * physic.MegaHertz

// ReferenceMHz is the Reference clock expressed in megahertz. This is the form
// used by the preferences system.
const ReferenceMHz = 10.0

// FromMHz converts a clock rate in megahertz to a physic.Frequency.
func FromMHz(mhz float64) physic.Frequency {
	return physic.Frequency(mhz * float64(physic.MegaHertz))
}

// FromKHz converts a rate in kilohertz to a physic.Frequency.
func FromKHz(khz float64) physic.Frequency {
	return physic.Frequency(khz * float64(physic.KiloHertz))
}

// DurationToTicks returns the number of ticks in the duration at the
// specified clock rate. The result is not limited by the nanosecond
// resolution of a time.Duration so it is correct for clocks faster than 1GHz.
func DurationToTicks(clk physic.Frequency, d time.Duration) int {
	if clk <= 0 || d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * float64(clk) / float64(physic.Hertz)))
}

// TicksToDuration converts a number of ticks to a duration at the specified
// clock rate.
func TicksToDuration(clk physic.Frequency, ticks int) time.Duration {
	if clk <= 0 {
		return 0
	}
	return time.Duration(float64(ticks) * float64(time.Second) * float64(physic.Hertz) / float64(clk))
}

// TicksToFrequency returns the frequency of a signal with a period of the
// specified number of ticks.
func TicksToFrequency(clk physic.Frequency, ticks int) physic.Frequency {
	if ticks <= 0 {
		return 0
	}
	return clk / physic.Frequency(ticks)
}

// HalfPeriodTicks returns the number of ticks in half a period of the
// specified frequency. The result is never less than one.
func HalfPeriodTicks(clk physic.Frequency, f physic.Frequency) int {
	if f <= 0 {
		return 1
	}
	n := int(clk / (f * 2))
	if n < 1 {
		return 1
	}
	return n
}
