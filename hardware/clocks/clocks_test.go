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

package clocks_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/spipwm/hardware/clocks"
	"github.com/jetsetilly/spipwm/test"
	"periph.io/x/conn/v3/physic"
)

func TestConversions(t *testing.T) {
	test.ExpectEquality(t, clocks.FromMHz(clocks.ReferenceMHz), clocks.Reference)
	test.ExpectEquality(t, clocks.FromKHz(100), 100*physic.KiloHertz)
	test.ExpectEquality(t, clocks.DurationToTicks(clocks.Reference, 3*time.Millisecond), 30000)
	test.ExpectEquality(t, clocks.DurationToTicks(clocks.FromMHz(3000), 3*time.Millisecond), 9000000)
	test.ExpectEquality(t, clocks.DurationToTicks(0, time.Second), 0)
	test.ExpectEquality(t, clocks.TicksToDuration(clocks.Reference, 3328), 332800*time.Nanosecond)
	test.ExpectEquality(t, clocks.TicksToDuration(0, 3328), time.Duration(0))
}

func TestFrequency(t *testing.T) {
	f := clocks.TicksToFrequency(clocks.Reference, 3328)
	test.ExpectApproximate(t, float64(f)/float64(physic.Hertz), 3004.8, 0.001)
	test.ExpectEquality(t, clocks.TicksToFrequency(clocks.Reference, 0), physic.Frequency(0))
}

func TestHalfPeriod(t *testing.T) {
	// 100kHz serial clock from a 10MHz reference
	test.ExpectEquality(t, clocks.HalfPeriodTicks(clocks.Reference, clocks.FromKHz(100)), 50)

	// serial clock faster than the reference clock is clamped
	test.ExpectEquality(t, clocks.HalfPeriodTicks(clocks.Reference, 100*physic.MegaHertz), 1)
	test.ExpectEquality(t, clocks.HalfPeriodTicks(clocks.Reference, 0), 1)
}
