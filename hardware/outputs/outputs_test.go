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

package outputs_test

import (
	"testing"

	"github.com/jetsetilly/spipwm/hardware/outputs"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/test"
)

func TestSelect(t *testing.T) {
	// no PWM enabled. static value is passed through
	test.ExpectEquality(t, outputs.Select(0xf0, 0x00, true), uint8(0xf0))
	test.ExpectEquality(t, outputs.Select(0xf0, 0x00, false), uint8(0xf0))

	// all bits PWM enabled. static value is ignored
	test.ExpectEquality(t, outputs.Select(0xf0, 0xff, true), uint8(0xff))
	test.ExpectEquality(t, outputs.Select(0xf0, 0xff, false), uint8(0x00))

	// mixed
	test.ExpectEquality(t, outputs.Select(0x81, 0x0f, true), uint8(0x8f))
	test.ExpectEquality(t, outputs.Select(0x81, 0x0f, false), uint8(0x80))
}

func TestBitIndependence(t *testing.T) {
	for bit := 0; bit < 8; bit++ {
		mask := uint8(1 << bit)

		for _, level := range []bool{false, true} {
			v := outputs.Select(0x00, mask, level)
			if level {
				test.ExpectEquality(t, v, mask, bit)
			} else {
				test.ExpectEquality(t, v, uint8(0x00), bit)
			}

			// enabling PWM on one bit does not affect the static value of
			// other bits
			v = outputs.Select(0xff, mask, level)
			test.ExpectEquality(t, v&^mask, 0xff&^mask, bit)
		}
	}
}

func TestGroupIndependence(t *testing.T) {
	regs := registers.Snapshot{
		OutVal:   0xf0,
		IOVal:    0xcc,
		OutPWMEn: 0x00,
		IOPWMEn:  0x0f,
	}

	test.ExpectEquality(t, outputs.Compute(regs, true), pins.Outputs{A: 0xf0, B: 0xcf})
	test.ExpectEquality(t, outputs.Compute(regs, false), pins.Outputs{A: 0xf0, B: 0xc0})

	regs.OutPWMEn = 0xff
	regs.IOPWMEn = 0x00
	test.ExpectEquality(t, outputs.Compute(regs, true), pins.Outputs{A: 0xff, B: 0xcc})
	test.ExpectEquality(t, outputs.Compute(regs, false), pins.Outputs{A: 0x00, B: 0xcc})
}
