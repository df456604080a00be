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

// Package outputs implements the output multiplexer of the peripheral. Each
// bit of each output group shows either the PWM waveform or the static value
// for that bit, depending on the PWM enable register for the group.
package outputs

import (
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/registers"
)

// Select returns the value of an output group. Bits set in the enable mask
// take the level of the PWM waveform. Other bits take the bit from the static
// value.
func Select(value uint8, enable uint8, level bool) uint8 {
	var pwm uint8
	if level {
		pwm = 0xff
	}
	return (value &^ enable) | (pwm & enable)
}

// Compute the state of both output groups.
func Compute(regs registers.Snapshot, level bool) pins.Outputs {
	return pins.Outputs{
		A: Select(regs.OutVal, regs.OutPWMEn, level),
		B: Select(regs.IOVal, regs.IOPWMEn, level),
	}
}
