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

// Package pins describes the electrical interface of the peripheral. Input
// pins are the three serial lines. Output pins are the two 8-bit output
// groups.
//
// The serial lines arrive packed in the ui_in byte of the carrier board. The
// Pack() and Unpack() functions convert between the packed byte and the
// Inputs type.
package pins

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// bit positions of the serial lines in the ui_in byte.
const (
	MaskSCLK uint8 = 0b0000_0001
	MaskCOPI uint8 = 0b0000_0010
	MaskNCS  uint8 = 0b0000_0100
)

// Inputs is the state of the input pins for a single tick. NCS is active low.
type Inputs struct {
	NCS  gpio.Level
	SCLK gpio.Level
	COPI gpio.Level
}

// Idle is the state of the input pins when no transaction is in progress.
var Idle = Inputs{NCS: gpio.High, SCLK: gpio.Low, COPI: gpio.Low}

func (in Inputs) String() string {
	return fmt.Sprintf("ncs=%s sclk=%s copi=%s", level(in.NCS), level(in.SCLK), level(in.COPI))
}

// Selected returns true if chip-select is asserted.
func (in Inputs) Selected() bool {
	return in.NCS == gpio.Low
}

// Pack returns the inputs as a ui_in byte.
func (in Inputs) Pack() uint8 {
	var v uint8
	if in.SCLK {
		v |= MaskSCLK
	}
	if in.COPI {
		v |= MaskCOPI
	}
	if in.NCS {
		v |= MaskNCS
	}
	return v
}

// Unpack converts a ui_in byte to the Inputs type. Unused bits are ignored.
func Unpack(v uint8) Inputs {
	return Inputs{
		NCS:  gpio.Level(v&MaskNCS == MaskNCS),
		SCLK: gpio.Level(v&MaskSCLK == MaskSCLK),
		COPI: gpio.Level(v&MaskCOPI == MaskCOPI),
	}
}

// Outputs is the state of the two output groups.
type Outputs struct {
	// group A. uo_out on the carrier board
	A uint8

	// group B. uio_out on the carrier board
	B uint8
}

func (out Outputs) String() string {
	return fmt.Sprintf("A=%08b B=%08b", out.A, out.B)
}

// Bit returns the level of a single output bit in group A (group is false) or
// group B (group is true).
func (out Outputs) Bit(group bool, bit int) gpio.Level {
	v := out.A
	if group {
		v = out.B
	}
	return gpio.Level((v>>bit)&0x01 == 0x01)
}

func level(l gpio.Level) string {
	if l {
		return "1"
	}
	return "0"
}
