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

import (
	"fmt"
)

// Direction of a frame. The peripheral has no readback path so frames with
// the Read direction have no effect.
type Direction int

// List of valid Direction values. The value of each matches the value of the
// R/W bit on the wire.
const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	}
	return "unknown"
}

// FrameBits is the number of bits in a well-formed frame.
const FrameBits = 16

// MaxAddress is the largest address that can be encoded in a frame.
const MaxAddress = 0x7f

// Frame is a complete transaction received over the serial interface.
//
// On the wire, the frame is sent MSB first. The first byte is the R/W bit
// followed by the seven address bits. The second byte is the data.
type Frame struct {
	Dir     Direction
	Address uint8
	Data    uint8
}

// DecodeFrame converts the sixteen bits of a frame, in the order they are
// sent on the wire, to a Frame.
func DecodeFrame(v uint16) Frame {
	f := Frame{
		Address: uint8(v>>8) & MaxAddress,
		Data:    uint8(v),
	}
	if v&0x8000 == 0x8000 {
		f.Dir = Write
	}
	return f
}

// Encode returns the frame as sixteen bits in the order they are sent on the
// wire. Address bits beyond the seventh bit are discarded.
func (f Frame) Encode() uint16 {
	v := uint16(f.Address&MaxAddress)<<8 | uint16(f.Data)
	if f.Dir == Write {
		v |= 0x8000
	}
	return v
}

func (f Frame) String() string {
	return fmt.Sprintf("%s %#02x %#02x", f.Dir, f.Address, f.Data)
}
