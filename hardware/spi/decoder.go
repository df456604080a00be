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

// Package spi implements the serial frame decoder of the peripheral.
//
// The decoder is a write-only SPI mode 0 target. Chip-select is active low.
// Data is sampled on the rising edge of the serial clock while chip-select is
// asserted. A transaction is exactly sixteen bits long, MSB first:
//
//	RW(1) | ADDR(7) | DATA(8)
//
// A frame is emitted on the tick that chip-select is de-asserted, and only if
// exactly sixteen bits were sampled. Any other transaction length is dropped
// without any indication to the controller.
//
// The decoder does not filter its inputs. The Synchroniser type can be placed
// in front of the decoder to model the flip-flops that would be used to bring
// the asynchronous serial lines into the peripheral's clock domain.
package spi

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/logger"
)

// State records how the next sampled bit will be interpreted.
type State int

// List of valid State values.
const (
	// chip-select is not asserted
	Idle State = iota

	// chip-select is asserted and fewer than FrameBits have been sampled
	Receiving

	// chip-select is asserted and more than FrameBits have been sampled. the
	// frame will be dropped when chip-select is de-asserted
	Overflow
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Receiving:
		return "receiving"
	case Overflow:
		return "overflow"
	}
	return "unknown"
}

// Decoder turns the serial bit stream into frames.
type Decoder struct {
	perm logger.Permission

	NCS  Trace
	SCLK Trace

	State State

	// the bits received so far in the current transaction. see recvBit()
	Bits   uint16
	BitsCt int

	// number of frames emitted and dropped since the last reset
	Frames  int
	Dropped int
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
func NewDecoder(perm logger.Permission) *Decoder {
	dec := &Decoder{
		perm: perm,
		NCS:  NewTrace("ncs", true),
		SCLK: NewTrace("sclk", false),
	}
	dec.Reset()
	return dec
}

// Reset the decoder. Any transaction in progress is abandoned. The input lines
// are treated as idle during reset so if chip-select is low on the first tick
// after reset a new transaction is started.
func (dec *Decoder) Reset() {
	dec.NCS.Reset()
	dec.SCLK.Reset()
	dec.State = Idle
	dec.Frames = 0
	dec.Dropped = 0
	dec.resetBits()
}

// Snapshot makes a copy of the decoder.
func (dec *Decoder) Snapshot() *Decoder {
	cp := *dec
	cp.NCS = *dec.NCS.Snapshot()
	cp.SCLK = *dec.SCLK.Snapshot()
	return &cp
}

func (dec *Decoder) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("spi: %s", dec.State))
	if dec.State != Idle {
		s.WriteString(fmt.Sprintf(" [%d bits: %0*b]", dec.BitsCt, min(dec.BitsCt, FrameBits), dec.Bits))
	}
	return s.String()
}

func (dec *Decoder) resetBits() {
	dec.Bits = 0
	dec.BitsCt = 0
}

// recvBit shifts the bit into the bits field, MSB first. Returns false if the
// frame is already full, in which case the bit is not stored.
func (dec *Decoder) recvBit(v bool) bool {
	if dec.BitsCt >= FrameBits {
		return false
	}

	dec.Bits <<= 1
	if v {
		dec.Bits |= 0x01
	}
	dec.BitsCt++

	return true
}

// Step advances the decoder by one tick with the current state of the input
// pins. If a transaction finished on this tick and it was well-formed then the
// frame is returned along with a true value.
func (dec *Decoder) Step(in pins.Inputs) (Frame, bool) {
	dec.NCS.Tick(bool(in.NCS))
	dec.SCLK.Tick(bool(in.SCLK))

	// chip-select de-asserted. this is checked before anything else because
	// the serial clock is ignored when chip-select is high
	if dec.NCS.Rising() {
		defer dec.resetBits()

		st := dec.State
		dec.State = Idle

		switch st {
		case Receiving:
			if dec.BitsCt == FrameBits {
				f := DecodeFrame(dec.Bits)
				dec.Frames++
				logger.Logf(dec.perm, "spi", "frame: %s", f)
				return f, true
			}
			dec.Dropped++
			logger.Logf(dec.perm, "spi", "dropped short frame (%d bits)", dec.BitsCt)
		case Overflow:
			dec.Dropped++
			logger.Logf(dec.perm, "spi", "dropped long frame (more than %d bits)", FrameBits)
		}

		return Frame{}, false
	}

	// chip-select asserted. any partially received bits are discarded
	if dec.NCS.Falling() {
		dec.resetBits()
		dec.State = Receiving
	}

	if dec.State == Idle || !dec.NCS.Lo() {
		return Frame{}, false
	}

	if dec.SCLK.Rising() {
		if !dec.recvBit(bool(in.COPI)) {
			dec.State = Overflow
		}
	}

	return Frame{}, false
}
