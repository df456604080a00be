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

package spi_test

import (
	"testing"

	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/spi"
	"github.com/jetsetilly/spipwm/logger"
	"github.com/jetsetilly/spipwm/test"
	"periph.io/x/conn/v3/gpio"
)

// driver steps the decoder through a transaction in the same way as the
// bench does. frames emitted by the decoder are collected.
type driver struct {
	dec    *spi.Decoder
	half   int
	frames []spi.Frame
}

func (d *driver) tick(in pins.Inputs) {
	if f, ok := d.dec.Step(in); ok {
		d.frames = append(d.frames, f)
	}
}

func (d *driver) hold(in pins.Inputs, n int) {
	for i := 0; i < n; i++ {
		d.tick(in)
	}
}

// transaction shifts the first n bits of the word, MSB first.
func (d *driver) transaction(word uint16, n int) {
	in := pins.Inputs{NCS: gpio.Low}
	d.tick(in)

	for i := 0; i < n; i++ {
		in.COPI = gpio.Level(word&(0x8000>>(i%16)) != 0)
		in.SCLK = gpio.Low
		d.hold(in, d.half)
		in.SCLK = gpio.High
		d.hold(in, d.half)
	}

	in.SCLK = gpio.Low
	d.hold(in, d.half)
	d.hold(pins.Idle, d.half)
}

func newDriver() *driver {
	return &driver{
		dec:  spi.NewDecoder(logger.Allow),
		half: 3,
	}
}

func TestFrameEncoding(t *testing.T) {
	f := spi.DecodeFrame(0x80f0)
	test.ExpectEquality(t, f, spi.Frame{Dir: spi.Write, Address: 0x00, Data: 0xf0})
	test.ExpectEquality(t, f.Encode(), uint16(0x80f0))

	f = spi.DecodeFrame(0x7f55)
	test.ExpectEquality(t, f, spi.Frame{Dir: spi.Read, Address: 0x7f, Data: 0x55})
	test.ExpectEquality(t, f.String(), "read 0x7f 0x55")

	// address is truncated to seven bits
	f = spi.Frame{Dir: spi.Write, Address: 0xff, Data: 0x01}
	test.ExpectEquality(t, f.Encode(), uint16(0xff01))
	test.ExpectEquality(t, spi.DecodeFrame(f.Encode()).Address, uint8(0x7f))

	for v := 0; v <= 0xffff; v += 0x0101 {
		test.ExpectEquality(t, spi.DecodeFrame(uint16(v)).Encode(), uint16(v))
	}
}

func TestWellFormedFrame(t *testing.T) {
	d := newDriver()

	d.transaction(0x80f0, 16)
	test.DemandEquality(t, len(d.frames), 1)
	test.ExpectEquality(t, d.frames[0], spi.Frame{Dir: spi.Write, Address: 0x00, Data: 0xf0})

	d.transaction(0x01cc, 16)
	test.DemandEquality(t, len(d.frames), 2)
	test.ExpectEquality(t, d.frames[1], spi.Frame{Dir: spi.Read, Address: 0x01, Data: 0xcc})

	test.ExpectEquality(t, d.dec.Frames, 2)
	test.ExpectEquality(t, d.dec.Dropped, 0)
	test.ExpectEquality(t, d.dec.State, spi.Idle)
}

func TestFrameEmittedOnChipSelect(t *testing.T) {
	d := newDriver()

	in := pins.Inputs{NCS: gpio.Low}
	d.tick(in)
	for i := 0; i < 16; i++ {
		in.COPI = gpio.High
		in.SCLK = gpio.Low
		d.tick(in)
		in.SCLK = gpio.High
		d.tick(in)
	}
	in.SCLK = gpio.Low
	d.tick(in)

	// all bits received but chip-select still asserted
	test.ExpectEquality(t, len(d.frames), 0)
	test.ExpectEquality(t, d.dec.BitsCt, 16)

	// frame emitted on the tick that chip-select rises
	f, ok := d.dec.Step(pins.Idle)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, f.Encode(), uint16(0xffff))
}

func TestMalformedFrames(t *testing.T) {
	d := newDriver()

	for _, n := range []int{0, 1, 8, 15, 17, 24, 32} {
		d.transaction(0x80ff, n)
		test.ExpectEquality(t, len(d.frames), 0, n)
	}
	test.ExpectEquality(t, d.dec.Dropped, 7)

	// a well-formed frame after the malformed frames is received correctly
	d.transaction(0x8455, 16)
	test.DemandEquality(t, len(d.frames), 1)
	test.ExpectEquality(t, d.frames[0], spi.Frame{Dir: spi.Write, Address: 0x04, Data: 0x55})
}

func TestClockIgnoredWhenNotSelected(t *testing.T) {
	d := newDriver()

	// toggle serial clock with chip-select high
	for i := 0; i < 20; i++ {
		d.hold(pins.Inputs{NCS: gpio.High, SCLK: gpio.Low, COPI: gpio.High}, 2)
		d.hold(pins.Inputs{NCS: gpio.High, SCLK: gpio.High, COPI: gpio.High}, 2)
	}
	test.ExpectEquality(t, d.dec.State, spi.Idle)
	test.ExpectEquality(t, d.dec.BitsCt, 0)

	d.transaction(0x8101, 16)
	test.DemandEquality(t, len(d.frames), 1)
	test.ExpectEquality(t, d.frames[0].Address, uint8(0x01))
}

func TestReset(t *testing.T) {
	d := newDriver()

	// start a transaction and then reset part way through
	in := pins.Inputs{NCS: gpio.Low}
	d.tick(in)
	for i := 0; i < 8; i++ {
		in.SCLK = gpio.Low
		d.tick(in)
		in.SCLK = gpio.High
		d.tick(in)
	}
	d.dec.Reset()
	test.ExpectEquality(t, d.dec.State, spi.Idle)

	// chip-select still low after reset. the line is treated as having been
	// idle during the reset so a new transaction starts immediately
	in.COPI = gpio.High
	for i := 0; i < 16; i++ {
		in.SCLK = gpio.Low
		d.tick(in)
		in.SCLK = gpio.High
		d.tick(in)
	}
	d.tick(pins.Idle)
	test.DemandEquality(t, len(d.frames), 1)
	test.ExpectEquality(t, d.frames[0].Encode(), uint16(0xffff))
	test.ExpectEquality(t, d.dec.Dropped, 0)
}

func TestSynchroniser(t *testing.T) {
	syn := spi.NewSynchroniser(2)
	test.ExpectEquality(t, syn.Stages(), 2)

	sel := pins.Inputs{NCS: gpio.Low}
	test.ExpectEquality(t, syn.Step(sel), pins.Idle)
	test.ExpectEquality(t, syn.Step(pins.Idle), pins.Idle)
	test.ExpectEquality(t, syn.Step(pins.Idle), sel)
	test.ExpectEquality(t, syn.Step(pins.Idle), pins.Idle)

	syn = spi.NewSynchroniser(0)
	test.ExpectEquality(t, syn.Step(sel), sel)

	syn = spi.NewSynchroniser(-1)
	test.ExpectEquality(t, syn.Stages(), 0)
}

func TestTrace(t *testing.T) {
	tr := spi.NewTrace("test", true)
	test.ExpectSuccess(t, tr.Hi())
	test.ExpectFailure(t, tr.Changed())

	tr.Tick(false)
	test.ExpectSuccess(t, tr.Falling())
	test.ExpectSuccess(t, tr.Lo())
	tr.Tick(false)
	test.ExpectFailure(t, tr.Changed())
	tr.Tick(true)
	test.ExpectSuccess(t, tr.Rising())

	cp := tr.Snapshot()
	tr.Tick(false)
	test.ExpectSuccess(t, cp.Rising())
	test.ExpectSuccess(t, tr.Falling())

	s := tr.String()
	test.ExpectEquality(t, s[len(s)-5:], "-__-_")
}

func TestDecoderString(t *testing.T) {
	dec := spi.NewDecoder(logger.Allow)
	test.ExpectEquality(t, dec.String(), "spi: idle")

	in := pins.Inputs{NCS: gpio.Low, COPI: gpio.High}
	dec.Step(in)
	in.SCLK = gpio.High
	dec.Step(in)
	test.ExpectEquality(t, dec.String(), "spi: receiving [1 bits: 1]")
}
