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

// Package bench drives the peripheral model in the same way as a test bench
// would drive the real peripheral. It generates the serial clock, data and
// chip-select signals tick by tick and measures the PWM waveform on output
// group A.
//
// The Bench type also implements the drivers.SPI interface from the TinyGo
// drivers project. This allows the host driver in drivers/spipwm to be used
// against the model without change.
//
// All timing is in ticks of the peripheral clock. Conversion to real time is
// done with the hardware.clock preference. The rate of the serial clock is
// taken from the bench.sclk preference and the number of idle ticks after
// each transaction from the bench.idleTicks preference.
package bench

import (
	"fmt"
	"time"

	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/environment"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/hardware/clocks"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/spi"
	"github.com/jetsetilly/spipwm/logger"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// sentinal errors.
const (
	AddressRange   = "bench: address must be 7-bit (%d)"
	DataRange      = "bench: data must be 8-bit (%d)"
	BitsRange      = "bench: number of bits must be between 0 and %d (%d)"
	MeasureTimeout = "bench: timeout while measuring (%v)"
)

// Bench drives a single peripheral.
type Bench struct {
	env *environment.Environment
	per *hardware.Peripheral

	clk  physic.Frequency
	half int
	idle int

	// chip-select has been asserted by Transfer() and will stay asserted
	// until Deselect()
	selected bool
}

// check that Bench satisfies the SPI interface
var _ drivers.SPI = (*Bench)(nil)

// New is the preferred method of initialisation for the Bench type.
func New(env *environment.Environment, per *hardware.Peripheral) *Bench {
	b := &Bench{
		env: env,
		per: per,
	}
	b.Configure()
	return b
}

// Configure reads the bench preferences. It should be called if the
// preferences have been changed since the bench was created.
func (b *Bench) Configure() {
	b.clk = b.env.Prefs.ClockFrequency()
	b.half = clocks.HalfPeriodTicks(b.clk, b.env.Prefs.SCLKFrequency())
	b.idle = b.env.Prefs.IdleTicks.Get().(int)
}

func (b *Bench) String() string {
	return fmt.Sprintf("clk=%s sclk half period=%d ticks idle=%d ticks", b.clk, b.half, b.idle)
}

// Peripheral returns the peripheral being driven by the bench.
func (b *Bench) Peripheral() *hardware.Peripheral {
	return b.per
}

// HalfPeriod returns the number of ticks in half a period of the serial clock.
func (b *Bench) HalfPeriod() int {
	return b.half
}

// Elapsed returns the time since the peripheral was created.
func (b *Bench) Elapsed() time.Duration {
	return clocks.TicksToDuration(b.clk, int(b.per.Cycles))
}

// ClockCycles steps the peripheral for n ticks without changing the inputs.
func (b *Bench) ClockCycles(n int) error {
	for i := 0; i < n; i++ {
		if err := b.per.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bench) hold(in pins.Inputs, n int) error {
	b.per.SetInputs(in)
	return b.ClockCycles(n)
}

// Reset holds the reset input low for the specified number of ticks, then
// releases it and waits for the same number of ticks. The serial inputs are
// idle throughout.
func (b *Bench) Reset(ticks int) error {
	b.selected = false
	b.per.SetInputs(pins.Idle)
	b.per.SetReset(gpio.Low)
	if err := b.ClockCycles(ticks); err != nil {
		return err
	}
	b.per.SetReset(gpio.High)
	return b.ClockCycles(ticks)
}

// the start of a transaction. chip-select is asserted with the serial clock
// low for one tick.
func (b *Bench) selectChip() error {
	b.selected = true
	return b.hold(pins.Inputs{NCS: gpio.Low}, 1)
}

// the end of a transaction. chip-select is de-asserted and the bench waits
// for the idle period.
func (b *Bench) deselectChip() error {
	b.selected = false
	return b.hold(pins.Idle, b.idle)
}

// shiftBit sets the data line with the serial clock low for half a period and
// then raises the serial clock for half a period.
func (b *Bench) shiftBit(v bool) error {
	in := pins.Inputs{NCS: gpio.Low, COPI: gpio.Level(v)}
	if err := b.hold(in, b.half); err != nil {
		return err
	}
	in.SCLK = gpio.High
	return b.hold(in, b.half)
}

func (b *Bench) shiftByte(v uint8) error {
	for i := 0; i < 8; i++ {
		if err := b.shiftBit(v&(0x80>>i) != 0); err != nil {
			return err
		}
	}
	return nil
}

// Transaction sends a single frame to the peripheral. The address must be in
// the range 0 to 127 and the data in the range 0 to 255.
func (b *Bench) Transaction(dir spi.Direction, address int, data int) error {
	if address < 0 || address > spi.MaxAddress {
		return curated.Errorf(AddressRange, address)
	}
	if data < 0 || data > 0xff {
		return curated.Errorf(DataRange, data)
	}

	f := spi.Frame{Dir: dir, Address: uint8(address), Data: uint8(data)}
	logger.Logf(b.env, "bench", "transaction: %s", f)

	return b.PartialTransaction(f.Encode(), spi.FrameBits)
}

// PartialTransaction sends the first n bits of the word, MSB first, in a
// single transaction. Used to send malformed frames to the peripheral. If n
// is more than 16 the word is repeated.
func (b *Bench) PartialTransaction(word uint16, n int) error {
	const maxBits = 64
	if n < 0 || n > maxBits {
		return curated.Errorf(BitsRange, maxBits, n)
	}

	if err := b.selectChip(); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := b.shiftBit(word&(0x8000>>(i%16)) != 0); err != nil {
			return err
		}
	}
	return b.deselectChip()
}

// Tx implements the drivers.SPI interface. All bytes in w are sent in a
// single transaction. The peripheral has no data output so r, if supplied, is
// filled with zeroes. If w is nil then len(r) zero bytes are sent.
func (b *Bench) Tx(w, r []byte) error {
	if w == nil {
		w = make([]byte, len(r))
	}

	if b.selected {
		if err := b.deselectChip(); err != nil {
			return err
		}
	}

	if err := b.selectChip(); err != nil {
		return err
	}
	for _, v := range w {
		if err := b.shiftByte(v); err != nil {
			return err
		}
	}
	for i := range r {
		r[i] = 0
	}
	return b.deselectChip()
}

// Transfer implements the drivers.SPI interface. Chip-select is asserted on
// the first call and stays asserted until Deselect() is called. The returned
// byte is always zero.
func (b *Bench) Transfer(v byte) (byte, error) {
	if !b.selected {
		if err := b.selectChip(); err != nil {
			return 0, err
		}
	}
	return 0, b.shiftByte(v)
}

// Deselect ends a transaction started by Transfer(). It does nothing if no
// transaction is in progress.
func (b *Bench) Deselect() error {
	if !b.selected {
		return nil
	}
	return b.deselectChip()
}
