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

package bench_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/spipwm/bench"
	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/environment"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/preferences"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/hardware/spi"
	"github.com/jetsetilly/spipwm/test"
	"periph.io/x/conn/v3/physic"
)

const timeout = 3 * time.Millisecond

func newBench(t *testing.T) *bench.Bench {
	t.Helper()

	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)

	per, err := hardware.NewPeripheral(env)
	test.DemandSuccess(t, err)

	b := bench.New(env, per)
	test.DemandSuccess(t, b.Reset(5))

	return b
}

func TestConfigure(t *testing.T) {
	b := newBench(t)
	test.ExpectEquality(t, b.HalfPeriod(), 50)
	test.ExpectEquality(t, b.String(), "clk=10MHz sclk half period=50 ticks idle=600 ticks")

	// reset is held for five ticks and then five settle ticks
	test.ExpectEquality(t, b.Peripheral().Cycles, uint64(10))
	test.ExpectEquality(t, b.Elapsed(), time.Microsecond)
}

func TestTransactionValidation(t *testing.T) {
	b := newBench(t)

	err := b.Transaction(spi.Write, 128, 0)
	test.ExpectSuccess(t, curated.Is(err, bench.AddressRange))
	err = b.Transaction(spi.Write, -1, 0)
	test.ExpectSuccess(t, curated.Is(err, bench.AddressRange))
	err = b.Transaction(spi.Write, 0, 256)
	test.ExpectSuccess(t, curated.Is(err, bench.DataRange))
	err = b.PartialTransaction(0, 65)
	test.ExpectSuccess(t, curated.Is(err, bench.BitsRange))

	// no ticks have passed for the invalid transactions
	test.ExpectEquality(t, b.Peripheral().Cycles, uint64(10))
}

func TestTransactionTiming(t *testing.T) {
	b := newBench(t)
	test.DemandSuccess(t, b.Transaction(spi.Write, 0, 0xf0))

	// one tick of chip-select, sixteen full serial clock periods and the idle
	// period
	test.ExpectEquality(t, b.Peripheral().Cycles, uint64(10+1+16*100+600))
}

func TestSPI(t *testing.T) {
	b := newBench(t)
	per := b.Peripheral()

	// read of an unused address has no effect
	test.DemandSuccess(t, b.Transaction(spi.Read, 0x41, 0xef))
	test.ExpectEquality(t, per.Registers.Snapshot(), registers.Snapshot{})

	test.DemandSuccess(t, b.Transaction(spi.Write, 0x00, 0xf0))
	test.ExpectEquality(t, per.Outputs.A, uint8(0xf0))

	test.DemandSuccess(t, b.Transaction(spi.Write, 0x01, 0xcc))
	test.ExpectEquality(t, per.Outputs.B, uint8(0xcc))

	test.DemandSuccess(t, b.Transaction(spi.Write, 0x30, 0xaa))
	test.ExpectEquality(t, per.Outputs, pins.Outputs{A: 0xf0, B: 0xcc})

	// malformed frames
	for _, n := range []int{0, 7, 15, 17, 32} {
		test.DemandSuccess(t, b.PartialTransaction(0x8000, n))
		test.ExpectEquality(t, per.Outputs.A, uint8(0xf0), n)
	}
	test.ExpectEquality(t, per.Decoder.Dropped, 5)
}

func TestFrequency(t *testing.T) {
	b := newBench(t)
	for _, reg := range []int{0x00, 0x01, 0x02, 0x03} {
		test.DemandSuccess(t, b.Transaction(spi.Write, reg, 0xff))
	}
	test.DemandSuccess(t, b.Transaction(spi.Write, 0x04, 0x80))

	ticks, err := b.MeasurePeriodTicks(timeout)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ticks, 3328)

	period, err := b.MeasurePeriod(timeout)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, period, 332800*time.Nanosecond)

	freq, err := b.MeasureFrequency(timeout)
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, freq, 3000*physic.Hertz, 0.01)
}

func TestFrequencyTimeout(t *testing.T) {
	b := newBench(t)

	// no PWM output
	_, err := b.MeasurePeriod(timeout)
	test.ExpectSuccess(t, curated.Is(err, bench.MeasureTimeout))
}

func TestDuty(t *testing.T) {
	b := newBench(t)
	test.DemandSuccess(t, b.Transaction(spi.Write, 0x02, 0xff))

	for _, f := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		d := int(f * 255)
		test.DemandSuccess(t, b.Transaction(spi.Write, 0x04, d))

		duty, err := b.MeasureDuty(2 * time.Millisecond)
		test.DemandSuccess(t, err)

		if d == 0 {
			test.ExpectEquality(t, duty, 0.0)
		} else {
			test.ExpectApproximate(t, duty, float64(d)/255, 0.01, d)
		}
	}
}

func TestConstantHighDuty(t *testing.T) {
	b := newBench(t)
	test.DemandSuccess(t, b.Transaction(spi.Write, 0x00, 0x01))

	duty, err := b.MeasureDuty(time.Millisecond)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, duty, 1.0)
}

func TestDriverInterface(t *testing.T) {
	b := newBench(t)
	per := b.Peripheral()

	r := []byte{0xff, 0xff}
	test.DemandSuccess(t, b.Tx([]byte{0x80, 0x5a}, r))
	test.ExpectEquality(t, per.Outputs.A, uint8(0x5a))
	test.ExpectEquality(t, r[0], uint8(0))
	test.ExpectEquality(t, r[1], uint8(0))

	// three bytes in one transaction is a malformed frame
	test.DemandSuccess(t, b.Tx([]byte{0x80, 0xa5, 0x00}, nil))
	test.ExpectEquality(t, per.Outputs.A, uint8(0x5a))

	// transfer keeps chip-select asserted until deselect
	v, err := b.Transfer(0x81)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0))
	_, err = b.Transfer(0x3c)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, per.Outputs.B, uint8(0x00))
	test.DemandSuccess(t, b.Deselect())
	test.ExpectEquality(t, per.Outputs.B, uint8(0x3c))

	// deselect with no transaction does nothing
	cycles := per.Cycles
	test.DemandSuccess(t, b.Deselect())
	test.ExpectEquality(t, per.Cycles, cycles)
}

func TestReset(t *testing.T) {
	b := newBench(t)
	per := b.Peripheral()

	test.DemandSuccess(t, b.Transaction(spi.Write, 0x00, 0xff))
	test.ExpectEquality(t, per.Outputs.A, uint8(0xff))

	test.DemandSuccess(t, b.Reset(5))
	test.ExpectEquality(t, per.Outputs, pins.Outputs{})
	test.ExpectEquality(t, per.Registers.Snapshot(), registers.Snapshot{})
}

func TestSerialClockPreference(t *testing.T) {
	b := newBench(t)
	env := b.Peripheral().Env

	test.DemandSuccess(t, env.Prefs.SCLK.Set(1000.0))
	test.DemandSuccess(t, env.Prefs.IdleTicks.Set(10))
	b.Configure()
	test.ExpectEquality(t, b.HalfPeriod(), 5)

	test.DemandSuccess(t, b.Transaction(spi.Write, 0x01, 0x42))
	test.ExpectEquality(t, b.Peripheral().Outputs.B, uint8(0x42))
}

func TestFastClock(t *testing.T) {
	b := newBench(t)
	env := b.Peripheral().Env

	// a tick at 3GHz is shorter than a nanosecond
	test.DemandSuccess(t, env.Prefs.Clock.Set(3000.0))
	test.DemandSuccess(t, env.Prefs.SCLK.Set(100000.0))
	b.Configure()
	test.ExpectEquality(t, b.HalfPeriod(), 15)

	_, err := b.MeasurePeriod(time.Microsecond)
	test.ExpectSuccess(t, curated.Is(err, bench.MeasureTimeout))

	test.DemandSuccess(t, b.Transaction(spi.Write, 0x02, 0xff))
	test.DemandSuccess(t, b.Transaction(spi.Write, 0x04, 0x80))

	freq, err := b.MeasureFrequency(10 * time.Microsecond)
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, freq, 3000*physic.MegaHertz/3328, 0.01)
}
