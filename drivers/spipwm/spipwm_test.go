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

package spipwm_test

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/spipwm/bench"
	"github.com/jetsetilly/spipwm/drivers/spipwm"
	"github.com/jetsetilly/spipwm/environment"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/preferences"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/test"
	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.SPI = (*fakeSPI)(nil)

// fakeSPI records every transaction.
type fakeSPI struct {
	tx  [][]byte
	err error
}

func (f *fakeSPI) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.tx = append(f.tx, append([]byte{}, w...))
	return nil
}

func (f *fakeSPI) Transfer(b byte) (byte, error) {
	return 0, f.err
}

func TestFrames(t *testing.T) {
	bus := &fakeSPI{}
	d := spipwm.New(bus)

	test.DemandSuccess(t, d.Configure(spipwm.Config{ValueA: 0xf0, Duty: 0x80}))
	test.DemandEquality(t, len(bus.tx), 5)
	test.ExpectEquality(t, string(bus.tx[0]), string([]byte{0x80, 0xf0}))
	test.ExpectEquality(t, string(bus.tx[4]), string([]byte{0x84, 0x80}))

	test.DemandSuccess(t, d.Nop(0x41))
	test.ExpectEquality(t, string(bus.tx[5]), string([]byte{0x41, 0x00}))

	// address truncated to seven bits
	test.DemandSuccess(t, d.WriteRegister(0x81, 0x01))
	test.ExpectEquality(t, string(bus.tx[6]), string([]byte{0x81, 0x01}))
	test.ExpectEquality(t, d.Register(spipwm.RegIOVal), uint8(0x01))
	test.ExpectEquality(t, d.Register(0x30), uint8(0))
}

func TestDutyFraction(t *testing.T) {
	bus := &fakeSPI{}
	d := spipwm.New(bus)

	test.ExpectSuccess(t, errors.Is(d.SetDutyFraction(1.5), spipwm.ErrDutyRange))
	test.ExpectSuccess(t, errors.Is(d.SetDutyFraction(-0.1), spipwm.ErrDutyRange))
	test.ExpectSuccess(t, errors.Is(d.SetDutyFraction(math.NaN()), spipwm.ErrDutyRange))
	test.ExpectSuccess(t, errors.Is(d.SetDutyFraction(math.Inf(1)), spipwm.ErrDutyRange))
	test.ExpectEquality(t, len(bus.tx), 0)

	for _, c := range []struct {
		f    float64
		duty uint8
	}{
		{0, 0}, {0.25, 63}, {0.5, 127}, {0.75, 191}, {1, 255},
	} {
		test.DemandSuccess(t, d.SetDutyFraction(c.f))
		test.ExpectEquality(t, d.Register(spipwm.RegPWMDuty), c.duty, c.f)
	}
}

func TestBusError(t *testing.T) {
	bus := &fakeSPI{err: errors.New("bus failure")}
	d := spipwm.New(bus)

	err := d.SetValues(0x01, 0x02)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, errors.Is(err, bus.err))
	test.ExpectEquality(t, d.Register(spipwm.RegOutVal), uint8(0))
}

func TestWithBench(t *testing.T) {
	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)
	per, err := hardware.NewPeripheral(env)
	test.DemandSuccess(t, err)

	b := bench.New(env, per)
	d := spipwm.New(b)

	test.DemandSuccess(t, d.SetValues(0xf0, 0xcc))
	test.ExpectEquality(t, per.Outputs, pins.Outputs{A: 0xf0, B: 0xcc})

	test.DemandSuccess(t, d.Nop(0x00))
	test.ExpectEquality(t, per.Registers.Peek(registers.OutVal), uint8(0xf0))

	test.DemandSuccess(t, d.SetPWMEnable(0xff, 0x00))
	test.DemandSuccess(t, d.SetDutyFraction(0.5))
	test.ExpectEquality(t, per.Registers.Snapshot(), registers.Snapshot{
		OutVal: 0xf0, IOVal: 0xcc, OutPWMEn: 0xff, PWMDuty: 127,
	})

	duty, err := b.MeasureDuty(2 * time.Millisecond)
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, duty, 127.0/255, 0.01)
}
