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

package registers_test

import (
	"testing"

	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/hardware/spi"
	"github.com/jetsetilly/spipwm/logger"
	"github.com/jetsetilly/spipwm/test"
)

func TestNames(t *testing.T) {
	test.ExpectEquality(t, registers.OutVal.String(), "OUT_VAL")
	test.ExpectEquality(t, registers.PWMDuty.String(), "PWM_DUTY")
	test.ExpectEquality(t, registers.Register(0x30).String(), "reserved(0x30)")

	r, ok := registers.Lookup("io_pwm_en")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, r, registers.IOPWMEn)

	_, ok = registers.Lookup("foo")
	test.ExpectFailure(t, ok)
}

func TestWrites(t *testing.T) {
	f := registers.NewFile(logger.Allow)

	for reg := registers.Register(0); reg < registers.NumRegisters; reg++ {
		before := f.Snapshot()

		c, ok := f.Apply(spi.Frame{Dir: spi.Write, Address: uint8(reg), Data: 0xa5})
		test.ExpectSuccess(t, ok, reg)
		test.ExpectEquality(t, c, registers.ChangedRegister{Register: reg, Value: 0xa5})
		test.ExpectEquality(t, f.Peek(reg), uint8(0xa5), reg)

		// only the addressed register has changed
		after := f.Snapshot()
		for other := registers.Register(0); other < registers.NumRegisters; other++ {
			if other == reg {
				continue
			}
			test.ExpectEquality(t, peek(after, other), peek(before, other), reg, other)
		}
	}
}

func TestIgnored(t *testing.T) {
	f := registers.NewFile(logger.Allow)
	f.Poke(registers.OutVal, 0x0f)
	before := f.Snapshot()

	// writes to reserved addresses
	for addr := 0x05; addr <= spi.MaxAddress; addr++ {
		_, ok := f.Apply(spi.Frame{Dir: spi.Write, Address: uint8(addr), Data: 0xff})
		test.ExpectFailure(t, ok, addr)
	}
	test.ExpectEquality(t, f.Snapshot(), before)

	// reads of any address
	for addr := 0x00; addr <= spi.MaxAddress; addr++ {
		_, ok := f.Apply(spi.Frame{Dir: spi.Read, Address: uint8(addr), Data: 0xff})
		test.ExpectFailure(t, ok, addr)
	}
	test.ExpectEquality(t, f.Snapshot(), before)

	test.ExpectEquality(t, f.Peek(registers.Register(0x30)), uint8(0))
	f.Poke(registers.Register(0x30), 0xff)
	test.ExpectEquality(t, f.Snapshot(), before)
}

func TestReset(t *testing.T) {
	f := registers.NewFile(logger.Allow)
	for reg := registers.Register(0); reg < registers.NumRegisters; reg++ {
		f.Poke(reg, 0xff)
	}
	f.Reset()
	test.ExpectEquality(t, f.Snapshot(), registers.Snapshot{})
	test.ExpectEquality(t, f.LastChange, registers.ChangedRegister{})
	test.ExpectEquality(t, f.String(), "OUT_VAL=0x00 IO_VAL=0x00 OUT_PWM_EN=0x00 IO_PWM_EN=0x00 PWM_DUTY=0x00")
}

func peek(s registers.Snapshot, reg registers.Register) uint8 {
	switch reg {
	case registers.OutVal:
		return s.OutVal
	case registers.IOVal:
		return s.IOVal
	case registers.OutPWMEn:
		return s.OutPWMEn
	case registers.IOPWMEn:
		return s.IOPWMEn
	case registers.PWMDuty:
		return s.PWMDuty
	}
	return 0
}
