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

// Package registers implements the register file of the peripheral.
//
// There are five registers. All registers are eight bits wide and reset to
// zero.
//
//	0x00 OUT_VAL     static value for output group A
//	0x01 IO_VAL      static value for output group B
//	0x02 OUT_PWM_EN  per-bit PWM enable for output group A
//	0x03 IO_PWM_EN   per-bit PWM enable for output group B
//	0x04 PWM_DUTY    duty threshold of the PWM waveform
//
// The register file is only ever changed by frames received by the serial
// decoder. Writes to addresses 0x05 to 0x7f are accepted by the decoder but
// have no effect. Read frames never change the register file and never cause
// a value to be returned to the controller.
package registers

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/spipwm/hardware/spi"
	"github.com/jetsetilly/spipwm/logger"
)

// Register is the address of a register in the register file.
type Register uint8

// List of valid Register values.
const (
	OutVal   Register = 0x00
	IOVal    Register = 0x01
	OutPWMEn Register = 0x02
	IOPWMEn  Register = 0x03
	PWMDuty  Register = 0x04
)

// NumRegisters is the number of registers in the register file.
const NumRegisters = 5

var names = [NumRegisters]string{
	"OUT_VAL",
	"IO_VAL",
	"OUT_PWM_EN",
	"IO_PWM_EN",
	"PWM_DUTY",
}

func (r Register) String() string {
	if r.Valid() {
		return names[r]
	}
	return fmt.Sprintf("reserved(%#02x)", uint8(r))
}

// Valid returns true if the register is one of the five named registers.
func (r Register) Valid() bool {
	return r < NumRegisters
}

// Lookup returns the Register with the specified name. The name is not case
// sensitive.
func Lookup(name string) (Register, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Register(i), true
		}
	}
	return 0, false
}

// Snapshot is a copy of the register file. It is the view of the registers
// used by the PWM engine and output multiplexer on every tick.
type Snapshot struct {
	OutVal   uint8
	IOVal    uint8
	OutPWMEn uint8
	IOPWMEn  uint8
	PWMDuty  uint8
}

func (s Snapshot) String() string {
	return fmt.Sprintf("OUT_VAL=%#02x IO_VAL=%#02x OUT_PWM_EN=%#02x IO_PWM_EN=%#02x PWM_DUTY=%#02x",
		s.OutVal, s.IOVal, s.OutPWMEn, s.IOPWMEn, s.PWMDuty)
}

// ChangedRegister packages together the register that has been changed by a
// frame along with the new value.
type ChangedRegister struct {
	Register Register
	Value    uint8
}

func (c ChangedRegister) String() string {
	return fmt.Sprintf("%s=%#02x", c.Register, c.Value)
}

// File is the register file.
type File struct {
	perm logger.Permission
	regs [NumRegisters]uint8

	// the most recent change to the register file
	LastChange ChangedRegister
}

// NewFile is the preferred method of initialisation for the File type.
func NewFile(perm logger.Permission) *File {
	return &File{
		perm: perm,
	}
}

func (f *File) String() string {
	return f.Snapshot().String()
}

// Reset all registers to zero.
func (f *File) Reset() {
	for i := range f.regs {
		f.regs[i] = 0
	}
	f.LastChange = ChangedRegister{}
}

// Apply a frame to the register file. Returns the register that has been
// changed and true if the frame changed a register. Read frames and frames
// addressing a reserved register are silently ignored.
func (f *File) Apply(frm spi.Frame) (ChangedRegister, bool) {
	reg := Register(frm.Address)

	if frm.Dir == spi.Read {
		logger.Logf(f.perm, "registers", "ignoring read of %s", reg)
		return ChangedRegister{}, false
	}

	if !reg.Valid() {
		logger.Logf(f.perm, "registers", "ignoring write to %s", reg)
		return ChangedRegister{}, false
	}

	f.regs[reg] = frm.Data
	f.LastChange = ChangedRegister{Register: reg, Value: frm.Data}

	return f.LastChange, true
}

// Peek returns the current value of a register. Reserved registers always
// return zero.
func (f *File) Peek(reg Register) uint8 {
	if !reg.Valid() {
		return 0
	}
	return f.regs[reg]
}

// Poke sets the value of a register directly, without a frame. Writes to
// reserved registers are ignored.
func (f *File) Poke(reg Register, value uint8) {
	if !reg.Valid() {
		return
	}
	f.regs[reg] = value
	f.LastChange = ChangedRegister{Register: reg, Value: value}
}

// Snapshot returns a copy of the register file.
func (f *File) Snapshot() Snapshot {
	return Snapshot{
		OutVal:   f.regs[OutVal],
		IOVal:    f.regs[IOVal],
		OutPWMEn: f.regs[OutPWMEn],
		IOPWMEn:  f.regs[IOPWMEn],
		PWMDuty:  f.regs[PWMDuty],
	}
}
