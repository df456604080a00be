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

// Package spipwm provides a host driver for the SPI configured PWM
// peripheral. The driver is written against the drivers.SPI interface of the
// TinyGo drivers project and works with any implementation of that interface,
// including the bench package in this repository.
//
// The peripheral is write-only. Every operation is a single two byte
// transaction:
//
//	d := spipwm.New(bus)
//	d.Configure(spipwm.Config{})
//	err := d.SetDuty(0x80)
//
// The bus must assert chip-select for the duration of each Tx() call.
package spipwm

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrDutyRange = errors.New("spipwm: duty fraction must be between 0 and 1")
)

// Config is the initial state of the peripheral applied by Configure(). The
// zero value turns all outputs off.
type Config struct {
	// static values for output groups A and B
	ValueA uint8
	ValueB uint8

	// PWM enable masks for output groups A and B
	PWMEnableA uint8
	PWMEnableB uint8

	// duty threshold of the PWM waveform
	Duty uint8
}

// Device wraps an SPI connection to the peripheral.
type Device struct {
	bus drivers.SPI

	// the driver keeps a copy of every register written because the values
	// cannot be read back from the peripheral
	shadow [5]uint8

	buf [2]byte
}

// New creates a new peripheral connection. The SPI bus must already be
// configured. This function only creates the Device object; it does not touch
// the device.
func New(bus drivers.SPI) Device {
	return Device{
		bus: bus,
	}
}

// Configure writes every register of the peripheral.
func (d *Device) Configure(cfg Config) error {
	for _, w := range []struct {
		reg uint8
		val uint8
	}{
		{RegOutVal, cfg.ValueA},
		{RegIOVal, cfg.ValueB},
		{RegOutPWMEn, cfg.PWMEnableA},
		{RegIOPWMEn, cfg.PWMEnableB},
		{RegPWMDuty, cfg.Duty},
	} {
		if err := d.WriteRegister(w.reg, w.val); err != nil {
			return err
		}
	}
	return nil
}

// WriteRegister writes a single register. Addresses above 0x7f are truncated
// to seven bits.
func (d *Device) WriteRegister(reg uint8, value uint8) error {
	reg &= addressMask
	d.buf[0] = cmdWrite | reg
	d.buf[1] = value
	if err := d.bus.Tx(d.buf[:], nil); err != nil {
		return fmt.Errorf("spipwm: write %#02x: %w", reg, err)
	}
	if int(reg) < len(d.shadow) {
		d.shadow[reg] = value
	}
	return nil
}

// Register returns the last value written to a register by this driver.
func (d *Device) Register(reg uint8) uint8 {
	if int(reg) < len(d.shadow) {
		return d.shadow[reg]
	}
	return 0
}

// SetValues sets the static values of both output groups.
func (d *Device) SetValues(a, b uint8) error {
	if err := d.WriteRegister(RegOutVal, a); err != nil {
		return err
	}
	return d.WriteRegister(RegIOVal, b)
}

// SetPWMEnable sets the PWM enable masks of both output groups.
func (d *Device) SetPWMEnable(a, b uint8) error {
	if err := d.WriteRegister(RegOutPWMEn, a); err != nil {
		return err
	}
	return d.WriteRegister(RegIOPWMEn, b)
}

// SetDuty sets the duty threshold of the PWM waveform. The waveform is high
// for duty/256 of each period.
func (d *Device) SetDuty(duty uint8) error {
	return d.WriteRegister(RegPWMDuty, duty)
}

// SetDutyFraction sets the duty threshold from a fraction between 0 and 1.
// The threshold is the fraction of 255, rounded down.
func (d *Device) SetDutyFraction(f float64) error {
	if !(f >= 0 && f <= 1) {
		return ErrDutyRange
	}
	return d.SetDuty(uint8(f * 255))
}

// Nop sends a read frame to the address. The peripheral ignores read frames
// so this has no effect other than exercising the bus.
func (d *Device) Nop(address uint8) error {
	d.buf[0] = cmdRead | (address & addressMask)
	d.buf[1] = 0
	return d.bus.Tx(d.buf[:], nil)
}
