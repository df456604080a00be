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

package hardware

import (
	"fmt"

	"github.com/jetsetilly/spipwm/environment"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/pwm"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/hardware/spi"
	"github.com/jetsetilly/spipwm/logger"
	"github.com/jetsetilly/spipwm/prefs"
	"periph.io/x/conn/v3/gpio"
)

// Peripheral is the main container for the sub-systems of the peripheral
// model.
type Peripheral struct {
	Env *environment.Environment

	Sync      *spi.Synchroniser
	Decoder   *spi.Decoder
	Registers *registers.File
	PWM       *pwm.Engine

	// the state of the input pins. the pins are sampled on every call to
	// Step() and hold their value until changed
	Inputs pins.Inputs

	// reset (active low) and enable inputs of the carrier board
	RstN gpio.Level
	Ena  gpio.Level

	// the state of the output pins as of the most recent Step()
	Outputs pins.Outputs

	// number of ticks since the peripheral was created
	Cycles uint64

	// the most recent frame to change the register file and the tick on which
	// it was applied
	LastChange      registers.ChangedRegister
	LastChangeCycle uint64

	probes []Probe
}

// NewPeripheral creates a new peripheral model and everything associated with
// it. The pins are in the idle state and the reset input is de-asserted.
func NewPeripheral(env *environment.Environment) (*Peripheral, error) {
	if env == nil || env.Prefs == nil {
		return nil, fmt.Errorf("hardware: peripheral requires an environment")
	}

	p := &Peripheral{
		Env:       env,
		Decoder:   spi.NewDecoder(env),
		Registers: registers.NewFile(env),
		Inputs:    pins.Idle,
		RstN:      gpio.High,
		Ena:       gpio.High,
	}

	p.Sync = spi.NewSynchroniser(env.Prefs.SyncStages.Get().(int))
	p.PWM = pwm.NewEngine(env.Prefs.Divider.Get().(int))

	// changes to the divider preference take effect immediately for the main
	// instance. other instances pick up the change on reset
	if env.IsMainEmulation() {
		env.Prefs.Divider.SetHookPost(func(v prefs.Value) error {
			return p.PWM.SetDivider(v.(int))
		})
	}

	logger.Logf(env, "hardware", "peripheral created [divider %d, sync stages %d]",
		p.PWM.Divider, p.Sync.Stages())

	return p, nil
}

func (p *Peripheral) String() string {
	return fmt.Sprintf("tick=%d %s %s pwm: %s",
		p.Cycles, p.Decoder, p.Registers, p.PWM)
}

// Reset all sub-systems of the peripheral. This is the equivalent of the
// reset input being asserted for one tick. Preference values for the divider
// and the number of synchroniser stages are applied.
func (p *Peripheral) Reset() {
	if n := p.Env.Prefs.SyncStages.Get().(int); n != p.Sync.Stages() {
		p.Sync = spi.NewSynchroniser(n)
	} else {
		p.Sync.Reset()
	}

	// the divider preference has been validated by its pre hook so an error
	// here can be ignored
	_ = p.PWM.SetDivider(p.Env.Prefs.Divider.Get().(int))

	p.Decoder.Reset()
	p.Registers.Reset()
	p.PWM.Reset()
	p.Outputs = pins.Outputs{}
	p.LastChange = registers.ChangedRegister{}
	p.LastChangeCycle = 0
}

// SetInputs sets the state of the serial input pins.
func (p *Peripheral) SetInputs(in pins.Inputs) {
	p.Inputs = in
}

// SetUIIn sets the state of the serial input pins from the packed ui_in byte.
func (p *Peripheral) SetUIIn(v uint8) {
	p.Inputs = pins.Unpack(v)
}

// SetReset sets the state of the active low reset input.
func (p *Peripheral) SetReset(rstn gpio.Level) {
	if rstn != p.RstN {
		if rstn == gpio.Low {
			logger.Log(p.Env, "hardware", "reset asserted")
		} else {
			logger.Log(p.Env, "hardware", "reset released")
		}
	}
	p.RstN = rstn
}

// SetEnable sets the state of the enable input. When the enable input is low
// the peripheral does not change state.
func (p *Peripheral) SetEnable(ena gpio.Level) {
	p.Ena = ena
}

// Level returns the level of the PWM waveform.
func (p *Peripheral) Level() bool {
	return p.PWM.Level()
}
