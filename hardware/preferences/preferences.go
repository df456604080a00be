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

// Package preferences holds the preference values that affect the peripheral
// model and the bench that drives it.
package preferences

import (
	"fmt"

	"github.com/jetsetilly/spipwm/hardware/clocks"
	"github.com/jetsetilly/spipwm/prefs"
	"github.com/jetsetilly/spipwm/resources"
	"periph.io/x/conn/v3/physic"
)

// default values for the preferences.
const (
	DefaultDivider    = 13
	DefaultSyncStages = 2
	DefaultSCLK       = 100.0
	DefaultIdleTicks  = 600
	DefaultSampleRate = 44100
)

// MaxSyncStages is the largest number of synchroniser stages that can be
// placed in front of the serial decoder.
const MaxSyncStages = 4

// Preferences defines and collates all the preference values used by the
// peripheral model and the bench.
type Preferences struct {
	dsk *prefs.Disk

	// frequency of the clock supplied to the peripheral in megahertz
	Clock prefs.Float

	// number of clock ticks for each step of the PWM counter
	Divider prefs.Int

	// number of flip-flops between the input pins and the serial decoder
	SyncStages prefs.Int

	// frequency of the serial clock generated by the bench in kilohertz
	SCLK prefs.Float

	// number of ticks the bench waits after each transaction
	IdleTicks prefs.Int

	// sample rate of WAV files created by the wavwriter
	SampleRate prefs.Int
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resources directory.
func NewPreferences() (*Preferences, error) {
	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile is like NewPreferences() but the location of the
// preferences file is specified.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Clock.SetHookPre(func(v prefs.Value) error {
		if v.(float64) <= 0.0 {
			return fmt.Errorf("preferences: clock must be positive")
		}
		return nil
	})
	p.Divider.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("preferences: divider must be one or more")
		}
		return nil
	})
	p.SyncStages.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 || v.(int) > MaxSyncStages {
			return fmt.Errorf("preferences: sync stages must be between 0 and %d", MaxSyncStages)
		}
		return nil
	})
	p.SCLK.SetHookPre(func(v prefs.Value) error {
		if v.(float64) <= 0.0 {
			return fmt.Errorf("preferences: serial clock must be positive")
		}
		return nil
	})
	p.IdleTicks.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return fmt.Errorf("preferences: idle ticks cannot be negative")
		}
		return nil
	})
	p.SampleRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("preferences: sample rate must be positive")
		}
		return nil
	})

	p.SetDefaults()

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("hardware.clock", &p.Clock)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("hardware.pwm.divider", &p.Divider)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("hardware.spi.syncStages", &p.SyncStages)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("bench.sclk", &p.SCLK)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("bench.idleTicks", &p.IdleTicks)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("wav.sampleRate", &p.SampleRate)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.Clock.Set(clocks.ReferenceMHz)
	_ = p.Divider.Set(DefaultDivider)
	_ = p.SyncStages.Set(DefaultSyncStages)
	_ = p.SCLK.Set(DefaultSCLK)
	_ = p.IdleTicks.Set(DefaultIdleTicks)
	_ = p.SampleRate.Set(DefaultSampleRate)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Keys returns the keys of all preferences in key order.
func (p *Preferences) Keys() []string {
	return p.dsk.Keys()
}

// Get the value of the named preference as a string.
func (p *Preferences) Get(key string) (string, bool) {
	ok, v := p.dsk.Get(key)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}

// Set the named preference from a string.
func (p *Preferences) Set(key string, value string) error {
	return p.dsk.Set(key, value)
}

// ClockFrequency returns the Clock preference as a physic.Frequency.
func (p *Preferences) ClockFrequency() physic.Frequency {
	return clocks.FromMHz(p.Clock.Get().(float64))
}

// SCLKFrequency returns the SCLK preference as a physic.Frequency.
func (p *Preferences) SCLKFrequency() physic.Frequency {
	return clocks.FromKHz(p.SCLK.Get().(float64))
}
