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

// Package environment provides the context for an instance of the peripheral
// model. More than one instance can exist at once (the regression scenarios
// each use a fresh instance for example) and the environment is how those
// instances are told apart.
package environment

import (
	"github.com/jetsetilly/spipwm/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the primary instance of the peripheral.
const MainEmulation = Label("")

// Environment is used to provide context for an instance of the peripheral.
type Environment struct {
	Label Label

	// the peripheral and bench preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type.
//
// The prefs argument can be nil, in which case a new Preferences instance
// will be created. Providing a non-nil value allows the preferences of more
// than one instance to be synchronised.
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label: label,
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	env.Prefs = prefs

	return env, nil
}

// Normalise ensures the environment is in a known default state. Useful for
// regression testing where the initial state must be the same for every run.
func (env *Environment) Normalise() {
	env.Prefs.SetDefaults()
}

// IsMainEmulation returns true if the environment is intended for the main
// instance of the peripheral.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// IsEmulation checks the environment label and returns true if it matches.
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// AllowLogging implements the logger.Permission interface. Only the main
// instance of the peripheral is allowed to create new log entries.
func (env *Environment) AllowLogging() bool {
	return env.IsMainEmulation()
}
