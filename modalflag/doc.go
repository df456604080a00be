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


// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Arguments are set with NewArgs() and then parsed with Parse():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "CONSOLE", "CHECK")
//	_, _ = md.Parse()
//
// The first sub-mode is the default. Once parsed, Mode() returns the selected
// mode and the mode can define its own flags before parsing again:
//
//	switch md.Mode() {
//	case "CHECK":
//		md.NewMode()
//		verbose := md.AddBool("verbose", false, "print failure details")
//		_, _ = md.Parse()
//		runChecks(*verbose)
//	}
//
// As well as the basic flag types, the values used by the peripheral tools have
// their own flag types: AddDuration() for run times, AddFrequency() for
// periph.io frequencies written with a unit ("3kHz") and AddPercent() for
// tolerances written as a percentage but used as a fraction.
//
// Non-flag arguments are retrieved with RemainingArgs() or GetArg() and the
// number of them is checked with MaxArgs(). Sub-mode
// comparisons are case insensitive. Modes can be nested as deeply as required
// and Path() returns every mode encountered, separated by a slash.
package modalflag
