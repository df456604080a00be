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


//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package easyterm

import (
	"fmt"
	"os"
)

// Available is true if the terminal modes are supported on this platform.
const Available = false

// TermGeometry contains the dimensions of a terminal in characters.
type TermGeometry struct {
	Rows uint16
	Cols uint16
}

// Terminal is not supported on this platform.
type Terminal struct{}

// Initialise always fails on this platform.
func (pt *Terminal) Initialise(inputFile, outputFile *os.File) error {
	return fmt.Errorf("easyterm: not supported on this platform")
}

// CleanUp does nothing on this platform.
func (pt *Terminal) CleanUp() {}

// Print does nothing on this platform.
func (pt *Terminal) Print(s string, a ...interface{}) {}

// Geometry returns zero dimensions on this platform.
func (pt *Terminal) Geometry() TermGeometry {
	return TermGeometry{}
}

// CanonicalMode does nothing on this platform.
func (pt *Terminal) CanonicalMode() {}

// CBreakMode does nothing on this platform.
func (pt *Terminal) CBreakMode() {}

// Flush does nothing on this platform.
func (pt *Terminal) Flush() error {
	return nil
}

// ReadKey always fails on this platform.
func (pt *Terminal) ReadKey() (byte, error) {
	return 0, fmt.Errorf("easyterm: not supported on this platform")
}
