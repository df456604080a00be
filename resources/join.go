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

// Package resources prepares paths for spipwm resources, such as the
// preferences file.
//
// If a directory named .spipwm exists in the current working directory then
// resources are stored there (portable mode). Otherwise resources are stored
// in the user's configuration directory. On modern Linux systems the full path
// would be something like:
//
//	/home/user/.config/spipwm/
package resources

import (
	"os"
	"path/filepath"
	"strings"
)

const portablePath = ".spipwm"
const configDir = "spipwm"

// Portable is true if resources are stored in the current working
// directory. It is checked on every call to JoinPath() if it is false.
var Portable bool

func basePath() (string, error) {
	if !Portable {
		if fi, err := os.Stat(portablePath); err == nil && fi.IsDir() {
			Portable = true
		}
	}

	if Portable {
		return portablePath, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cnf, configDir), nil
}

// JoinPath prepends the base resource path to the supplied path elements. The
// directory containing the resulting path is created if necessary but the file
// itself is never touched.
func JoinPath(path ...string) (string, error) {
	b, err := basePath()
	if err != nil {
		return "", err
	}

	p := filepath.Join(path...)

	// do not prepend base path if it is already present
	if !strings.HasPrefix(p, b) {
		p = filepath.Join(b, p)
	}

	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return "", err
	}

	return p, nil
}
