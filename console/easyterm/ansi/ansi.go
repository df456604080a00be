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


// Package ansi defines the ANSI escape sequences used by the console and by
// the progress output of the regression package.
package ansi

import (
	"fmt"
	"strings"
)

const (
	colBlack   = 0
	colRed     = 1
	colGreen   = 2
	colYellow  = 3
	colBlue    = 4
	colMagenta = 5
	colCyan    = 6
	colWhite   = 7
	colDefault = 9
)

const (
	targetPen       = 3
	targetBrightPen = 9
)

const (
	attrBold      = 1
	attrUnderline = 4
)

// Pens is a map of bright pen colours, indexed by name.
var Pens map[string]string

// NormalPen resets all pen attributes.
var NormalPen string

func init() {
	Pens = make(map[string]string)
	NormalPen, _ = ColorBuild("", "", false)
	for _, c := range []string{"red", "green", "yellow", "blue", "magenta", "cyan", "white"} {
		Pens[c], _ = ColorBuild(c, "", true)
	}
}

// ColorBuild creates the ANSI sequence for the pen colour and attribute.
func ColorBuild(pen, attribute string, brightPen bool) (string, error) {
	s := strings.Builder{}
	s.Grow(32)
	s.WriteString("\033[")

	if pen != "" {
		penType := targetPen
		if brightPen {
			penType = targetBrightPen
		}

		col := colDefault
		switch strings.ToUpper(pen) {
		case "BLACK":
			col = colBlack
		case "RED":
			col = colRed
		case "GREEN":
			col = colGreen
		case "YELLOW":
			col = colYellow
		case "BLUE":
			col = colBlue
		case "MAGENTA":
			col = colMagenta
		case "CYAN":
			col = colCyan
		case "WHITE":
			col = colWhite
		case "NORMAL":
		default:
			return "", fmt.Errorf("unknown ANSI pen (%s)", pen)
		}
		s.WriteString(fmt.Sprintf("%d%d", penType, col))
	}

	if attribute != "" {
		if s.Len() > 2 {
			s.WriteString(";")
		}
		switch strings.ToUpper(attribute) {
		case "BOLD":
			s.WriteString(fmt.Sprintf("%d", attrBold))
		case "UNDERLINE":
			s.WriteString(fmt.Sprintf("%d", attrUnderline))
		case "NORMAL":
		default:
			return "", fmt.Errorf("unknown ANSI attribute (%s)", attribute)
		}
	}

	s.WriteString("m")

	return s.String(), nil
}

// ClearLine clears the current line. The cursor does not move.
const ClearLine = "\033[2K"
