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


package console

import (
	"fmt"
	"sort"
	"strings"
)

// console keywords.
const (
	KeywordHelp     = "HELP"
	KeywordWrite    = "WRITE"
	KeywordRead     = "READ"
	KeywordFrame    = "FRAME"
	KeywordPartial  = "PARTIAL"
	KeywordReset    = "RESET"
	KeywordRun      = "RUN"
	KeywordPeek     = "PEEK"
	KeywordStatus   = "STATUS"
	KeywordMeasure  = "MEASURE"
	KeywordPrefs    = "PREFS"
	KeywordLog      = "LOG"
	KeywordSnapshot = "SNAPSHOT"
	KeywordRestore  = "RESTORE"
	KeywordQuit     = "QUIT"
)

// Help contains the help text for the console commands.
var Help = map[string]string{
	KeywordHelp:     "Lists commands and provides help for individual commands",
	KeywordWrite:    "Send a write frame to the peripheral. The register can be named or numbered",
	KeywordRead:     "Send a read frame to the peripheral. Read frames have no effect",
	KeywordFrame:    "Send a raw 16-bit frame to the peripheral",
	KeywordPartial:  "Send the first N bits of a 16-bit word. Used to send malformed frames",
	KeywordReset:    "Hold the reset input low for the number of ticks (default 5)",
	KeywordRun:      "Run the peripheral for the number of ticks with the serial lines idle",
	KeywordPeek:     "Display the value of the registers. A single register can be specified",
	KeywordStatus:   "Display the state of the decoder, PWM engine and outputs",
	KeywordMeasure:  "Measure the PWM waveform on output group A. The timeout is in milliseconds",
	KeywordPrefs:    "List, change, save or restore the preferences",
	KeywordLog:      "Display the log. LAST shows the most recent entries only",
	KeywordSnapshot: "Take a snapshot of the peripheral state",
	KeywordRestore:  "Restore the peripheral to the most recent snapshot",
	KeywordQuit:     "Stop processing commands",
}

// usage for each command. %V is a number, %S is a string, [] denotes an
// optional group and | separates alternatives.
var usage = map[string]string{
	KeywordHelp:     "[%S]",
	KeywordWrite:    "%S %V",
	KeywordRead:     "%S [%V]",
	KeywordFrame:    "%V",
	KeywordPartial:  "%V %V",
	KeywordReset:    "[%V]",
	KeywordRun:      "%V",
	KeywordPeek:     "[%S]",
	KeywordStatus:   "",
	KeywordMeasure:  "[FREQ|PERIOD|DUTY] [%V]",
	KeywordPrefs:    "[LIST|SET %S %S|SAVE|DEFAULTS]",
	KeywordLog:      "[LAST %V|CLEAR]",
	KeywordSnapshot: "",
	KeywordRestore:  "",
	KeywordQuit:     "",
}

// short forms of the keywords.
var abbreviations = map[string]string{
	"W": KeywordWrite,
	"R": KeywordRead,
	"Q": KeywordQuit,
	"?": KeywordHelp,
}

func keywords() []string {
	k := make([]string, 0, len(Help))
	for kw := range Help {
		k = append(k, kw)
	}
	sort.Strings(k)
	return k
}

func lookupKeyword(s string) (string, bool) {
	s = strings.ToUpper(s)
	if kw, ok := abbreviations[s]; ok {
		return kw, true
	}
	_, ok := Help[s]
	return s, ok
}

func helpOverview() string {
	s := strings.Builder{}
	for i, kw := range keywords() {
		if i > 0 {
			if i%6 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString(" ")
			}
		}
		s.WriteString(fmt.Sprintf("%-9s", kw))
	}
	return strings.TrimRight(s.String(), " ")
}

func helpKeyword(kw string) string {
	u := usage[kw]
	if u == "" {
		return fmt.Sprintf("%s\n\n  Usage: %s", Help[kw], kw)
	}
	return fmt.Sprintf("%s\n\n  Usage: %s %s", Help[kw], kw, u)
}

// maxArgs returns the largest number of arguments allowed by the usage
// string. each alternative in an optional group is counted separately.
func maxArgs(u string) int {
	n := 0
	for {
		u = strings.TrimSpace(u)
		if u == "" {
			return n
		}

		if u[0] == '[' {
			end := strings.IndexByte(u, ']')
			if end < 0 {
				end = len(u) - 1
			}
			m := 0
			for _, alt := range strings.Split(u[1:end], "|") {
				m = max(m, len(strings.Fields(alt)))
			}
			n += m
			u = u[end+1:]
			continue
		}

		i := strings.IndexByte(u, ' ')
		if i < 0 {
			i = len(u)
		}
		n++
		u = u[i:]
	}
}
