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
	"strconv"
	"strings"
)

// Tokens represents tokenised input. Tokens are traversed with Get() and
// Peek().
type Tokens struct {
	input  string
	tokens []string
	curr   int
}

func (tk *Tokens) String() string {
	return tk.input
}

// Reset begins the token traversal process from the beginning.
func (tk *Tokens) Reset() {
	tk.curr = 0
}

// IsEnd returns true if we're at the end of the token list.
func (tk Tokens) IsEnd() bool {
	return tk.curr >= len(tk.tokens)
}

// Remainder returns the remaining tokens as a string.
func (tk Tokens) Remainder() string {
	return strings.Join(tk.tokens[tk.curr:], " ")
}

// Remaining returns the count of remaining tokens in the token list.
func (tk Tokens) Remaining() int {
	return len(tk.tokens) - tk.curr
}

// Get returns the next token in the list, and a success boolean. If the end
// of the token list has been reached, the function returns false.
func (tk *Tokens) Get() (string, bool) {
	if tk.curr >= len(tk.tokens) {
		return "", false
	}
	tk.curr++
	return tk.tokens[tk.curr-1], true
}

// Peek returns the next token in the list without advancing the list.
func (tk Tokens) Peek() (string, bool) {
	if tk.curr >= len(tk.tokens) {
		return "", false
	}
	return tk.tokens[tk.curr], true
}

// GetNumber returns the next token as a number. Numbers can be decimal or
// hexadecimal (with a 0x or $ prefix) or binary (with a 0b prefix).
func (tk *Tokens) GetNumber(min, max int) (int, error) {
	s, ok := tk.Get()
	if !ok {
		return 0, fmt.Errorf("missing value")
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number (%s)", s)
	}
	if int(v) < min || int(v) > max {
		return 0, fmt.Errorf("value out of range (%s)", s)
	}
	return int(v), nil
}

// TokeniseInput creates and returns a new Tokens instance. Anything after a
// # character is a comment and is ignored.
func TokeniseInput(input string) *Tokens {
	tk := &Tokens{}

	if i := strings.IndexRune(input, '#'); i >= 0 {
		input = input[:i]
	}

	input = strings.TrimSpace(input)

	tk.input = input
	tk.tokens = strings.Fields(input)

	// normalise hex notation
	for i := range tk.tokens {
		if tk.tokens[i][0] == '$' {
			tk.tokens[i] = fmt.Sprintf("0x%s", tk.tokens[i][1:])
		}
	}

	return tk
}
