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

package logger_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jetsetilly/spipwm/logger"
	"github.com/jetsetilly/spipwm/test"
)

func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()

	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for fewer entries is okay too
	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: this is another test\n")

	// and no entries
	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeats(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "spi", "frame discarded")
	log.Log(logger.Allow, "spi", "frame discarded")
	log.Log(logger.Allow, "spi", "frame discarded")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "spi: frame discarded (repeat x3)\n")
	test.ExpectEquality(t, log.Len(), 1)
}

func TestMaximum(t *testing.T) {
	log := logger.NewLogger(10)
	for i := 0; i < 25; i++ {
		log.Logf(logger.Allow, "tag", "entry %d", i)
	}
	test.ExpectEquality(t, log.Len(), 10)

	w := &strings.Builder{}
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "tag: entry 24\n")
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(10)
	tw := &test.Writer{}
	log.SetEcho(tw)
	log.Log(logger.Allow, "registers", "write to PWM_DUTY")
	test.ExpectSuccess(t, tw.Compare("registers: write to PWM_DUTY\n"))

	log.SetEcho(nil)
	log.Log(logger.Allow, "registers", "write to OUT_VAL")
	test.ExpectSuccess(t, tw.Compare("registers: write to PWM_DUTY\n"))
}

type prohibitLogging struct {
	allow bool
}

func (p prohibitLogging) AllowLogging() bool {
	return p.allow
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	for i := 0; i < 10; i++ {
		p := prohibitLogging{allow: i%2 == 0}
		log.Clear()
		w.Reset()
		log.Log(p, "tag", fmt.Sprintf("detail %d", i))
		log.Write(w)
		if p.AllowLogging() {
			test.ExpectEquality(t, w.String(), fmt.Sprintf("tag: detail %d\n", i))
		} else {
			test.ExpectEquality(t, w.String(), "")
		}
	}

	// a nil permission is never allowed
	log.Clear()
	w.Reset()
	log.Log(nil, "tag", "detail")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")
}
