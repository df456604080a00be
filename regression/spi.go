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


package regression

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/database"
	"github.com/jetsetilly/spipwm/hardware/spi"
)

const spiEntryType = "spi"

type stepType int

const (
	stepWrite stepType = iota
	stepRead
	stepWait
	stepExpectA
	stepExpectB
)

// Step is a single action in an SPIRegression. Steps are written as:
//
//	w00=f0		write 0xf0 to address 0x00
//	r41=ef		read transaction to address 0x41 with data 0xef
//	c1000		wait for 1000 clock ticks
//	a=f0		check that output group A is 0xf0
//	b=cc		check that output group B is 0xcc
type Step struct {
	typ     stepType
	address int
	value   int
}

// ParseStep converts the string representation of a step to a Step.
func ParseStep(s string) (Step, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return Step{}, curated.Errorf("regression: invalid step (%s)", s)
	}

	hex := func(v string, max int) (int, error) {
		n, err := strconv.ParseUint(v, 16, 16)
		if err != nil || int(n) > max {
			return 0, curated.Errorf("regression: invalid step (%s)", s)
		}
		return int(n), nil
	}

	var st Step
	var err error

	switch s[0] {
	case 'w', 'r':
		st.typ = stepWrite
		if s[0] == 'r' {
			st.typ = stepRead
		}
		a, d, ok := strings.Cut(s[1:], "=")
		if !ok {
			return Step{}, curated.Errorf("regression: invalid step (%s)", s)
		}
		if st.address, err = hex(a, spi.MaxAddress); err != nil {
			return Step{}, err
		}
		if st.value, err = hex(d, 0xff); err != nil {
			return Step{}, err
		}
	case 'c':
		st.typ = stepWait
		st.value, err = strconv.Atoi(s[1:])
		if err != nil || st.value < 0 {
			return Step{}, curated.Errorf("regression: invalid step (%s)", s)
		}
	case 'a', 'b':
		st.typ = stepExpectA
		if s[0] == 'b' {
			st.typ = stepExpectB
		}
		if s[1] != '=' {
			return Step{}, curated.Errorf("regression: invalid step (%s)", s)
		}
		if st.value, err = hex(s[2:], 0xff); err != nil {
			return Step{}, err
		}
	default:
		return Step{}, curated.Errorf("regression: invalid step (%s)", s)
	}

	return st, nil
}

func (st Step) String() string {
	switch st.typ {
	case stepWrite:
		return fmt.Sprintf("w%02x=%02x", st.address, st.value)
	case stepRead:
		return fmt.Sprintf("r%02x=%02x", st.address, st.value)
	case stepWait:
		return fmt.Sprintf("c%d", st.value)
	case stepExpectA:
		return fmt.Sprintf("a=%02x", st.value)
	case stepExpectB:
		return fmt.Sprintf("b=%02x", st.value)
	}
	return "?"
}

func (st Step) isExpectation() bool {
	return st.typ == stepExpectA || st.typ == stepExpectB
}

// SPIRegression runs a sequence of steps against the peripheral.
type SPIRegression struct {
	Notes string
	Steps []Step
}

// NewSPIRegression parses the steps and returns a new SPIRegression.
func NewSPIRegression(notes string, steps ...string) (*SPIRegression, error) {
	reg := &SPIRegression{
		Notes: notes,
	}
	for _, s := range steps {
		st, err := ParseStep(s)
		if err != nil {
			return nil, err
		}
		reg.Steps = append(reg.Steps, st)
	}
	if len(reg.Steps) == 0 {
		return nil, curated.Errorf("regression: spi regression requires at least one step")
	}
	return reg, nil
}

func deserialiseSPIEntry(fields database.SerialisedEntry) (database.Entry, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("spi entry requires notes and at least one step")
	}
	return NewSPIRegression(fields[0], fields[1:]...)
}

// ID implements the database.Entry interface.
func (reg SPIRegression) ID() string {
	return spiEntryType
}

func (reg SPIRegression) String() string {
	s := strings.Builder{}
	s.WriteString("[spi]")
	if reg.Notes != "" {
		s.WriteString(fmt.Sprintf(" %s", reg.Notes))
	}
	s.WriteString(fmt.Sprintf(" (%d steps)", len(reg.Steps)))
	return s.String()
}

// Serialise implements the database.Entry interface.
func (reg SPIRegression) Serialise() (database.SerialisedEntry, error) {
	if strings.Contains(reg.Notes, ",") {
		return nil, fmt.Errorf("notes cannot contain a comma")
	}
	ser := database.SerialisedEntry{reg.Notes}
	for _, st := range reg.Steps {
		ser = append(ser, st.String())
	}
	return ser, nil
}

// CleanUp implements the database.Entry interface.
func (reg SPIRegression) CleanUp() error {
	return nil
}

// regress implements the regression.Regressor interface.
func (reg *SPIRegression) regress(newRegression bool, output io.Writer, msg string) (bool, string, error) {
	io.WriteString(output, msg)

	b, err := newBench()
	if err != nil {
		return false, "", curated.Errorf("regression: %v", err)
	}
	per := b.Peripheral()

	for i, st := range reg.Steps {
		switch st.typ {
		case stepWrite:
			err = b.Transaction(spi.Write, st.address, st.value)
		case stepRead:
			err = b.Transaction(spi.Read, st.address, st.value)
		case stepWait:
			err = b.ClockCycles(st.value)
		case stepExpectA:
			if per.Outputs.A != uint8(st.value) {
				return false, fmt.Sprintf("step %d (%s): output group A is %02x", i, st, per.Outputs.A), nil
			}
		case stepExpectB:
			if per.Outputs.B != uint8(st.value) {
				return false, fmt.Sprintf("step %d (%s): output group B is %02x", i, st, per.Outputs.B), nil
			}
		}
		if err != nil {
			return false, "", curated.Errorf("regression: step %d (%s): %v", i, st, err)
		}
	}

	// record the final state of the outputs so that subsequent runs can be
	// compared against it
	if newRegression && !reg.Steps[len(reg.Steps)-1].isExpectation() {
		reg.Steps = append(reg.Steps,
			Step{typ: stepExpectA, value: int(per.Outputs.A)},
			Step{typ: stepExpectB, value: int(per.Outputs.B)},
		)
	}

	return true, "", nil
}
