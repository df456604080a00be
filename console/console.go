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


// Package console is a command interpreter for the peripheral model. Commands
// are read from any io.Reader and the results are written to an io.Writer.
// The same interpreter is used for command scripts and for interactive use.
//
// Transactions are sent to the peripheral through a bench.Bench so that every
// command is tick accurate. For example:
//
//	WRITE OUT_VAL 0xf0
//	WRITE PWM_DUTY $80
//	RUN 10000
//	MEASURE FREQ
//
// The Live() function runs the peripheral continuously, redrawing a status
// line and reacting to single key presses.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jetsetilly/spipwm/bench"
	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/hardware/spi"
	"github.com/jetsetilly/spipwm/logger"
)

// sentinal errors.
const (
	UnknownCommand = "console: unknown command (%s)"
	CommandError   = "console: %s: %v"
	ScriptError    = "console: line %d: %v"
)

// default timeout for the MEASURE command.
const measureTimeout = 3 * time.Millisecond

// the number of ticks the reset input is held low by default.
const resetTicks = 5

// Console interprets commands and applies them to the peripheral.
type Console struct {
	bench  *bench.Bench
	per    *hardware.Peripheral
	output io.Writer

	// the most recent snapshot of the peripheral
	snapshot *hardware.State

	quit bool
}

// NewConsole is the preferred method of initialisation for the Console type.
func NewConsole(b *bench.Bench, output io.Writer) *Console {
	return &Console{
		bench:  b,
		per:    b.Peripheral(),
		output: output,
	}
}

// HasQuit returns true if the QUIT command has been processed.
func (con *Console) HasQuit() bool {
	return con.quit
}

func (con *Console) printf(format string, a ...interface{}) {
	fmt.Fprintf(con.output, format, a...)
	if !strings.HasSuffix(format, "\n") {
		io.WriteString(con.output, "\n")
	}
}

// Run reads and executes commands until the input is exhausted or the QUIT
// command is processed.
//
// If interactive is true a prompt is printed before each command and errors
// are printed and then ignored. Otherwise the first error ends the run and is
// returned along with the line number.
func (con *Console) Run(input io.Reader, interactive bool) error {
	scanner := bufio.NewScanner(input)

	line := 0
	for !con.quit {
		if interactive {
			fmt.Fprintf(con.output, "%s> ", con.prompt())
		}

		if !scanner.Scan() {
			break
		}
		line++

		if err := con.Execute(scanner.Text()); err != nil {
			if !interactive {
				return curated.Errorf(ScriptError, line, err)
			}
			con.printf("* %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return curated.Errorf("console: %v", err)
	}

	return nil
}

func (con *Console) prompt() string {
	return fmt.Sprintf("[%d] %s", con.per.Cycles, con.per.Outputs)
}

// Execute a single command.
func (con *Console) Execute(input string) error {
	tokens := TokeniseInput(input)
	if tokens.IsEnd() {
		return nil
	}

	cmd, _ := tokens.Get()
	kw, ok := lookupKeyword(cmd)
	if !ok {
		return curated.Errorf(UnknownCommand, cmd)
	}

	if tokens.Remaining() > maxArgs(usage[kw]) {
		return curated.Errorf(CommandError, kw, fmt.Errorf("too many arguments"))
	}

	if err := con.execute(kw, tokens); err != nil {
		return curated.Errorf(CommandError, kw, err)
	}

	return nil
}

// register argument. can be named or numbered.
func getAddress(tokens *Tokens) (int, error) {
	s, ok := tokens.Peek()
	if !ok {
		return 0, fmt.Errorf("missing register")
	}
	if reg, ok := registers.Lookup(s); ok {
		tokens.Get()
		return int(reg), nil
	}
	return tokens.GetNumber(0, spi.MaxAddress)
}

func (con *Console) execute(kw string, tokens *Tokens) error {
	switch kw {
	case KeywordHelp:
		s, ok := tokens.Get()
		if !ok {
			con.printf("%s", helpOverview())
			return nil
		}
		k, ok := lookupKeyword(s)
		if !ok {
			return fmt.Errorf("no help for %s", s)
		}
		con.printf("%s", helpKeyword(k))

	case KeywordWrite:
		address, err := getAddress(tokens)
		if err != nil {
			return err
		}
		data, err := tokens.GetNumber(0, 0xff)
		if err != nil {
			return err
		}
		return con.bench.Transaction(spi.Write, address, data)

	case KeywordRead:
		address, err := getAddress(tokens)
		if err != nil {
			return err
		}
		var data int
		if !tokens.IsEnd() {
			data, err = tokens.GetNumber(0, 0xff)
			if err != nil {
				return err
			}
		}
		return con.bench.Transaction(spi.Read, address, data)

	case KeywordFrame:
		word, err := tokens.GetNumber(0, 0xffff)
		if err != nil {
			return err
		}
		con.printf("%s", spi.DecodeFrame(uint16(word)))
		return con.bench.PartialTransaction(uint16(word), spi.FrameBits)

	case KeywordPartial:
		word, err := tokens.GetNumber(0, 0xffff)
		if err != nil {
			return err
		}
		n, err := tokens.GetNumber(0, 64)
		if err != nil {
			return err
		}
		return con.bench.PartialTransaction(uint16(word), n)

	case KeywordReset:
		ticks := resetTicks
		if !tokens.IsEnd() {
			var err error
			ticks, err = tokens.GetNumber(1, 1<<20)
			if err != nil {
				return err
			}
		}
		return con.bench.Reset(ticks)

	case KeywordRun:
		ticks, err := tokens.GetNumber(0, 1<<30)
		if err != nil {
			return err
		}
		return con.bench.ClockCycles(ticks)

	case KeywordPeek:
		s, ok := tokens.Get()
		if !ok {
			con.printf("%s", con.per.Registers)
			return nil
		}
		reg, ok := registers.Lookup(s)
		if !ok {
			tokens.Reset()
			tokens.Get()
			v, err := tokens.GetNumber(0, spi.MaxAddress)
			if err != nil {
				return fmt.Errorf("unknown register (%s)", s)
			}
			reg = registers.Register(v)
		}
		if !reg.Valid() {
			return fmt.Errorf("unknown register (%s)", s)
		}
		con.printf("%s=%#02x", reg, con.per.Registers.Peek(reg))

	case KeywordStatus:
		con.printf("%s", con.per)
		con.printf("%s", con.per.Outputs)

	case KeywordMeasure:
		what := "FREQ"
		if s, ok := tokens.Peek(); ok {
			switch strings.ToUpper(s) {
			case "FREQ", "PERIOD", "DUTY":
				what = strings.ToUpper(s)
				tokens.Get()
			}
		}

		timeout := measureTimeout
		if !tokens.IsEnd() {
			ms, err := tokens.GetNumber(1, 10000)
			if err != nil {
				return err
			}
			timeout = time.Duration(ms) * time.Millisecond
		}

		switch what {
		case "FREQ":
			f, err := con.bench.MeasureFrequency(timeout)
			if err != nil {
				return err
			}
			con.printf("%s", f)
		case "PERIOD":
			p, err := con.bench.MeasurePeriod(timeout)
			if err != nil {
				return err
			}
			con.printf("%s", p)
		case "DUTY":
			d, err := con.bench.MeasureDuty(timeout)
			if err != nil {
				return err
			}
			con.printf("%.2f%%", d*100)
		}

	case KeywordPrefs:
		return con.prefs(tokens)

	case KeywordLog:
		s, ok := tokens.Get()
		if !ok {
			logger.Write(con.output)
			return nil
		}
		switch strings.ToUpper(s) {
		case "LAST":
			n, err := tokens.GetNumber(1, 1000)
			if err != nil {
				return err
			}
			logger.Tail(con.output, n)
		case "CLEAR":
			logger.Clear()
		default:
			return fmt.Errorf("unknown option (%s)", s)
		}

	case KeywordSnapshot:
		con.snapshot = con.per.Snapshot()
		con.printf("snapshot taken at tick %d", con.snapshot.Cycles)

	case KeywordRestore:
		if con.snapshot == nil {
			return fmt.Errorf("no snapshot has been taken")
		}
		con.per.Plumb(con.snapshot)
		con.printf("restored snapshot from tick %d", con.snapshot.Cycles)

	case KeywordQuit:
		con.quit = true
	}

	return nil
}

func (con *Console) prefs(tokens *Tokens) error {
	p := con.per.Env.Prefs

	s, ok := tokens.Get()
	if !ok {
		s = "LIST"
	}

	switch strings.ToUpper(s) {
	case "LIST":
		for _, k := range p.Keys() {
			v, _ := p.Get(k)
			con.printf("%s :: %s", k, v)
		}
	case "SET":
		key, ok := tokens.Get()
		if !ok {
			return fmt.Errorf("missing preference key")
		}
		value, ok := tokens.Get()
		if !ok {
			return fmt.Errorf("missing preference value")
		}
		if err := p.Set(key, value); err != nil {
			return err
		}
		con.bench.Configure()
	case "SAVE":
		return p.Save()
	case "DEFAULTS":
		p.SetDefaults()
		con.bench.Configure()
	default:
		return fmt.Errorf("unknown option (%s)", s)
	}

	return nil
}
