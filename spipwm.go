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


package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/spipwm/bench"
	"github.com/jetsetilly/spipwm/console"
	"github.com/jetsetilly/spipwm/console/easyterm"
	"github.com/jetsetilly/spipwm/environment"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/logger"
	"github.com/jetsetilly/spipwm/modalflag"
	"github.com/jetsetilly/spipwm/prefs"
	"github.com/jetsetilly/spipwm/regression"
	"github.com/jetsetilly/spipwm/statsview"
	"github.com/jetsetilly/spipwm/tracechart"
	"github.com/jetsetilly/spipwm/wavwriter"
	"github.com/mattn/go-isatty"
)

// number of ticks the reset input is held low before any mode starts
// driving the peripheral.
const resetTicks = 5

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch parses the arguments and runs the selected mode. The return value is
// the exit code of the program.
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "CONSOLE", "CHECK", "REGRESS", "PREFS")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "CONSOLE":
		err = interactive(md)

	case "CHECK":
		err = check(md)

	case "REGRESS":
		err = regress(md)

	case "PREFS":
		err = preferences(md)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

// session is the peripheral and bench shared by the RUN and CONSOLE modes,
// along with the probes that were requested on the command line.
type session struct {
	bench *bench.Bench
	per   *hardware.Peripheral

	memviz string
}

// sessionFlags are the flags common to the RUN and CONSOLE modes.
type sessionFlags struct {
	log           *bool
	prefs         *string
	wav           *string
	chart         *string
	chartInterval *int
	memviz        *string
	statsview     *bool
}

func addSessionFlags(md *modalflag.Modes) sessionFlags {
	f := sessionFlags{
		log:           md.AddBool("log", false, "echo debugging log to stdout"),
		prefs:         md.AddString("prefs", "", "override preferences for this run (key::value; key::value)"),
		wav:           md.AddString("wav", "", "record output groups to wav file"),
		chart:         md.AddString("chart", "", "record waveform to html chart"),
		chartInterval: md.AddInt("chartinterval", 16, "number of ticks between chart points"),
		memviz:        md.AddString("memviz", "", "write peripheral state as a dot graph on exit"),
	}

	if statsview.Available() {
		f.statsview = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	return f
}

func newSession(md *modalflag.Modes, f sessionFlags) (*session, error) {
	// set debugging log echo
	if *f.log {
		logger.SetEcho(md.Output)
	} else {
		logger.SetEcho(nil)
	}

	if *f.prefs != "" {
		prefs.PushCommandLineStack(*f.prefs)
		defer func() {
			if s := prefs.PopCommandLineStack(); s != "" {
				logger.Logf(logger.Allow, "spipwm", "unused -prefs values: %s", s)
			}
		}()
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	if err != nil {
		return nil, err
	}

	per, err := hardware.NewPeripheral(env)
	if err != nil {
		return nil, err
	}

	s := &session{
		bench:  bench.New(env, per),
		per:    per,
		memviz: *f.memviz,
	}

	if *f.wav != "" {
		aw, err := wavwriter.New(*f.wav, env.Prefs.ClockFrequency(), env.Prefs.SampleRate.Get().(int))
		if err != nil {
			return nil, err
		}
		per.AttachProbe(aw)
	}

	if *f.chart != "" {
		per.AttachProbe(tracechart.New(*f.chart, *f.chartInterval, 0))
	}

	if f.statsview != nil && *f.statsview {
		statsview.Launch(md.Output)
	}

	if err := s.bench.Reset(resetTicks); err != nil {
		return nil, err
	}

	return s, nil
}

// end the session. Probes are detached, which causes any files to be written,
// and the memviz graph is created if requested.
func (s *session) end() error {
	err := s.per.DetachProbes()

	if s.memviz != "" {
		f, ferr := os.Create(s.memviz)
		if ferr != nil {
			return ferr
		}
		defer f.Close()
		memviz.Map(f, s.per.Snapshot())
	}

	return err
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	f := addSessionFlags(md)
	ticks := md.AddInt("ticks", 0, "number of ticks to run after the script has completed")
	duration := md.AddDuration("duration", 0, "run for a duration after the script has completed (eg. 2s)")

	md.AdditionalHelp(
		`The script is a file of console commands, one per line. If no script is
given then commands are read from stdin. The script ends on the first error.

After the script has completed the peripheral can be left running, either for a
number of ticks or for a wall clock duration. An interrupt signal ends a
duration run early.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if err := md.MaxArgs(1); err != nil {
		return err
	}

	var script io.Reader = os.Stdin
	if len(md.RemainingArgs()) == 1 {
		sf, err := os.Open(md.GetArg(0))
		if err != nil {
			return err
		}
		defer sf.Close()
		script = sf
	}

	s, err := newSession(md, f)
	if err != nil {
		return err
	}

	con := console.NewConsole(s.bench, md.Output)
	err = con.Run(script, false)

	if err == nil && !con.HasQuit() {
		if *ticks > 0 {
			err = s.per.RunForTicks(*ticks, nil)
		}

		if err == nil && *duration > 0 {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			ctx, cancelTimeout := context.WithTimeout(ctx, *duration)
			err = s.per.RunWithContext(ctx)
			cancelTimeout()
			cancel()
		}
	}

	if endErr := s.end(); err == nil {
		err = endErr
	}

	return err
}

func interactive(md *modalflag.Modes) error {
	md.NewMode()

	f := addSessionFlags(md)
	live := md.AddBool("live", false, "live mode: run continuously and control with single key presses")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if err := md.MaxArgs(0); err != nil {
		return err
	}

	tty := isatty.IsTerminal(os.Stdin.Fd())

	if *live && !(tty && easyterm.Available) {
		return fmt.Errorf("live mode requires a terminal")
	}

	s, err := newSession(md, f)
	if err != nil {
		return err
	}

	con := console.NewConsole(s.bench, md.Output)

	if *live {
		var term easyterm.Terminal
		if err = term.Initialise(os.Stdin, os.Stdout); err == nil {
			term.CBreakMode()
			err = con.Live(&term)
			term.CanonicalMode()
			term.CleanUp()
			fmt.Fprintln(md.Output)
		}
	} else {
		// no prompt if stdin has been redirected
		err = con.Run(os.Stdin, tty)
	}

	if endErr := s.end(); err == nil {
		err = endErr
	}

	return err
}

func check(md *modalflag.Modes) error {
	md.NewMode()

	verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if err := md.MaxArgs(0); err != nil {
		return err
	}

	return regression.RegressConformance(md.Output, *verbose)
}

type yesReader struct{}

func (*yesReader) Read(p []byte) (n int, err error) {
	p[0] = 'y'
	return 1, nil
}

func regress(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")
		failOnError := md.AddBool("fail", false, "fail on the first error")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		return regression.RegressRunTests(md.Output, *verbose, *failOnError, md.RemainingArgs())

	case "LIST":
		md.NewMode()

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if err := md.MaxArgs(0); err != nil {
			return err
		}
		return regression.RegressList(md.Output)

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:
			// use stdin for confirmation unless "yes" flag has been sent
			var confirmation io.Reader
			if *answerYes {
				confirmation = &yesReader{}
			} else {
				confirmation = os.Stdin
			}

			return regression.RegressDelete(md.Output, confirmation, md.GetArg(0))
		default:
			return fmt.Errorf("only one entry can be deleted at at time")
		}

	case "ADD":
		return regressAdd(md)
	}

	return nil
}

func regressAdd(md *modalflag.Modes) error {
	md.NewMode()

	mode := md.AddString("mode", "SPI", "type of regression entry: SPI, FREQUENCY, DUTY")
	notes := md.AddString("notes", "", "additional annotation for the database [SPI]")
	duty := md.AddInt("duty", 0x80, "value written to the duty register [FREQUENCY]")
	expected := md.AddFrequency("expected", 0, "expected frequency, measured if zero (eg. 3kHz) [FREQUENCY]")
	tolerance := md.AddPercent("tolerance", 1, "allowed error as a percentage [FREQUENCY, DUTY]")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	md.AdditionalHelp(
		`The remaining arguments depend on the mode.

SPI entries take a list of steps:

  wAA=DD   write DD to address AA
  rAA=DD   read frame with address AA and data DD
  cN       run for N clock cycles
  a=DD     expect group A to be DD
  b=DD     expect group B to be DD

If the last step is not an expectation then the current value of both output
groups is recorded.

DUTY entries take a list of fractions between 0 and 1. FREQUENCY entries take no
additional arguments.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(os.Stdout)
		md.Output = &nopWriter{}
	} else {
		logger.SetEcho(nil)
	}

	var reg regression.Regressor

	switch strings.ToUpper(*mode) {
	case "SPI":
		if len(md.RemainingArgs()) == 0 {
			return fmt.Errorf("at least one step required for %s mode", md)
		}
		reg, err = regression.NewSPIRegression(*notes, md.RemainingArgs()...)
		if err != nil {
			return err
		}

	case "FREQUENCY":
		if err := md.MaxArgs(0); err != nil {
			return err
		}
		if *duty < 0 || *duty > 255 {
			return fmt.Errorf("duty out of range (%d)", *duty)
		}
		reg = &regression.FrequencyRegression{
			Duty:      uint8(*duty),
			Expected:  *expected,
			Tolerance: *tolerance,
		}

	case "DUTY":
		if len(md.RemainingArgs()) == 0 {
			return fmt.Errorf("at least one fraction required for duty entries")
		}
		dty := &regression.DutyRegression{
			Tolerance: *tolerance,
		}
		for _, a := range md.RemainingArgs() {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil || v < 0 || v > 1 {
				return fmt.Errorf("invalid fraction (%s)", a)
			}
			dty.Fractions = append(dty.Fractions, v)
		}
		reg = dty

	default:
		return fmt.Errorf("unknown regression mode (%s)", *mode)
	}

	err = regression.RegressAdd(md.Output, reg)
	if err != nil {
		// using carriage return (without newline) at beginning of error
		// message because we want to overwrite the last output from
		// RegressAdd()
		return fmt.Errorf("\rerror adding regression test: %v", err)
	}

	return nil
}

func preferences(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("LIST", "SET", "DEFAULTS")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	md.NewMode()

	p, err = md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	if err != nil {
		return err
	}

	args := md.RemainingArgs()

	switch md.Mode() {
	case "LIST":
		if err := md.MaxArgs(0); err != nil {
			return err
		}
		for _, k := range env.Prefs.Keys() {
			v, _ := env.Prefs.Get(k)
			fmt.Fprintf(md.Output, "%s :: %s\n", k, v)
		}
		return nil

	case "SET":
		if len(args) != 2 {
			return fmt.Errorf("key and value required for %s mode", md)
		}
		if err := env.Prefs.Set(args[0], args[1]); err != nil {
			return err
		}

	case "DEFAULTS":
		if err := md.MaxArgs(0); err != nil {
			return err
		}
		env.Normalise()
	}

	return env.Prefs.Save()
}

// nopWriter is an empty writer.
type nopWriter struct{}

func (*nopWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}
