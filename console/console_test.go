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


package console_test

import (
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/spipwm/bench"
	"github.com/jetsetilly/spipwm/console"
	"github.com/jetsetilly/spipwm/console/easyterm/ansi"
	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/environment"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/hardware/preferences"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/logger"
	"github.com/jetsetilly/spipwm/test"
)

func newConsole(t *testing.T) (*console.Console, *bench.Bench, *test.Writer) {
	t.Helper()

	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)

	per, err := hardware.NewPeripheral(env)
	test.DemandSuccess(t, err)

	b := bench.New(env, per)
	test.DemandSuccess(t, b.Reset(5))

	w := &test.Writer{}
	return console.NewConsole(b, w), b, w
}

func TestTokens(t *testing.T) {
	tk := console.TokeniseInput("  write  OUT_VAL $f0 # comment")
	test.ExpectEquality(t, tk.String(), "write  OUT_VAL $f0")
	test.ExpectEquality(t, tk.Remaining(), 3)

	s, ok := tk.Get()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, s, "write")

	s, ok = tk.Peek()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, s, "OUT_VAL")
	tk.Get()

	v, err := tk.GetNumber(0, 255)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 0xf0)
	test.ExpectSuccess(t, tk.IsEnd())

	_, err = tk.GetNumber(0, 255)
	test.ExpectFailure(t, err)

	tk = console.TokeniseInput("0b101 300 xyz")
	v, err = tk.GetNumber(0, 255)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 5)
	_, err = tk.GetNumber(0, 255)
	test.ExpectFailure(t, err)
	_, err = tk.GetNumber(0, 255)
	test.ExpectFailure(t, err)

	tk = console.TokeniseInput("# nothing but a comment")
	test.ExpectSuccess(t, tk.IsEnd())
}

func TestScript(t *testing.T) {
	con, b, w := newConsole(t)
	per := b.Peripheral()

	script := `
# static outputs
WRITE OUT_VAL 0xf0
w 1 $cc
read 0x41 0xef
write 0x30 0xaa
PEEK
PEEK IO_VAL
PEEK 4
`
	test.DemandSuccess(t, con.Run(strings.NewReader(script), false))
	test.ExpectEquality(t, per.Outputs, pins.Outputs{A: 0xf0, B: 0xcc})
	test.ExpectSuccess(t, w.Contains("OUT_VAL=0xf0 IO_VAL=0xcc"))
	test.ExpectSuccess(t, w.Contains("IO_VAL=0xcc\n"))
	test.ExpectSuccess(t, w.Contains("PWM_DUTY=0x00\n"))
	test.ExpectSuccess(t, !con.HasQuit())

	// raw and malformed frames
	w.Clear()
	test.DemandSuccess(t, con.Execute("FRAME 0x8055"))
	test.ExpectSuccess(t, w.Contains("write 0x00 0x55"))
	test.ExpectEquality(t, per.Outputs.A, uint8(0x55))
	test.DemandSuccess(t, con.Execute("PARTIAL 0x80aa 15"))
	test.ExpectEquality(t, per.Outputs.A, uint8(0x55))
	test.ExpectEquality(t, per.Decoder.Dropped, 1)

	// commands after QUIT are not processed
	script = `
WRITE PWM_DUTY 0x80
QUIT
WRITE PWM_DUTY 0x10
`
	test.DemandSuccess(t, con.Run(strings.NewReader(script), false))
	test.ExpectSuccess(t, con.HasQuit())
	test.ExpectEquality(t, per.Registers.Peek(registers.PWMDuty), uint8(0x80))
}

func TestMeasure(t *testing.T) {
	con, _, w := newConsole(t)

	script := `
WRITE OUT_VAL 0xff
WRITE OUT_PWM_EN 0xff
WRITE PWM_DUTY 0x80
MEASURE
MEASURE PERIOD
MEASURE DUTY 5
`
	test.DemandSuccess(t, con.Run(strings.NewReader(script), false))
	test.ExpectSuccess(t, w.Contains("3.005kHz\n"), w.String())
	test.ExpectSuccess(t, w.Contains("332.8µs\n"), w.String())
	test.ExpectSuccess(t, w.Contains("50.00%\n"), w.String())

	// nothing to measure
	test.DemandSuccess(t, con.Execute("WRITE OUT_PWM_EN 0x00"))
	err := con.Execute("MEASURE FREQ 1")
	test.ExpectSuccess(t, curated.Has(err, bench.MeasureTimeout))
}

func TestErrors(t *testing.T) {
	con, _, w := newConsole(t)

	err := con.Execute("FOO")
	test.ExpectSuccess(t, curated.Is(err, console.UnknownCommand))

	err = con.Execute("WRITE OUT_VAL")
	test.ExpectSuccess(t, curated.Is(err, console.CommandError))

	err = con.Execute("WRITE 0x80 0x00")
	test.ExpectSuccess(t, curated.Is(err, console.CommandError))

	err = con.Execute("WRITE OUT_VAL 0x00 0x00")
	test.ExpectSuccess(t, curated.Is(err, console.CommandError))

	err = con.Execute("PEEK 0x30")
	test.ExpectFailure(t, err)

	err = con.Execute("RESTORE")
	test.ExpectFailure(t, err)

	// the first error in a script ends the script
	err = con.Run(strings.NewReader("PEEK\nFOO\nQUIT\n"), false)
	test.ExpectSuccess(t, curated.Is(err, console.ScriptError))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "line 2"))
	test.ExpectSuccess(t, !con.HasQuit())

	// errors are printed in interactive mode
	w.Clear()
	err = con.Run(strings.NewReader("FOO\nQUIT\n"), true)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, w.Contains("* console: unknown command (FOO)"))
	test.ExpectSuccess(t, w.Contains("[10] A=00000000 B=00000000> "))
	test.ExpectSuccess(t, con.HasQuit())
}

func TestHelp(t *testing.T) {
	con, _, w := newConsole(t)

	test.DemandSuccess(t, con.Execute("HELP"))
	for kw := range console.Help {
		test.ExpectSuccess(t, w.Contains(kw), kw)
	}

	w.Clear()
	test.DemandSuccess(t, con.Execute("? write"))
	test.ExpectSuccess(t, w.Contains("Usage: WRITE %S %V"))

	test.ExpectFailure(t, con.Execute("HELP FOO"))
}

func TestSnapshot(t *testing.T) {
	con, b, _ := newConsole(t)
	per := b.Peripheral()

	test.DemandSuccess(t, con.Execute("WRITE OUT_VAL 0x0f"))
	test.DemandSuccess(t, con.Execute("SNAPSHOT"))
	cycles := per.Cycles

	test.DemandSuccess(t, con.Execute("WRITE OUT_VAL 0xf0"))
	test.DemandSuccess(t, con.Execute("RUN 1000"))
	test.ExpectEquality(t, per.Outputs.A, uint8(0xf0))

	test.DemandSuccess(t, con.Execute("RESTORE"))
	test.ExpectEquality(t, per.Outputs.A, uint8(0x0f))
	test.ExpectEquality(t, per.Cycles, cycles)
}

func TestPrefs(t *testing.T) {
	con, b, w := newConsole(t)

	test.DemandSuccess(t, con.Execute("PREFS"))
	test.ExpectSuccess(t, w.Contains("bench.idleTicks :: 600\n"))

	test.DemandSuccess(t, con.Execute("PREFS SET bench.idleTicks 100"))
	test.ExpectEquality(t, b.String(), "clk=10MHz sclk half period=50 ticks idle=100 ticks")

	test.ExpectFailure(t, con.Execute("PREFS SET hardware.pwm.divider 0"))
	test.ExpectFailure(t, con.Execute("PREFS SET bench.idleTicks"))

	test.DemandSuccess(t, con.Execute("PREFS DEFAULTS"))
	test.ExpectEquality(t, b.String(), "clk=10MHz sclk half period=50 ticks idle=600 ticks")

	test.DemandSuccess(t, con.Execute("PREFS SAVE"))
	test.ExpectFailure(t, con.Execute("PREFS FOO"))
}

func TestLog(t *testing.T) {
	con, _, w := newConsole(t)

	test.DemandSuccess(t, con.Execute("LOG CLEAR"))
	test.DemandSuccess(t, con.Execute("WRITE 0x30 0xaa"))

	w.Clear()
	test.DemandSuccess(t, con.Execute("LOG LAST 1"))
	test.ExpectEquality(t, strings.Count(w.String(), "\n"), 1)

	w.Clear()
	test.DemandSuccess(t, con.Execute("LOG"))
	test.ExpectSuccess(t, w.Contains("bench: transaction: write 0x30 0xaa"))

	logger.Clear()
}

type keys struct {
	k []byte
}

func (k *keys) ReadKey() (byte, error) {
	if len(k.k) == 0 {
		return 0, io.EOF
	}
	v := k.k[0]
	k.k = k.k[1:]
	return v, nil
}

func TestLive(t *testing.T) {
	con, b, w := newConsole(t)
	per := b.Peripheral()

	test.DemandSuccess(t, con.Execute("WRITE OUT_VAL 0xff"))

	err := con.Live(&keys{k: []byte("++a-+")})
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, con.HasQuit())
	test.ExpectEquality(t, per.Registers.Peek(registers.PWMDuty), uint8(32))
	test.ExpectEquality(t, per.Registers.Peek(registers.OutPWMEn), uint8(0xff))
	test.ExpectSuccess(t, w.Contains(console.LiveHelp))
	test.ExpectSuccess(t, w.Contains("duty= 32 ( 12.5%)"))
	test.ExpectSuccess(t, w.Contains(ansi.Pens["cyan"]+per.Outputs.String()+ansi.NormalPen))
	test.ExpectEquality(t, strings.Count(w.String(), console.LiveHelp), 1)

	// keys after q are ignored
	con, b, _ = newConsole(t)
	per = b.Peripheral()
	test.DemandSuccess(t, con.Live(&keys{k: []byte("b+q+++")}))
	test.ExpectEquality(t, per.Registers.Peek(registers.IOPWMEn), uint8(0xff))
	test.ExpectEquality(t, per.Registers.Peek(registers.PWMDuty), uint8(16))
}

// endlessKeys never runs out of key presses. The first key is always q.
type endlessKeys struct {
	reads atomic.Int32
}

func (k *endlessKeys) ReadKey() (byte, error) {
	if k.reads.Add(1) == 1 {
		return 'q', nil
	}
	return '+', nil
}

func TestLiveReaderStops(t *testing.T) {
	con, b, _ := newConsole(t)

	keys := &endlessKeys{}
	test.DemandSuccess(t, con.Live(keys))
	test.ExpectEquality(t, b.Peripheral().Registers.Peek(registers.PWMDuty), uint8(0))

	// at most one more key is read once Live() has returned
	returned := keys.reads.Load()
	time.Sleep(50 * time.Millisecond)
	test.ExpectSuccess(t, keys.reads.Load()-returned <= 1)
}
