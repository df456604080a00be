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
	"io"
	"time"

	"github.com/jetsetilly/spipwm/console/easyterm"
	"github.com/jetsetilly/spipwm/console/easyterm/ansi"
	"github.com/jetsetilly/spipwm/govern"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/hardware/pwm"
	"github.com/jetsetilly/spipwm/hardware/registers"
	"github.com/jetsetilly/spipwm/hardware/spi"
)

// KeyReader is the source of key presses for the Live() function. It is
// satisfied by easyterm.Terminal.
type KeyReader interface {
	ReadKey() (byte, error)
}

// the amount the duty changes with each key press.
const dutyStep = 16

// the rate at which the status line is redrawn.
const redrawRate = 50 * time.Millisecond

// LiveHelp is printed before the status line in live mode.
const LiveHelp = "+/- duty  a/b toggle group pwm  r reset  q quit"

// Live runs the peripheral continuously. The status line is redrawn at most
// every redrawRate, always at the end of a PWM period. Keys are read from the
// KeyReader in a separate goroutine and are acted upon at the end of a PWM
// period.
func (con *Console) Live(keys KeyReader) error {
	keyCh := make(chan byte, 16)
	errCh := make(chan error, 1)

	// the reader stops once done is closed. a ReadKey() already in progress
	// when Live() returns is completed and its key discarded
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			k, err := keys.ReadKey()

			select {
			case <-done:
				return
			default:
			}

			if err != nil {
				errCh <- err
				return
			}

			select {
			case keyCh <- k:
			case <-done:
				return
			}
		}
	}()

	con.printf(LiveHelp)

	lastRedraw := time.Time{}
	var keyErr error

	for !con.quit {
		period := con.per.PWM.Period()
		if err := con.per.RunForTicks(period, func(_ uint64) (govern.State, error) {
			return govern.Running, nil
		}); err != nil {
			return err
		}

		select {
		case k := <-keyCh:
			if err := con.liveKey(k); err != nil {
				return err
			}
		case keyErr = <-errCh:
			// keys read before the error are still acted upon
			for len(keyCh) > 0 && !con.quit {
				if err := con.liveKey(<-keyCh); err != nil {
					return err
				}
			}
			con.quit = true
		default:
		}

		if time.Since(lastRedraw) >= redrawRate || con.quit {
			lastRedraw = time.Now()
			io.WriteString(con.output, ansi.ClearLine)
			fmt.Fprintf(con.output, "\r%s", liveStatus(con.per))
		}
	}

	io.WriteString(con.output, "\n")

	if keyErr != nil && keyErr != io.EOF {
		return keyErr
	}

	return nil
}

func liveStatus(per *hardware.Peripheral) string {
	duty := per.Registers.Peek(registers.PWMDuty)
	return fmt.Sprintf("%s%s%s duty=%3d (%5.1f%%) %s freq=%s",
		ansi.Pens["cyan"], per.Outputs, ansi.NormalPen,
		duty,
		pwm.DutyFraction(duty)*100,
		per.Registers.Snapshot(),
		per.PWM.Frequency(per.Env.Prefs.ClockFrequency()),
	)
}

func (con *Console) liveKey(k byte) error {
	write := func(reg registers.Register, v uint8) error {
		return con.bench.Transaction(spi.Write, int(reg), int(v))
	}

	switch k {
	case '+', '=':
		d := int(con.per.Registers.Peek(registers.PWMDuty)) + dutyStep
		return write(registers.PWMDuty, uint8(min(d, 0xff)))
	case '-', '_':
		d := int(con.per.Registers.Peek(registers.PWMDuty)) - dutyStep
		return write(registers.PWMDuty, uint8(max(d, 0)))
	case 'a', 'A':
		return write(registers.OutPWMEn, ^con.per.Registers.Peek(registers.OutPWMEn))
	case 'b', 'B':
		return write(registers.IOPWMEn, ^con.per.Registers.Peek(registers.IOPWMEn))
	case 'r', 'R':
		return con.bench.Reset(resetTicks)
	case 'q', 'Q', easyterm.KeyEsc, easyterm.KeyInterrupt, easyterm.KeyEndOfFile:
		con.quit = true
	}
	return nil
}
