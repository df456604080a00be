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

package bench

import (
	"time"

	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/hardware/clocks"
	"periph.io/x/conn/v3/physic"
)

// measurement waits for conditions on output group A, counting ticks against
// a timeout.
type measurement struct {
	b       *Bench
	timeout int
	ticks   int
}

func (b *Bench) newMeasurement(timeout time.Duration) *measurement {
	return &measurement{
		b:       b,
		timeout: clocks.DurationToTicks(b.clk, timeout),
	}
}

func (m *measurement) high() bool {
	return m.b.per.Outputs.A != 0
}

// waitFor steps the peripheral until the output matches the level. Returns
// false if the timeout expires.
func (m *measurement) waitFor(level bool) (bool, error) {
	for {
		if err := m.b.per.Step(); err != nil {
			return false, err
		}
		m.ticks++
		if m.ticks > m.timeout {
			return false, nil
		}
		if m.high() == level {
			return true, nil
		}
	}
}

// rising waits for a rising edge. The output must be seen low before it is
// seen high.
func (m *measurement) rising() (bool, error) {
	if ok, err := m.waitFor(false); !ok || err != nil {
		return ok, err
	}
	return m.waitFor(true)
}

// the period in ticks between two rising edges.
func (m *measurement) period() (int, bool, error) {
	ok, err := m.rising()
	if !ok || err != nil {
		return 0, ok, err
	}
	start := m.ticks

	ok, err = m.rising()
	if !ok || err != nil {
		return 0, ok, err
	}

	return m.ticks - start, true, nil
}

// MeasurePeriodTicks returns the number of ticks between two rising edges of
// output group A. A group is high if any bit in the group is high.
func (b *Bench) MeasurePeriodTicks(timeout time.Duration) (int, error) {
	m := b.newMeasurement(timeout)
	p, ok, err := m.period()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, curated.Errorf(MeasureTimeout, timeout)
	}
	return p, nil
}

// MeasurePeriod returns the time between two rising edges of output group A.
func (b *Bench) MeasurePeriod(timeout time.Duration) (time.Duration, error) {
	p, err := b.MeasurePeriodTicks(timeout)
	if err != nil {
		return 0, err
	}
	return clocks.TicksToDuration(b.clk, p), nil
}

// MeasureFrequency returns the frequency of the waveform on output group A.
func (b *Bench) MeasureFrequency(timeout time.Duration) (physic.Frequency, error) {
	p, err := b.MeasurePeriodTicks(timeout)
	if err != nil {
		return 0, err
	}
	return clocks.TicksToFrequency(b.clk, p), nil
}

// MeasureDuty returns the fraction of the period that output group A is high.
//
// If no period can be measured before the timeout then the output is assumed
// to be constant and the duty is 0 or 1 depending on the current level.
func (b *Bench) MeasureDuty(timeout time.Duration) (float64, error) {
	m := b.newMeasurement(timeout)

	p, ok, err := m.period()
	if err != nil {
		return 0, err
	}
	if !ok {
		if m.high() {
			return 1, nil
		}
		return 0, nil
	}

	// measure the high time of the next full period. the timeout is extended
	// by the length of the period just measured
	m.timeout += p * 3

	ok, err = m.rising()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, curated.Errorf(MeasureTimeout, timeout)
	}
	start := m.ticks

	ok, err = m.waitFor(false)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, curated.Errorf(MeasureTimeout, timeout)
	}

	return float64(m.ticks-start) / float64(p), nil
}
