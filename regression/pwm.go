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
	"time"

	"github.com/jetsetilly/spipwm/bench"
	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/database"
	"github.com/jetsetilly/spipwm/drivers/spipwm"
	"periph.io/x/conn/v3/physic"
)

const (
	frequencyEntryType = "frequency"
	dutyEntryType      = "duty"
)

const (
	frequencyTimeout = 3 * time.Millisecond
	dutyTimeout      = 2 * time.Millisecond
)

// DefaultTolerance is the tolerance used by the conformance scenarios. It is
// a fraction of the expected value.
const DefaultTolerance = 0.01

func within(v, expected, tolerance float64) bool {
	return v >= expected*(1-tolerance) && v <= expected*(1+tolerance)
}

// connect a driver to the bench and enable every output bit with PWM
// enabled.
func enablePWM(b *bench.Bench, duty uint8) (spipwm.Device, error) {
	dev := spipwm.New(b)
	err := dev.Configure(spipwm.Config{
		ValueA:     0xff,
		ValueB:     0xff,
		PWMEnableA: 0xff,
		PWMEnableB: 0xff,
		Duty:       duty,
	})
	return dev, err
}

// FrequencyRegression measures the frequency of the PWM waveform.
type FrequencyRegression struct {
	// the value written to the duty register
	Duty uint8

	// the expected frequency. if it is zero when the regression is added to
	// the database then the measured frequency is recorded
	Expected physic.Frequency

	// fraction of the expected frequency
	Tolerance float64
}

func deserialiseFrequencyEntry(fields database.SerialisedEntry) (database.Entry, error) {
	if len(fields) != 3 {
		return nil, fmt.Errorf("frequency entry requires three fields")
	}

	reg := &FrequencyRegression{}

	duty, err := strconv.ParseUint(fields[0], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid duty field (%s)", fields[0])
	}
	reg.Duty = uint8(duty)

	if err := reg.Expected.Set(fields[1]); err != nil {
		return nil, fmt.Errorf("invalid frequency field (%s)", fields[1])
	}

	reg.Tolerance, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid tolerance field (%s)", fields[2])
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg FrequencyRegression) ID() string {
	return frequencyEntryType
}

func (reg FrequencyRegression) String() string {
	return fmt.Sprintf("[frequency] duty=%d expected=%s ±%.1f%%", reg.Duty, reg.Expected, reg.Tolerance*100)
}

// Serialise implements the database.Entry interface.
func (reg FrequencyRegression) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{
		strconv.Itoa(int(reg.Duty)),
		reg.Expected.String(),
		strconv.FormatFloat(reg.Tolerance, 'f', -1, 64),
	}, nil
}

// CleanUp implements the database.Entry interface.
func (reg FrequencyRegression) CleanUp() error {
	return nil
}

// regress implements the regression.Regressor interface.
func (reg *FrequencyRegression) regress(newRegression bool, output io.Writer, msg string) (bool, string, error) {
	io.WriteString(output, msg)

	b, err := newBench()
	if err != nil {
		return false, "", curated.Errorf("regression: %v", err)
	}

	if _, err := enablePWM(b, reg.Duty); err != nil {
		return false, "", curated.Errorf("regression: %v", err)
	}

	f, err := b.MeasureFrequency(frequencyTimeout)
	if err != nil {
		if curated.Is(err, bench.MeasureTimeout) {
			return false, err.Error(), nil
		}
		return false, "", curated.Errorf("regression: %v", err)
	}

	if newRegression && reg.Expected == 0 {
		reg.Expected = f
		return true, "", nil
	}

	if !within(float64(f), float64(reg.Expected), reg.Tolerance) {
		return false, fmt.Sprintf("measured frequency %s", f), nil
	}

	return true, "", nil
}

// DutyRegression measures the duty of the PWM waveform for each of a list of
// fractions. The value written to the duty register for each fraction is
// int(fraction * 255) and the measured duty is expected to be within the
// tolerance of value/255.
type DutyRegression struct {
	Fractions []float64
	Tolerance float64
}

func deserialiseDutyEntry(fields database.SerialisedEntry) (database.Entry, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("duty entry requires a tolerance and at least one fraction")
	}

	reg := &DutyRegression{}

	var err error
	reg.Tolerance, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid tolerance field (%s)", fields[0])
	}

	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, fmt.Errorf("invalid fraction field (%s)", f)
		}
		reg.Fractions = append(reg.Fractions, v)
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg DutyRegression) ID() string {
	return dutyEntryType
}

func (reg DutyRegression) String() string {
	s := make([]string, len(reg.Fractions))
	for i, f := range reg.Fractions {
		s[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("[duty] %s ±%.1f%%", strings.Join(s, " "), reg.Tolerance*100)
}

// Serialise implements the database.Entry interface.
func (reg DutyRegression) Serialise() (database.SerialisedEntry, error) {
	ser := database.SerialisedEntry{strconv.FormatFloat(reg.Tolerance, 'f', -1, 64)}
	for _, f := range reg.Fractions {
		ser = append(ser, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return ser, nil
}

// CleanUp implements the database.Entry interface.
func (reg DutyRegression) CleanUp() error {
	return nil
}

// regress implements the regression.Regressor interface.
func (reg *DutyRegression) regress(_ bool, output io.Writer, msg string) (bool, string, error) {
	io.WriteString(output, msg)

	b, err := newBench()
	if err != nil {
		return false, "", curated.Errorf("regression: %v", err)
	}

	dev, err := enablePWM(b, 0)
	if err != nil {
		return false, "", curated.Errorf("regression: %v", err)
	}

	for _, f := range reg.Fractions {
		if err := dev.SetDutyFraction(f); err != nil {
			return false, "", curated.Errorf("regression: %v", err)
		}
		v := int(dev.Register(spipwm.RegPWMDuty))

		fmt.Fprintf(output, "\r%s [duty=%d]", msg, v)

		d, err := b.MeasureDuty(dutyTimeout)
		if err != nil {
			if curated.Is(err, bench.MeasureTimeout) {
				return false, err.Error(), nil
			}
			return false, "", curated.Errorf("regression: %v", err)
		}

		if !within(d, float64(v)/255, reg.Tolerance) {
			return false, fmt.Sprintf("duty=%d: measured %.4f expected %.4f", v, d, float64(v)/255), nil
		}
	}

	return true, "", nil
}
