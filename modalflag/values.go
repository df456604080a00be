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


package modalflag

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"
)

// AddDuration flag for next call to Parse(). The value is written in the form
// accepted by time.ParseDuration(), for example "2s" or "500ms".
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

// AddFrequency flag for next call to Parse(). The value is written with a unit,
// for example "3kHz" or "10MHz".
func (md *Modes) AddFrequency(name string, value physic.Frequency, usage string) *physic.Frequency {
	f := value
	md.flags.Var(&f, name, usage)
	return &f
}

// percent is a fraction written on the command line as a percentage. The
// percent sign is optional.
type percent float64

func (p *percent) String() string {
	if p == nil {
		return "0%"
	}
	return strconv.FormatFloat(float64(*p)*100, 'f', -1, 64) + "%"
}

func (p *percent) Set(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("invalid percentage (%s)", s)
	}
	*p = percent(v / 100)
	return nil
}

// AddPercent flag for next call to Parse(). The default is given as a
// percentage and the returned value is a fraction: "1%" is returned as 0.01.
func (md *Modes) AddPercent(name string, value float64, usage string) *float64 {
	p := percent(value / 100)
	md.flags.Var(&p, name, usage)
	return (*float64)(&p)
}
