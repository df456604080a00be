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

import "periph.io/x/conn/v3/physic"

// Conformance returns the scenarios that describe the required behaviour of
// the peripheral.
func Conformance() []Regressor {
	static := &SPIRegression{
		Notes: "register writes",
		Steps: mustParseSteps(
			"w00=f0", "a=f0", "c1000",
			"w01=cc", "b=cc", "c100",
			"w30=aa", "c100",
			"r30=be", "a=f0", "c100",
			"r41=ef", "c100",
			"a=f0", "b=cc",
			"w02=ff", "c100",
			"w04=cf", "c30000",
			"w04=ff", "c30000",
			"w04=00", "a=00", "c30000",
			"w04=01", "c30000",
			"b=cc",
		),
	}

	return []Regressor{
		static,
		&FrequencyRegression{
			Duty:      0x80,
			Expected:  3000 * physic.Hertz,
			Tolerance: DefaultTolerance,
		},
		&DutyRegression{
			Fractions: []float64{0, 0.25, 0.5, 0.75, 1},
			Tolerance: DefaultTolerance,
		},
	}
}

func mustParseSteps(steps ...string) []Step {
	var s []Step
	for _, v := range steps {
		st, err := ParseStep(v)
		if err != nil {
			panic(err)
		}
		s = append(s, st)
	}
	return s
}
