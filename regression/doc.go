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


// Package regression facilitates the regression testing of the peripheral
// model. Each regression entry describes a scenario: a sequence of SPI
// transactions and the behaviour expected of the outputs once those
// transactions have completed.
//
// There are three types of regression entry.
//
// The SPIRegression type runs a list of steps. A step is a write or read
// transaction, a wait for a number of clock ticks or a check of the value of
// one of the output groups. When a new SPIRegression is added to the database
// the state of the output groups at the end of the steps is recorded and
// compared against on subsequent runs.
//
// The FrequencyRegression type enables PWM on every output, sets the duty
// and measures the frequency of the waveform.
//
// The DutyRegression type enables PWM on every output and measures the duty
// of the waveform for each of a list of fractions.
//
// Entries are stored in the regression database, in the resources directory,
// and are managed with RegressAdd(), RegressDelete() and RegressList(). The
// database is run with RegressRunTests().
//
// The Conformance() function returns a fixed list of scenarios that describe
// the required behaviour of the peripheral. They are not stored in the
// database and are run with RegressConformance().
//
// Every scenario runs against a fresh instance of the peripheral, in an
// environment labelled "regression" and with default preferences.
package regression
