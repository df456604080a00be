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
	"sort"
	"strconv"

	"github.com/jetsetilly/spipwm/bench"
	"github.com/jetsetilly/spipwm/console/easyterm/ansi"
	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/database"
	"github.com/jetsetilly/spipwm/environment"
	"github.com/jetsetilly/spipwm/hardware"
	"github.com/jetsetilly/spipwm/resources"
)

// the location of the regression database in the resources directory.
const regressionDBFile = "regressionDB"

// the label given to the environment of every regression instance.
const regressionLabel = environment.Label("regression")

// Failed is returned by RegressRunTests() and RegressConformance() when one
// or more regression entries fail.
const Failed = "regression: %d of %d tests failed"

// Regressor represents the generic entry in the regression database.
type Regressor interface {
	database.Entry

	// perform the regression test for the regression type. the newRegression
	// flag indicates that the entry is being added to the database and that
	// any expected values should be recorded
	//
	// message is the string that is to be printed during the regression. the
	// returned string is a description of the failure, if any
	regress(newRegression bool, output io.Writer, message string) (bool, string, error)
}

// when starting a database session we need to register what entries we will
// find in the database.
func initDBSession(db *database.Session) error {
	if err := db.RegisterEntryType(spiEntryType, deserialiseSPIEntry); err != nil {
		return err
	}

	if err := db.RegisterEntryType(frequencyEntryType, deserialiseFrequencyEntry); err != nil {
		return err
	}

	if err := db.RegisterEntryType(dutyEntryType, deserialiseDutyEntry); err != nil {
		return err
	}

	return nil
}

// newBench creates a fresh instance of the peripheral and a bench to drive
// it. the peripheral has been reset.
func newBench() (*bench.Bench, error) {
	env, err := environment.NewEnvironment(regressionLabel, nil)
	if err != nil {
		return nil, err
	}
	env.Normalise()

	per, err := hardware.NewPeripheral(env)
	if err != nil {
		return nil, err
	}

	b := bench.New(env, per)
	if err := b.Reset(5); err != nil {
		return nil, err
	}

	return b, nil
}

func startSession(activity database.Activity) (*database.Session, error) {
	dbPth, err := resources.JoinPath(regressionDBFile)
	if err != nil {
		return nil, curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, activity, initDBSession)
	if err != nil {
		return nil, curated.Errorf("regression: %v", err)
	}

	return db, nil
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer) error {
	if output == nil {
		return fmt.Errorf("regression: io.Writer should not be nil (use a nopWriter)")
	}

	db, err := startSession(database.ActivityReading)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	return db.List(output)
}

// RegressAdd adds a new regression handler to the database. The regression is
// run once so that any expected values can be recorded.
func RegressAdd(output io.Writer, reg Regressor) error {
	if output == nil {
		return fmt.Errorf("regression: io.Writer should not be nil (use a nopWriter)")
	}

	db, err := startSession(database.ActivityCreating)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("adding: %s", reg)
	ok, fail, err := reg.regress(true, output, msg)
	if err != nil {
		_ = db.EndSession(false)
		return err
	}
	if !ok {
		_ = db.EndSession(false)
		return curated.Errorf("regression: %s", fail)
	}

	if _, err := db.Add(reg); err != nil {
		_ = db.EndSession(false)
		return err
	}

	io.WriteString(output, ansi.ClearLine)
	fmt.Fprintf(output, "\radded: %s\n", reg)

	return db.EndSession(true)
}

// RegressDelete removes an entry from the regression database. The user is
// asked for confirmation through the confirmation reader.
func RegressDelete(output io.Writer, confirmation io.Reader, key string) error {
	if output == nil {
		return fmt.Errorf("regression: io.Writer should not be nil (use a nopWriter)")
	}

	v, err := strconv.Atoi(key)
	if err != nil {
		return curated.Errorf("regression: invalid key (%s)", key)
	}

	db, err := startSession(database.ActivityModifying)
	if err != nil {
		return err
	}

	ent, err := db.Get(v)
	if err != nil {
		_ = db.EndSession(false)
		return err
	}

	fmt.Fprintf(output, "%s\ndelete? (y/n): ", ent)

	confirm := make([]byte, 32)
	n, err := confirmation.Read(confirm)
	if err != nil && err != io.EOF {
		_ = db.EndSession(false)
		return err
	}

	if n > 0 && (confirm[0] == 'y' || confirm[0] == 'Y') {
		if err := db.Delete(v); err != nil {
			_ = db.EndSession(false)
			return err
		}
		fmt.Fprintf(output, "deleted test #%s from regression database\n", key)
		return db.EndSession(true)
	}

	return db.EndSession(false)
}

// RegressRunTests runs all the tests in the regression database. The
// filterKeys list specifies which entries to test. An empty list means that
// every entry should be tested.
func RegressRunTests(output io.Writer, verbose bool, failOnError bool, filterKeys []string) error {
	if output == nil {
		return fmt.Errorf("regression: io.Writer should not be nil (use a nopWriter)")
	}

	db, err := startSession(database.ActivityReading)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	keys := make([]int, 0, len(filterKeys))
	for _, k := range filterKeys {
		v, err := strconv.Atoi(k)
		if err != nil {
			return curated.Errorf("regression: invalid key (%s)", k)
		}
		if _, err := db.Get(v); err != nil {
			return curated.Errorf("regression: %v", err)
		}
		keys = append(keys, v)
	}
	sort.Ints(keys)

	var regs []Regressor
	_, err = db.SelectKeys(func(_ int, ent database.Entry) error {
		reg, ok := ent.(Regressor)
		if !ok {
			return curated.Errorf("regression: database entry does not satisfy Regressor interface")
		}
		regs = append(regs, reg)
		return nil
	}, keys...)
	if err != nil {
		return err
	}

	return run(output, verbose, failOnError, regs)
}

// RegressConformance runs the scenarios returned by Conformance().
func RegressConformance(output io.Writer, verbose bool) error {
	if output == nil {
		return fmt.Errorf("regression: io.Writer should not be nil (use a nopWriter)")
	}
	return run(output, verbose, false, Conformance())
}

func run(output io.Writer, verbose bool, failOnError bool, regs []Regressor) error {
	numSucceed := 0
	numFail := 0
	numError := 0
	numSkipped := 0

	for i, reg := range regs {
		msg := fmt.Sprintf("running: %s", reg)
		ok, fail, err := reg.regress(false, output, msg)

		// once regress() has completed we clear the line ready for the
		// completion message
		io.WriteString(output, ansi.ClearLine)

		if err != nil {
			numError++
			fmt.Fprintf(output, "\r%s ERROR: %s%s\n", ansi.Pens["red"], reg, ansi.NormalPen)
			if verbose {
				fmt.Fprintf(output, "  ^^ %s\n", err)
			}
			if failOnError {
				numSkipped = len(regs) - i - 1
				break
			}
		} else if !ok {
			numFail++
			fmt.Fprintf(output, "\r%sfailure: %s%s\n", ansi.Pens["yellow"], reg, ansi.NormalPen)
			if verbose && fail != "" {
				fmt.Fprintf(output, "  ^^ %s\n", fail)
			}
		} else {
			numSucceed++
			fmt.Fprintf(output, "\r%ssucceed: %s%s\n", ansi.Pens["green"], reg, ansi.NormalPen)
		}
	}

	fmt.Fprintf(output, "regression tests: %d succeed, %d fail, %d skipped", numSucceed, numFail, numSkipped)
	if numError > 0 {
		io.WriteString(output, " [with errors]")
	}
	io.WriteString(output, "\n")

	if numFail+numError > 0 {
		return curated.Errorf(Failed, numFail+numError, len(regs))
	}

	return nil
}
