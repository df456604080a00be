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

package hardware

import (
	"context"

	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/govern"
)

// It can be expensive to do a full continue check on every tick. The
// PerformanceBrake is a standard value that can be used to filter out
// expensive code paths within a continueCheck() implementation. For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if end_condition == true {
//			return govern.Ending, nil
//		}
//	}
//	return govern.Running, nil
const PerformanceBrake = 100

// Run sets the peripheral running as quickly as possible until the continue
// check returns govern.Ending. The peripheral is not stepped while the
// continue check returns govern.Paused.
func (p *Peripheral) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for state != govern.Ending && state != govern.Initialising {
		switch state {
		case govern.Running:
			if err := p.Step(); err != nil {
				return err
			}
		case govern.Paused:
		default:
			return curated.Errorf("hardware: unsupported state (%s) in Run() function", state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunForTicks sets the peripheral running for the specified number of ticks.
// The continue check is called after every tick and can end the run early.
func (p *Peripheral) RunForTicks(numTicks int, continueCheck func(tick uint64) (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func(tick uint64) (govern.State, error) { return govern.Running, nil }
	}

	target := p.Cycles + uint64(numTicks)

	state := govern.Running
	for p.Cycles < target && state != govern.Ending {
		if err := p.Step(); err != nil {
			return err
		}

		var err error
		state, err = continueCheck(p.Cycles)
		if err != nil {
			return err
		}
	}

	return nil
}

// RunWithContext runs the peripheral until the context is cancelled. The
// context is checked every PerformanceBrake ticks.
func (p *Peripheral) RunWithContext(ctx context.Context) error {
	var performanceFilter int

	return p.Run(func() (govern.State, error) {
		performanceFilter++
		if performanceFilter >= PerformanceBrake {
			performanceFilter = 0
			select {
			case <-ctx.Done():
				return govern.Ending, nil
			default:
			}
		}
		return govern.Running, nil
	})
}
