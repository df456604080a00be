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

// Package test contains helper functions to remove common boilerplate from
// the package tests.
//
// The Expect functions report a test error and allow the test to continue.
// The Demand functions stop the test with t.Fatalf().
//
// ExpectSuccess() and ExpectFailure() accept bool and error values. A nil
// value is considered a success, which is how errors usually work.
//
// The Writer type implements the io.Writer interface and can be used to
// capture output. The Writer.Compare() function can then be used to test for
// equality. The RingWriter is similar but only keeps the most recent output.
package test
