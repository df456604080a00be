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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with the Errorf() function. Errorf() takes a
// formatting pattern and placeholder values, in the same way as fmt.Errorf().
//
// The pattern is remembered and can be tested for with the Is() function:
//
//	const AddressRange = "bench: address out of range (%#02x)"
//	e := curated.Errorf(AddressRange, 0x80)
//
//	if curated.Is(e, AddressRange) {
//		fmt.Println("true")
//	}
//
// Has() is similar but looks for the pattern anywhere in the error chain.
// Is() only looks at the outermost pattern.
//
//	f := curated.Errorf("console: %v", e)
//	curated.Has(f, AddressRange) // true
//	curated.Is(f, AddressRange)  // false
//
// The Error() function normalises the chain so that adjacent duplicate parts
// are removed. For the purposes of this package a chain is made up of parts
// separated by the sub-string ": ". Wrapping an error with a pattern that
// repeats the leading part of the wrapped error therefore does not result in
// "bench: bench: ..." messages.
//
// Curated errors also implement Unwrap() so that placeholder values that are
// themselves errors are visible to errors.Is() and errors.As() from the
// standard library.
//
// Sentinel patterns should be stored as a const string, suitably named and
// commented, in the package that returns them.
package curated
