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

package spipwm

// Register addresses.
const (
	RegOutVal   = 0x00
	RegIOVal    = 0x01
	RegOutPWMEn = 0x02
	RegIOPWMEn  = 0x03
	RegPWMDuty  = 0x04
)

// bit 7 of the first byte of a frame selects a write. reads are accepted by
// the peripheral but have no effect.
const (
	cmdRead  = 0x00
	cmdWrite = 0x80

	addressMask = 0x7f
)
