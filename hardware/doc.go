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

// Package hardware is the base package for the peripheral model. The
// Peripheral type collects the sub-systems together and defines the order in
// which they are updated on every tick of the clock.
//
// The sub-systems are in their own packages:
//
//	spi         serial frame decoder and input synchroniser
//	registers   register file
//	pwm         PWM counter and comparator
//	outputs     output multiplexer
//
// The pins package defines the input and output pins. The preferences package
// holds the values that can be changed by the user, such as the PWM divider.
//
// The model is advanced one tick at a time with Peripheral.Step(). On every
// tick, in this order:
//
//  1. the input pins pass through the synchroniser
//  2. the decoder samples the synchronised pins and may complete a frame
//  3. a completed frame is applied to the register file
//  4. the PWM counter advances and is compared with the duty register
//  5. the output groups are recomputed from the registers and the waveform
//
// A register write on a tick is therefore visible in the outputs computed on
// the same tick.
//
// The Run() and RunForTicks() functions step the model in a loop. Progress of
// the loop is controlled with a continue check function that returns a
// govern.State.
package hardware
