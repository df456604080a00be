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

// Package wavwriter records the output groups of the peripheral as a two
// channel WAV file. Group A is the left channel and group B is the right
// channel.
//
// The peripheral clock is much faster than any audio sample rate so the
// output groups are averaged over the ticks that make up each audio sample.
// A PWM waveform on a group is therefore heard at its fundamental frequency
// (about 3kHz with the default preferences) and a change in duty is heard as
// a change in timbre.
//
// Note that audio data is buffered in memory in its entirety and written to
// disk when the probe is detached. It is therefore only suitable for short
// captures.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/logger"
	"periph.io/x/conn/v3/physic"
)

const (
	numChannels = 2
	bitDepth    = 16

	// PCM format in the WAV header
	formatPCM = 1
)

// WavWriter implements the hardware.Probe interface.
type WavWriter struct {
	filename   string
	sampleRate int

	// number of peripheral ticks in each audio sample and the running count
	// of ticks towards the next sample
	ticksPerSample float64
	ticks          float64

	// sum of the output group values since the previous sample
	sumA int
	sumB int
	n    int

	// interleaved samples
	buffer []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string, clk physic.Frequency, sampleRate int) (*WavWriter, error) {
	if sampleRate <= 0 {
		return nil, curated.Errorf("wavwriter: invalid sample rate (%d)", sampleRate)
	}
	if clk < physic.Frequency(sampleRate)*physic.Hertz {
		return nil, curated.Errorf("wavwriter: clock (%s) slower than sample rate (%d)", clk, sampleRate)
	}

	aw := &WavWriter{
		filename:       filename,
		sampleRate:     sampleRate,
		ticksPerSample: float64(clk) / float64(physic.Frequency(sampleRate)*physic.Hertz),
		buffer:         make([]int, 0),
	}

	return aw, nil
}

// scale the average value of an output group to a signed 16 bit value.
func scale(sum int, n int) int {
	if n == 0 {
		return 0
	}
	return (sum*257)/n - 32768
}

// Sample implements the hardware.Probe interface.
func (aw *WavWriter) Sample(_ uint64, _ bool, out pins.Outputs) error {
	aw.sumA += int(out.A)
	aw.sumB += int(out.B)
	aw.n++

	aw.ticks++
	if aw.ticks >= aw.ticksPerSample {
		aw.ticks -= aw.ticksPerSample
		aw.buffer = append(aw.buffer, scale(aw.sumA, aw.n), scale(aw.sumB, aw.n))
		aw.sumA = 0
		aw.sumB = 0
		aw.n = 0
	}

	return nil
}

// NumSamples returns the number of samples (for each channel) collected so
// far.
func (aw *WavWriter) NumSamples() int {
	return len(aw.buffer) / numChannels
}

// EndProbe implements the hardware.Probe interface. The WAV file is written
// to disk.
func (aw *WavWriter) EndProbe() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.sampleRate, bitDepth, numChannels, formatPCM)

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
