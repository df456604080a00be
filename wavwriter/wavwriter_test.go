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

package wavwriter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/jetsetilly/spipwm/hardware/clocks"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/test"
	"github.com/jetsetilly/spipwm/wavwriter"
	"periph.io/x/conn/v3/physic"
)

func TestBadParameters(t *testing.T) {
	_, err := wavwriter.New("test.wav", clocks.Reference, 0)
	test.ExpectFailure(t, err)

	_, err = wavwriter.New("test.wav", 1000*physic.Hertz, 44100)
	test.ExpectFailure(t, err)
}

func TestWrite(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.wav")

	// a clock of 1MHz and a sample rate of 10kHz gives 100 ticks per sample
	aw, err := wavwriter.New(fn, physic.MegaHertz, 10000)
	test.DemandSuccess(t, err)

	for i := 0; i < 1000; i++ {
		out := pins.Outputs{A: 0xff, B: 0x00}
		if i%100 >= 50 {
			out.A = 0x00
		}
		test.DemandSuccess(t, aw.Sample(uint64(i), false, out))
	}
	test.ExpectEquality(t, aw.NumSamples(), 10)

	test.DemandSuccess(t, aw.EndProbe())

	f, err := os.Open(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	test.DemandSuccess(t, dec.IsValidFile())
	test.ExpectEquality(t, int(dec.SampleRate), 10000)
	test.ExpectEquality(t, int(dec.NumChans), 2)
	test.ExpectEquality(t, int(dec.BitDepth), 16)

	buf, err := dec.FullPCMBuffer()
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(buf.Data), 20)

	// group A is high for half of each sample, which is the midpoint of the
	// signed range. group B is always low
	for i := 0; i < len(buf.Data); i += 2 {
		test.ExpectEquality(t, buf.Data[i], -1, i)
		test.ExpectEquality(t, buf.Data[i+1], -32768, i)
	}
}
