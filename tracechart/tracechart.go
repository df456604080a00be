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

// Package tracechart records the PWM waveform and the output groups of the
// peripheral and renders them as an interactive HTML line chart. The chart is
// drawn with go-echarts and can be viewed in any web browser.
//
// The number of points in a chart is limited. Once the limit has been reached
// further samples are ignored. The interval between recorded samples can be
// increased to cover a longer period of time.
package tracechart

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jetsetilly/spipwm/curated"
	"github.com/jetsetilly/spipwm/hardware/pins"
	"github.com/jetsetilly/spipwm/logger"
)

// DefaultMaxPoints is the maximum number of points used if the value supplied
// to New() is zero or less.
const DefaultMaxPoints = 20000

// Chart implements the hardware.Probe interface.
type Chart struct {
	filename  string
	interval  int
	maxPoints int

	// count of samples towards the next recorded point
	count int

	ticks []string
	level []opts.LineData
	a     []opts.LineData
	b     []opts.LineData
}

// New is the preferred method of initialisation for the Chart type. One
// point is recorded for every interval samples, up to a maximum of maxPoints.
func New(filename string, interval int, maxPoints int) *Chart {
	if interval < 1 {
		interval = 1
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	return &Chart{
		filename:  filename,
		interval:  interval,
		maxPoints: maxPoints,
	}
}

// NumPoints returns the number of points recorded so far.
func (ch *Chart) NumPoints() int {
	return len(ch.ticks)
}

// Sample implements the hardware.Probe interface.
func (ch *Chart) Sample(tick uint64, level bool, out pins.Outputs) error {
	if len(ch.ticks) >= ch.maxPoints {
		return nil
	}

	ch.count--
	if ch.count > 0 {
		return nil
	}
	ch.count = ch.interval

	l := 0
	if level {
		l = 1
	}

	ch.ticks = append(ch.ticks, fmt.Sprintf("%d", tick))
	ch.level = append(ch.level, opts.LineData{Value: l})
	ch.a = append(ch.a, opts.LineData{Value: out.A})
	ch.b = append(ch.b, opts.LineData{Value: out.B})

	return nil
}

// Render the chart to the io.Writer.
func (ch *Chart) Render(w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "spipwm trace",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "spipwm trace",
			Subtitle: fmt.Sprintf("%d points, one every %d ticks", len(ch.ticks), ch.interval),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "tick",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "value",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    true,
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true,
		}),
	)

	line.SetXAxis(ch.ticks).
		AddSeries("pwm", ch.level).
		AddSeries("group A", ch.a).
		AddSeries("group B", ch.b)

	return line.Render(w)
}

// EndProbe implements the hardware.Probe interface. The chart is written to
// disk.
func (ch *Chart) EndProbe() (rerr error) {
	f, err := os.Create(ch.filename)
	if err != nil {
		return curated.Errorf("tracechart: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("tracechart: %v", err)
		}
	}()

	logger.Logf(logger.Allow, "tracechart", "writing chart to %s", ch.filename)

	if err := ch.Render(f); err != nil {
		return curated.Errorf("tracechart: %v", err)
	}

	return nil
}
