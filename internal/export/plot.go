package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/trackdyn/internal/sim"
)

var ErrNoData = errors.New("export: nothing to plot")

// Units labels the y axis of single channel plots.
var Units = map[string]string{
	"x": "cm", "y": "cm", "z": "cm", "yaw": "deg",
	"speed": "cm/s", "rpm": "rpm", "left_speed": "rad/s", "right_speed": "rad/s",
	"suspension": "cm",
}

type Size struct {
	Width, Height float64 // inches
	DPI           int
}

var DefaultSize = Size{Width: 8, Height: 5, DPI: 150}

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)

	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)

	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.X.Tick.Marker = limitedTicker(8, "%.1f")
	p.Y.Tick.Marker = limitedTicker(8, "%.1f")
	p.Add(plotter.NewGrid())
}

func newLine(xs, ys []float64, i int) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(xs))
	for j := range xs {
		pts[j].X = xs[j]
		pts[j].Y = ys[j]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = plotutil.Color(i)
	return line, nil
}

// Channels plots one line per channel against time.
func Channels(samples []sim.Sample, channels []string, title string) (*plot.Plot, error) {
	if len(samples) == 0 || len(channels) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	if len(channels) == 1 {
		p.Y.Label.Text = channelLabel(channels[0])
	}
	stylePlot(p)

	for i, ch := range channels {
		times, values, err := sim.Series(samples, ch)
		if err != nil {
			return nil, err
		}
		line, err := newLine(times, values, i)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", ch, err)
		}
		p.Add(line)
		if len(channels) > 1 {
			p.Legend.Add(ch, line)
		}
	}
	p.Legend.Top = true
	return p, nil
}

func channelLabel(ch string) string {
	if u, ok := Units[ch]; ok {
		return fmt.Sprintf("%s (%s)", ch, u)
	}
	return ch
}

// Track plots the ground path of the body, x against y.
func Track(samples []sim.Sample, title string) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i], ys[i] = s.X, s.Y
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (cm)"
	p.Y.Label.Text = "y (cm)"
	stylePlot(p)

	line, err := newLine(xs, ys, 0)
	if err != nil {
		return nil, err
	}
	p.Add(line)

	start, err := plotter.NewScatter(plotter.XYs{{X: xs[0], Y: ys[0]}})
	if err != nil {
		return nil, err
	}
	start.GlyphStyle.Shape = draw.CircleGlyph{}
	start.GlyphStyle.Color = plotutil.Color(1)
	p.Add(start)
	p.Legend.Add("start", start)
	return p, nil
}

// Spectrum plots power against frequency on a log scale, skipping DC.
func Spectrum(freqs, power []float64, title string) (*plot.Plot, error) {
	if len(freqs) < 2 || len(freqs) != len(power) {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "frequency (Hz)"
	p.Y.Label.Text = "power"
	stylePlot(p)

	ys := make([]float64, len(power)-1)
	for i, v := range power[1:] {
		// log scale needs strictly positive values
		ys[i] = math.Max(v, 1e-12)
	}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: 1}

	line, err := newLine(freqs[1:], ys, 0)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}

// WritePNG renders p into w.
func WritePNG(w io.Writer, p *plot.Plot, size Size) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch),
		vgimg.UseDPI(size.DPI),
	)
	p.Draw(draw.New(c))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// Save writes p to path. PNG goes through WritePNG at size.DPI; other
// extensions (svg, pdf, eps) use the plot's own encoders.
func Save(p *plot.Plot, path string, size Size) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return p.Save(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()
	return WritePNG(f, p, size)
}
