// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A BarRow is one horizontal bar of a profiling chart: a label and one
// value per category. Rows in a chart share the same category order.
type BarRow struct {
	Label  string
	Values []float64
}

// ProfilingBars renders one stacked horizontal bar per row, split by
// category. Values are fractions of total time, so the X axis runs 0–1.
func ProfilingBars(title string, categories []string, rows []BarRow, path string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "fraction of samples"
	pl.X.Min, pl.X.Max = 0, 1

	w := vg.Points(12)
	var prev *plotter.BarChart
	for ci, cat := range categories {
		values := make(plotter.Values, len(rows))
		for ri, row := range rows {
			values[ri] = row.Values[ci]
		}
		b, err := plotter.NewBarChart(values, w)
		if err != nil {
			return err
		}
		b.Horizontal = true
		b.Color = seriesColor(ci)
		b.LineStyle.Width = 0
		if prev != nil {
			b.StackOn(prev)
		}
		pl.Add(b)
		pl.Legend.Add(cat, b)
		prev = b
	}

	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.Label
	}
	pl.NominalY(labels...)
	pl.Legend.Top = true
	pl.Legend.Left = false

	height := math.Max(8, 0.7*float64(3+len(rows)))
	return savePNG(pl, 26, height, path)
}

// A PieSlice is one wedge of a category pie.
type PieSlice struct {
	Label string
	Value float64
}

// pie draws wedges clockwise from twelve o'clock, sized by Value
// relative to the slice total. It is a custom plotter in the manner of
// gonum/plot's own: Plot draws in data space via the plot transforms.
type pie struct {
	slices []PieSlice
}

func (p *pie) total() float64 {
	sum := 0.0
	for _, s := range p.slices {
		sum += s.Value
	}
	return sum
}

// DataRange fixes the data space to a unit square around the origin so
// the wedges keep their aspect.
func (p *pie) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1.1, 1.1, -1.1, 1.1
}

func (p *pie) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	center := vg.Point{X: trX(0), Y: trY(0)}
	radius := trX(1) - trX(0)
	if r := trY(1) - trY(0); r < radius {
		radius = r
	}

	total := p.total()
	if total <= 0 {
		return
	}
	angle := math.Pi / 2 // twelve o'clock
	for i, s := range p.slices {
		delta := -2 * math.Pi * s.Value / total
		var path vg.Path
		path.Move(center)
		path.Line(vg.Point{
			X: center.X + radius*vg.Length(math.Cos(angle)),
			Y: center.Y + radius*vg.Length(math.Sin(angle)),
		})
		path.Arc(center, radius, angle, delta)
		path.Close()
		c.SetColor(seriesColor(i))
		c.Fill(path)
		angle += delta
	}
}

// Pie renders a category pie chart with a legend naming each wedge.
func Pie(title string, slices []PieSlice, path string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.HideAxes()

	p := &pie{slices: slices}
	pl.Add(p)
	for i, s := range slices {
		box, err := plotter.NewBarChart(plotter.Values{1}, vg.Points(8))
		if err != nil {
			return err
		}
		box.Color = seriesColor(i)
		pl.Legend.Add(s.Label, box)
	}
	pl.Legend.Top = true

	return savePNG(pl, 16, 12, path)
}
