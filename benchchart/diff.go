// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/benchwatch/benchwatch/benchcompare"
)

// maxBoxValues caps the number of ratio values fed to one box. The full
// outer product can run to thousands of values per benchmark; the
// distribution shape survives uniform subsampling.
const maxBoxValues = 100

func subsample(vs []float64) plotter.Values {
	step := 1
	if len(vs) > maxBoxValues {
		step = len(vs) / maxBoxValues
	}
	out := make(plotter.Values, 0, maxBoxValues+1)
	for i := 0; i < len(vs); i += step {
		out = append(out, vs[i])
	}
	return out
}

// DiffPlot renders the per-benchmark ratio distributions of a
// comparison as a box plot, slowest to fastest, with a pooled "ALL"
// box last and a reference line at the no-change ratio 1.0.
func DiffPlot(s *benchcompare.Summary, title, path string) error {
	pl := plot.New()
	pl.Title.Text = title
	pl.Y.Label.Text = "ref time / head time"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	w := vg.Points(10)
	var names []string
	var boxes []plot.Plotter
	loc := 0.0
	addBox := func(name string, vs []float64, clr color.RGBA) error {
		if len(vs) == 0 {
			vs = []float64{1}
		}
		b, err := plotter.NewBoxPlot(w, loc, subsample(vs))
		if err != nil {
			return err
		}
		b.BoxStyle.Color = clr
		b.FillColor = withAlpha(clr, 0x50)
		boxes = append(boxes, b)
		names = append(names, name)
		loc++
		return nil
	}
	for i, name := range s.Order {
		c := s.PerBenchmark[name]
		if err := addBox(name, c.Ratios, seriesColor(i)); err != nil {
			return err
		}
	}
	if err := addBox("ALL", s.Pooled(), color.RGBA{A: 0xff}); err != nil {
		return err
	}
	pl.Add(boxes...)
	pl.NominalX(names...)

	one := plotter.XYs{{X: -0.5, Y: 1}, {X: loc - 0.5, Y: 1}}
	ref, err := plotter.NewLine(one)
	if err != nil {
		return err
	}
	ref.LineStyle.Color = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	pl.Add(ref)

	pl.X.Tick.Label.Rotation = -math.Pi / 4
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft

	if pl.Y.Min > 1 {
		pl.Y.Min = 1
	}
	if pl.Y.Max < 1 {
		pl.Y.Max = 1
	}

	width := math.Max(12, 0.8*float64(2+len(names)))
	return savePNG(pl, width, width/2, path)
}
