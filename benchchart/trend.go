// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"errors"
	"image/color"
	"os"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// A TrendSeries is one line on a longitudinal chart: the headline
// ratio of successive runs on one runner, in commit order.
type TrendSeries struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// A TrendGroup is one longitudinal chart: all runner lines tracking one
// version series against its base release.
type TrendGroup struct {
	Title  string
	Series []TrendSeries
}

// Longitudinal renders the trend groups as a vertically tiled PNG, one
// chart per group, one line per runner.
func Longitudinal(groups []TrendGroup, path string) error {
	if len(groups) == 0 {
		return errors.New("no longitudinal series")
	}

	plots := make([]*plot.Plot, len(groups))
	for gi, g := range groups {
		pl := plot.New()
		pl.Title.Text = g.Title
		pl.Y.Label.Text = "speed ratio vs. base"
		pl.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
		pl.X.Tick.Label.Rotation = -0.4
		pl.X.Tick.Label.YAlign = draw.YTop
		pl.X.Tick.Label.XAlign = draw.XLeft

		grid := plotter.NewGrid()
		grid.Vertical.Color = nil
		pl.Add(grid)

		for si, s := range g.Series {
			xys := make(plotter.XYs, len(s.Values))
			for i := range s.Values {
				xys[i].X = float64(s.Times[i].Unix())
				xys[i].Y = s.Values[i]
			}
			line, points, err := plotter.NewLinePoints(xys)
			if err != nil {
				return err
			}
			clr := seriesColor(si)
			line.LineStyle.Color = clr
			points.GlyphStyle.Color = clr
			points.GlyphStyle.Radius = vg.Points(2)
			pl.Add(line, points)
			pl.Legend.Add(s.Name, line, points)
		}
		pl.Legend.Top = true

		if pl.Y.Min > 1 {
			pl.Y.Min = 1
		}
		if pl.Y.Max < 1 {
			pl.Y.Max = 1
		}
		plots[gi] = pl
	}

	const widthCM, heightCM = 24.0, 8.0
	can := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthCM)*vg.Centimeter, vg.Length(heightCM*float64(len(plots)))*vg.Centimeter),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White))
	dc := draw.New(can)
	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: 1,
		PadY: vg.Millimeter * 4,
	}
	for i, pl := range plots {
		pl.Draw(tiles.At(dc, 0, i))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: can}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
