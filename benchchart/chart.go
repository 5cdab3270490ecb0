// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart renders the comparison and trend charts of a
// results repository as PNG files.
package benchchart

import (
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 150

// palette is the series color cycle. Alpha-scaled variants are used for
// box fills.
var palette = []color.RGBA{
	{R: 0x30, G: 0x60, B: 0xc0, A: 0xff},
	{R: 0xc0, G: 0x40, B: 0x30, A: 0xff},
	{R: 0x30, G: 0x90, B: 0x40, A: 0xff},
	{R: 0x90, G: 0x50, B: 0xb0, A: 0xff},
	{R: 0xc0, G: 0x90, B: 0x20, A: 0xff},
	{R: 0x40, G: 0xa0, B: 0xa0, A: 0xff},
}

func seriesColor(i int) color.RGBA {
	return palette[i%len(palette)]
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// savePNG renders pl at the given size in centimeters.
func savePNG(pl *plot.Plot, widthCM, heightCM float64, path string) error {
	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthCM)*vg.Centimeter, vg.Length(heightCM)*vg.Centimeter),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White))}
	pl.Draw(draw.New(can))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
