/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export rasterizes the current frame layout to wireframe blueprints:
// a PNG bitmap or a single-page vector PDF.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"dimensio/internal/frame"
	"dimensio/internal/geometry"
)

// Padding is added on each side of the union bounding box.
const Padding = 100

// strokeWidth is the blueprint outline width in pixels.
const strokeWidth = 2

// DefaultPath suggests ~/Pictures/Dimensio_<timestamp>.png (or .pdf).
func DefaultPath(ext string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(home, "Pictures", fmt.Sprintf("Dimensio_%s%s", stamp, ext))
}

// boundingBox is the union of all frame rects padded on each side.
func boundingBox(frames []*frame.Frame) geometry.Rect {
	var total geometry.Rect
	for _, f := range frames {
		total = total.Union(f.Rect)
	}
	return total.Adjusted(-Padding, -Padding, Padding, Padding)
}

// BlueprintPNG draws every frame's outline (honoring corner radii) and a
// "<title> (<w> x <h>)" label onto a white canvas and writes it as PNG.
func BlueprintPNG(frames []*frame.Frame, outPath string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to export")
	}
	total := boundingBox(frames)

	img := image.NewRGBA(image.Rect(0, 0, total.Width, total.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	black := color.RGBA{0, 0, 0, 255}
	for _, f := range frames {
		// Shift into canvas coordinates.
		r := f.Rect.Translated(-total.X, -total.Y)
		if f.Radii.Active() {
			strokeRoundedRect(img, r, f.Radii, black)
		} else {
			strokeRect(img, r.Left(), r.Top(), r.Right()-1, r.Bottom()-1, black)
		}
		label := fmt.Sprintf("%s (%d x %d)", f.Title, f.Rect.Width, f.Rect.Height)
		drawLabel(img, r.Left()+10, r.Top()+8, label, black)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// drawLabel renders text with the deterministic basicfont face; y is the top
// of the text box.
func drawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// strokeRect draws an axis-aligned rectangle border inclusive of endpoints,
// thickened inward to strokeWidth.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for t := 0; t < strokeWidth; t++ {
		for x := x0 + t; x <= x1-t; x++ {
			setPx(img, x, y0+t, col)
			setPx(img, x, y1-t, col)
		}
		for y := y0 + t; y <= y1-t; y++ {
			setPx(img, x0+t, y, col)
			setPx(img, x1-t, y, col)
		}
	}
}

// strokeRoundedRect draws straight edge segments between the rounded corners
// and quarter-circle arcs at each corner.
func strokeRoundedRect(img *image.RGBA, r geometry.Rect, radii frame.Radii, col color.RGBA) {
	// Radii cannot exceed half the side they sit on.
	maxR := min(r.Width, r.Height) / 2
	tl := geometry.Clamp(radii.TL, 0, maxR)
	tr := geometry.Clamp(radii.TR, 0, maxR)
	bl := geometry.Clamp(radii.BL, 0, maxR)
	br := geometry.Clamp(radii.BR, 0, maxR)

	x0, y0 := r.Left(), r.Top()
	x1, y1 := r.Right()-1, r.Bottom()-1

	hLine(img, x0+tl, x1-tr, y0, col)                       // top
	hLine(img, x0+bl, x1-br, y1, col)                       // bottom
	vLine(img, y0+tl, y1-bl, x0, col)                       // left
	vLine(img, y0+tr, y1-br, x1, col)                       // right
	arc(img, x0+tl, y0+tl, tl, math.Pi, 1.5*math.Pi, col)   // top-left
	arc(img, x1-tr, y0+tr, tr, 1.5*math.Pi, 2*math.Pi, col) // top-right
	arc(img, x1-br, y1-br, br, 0, 0.5*math.Pi, col)         // bottom-right
	arc(img, x0+bl, y1-bl, bl, 0.5*math.Pi, math.Pi, col)   // bottom-left
}

func hLine(img *image.RGBA, x0, x1, y int, col color.RGBA) {
	for t := 0; t < strokeWidth; t++ {
		for x := x0; x <= x1; x++ {
			setPx(img, x, y+t, col)
		}
	}
}

func vLine(img *image.RGBA, y0, y1, x int, col color.RGBA) {
	for t := 0; t < strokeWidth; t++ {
		for y := y0; y <= y1; y++ {
			setPx(img, x+t, y, col)
		}
	}
}

// arc plots a quarter circle centered at (cx, cy) with parametric stepping
// fine enough to leave no gaps at blueprint scales.
func arc(img *image.RGBA, cx, cy, radius int, from, to float64, col color.RGBA) {
	if radius <= 0 {
		return
	}
	steps := max(8, int(float64(radius)*(to-from))*2)
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		x := cx + int(math.Round(float64(radius)*math.Cos(a)))
		y := cy + int(math.Round(float64(radius)*math.Sin(a)))
		for t := 0; t < strokeWidth; t++ {
			setPx(img, x, y+t, col)
		}
	}
}

func setPx(img *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}
