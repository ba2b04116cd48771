/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"dimensio/internal/frame"
)

// BlueprintPDF writes the same wireframe as BlueprintPNG but as a single-page
// vector PDF sized to the padded bounding box. One pixel maps to one point.
// Built-in Helvetica keeps text vector without embedding.
func BlueprintPDF(frames []*frame.Frame, outPath string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to export")
	}
	total := boundingBox(frames)
	mediaW := float64(total.Width)
	mediaH := float64(total.Height)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: mediaW, Ht: mediaH},
		OrientationStr: "",
	})
	pdf.SetTitle("Dimensio Blueprint", false)
	pdf.SetAuthor("Dimensio", false)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: mediaW, Ht: mediaH})

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(strokeWidth)

	for _, f := range frames {
		r := f.Rect.Translated(-total.X, -total.Y)
		x := float64(r.X)
		y := float64(r.Y)
		w := float64(r.Width)
		h := float64(r.Height)

		if f.Radii.Active() {
			roundedRectPath(pdf, x, y, w, h, f.Radii)
		} else {
			pdf.Rect(x, y, w, h, "D")
		}

		label := fmt.Sprintf("%s (%d x %d)", f.Title, f.Rect.Width, f.Rect.Height)
		pdf.Text(x+10, y+8+10, label)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// roundedRectPath outlines a rect with independent corner radii using the
// path API; gofpdf's RoundedRect only supports one radius for all corners.
func roundedRectPath(pdf *gofpdf.Fpdf, x, y, w, h float64, radii frame.Radii) {
	maxR := w
	if h < w {
		maxR = h
	}
	maxR /= 2
	clampR := func(r int) float64 {
		v := float64(r)
		if v < 0 {
			return 0
		}
		if v > maxR {
			return maxR
		}
		return v
	}
	tl := clampR(radii.TL)
	tr := clampR(radii.TR)
	bl := clampR(radii.BL)
	br := clampR(radii.BR)

	pdf.MoveTo(x+tl, y)
	pdf.LineTo(x+w-tr, y)
	pdf.ArcTo(x+w-tr, y+tr, tr, tr, 0, 90, 0)
	pdf.LineTo(x+w, y+h-br)
	pdf.ArcTo(x+w-br, y+h-br, br, br, 0, 0, -90)
	pdf.LineTo(x+bl, y+h)
	pdf.ArcTo(x+bl, y+h-bl, bl, bl, 0, 270, 180)
	pdf.LineTo(x, y+tl)
	pdf.ArcTo(x+tl, y+tl, tl, tl, 0, 180, 90)
	pdf.ClosePath()
	pdf.DrawPath("D")
}
