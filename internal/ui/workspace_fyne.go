//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"dimensio/internal/drag"
	"dimensio/internal/frame"
	"dimensio/internal/geometry"
	"dimensio/internal/guides"
	"dimensio/internal/spacing"
)

// Virtual workspace size; the frame coordinate space maps 1:1 onto it and the
// window scrolls over it.
const (
	workspaceW = 1920
	workspaceH = 1080
)

var (
	guideColor     = color.RGBA{R: 255, G: 60, B: 60, A: 230}
	spacingColor   = color.RGBA{R: 60, G: 140, B: 255, A: 230}
	selectionColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

// frameWidget renders one frame on the workspace and owns its drag gesture.
type frameWidget struct {
	widget.BaseWidget

	app    *overlayApp
	f      *frame.Frame
	engine *drag.Engine
}

func newFrameWidget(app *overlayApp, f *frame.Frame) *frameWidget {
	w := &frameWidget{app: app, f: f, engine: drag.NewEngine(app.mgr.Locator())}
	w.ExtendBaseWidget(w)
	return w
}

// syncGeometry moves/resizes the widget to match the frame rect.
func (w *frameWidget) syncGeometry() {
	w.Move(fyne.NewPos(float32(w.f.Rect.X), float32(w.f.Rect.Y)))
	w.Resize(fyne.NewSize(float32(w.f.Rect.Width), float32(w.f.Rect.Height)))
	w.Refresh()
}

// pointerPt converts a widget-local event position to workspace coordinates.
func (w *frameWidget) pointerPt(pos fyne.Position) geometry.Pt {
	return geometry.Pt{
		X: w.f.Rect.X + int(pos.X),
		Y: w.f.Rect.Y + int(pos.Y),
	}
}

func (w *frameWidget) Tapped(*fyne.PointEvent) {
	w.app.mgr.SelectFrame(w.f)
}

// DoubleTapped opens the rename dialog.
func (w *frameWidget) DoubleTapped(*fyne.PointEvent) {
	w.app.renameFrameDialog(w.f)
}

func (w *frameWidget) Dragged(ev *fyne.DragEvent) {
	if w.f.Locked {
		return
	}
	if !w.engine.Active() {
		// Reconstruct the gesture start point; Fyne delivers the first event
		// with the accumulated delta already applied.
		startLocal := geometry.Pt{
			X: int(ev.Position.X - ev.Dragged.DX),
			Y: int(ev.Position.Y - ev.Dragged.DY),
		}
		mode := drag.HitTest(w.f.Rect, startLocal, w.f.Locked)
		w.engine.Begin(w.f.Rect, w.pointerPt(ev.Position).Sub(geometry.Pt{X: int(ev.Dragged.DX), Y: int(ev.Dragged.DY)}), mode)
		w.app.mgr.SelectFrame(w.f)
	}
	r := w.engine.Update(w.pointerPt(ev.Position))
	w.app.mgr.ApplyGeometry(w.f, r, true)
}

func (w *frameWidget) DragEnd() {
	if !w.engine.Active() {
		return
	}
	w.engine.End()
	w.app.mgr.DragFinished(w.f)
}

// Scrolled resizes the selected frame around its center, one step per wheel
// tick.
func (w *frameWidget) Scrolled(ev *fyne.ScrollEvent) {
	if w.f.Locked || w.app.mgr.Selected() != w.f {
		return
	}
	ticks := 1
	if ev.Scrolled.DY < 0 {
		ticks = -1
	}
	r := drag.WheelResize(w.f.Rect, ticks, w.pointerPt(ev.Position), w.app.mgr.Locator())
	w.app.mgr.ApplyGeometry(w.f, r, false)
}

func (w *frameWidget) MouseIn(ev *desktop.MouseEvent) {
	w.app.updateSpacing(w.pointerPt(ev.Position))
}

func (w *frameWidget) MouseMoved(ev *desktop.MouseEvent) {
	w.app.updateSpacing(w.pointerPt(ev.Position))
}

func (w *frameWidget) MouseOut() {
	w.app.clearSpacing()
}

// Cursor reflects the gesture the current hover position would start.
func (w *frameWidget) Cursor() desktop.Cursor {
	if w.f.Locked {
		return desktop.DefaultCursor
	}
	return desktop.PointerCursor
}

func (w *frameWidget) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(color.Transparent)
	name := canvas.NewText("", color.White)
	name.TextSize = 13
	name.TextStyle = fyne.TextStyle{Bold: true}
	size := canvas.NewText("", color.White)
	size.TextSize = 11
	r := &frameRenderer{w: w, rect: rect, name: name, size: size}
	r.Refresh()
	return r
}

type frameRenderer struct {
	w    *frameWidget
	rect *canvas.Rectangle
	name *canvas.Text
	size *canvas.Text
}

func (r *frameRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.rect, r.name, r.size}
}

func (r *frameRenderer) Layout(sz fyne.Size) {
	r.rect.Resize(sz)
	r.name.Move(fyne.NewPos(8, 4))
	szMin := r.size.MinSize()
	r.size.Move(fyne.NewPos(sz.Width-szMin.Width-8, sz.Height-szMin.Height-4))
}

func (r *frameRenderer) MinSize() fyne.Size {
	return fyne.NewSize(float32(geometry.MinSize), float32(geometry.MinSize))
}

func (r *frameRenderer) Refresh() {
	f := r.w.f
	if f.FillEnabled {
		c := f.FillColor
		r.rect.FillColor = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	} else {
		r.rect.FillColor = color.Transparent
	}
	b := f.BorderColor
	r.rect.StrokeColor = color.RGBA{R: b.R, G: b.G, B: b.B, A: b.A}
	r.rect.StrokeWidth = 2
	if r.w.app.mgr.Selected() == f {
		r.rect.StrokeColor = selectionColor
		r.rect.StrokeWidth = 3
	}
	// Fyne rectangles support one radius; use the top-left value, which is
	// also the uniform value when "radius curve" mode is on.
	r.rect.CornerRadius = float32(f.Radii.TL)

	r.name.Text = ""
	if f.ShowName {
		r.name.Text = f.Title
	}
	r.size.Text = ""
	if f.ShowSize {
		r.size.Text = f.DimensionsText()
	}
	r.rect.Refresh()
	r.name.Refresh()
	r.size.Refresh()
}

func (r *frameRenderer) Destroy() {}

// guideLine builds a canvas line for one alignment guide.
func guideLine(g guides.Guide) *canvas.Line {
	ln := canvas.NewLine(guideColor)
	ln.StrokeWidth = 1
	ln.Position1 = fyne.NewPos(float32(g.X1), float32(g.Y1))
	ln.Position2 = fyne.NewPos(float32(g.X2), float32(g.Y2))
	return ln
}

// spacingObjects builds the connector line plus distance label for one gap.
func spacingObjects(g spacing.Gap) []fyne.CanvasObject {
	ln := canvas.NewLine(spacingColor)
	ln.StrokeWidth = 1
	ln.Position1 = fyne.NewPos(float32(g.X1), float32(g.Y1))
	ln.Position2 = fyne.NewPos(float32(g.X2), float32(g.Y2))

	label := canvas.NewText(g.Label(), spacingColor)
	label.TextSize = 12
	label.TextStyle = fyne.TextStyle{Bold: true}
	midX := float32(g.X1+g.X2) / 2
	midY := float32(g.Y1+g.Y2) / 2
	if g.Horizontal {
		label.Move(fyne.NewPos(midX-14, midY-20))
	} else {
		label.Move(fyne.NewPos(midX+6, midY-8))
	}
	return []fyne.CanvasObject{ln, label}
}
