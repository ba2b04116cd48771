/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package drag translates raw pointer deltas into new frame geometry.
// It is UI-agnostic and deterministic: the widget layer feeds pointer events in
// and applies the returned rects, so all move/resize semantics are unit testable.
package drag

import "dimensio/internal/geometry"

// Mode identifies which gesture a pointer press starts.
type Mode int

const (
	None Mode = iota
	Move
	ResizeLeft
	ResizeRight
	ResizeTop
	ResizeBottom
	ResizeTopLeft
	ResizeTopRight
	ResizeBottomLeft
	ResizeBottomRight
)

// WheelStep is the symmetric size change (px) per wheel tick.
const WheelStep = 10

// NudgeStep and NudgeStepFast are the arrow-key move distances.
const (
	NudgeStep     = 1
	NudgeStepFast = 10
)

// Direction is a nudge direction for keyboard moves.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (m Mode) resizesLeft() bool {
	return m == ResizeLeft || m == ResizeTopLeft || m == ResizeBottomLeft
}
func (m Mode) resizesRight() bool {
	return m == ResizeRight || m == ResizeTopRight || m == ResizeBottomRight
}
func (m Mode) resizesTop() bool {
	return m == ResizeTop || m == ResizeTopLeft || m == ResizeTopRight
}
func (m Mode) resizesBottom() bool {
	return m == ResizeBottom || m == ResizeBottomLeft || m == ResizeBottomRight
}

// HitTest maps a pointer position in frame-local coordinates to a gesture mode.
// The resize band is min(ResizeMargin, w/3, h/3) so tiny frames keep a movable
// interior. Locked frames never start a gesture.
func HitTest(r geometry.Rect, local geometry.Pt, locked bool) Mode {
	if locked {
		return None
	}
	m := min(geometry.ResizeMargin, r.Width/3, r.Height/3)
	left := local.X < m
	right := local.X > r.Width-m
	top := local.Y < m
	bottom := local.Y > r.Height-m
	switch {
	case top && left:
		return ResizeTopLeft
	case top && right:
		return ResizeTopRight
	case bottom && left:
		return ResizeBottomLeft
	case bottom && right:
		return ResizeBottomRight
	case left:
		return ResizeLeft
	case right:
		return ResizeRight
	case top:
		return ResizeTop
	case bottom:
		return ResizeBottom
	}
	return Move
}

// Engine tracks one in-progress drag gesture. Zero value is idle.
type Engine struct {
	locator geometry.Locator

	mode      Mode
	startGeom geometry.Rect
	startPtr  geometry.Pt
	active    bool
}

func NewEngine(loc geometry.Locator) *Engine { return &Engine{locator: loc} }

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool { return e.active }

// Mode returns the current gesture mode (None when idle).
func (e *Engine) Mode() Mode {
	if !e.active {
		return None
	}
	return e.mode
}

// Begin records the starting geometry and pointer position for a gesture.
// A None mode leaves the engine idle.
func (e *Engine) Begin(r geometry.Rect, pointer geometry.Pt, mode Mode) {
	if mode == None {
		e.active = false
		return
	}
	e.mode = mode
	e.startGeom = r
	e.startPtr = pointer
	e.active = true
}

// Update computes the geometry for the current pointer position. The active
// screen is re-resolved from the pointer on every call (multi-monitor). When no
// gesture is active the start geometry is returned unchanged.
func (e *Engine) Update(pointer geometry.Pt) geometry.Rect {
	if !e.active {
		return e.startGeom
	}
	delta := pointer.Sub(e.startPtr)
	bounds := e.locator.ScreenAt(pointer).Bounds

	if e.mode == Move {
		moved := e.startGeom.Translated(delta.X, delta.Y)
		return moved.ClampInto(bounds)
	}
	return resize(e.startGeom, delta, e.mode, bounds)
}

// End clears the gesture state.
func (e *Engine) End() { e.active = false; e.mode = None }

// resize adjusts only the edges named by the mode. The opposite, fixed edge
// never moves: when the dragged edge would push past the screen boundary the
// edge position is clamped and the size recomputed from the fixed edge.
func resize(orig geometry.Rect, delta geometry.Pt, mode Mode, bounds geometry.Rect) geometry.Rect {
	nx, ny := orig.X, orig.Y
	nw, nh := orig.Width, orig.Height

	switch {
	case mode.resizesLeft():
		nw = max(geometry.MinSize, orig.Width-delta.X)
		nx = max(bounds.Left(), orig.Right()-nw)
		nw = orig.Right() - nx
	case mode.resizesRight():
		nw = max(geometry.MinSize, orig.Width+delta.X)
		if orig.Left()+nw > bounds.Right() {
			nw = bounds.Right() - orig.Left()
		}
		nw = max(geometry.MinSize, nw)
	}

	switch {
	case mode.resizesTop():
		nh = max(geometry.MinSize, orig.Height-delta.Y)
		ny = max(bounds.Top(), orig.Bottom()-nh)
		nh = orig.Bottom() - ny
	case mode.resizesBottom():
		nh = max(geometry.MinSize, orig.Height+delta.Y)
		if orig.Top()+nh > bounds.Bottom() {
			nh = bounds.Bottom() - orig.Top()
		}
		nh = max(geometry.MinSize, nh)
	}

	nw = min(nw, geometry.MaxSize)
	nh = min(nh, geometry.MaxSize)
	return geometry.R(nx, ny, nw, nh)
}

// WheelResize grows or shrinks the frame symmetrically about its current
// center by WheelStep per tick, constrained to the screen under the pointer
// and to the global size limits.
func WheelResize(r geometry.Rect, ticks int, pointer geometry.Pt, loc geometry.Locator) geometry.Rect {
	if ticks == 0 {
		return r
	}
	step := WheelStep
	if ticks < 0 {
		step = -WheelStep
	}
	bounds := loc.ScreenAt(pointer).Bounds

	nw := max(geometry.MinSize, r.Width+step)
	nh := max(geometry.MinSize, r.Height+step)
	nx := r.CenterX() - nw/2
	ny := r.CenterY() - nh/2

	if nx < bounds.Left() {
		nx = bounds.Left()
	}
	if ny < bounds.Top() {
		ny = bounds.Top()
	}
	if nx+nw > bounds.Right() {
		nw = bounds.Right() - nx
	}
	if ny+nh > bounds.Bottom() {
		nh = bounds.Bottom() - ny
	}

	nw = geometry.Clamp(nw, geometry.MinSize, geometry.MaxSize)
	nh = geometry.Clamp(nh, geometry.MinSize, geometry.MaxSize)
	return geometry.R(nx, ny, nw, nh)
}

// Axis selects which dimension a manual numeric input targets.
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

// SetDimension applies a manual width/height entry. The origin and the other
// axis stay fixed; the value is clamped to the minimum size and to the screen
// boundary measured from the frame origin.
func SetDimension(r geometry.Rect, axis Axis, value int, loc geometry.Locator) geometry.Rect {
	bounds := loc.ScreenAt(r.Center()).Bounds
	v := max(geometry.MinSize, value)
	if axis == AxisWidth {
		if maxW := bounds.Right() - r.X; v > maxW {
			v = maxW
		}
		r.Width = geometry.Clamp(v, geometry.MinSize, geometry.MaxSize)
		return r
	}
	if maxH := bounds.Bottom() - r.Y; v > maxH {
		v = maxH
	}
	r.Height = geometry.Clamp(v, geometry.MinSize, geometry.MaxSize)
	return r
}

// Nudge moves the frame one step in the given direction, clamped to the screen
// containing the frame center.
func Nudge(r geometry.Rect, dir Direction, fast bool, loc geometry.Locator) geometry.Rect {
	step := NudgeStep
	if fast {
		step = NudgeStepFast
	}
	switch dir {
	case Up:
		r.Y -= step
	case Down:
		r.Y += step
	case Left:
		r.X -= step
	case Right:
		r.X += step
	}
	bounds := loc.ScreenAt(r.Center()).Bounds
	return r.ClampInto(bounds)
}
