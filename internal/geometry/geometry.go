/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geometry provides integer 2D primitives for screen-space frame math.
// Frames live in global (virtual desktop) pixel coordinates, so everything here
// is int-based and deterministic to keep the interaction engine unit testable.
package geometry

// Size limits enforced on every frame at all times.
const (
	MinSize = 10
	MaxSize = 4000
)

// ResizeMargin is the widest margin band (in px) that maps a pointer position
// to a resize edge; the effective band is min(ResizeMargin, w/3, h/3).
const ResizeMargin = 20

// Pt is a 2D point in global screen coordinates.
type Pt struct{ X, Y int }

// Add returns p translated by q.
func (p Pt) Add(q Pt) Pt { return Pt{p.X + q.X, p.Y + q.Y} }

// Sub returns the delta from q to p.
func (p Pt) Sub(q Pt) Pt { return Pt{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y          int
	Width, Height int
}

func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.Height }

// CenterX returns the horizontal center. Integer division matches the
// on-screen pixel the UI toolkit reports for odd sizes.
func (r Rect) CenterX() int { return r.X + r.Width/2 }
func (r Rect) CenterY() int { return r.Y + r.Height/2 }

func (r Rect) TopLeft() Pt { return Pt{r.X, r.Y} }
func (r Rect) Center() Pt  { return Pt{r.CenterX(), r.CenterY()} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.Right() && p.Y < r.Bottom()
}

// Translated returns r moved by (dx, dy).
func (r Rect) Translated(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	if r.Width <= 0 && r.Height <= 0 {
		return o
	}
	if o.Width <= 0 && o.Height <= 0 {
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.Right(), o.Right())
	maxY := max(r.Bottom(), o.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Adjusted grows (negative deltas) or shrinks the rect edge-wise.
func (r Rect) Adjusted(dl, dt, dr, db int) Rect {
	return Rect{X: r.X + dl, Y: r.Y + dt, Width: r.Width - dl + dr, Height: r.Height - dt + db}
}

// Intersects reports whether both rects share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() &&
		r.Top() < o.Bottom() && o.Top() < r.Bottom()
}

// OverlapsX reports whether the X ranges of both rects intersect.
func (r Rect) OverlapsX(o Rect) bool { return r.Left() <= o.Right() && o.Left() <= r.Right() }

// OverlapsY reports whether the Y ranges of both rects intersect.
func (r Rect) OverlapsY(o Rect) bool { return r.Top() <= o.Bottom() && o.Top() <= r.Bottom() }

// ClampSize limits both axes to [MinSize, MaxSize].
func (r Rect) ClampSize() Rect {
	r.Width = Clamp(r.Width, MinSize, MaxSize)
	r.Height = Clamp(r.Height, MinSize, MaxSize)
	return r
}

// ClampInto moves r so it lies fully inside bounds without resizing.
// When bounds is smaller than r on an axis, r is pinned to the bounds origin.
func (r Rect) ClampInto(bounds Rect) Rect {
	r.X = Clamp(r.X, bounds.Left(), max(bounds.Left(), bounds.Right()-r.Width))
	r.Y = Clamp(r.Y, bounds.Top(), max(bounds.Top(), bounds.Bottom()-r.Height))
	return r
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns the absolute value of v.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
