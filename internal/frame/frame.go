/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package frame defines the measurement frame entity: a draggable, resizable
// rectangle with visual style, corner radii and lock/visibility state.
package frame

import (
	"fmt"

	"github.com/google/uuid"

	"dimensio/internal/geometry"
)

// DefaultSize is the geometry a fresh frame starts with.
var DefaultSize = geometry.Rect{X: 100, Y: 100, Width: 400, Height: 250}

// Radii holds per-corner rounding in pixels; zero means a square corner.
type Radii struct {
	TL, TR, BL, BR int
}

// Active reports whether any corner is rounded.
func (r Radii) Active() bool { return r.TL > 0 || r.TR > 0 || r.BL > 0 || r.BR > 0 }

// Uniform reports whether all four corners share the same radius.
func (r Radii) Uniform() bool { return r.TL == r.TR && r.TR == r.BL && r.BL == r.BR }

// Frame is one measurement overlay. Geometry invariants (size clamps, screen
// containment) are enforced by the interaction engine before SetRect is called;
// SetRect applies the size clamp again so a frame can never hold an invalid
// rect regardless of caller.
type Frame struct {
	ID     string
	Number int
	Title  string

	Rect  geometry.Rect
	Radii Radii

	FillColor   Color
	BorderColor Color

	Locked      bool
	Visible     bool
	FillEnabled bool
	ShowName    bool
	ShowSize    bool
}

// New creates a frame with the given sequential number and palette colors.
func New(number int, fill, border Color) *Frame {
	return &Frame{
		ID:          uuid.NewString(),
		Number:      number,
		Title:       DefaultTitle(number),
		Rect:        DefaultSize.ClampSize(),
		FillColor:   fill,
		BorderColor: border,
		Visible:     true,
		FillEnabled: true,
		ShowName:    true,
		ShowSize:    true,
	}
}

// DefaultTitle is the auto-assigned title for the n-th frame.
func DefaultTitle(n int) string { return fmt.Sprintf("Frame %d", n) }

// HasDefaultTitle reports whether the title is still the unmodified default
// for the frame's current number. Only such frames are renumbered.
func (f *Frame) HasDefaultTitle() bool { return f.Title == DefaultTitle(f.Number) }

// SetNumber renumbers the frame, rewriting the title only when it is still
// the default one.
func (f *Frame) SetNumber(n int) {
	if f.HasDefaultTitle() {
		f.Title = DefaultTitle(n)
	}
	f.Number = n
}

// SetRect replaces the geometry, re-applying the global size clamp.
func (f *Frame) SetRect(r geometry.Rect) { f.Rect = r.ClampSize() }

// SetColor applies a new hue: border at the standard border alpha, fill as
// the translucent wash of the same hue.
func (f *Frame) SetColor(c Color) {
	f.BorderColor = c.WithAlpha(borderAlpha)
	f.FillColor = c.WithAlpha(fillAlpha)
}

// DimensionsText formats width/height (and radii when active) for the
// clipboard copy action.
func (f *Frame) DimensionsText() string {
	text := fmt.Sprintf("W: %dpx; H: %dpx;", f.Rect.Width, f.Rect.Height)
	if f.Radii.Active() {
		if f.Radii.Uniform() {
			text += fmt.Sprintf(" Radius: %dpx;", f.Radii.TL)
		} else {
			text += fmt.Sprintf(" Radius: TL:%d, TR:%d, BL:%d, BR:%d;",
				f.Radii.TL, f.Radii.TR, f.Radii.BL, f.Radii.BR)
		}
	}
	return text
}

// Clone returns a deep copy with a fresh ID, used by duplicate.
func (f *Frame) Clone() *Frame {
	c := *f
	c.ID = uuid.NewString()
	return &c
}
