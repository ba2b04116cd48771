/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package spacing computes pixel gap measurements between a selected frame
// and the frame under the cursor. Gaps exist only on axes where the two rects
// are disjoint; the measurement line sits on the target's center on the
// perpendicular axis.
package spacing

import (
	"fmt"

	"dimensio/internal/geometry"
)

// Gap is one measurement line between two frame edges.
type Gap struct {
	Distance       int
	Horizontal     bool
	X1, Y1, X2, Y2 int
}

// Label returns the pill text for rendering.
func (g Gap) Label() string { return fmt.Sprintf("%dpx", g.Distance) }

// Measure returns the horizontal and/or vertical gap between source and
// target. A nil entry means the rects overlap on that axis (no measurement).
// Identical rects yield nothing.
func Measure(source, target geometry.Rect) []Gap {
	if source == target {
		return nil
	}
	var gaps []Gap

	switch {
	case source.Right() < target.Left():
		y := target.CenterY()
		gaps = append(gaps, Gap{
			Distance:   target.Left() - source.Right(),
			Horizontal: true,
			X1:         source.Right(), Y1: y, X2: target.Left(), Y2: y,
		})
	case source.Left() > target.Right():
		y := target.CenterY()
		gaps = append(gaps, Gap{
			Distance:   source.Left() - target.Right(),
			Horizontal: true,
			X1:         target.Right(), Y1: y, X2: source.Left(), Y2: y,
		})
	}

	switch {
	case source.Bottom() < target.Top():
		x := target.CenterX()
		gaps = append(gaps, Gap{
			Distance: target.Top() - source.Bottom(),
			X1:       x, Y1: source.Bottom(), X2: x, Y2: target.Top(),
		})
	case source.Top() > target.Bottom():
		x := target.CenterX()
		gaps = append(gaps, Gap{
			Distance: source.Top() - target.Bottom(),
			X1:       x, Y1: target.Bottom(), X2: x, Y2: source.Top(),
		})
	}
	return gaps
}
