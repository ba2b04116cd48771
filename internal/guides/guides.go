/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package guides computes alignment guide lines between a moving frame and all
// other visible frames. Guides are advisory visualization only: the matcher
// never alters frame geometry.
package guides

import (
	"math"
	"sort"

	"dimensio/internal/geometry"
)

// Tolerance is the maximum coordinate distance (px) at which an alignment is
// reported. Kept as a constant rather than a user setting; see DESIGN.md.
const Tolerance = 1.0

// Guide is one consolidated alignment line segment. Either X1==X2 (vertical)
// or Y1==Y2 (horizontal).
type Guide struct {
	X1, Y1, X2, Y2 float64
}

// Vertical reports whether the guide is a vertical line.
func (g Guide) Vertical() bool { return g.X1 == g.X2 }

type span struct{ lo, hi float64 }

// Compute matches the moving rect's edge and center coordinates against every
// other rect within Tolerance. Matches sharing the same moving coordinate
// collapse into a single guide whose extent is the union of all participating
// rects' spans, so one line visually connects every aligned edge.
func Compute(moving geometry.Rect, others []geometry.Rect) []Guide {
	mx1 := float64(moving.Left())
	mx2 := float64(moving.Right())
	mxc := mx1 + float64(moving.Width)/2
	my1 := float64(moving.Top())
	my2 := float64(moving.Bottom())
	myc := my1 + float64(moving.Height)/2

	movingX := []float64{mx1, mxc, mx2}
	movingY := []float64{my1, myc, my2}

	// Accumulated spans keyed by the moving coordinate's value.
	matchesX := map[float64][]span{}
	matchesY := map[float64][]span{}

	for _, r := range others {
		if r == moving {
			continue
		}
		rx1 := float64(r.Left())
		rx2 := float64(r.Right())
		rxc := rx1 + float64(r.Width)/2
		ry1 := float64(r.Top())
		ry2 := float64(r.Bottom())
		ryc := ry1 + float64(r.Height)/2

		for _, mv := range movingX {
			for _, rv := range []float64{rx1, rxc, rx2} {
				if math.Abs(mv-rv) <= Tolerance {
					matchesX[mv] = append(matchesX[mv], span{my1, my2}, span{ry1, ry2})
				}
			}
		}
		for _, mv := range movingY {
			for _, rv := range []float64{ry1, ryc, ry2} {
				if math.Abs(mv-rv) <= Tolerance {
					matchesY[mv] = append(matchesY[mv], span{mx1, mx2}, span{rx1, rx2})
				}
			}
		}
	}

	if len(matchesX)+len(matchesY) == 0 {
		return nil
	}
	guides := make([]Guide, 0, len(matchesX)+len(matchesY))
	for x, spans := range matchesX {
		lo, hi := unionSpan(spans)
		guides = append(guides, Guide{X1: x, Y1: lo, X2: x, Y2: hi})
	}
	for y, spans := range matchesY {
		lo, hi := unionSpan(spans)
		guides = append(guides, Guide{X1: lo, Y1: y, X2: hi, Y2: y})
	}

	// Map iteration order is random; sort for deterministic rendering and tests.
	sort.Slice(guides, func(i, j int) bool {
		if guides[i].Vertical() != guides[j].Vertical() {
			return guides[i].Vertical()
		}
		if guides[i].X1 != guides[j].X1 {
			return guides[i].X1 < guides[j].X1
		}
		return guides[i].Y1 < guides[j].Y1
	})
	return guides
}

func unionSpan(spans []span) (lo, hi float64) {
	lo, hi = spans[0].lo, spans[0].hi
	for _, s := range spans[1:] {
		lo = math.Min(lo, s.lo)
		hi = math.Max(hi, s.hi)
	}
	return lo, hi
}
