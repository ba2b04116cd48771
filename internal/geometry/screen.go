/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Screen describes one monitor's usable area (work area excluding task bars).
type Screen struct {
	Bounds  Rect
	Primary bool
}

// Locator resolves which screen contains a given global point. The interaction
// engine re-resolves the active screen on every call so a frame dragged across
// a monitor boundary immediately adopts the new screen's bounds.
type Locator interface {
	// ScreenAt returns the screen containing p, or the primary screen when no
	// screen contains it.
	ScreenAt(p Pt) Screen
	// Primary returns the primary screen.
	Primary() Screen
}

// StaticLocator is a Locator over a fixed screen list. The UI layer feeds it
// from the toolkit at startup; tests construct it directly.
type StaticLocator struct {
	Screens []Screen
}

func (s StaticLocator) ScreenAt(p Pt) Screen {
	for _, sc := range s.Screens {
		if sc.Bounds.Contains(p) {
			return sc
		}
	}
	return s.Primary()
}

func (s StaticLocator) Primary() Screen {
	for _, sc := range s.Screens {
		if sc.Primary {
			return sc
		}
	}
	if len(s.Screens) > 0 {
		return s.Screens[0]
	}
	// Degenerate fallback so callers never divide by zero bounds.
	return Screen{Bounds: R(0, 0, 1920, 1080), Primary: true}
}
