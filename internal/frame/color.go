/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package frame

import (
	"fmt"
	"strings"
)

// Color is a resolved RGBA value. Hex strings (#RRGGBB or #RRGGBBAA) are
// parsed once at construction so the rest of the code never branches on the
// string representation.
type Color struct {
	R, G, B, A uint8
}

func RGBA(r, g, b, a uint8) Color { return Color{r, g, b, a} }

// ParseColor resolves a hex color string. A missing alpha component means
// fully opaque. The empty string resolves to opaque white so a frame loaded
// from a sparse file still renders.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{255, 255, 255, 255}, nil
	}
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("color %q: missing '#' prefix", s)
	}
	hexPart := s[1:]
	var r, g, b, a uint8 = 0, 0, 0, 255
	switch len(hexPart) {
	case 6:
		if _, err := fmt.Sscanf(hexPart, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(hexPart, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	return Color{r, g, b, a}, nil
}

// Hex renders the color back to its string form; alpha is included only when
// not fully opaque, matching what the project file format stores.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// WithAlpha returns the same hue with a different alpha.
func (c Color) WithAlpha(a uint8) Color { return Color{c.R, c.G, c.B, a} }
