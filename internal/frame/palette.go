/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package frame

// Alpha levels applied to every palette entry: the fill is a translucent
// wash of the border hue.
const (
	fillAlpha   = 40
	borderAlpha = 220
)

// palette is the fixed hue cycle for newly created frames.
var palette = []Color{
	{0, 180, 255, 255},  // blue (default)
	{46, 204, 113, 255}, // green
	{231, 76, 60, 255},  // red
	{155, 89, 182, 255}, // purple
	{241, 196, 15, 255}, // yellow
	{230, 126, 34, 255}, // orange
	{26, 188, 156, 255}, // teal
}

// PaletteColor returns the fill and border colors for the idx-th created
// frame, wrapping around the palette.
func PaletteColor(idx int) (fill, border Color) {
	c := palette[idx%len(palette)]
	return c.WithAlpha(fillAlpha), c.WithAlpha(borderAlpha)
}

// PaletteLen is exposed for tests exercising the wrap-around.
func PaletteLen() int { return len(palette) }
