/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package guides

import (
	"sync"
	"time"

	"dimensio/internal/geometry"
)

// AutoHideDelay is how long guides stay visible after a non-drag update
// (scroll, nudge, numeric input) before clearing automatically.
const AutoHideDelay = 1000 * time.Millisecond

// Tracker owns the current guide set and its auto-hide timer. Renderers
// register an OnChange callback and redraw whatever Guides() returns.
// The timer restarts on every auto-hide update and is cancelled on Clear,
// so guides persist for the full delay after the last interaction.
type Tracker struct {
	mu       sync.Mutex
	guides   []Guide
	timer    *time.Timer
	onChange func([]Guide)
}

func NewTracker(onChange func([]Guide)) *Tracker {
	return &Tracker{onChange: onChange}
}

// Update recomputes guides for the moving rect. With autoHide the guide set
// clears itself after AutoHideDelay unless another update arrives first;
// during an active drag callers pass autoHide=false and guides persist until
// the next update or an explicit Clear.
func (t *Tracker) Update(moving geometry.Rect, others []geometry.Rect, autoHide bool) {
	t.mu.Lock()
	t.guides = Compute(moving, others)
	t.stopTimerLocked()
	if autoHide && len(t.guides) > 0 {
		t.timer = time.AfterFunc(AutoHideDelay, t.Clear)
	}
	cb, gs := t.onChange, t.snapshotLocked()
	t.mu.Unlock()
	if cb != nil {
		cb(gs)
	}
}

// Clear drops all guides and cancels any pending auto-hide.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.guides = nil
	t.stopTimerLocked()
	cb := t.onChange
	t.mu.Unlock()
	if cb != nil {
		cb(nil)
	}
}

// Guides returns a copy of the current guide set.
func (t *Tracker) Guides() []Guide {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() []Guide {
	if len(t.guides) == 0 {
		return nil
	}
	out := make([]Guide, len(t.guides))
	copy(out, t.guides)
	return out
}

func (t *Tracker) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
