/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerFiltersBelowLevel(t *testing.T) {
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelWarn}, w: &bytes.Buffer{}}
	if h.Enabled(nil, slog.LevelInfo) {
		t.Fatal("info should not be enabled at warn level")
	}
	if !h.Enabled(nil, slog.LevelError) {
		t.Fatal("error should be enabled at warn level")
	}
}

func TestConsoleHandlerFormatsOneLine(t *testing.T) {
	var buf bytes.Buffer
	var h slog.Handler = &prettyTextHandler{opts: prettyOpts{Level: slog.LevelDebug}, w: &buf}
	h = h.WithAttrs([]slog.Attr{slog.String("component", "guides")})
	h = h.WithGroup("drag")

	r := slog.Record{Time: time.Now(), Level: slog.LevelError, Message: "resize clamped"}
	r.AddAttrs(slog.Int("width", 4000), slog.Float64("tol", 1.0), slog.Bool("locked", false))
	if err := h.Handle(nil, r); err != nil {
		t.Fatalf("handle: %v", err)
	}

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one line, got %q", out)
	}
	if !strings.Contains(out, "ERR resize clamped") {
		t.Fatalf("level tag or message missing: %q", out)
	}
	if !strings.Contains(out, "component=guides") {
		t.Fatalf("accumulated attr missing: %q", out)
	}
	// Attributes added after WithGroup carry the group prefix.
	if !strings.Contains(out, "drag.width=4000") {
		t.Fatalf("grouped attr missing: %q", out)
	}
	if !strings.Contains(out, "drag.tol=1") {
		t.Fatalf("float should render trimmed: %q", out)
	}
	if !strings.Contains(out, "drag.locked=false") {
		t.Fatalf("bool attr missing: %q", out)
	}
}

func TestLevelTag(t *testing.T) {
	if levelTag(slog.LevelDebug) != "DBG" || levelTag(slog.LevelWarn) != "WRN" {
		t.Fatal("unexpected level tags")
	}
	if got := levelTag(slog.Level(12)); got == "" {
		t.Fatal("custom levels should fall back to the slog string")
	}
}
