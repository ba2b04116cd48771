/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(strings.NewReader(string(b)))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatal("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

func TestFileHandlerCarriesComponentAndOperation(t *testing.T) {
	// System temp dir rather than t.TempDir: lumberjack may still hold the
	// handle when the test dir is cleaned up on Windows.
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("dim_log_%d.json", time.Now().UnixNano()))
	Init(Options{Level: "debug", Format: "json", File: fpath})

	l := WithOperation(WithComponent("storage"), "project_save")
	l.Info("project saved", slog.Int("frames", 3))
	time.Sleep(50 * time.Millisecond)

	m := lastJSONLine(t, fpath)
	if m["app"] != "dimensio" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatal("missing ver attr")
	}
	if m["component"] != "storage" || m["op"] != "project_save" {
		t.Fatalf("context attrs: component=%v op=%v", m["component"], m["op"])
	}
	if m["msg"] != "project saved" || m["frames"] != float64(3) {
		t.Fatalf("record content: %v", m)
	}
}

func TestSetProjectStampsEveryRecord(t *testing.T) {
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("dim_log_%d.json", time.Now().UnixNano()))
	Init(Options{Level: "debug", Format: "json", File: fpath})

	SetProject("layout.dio")
	defer SetProject("")
	WithComponent("manager").Info("frame created")
	time.Sleep(50 * time.Millisecond)

	m := lastJSONLine(t, fpath)
	if m["project"] != "layout.dio" {
		t.Fatalf("record not stamped with project: %v", m)
	}

	// Clearing the project removes the stamp from subsequent records.
	SetProject("")
	WithComponent("manager").Info("project reset")
	time.Sleep(50 * time.Millisecond)
	if m := lastJSONLine(t, fpath); m["project"] != nil {
		t.Fatalf("stamp should clear with the project: %v", m)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DIM_LOG_LEVEL", "warn")
	t.Setenv("DIM_LOG_FORMAT", "json")
	t.Setenv("DIM_LOG_SOURCE", "true")
	// DIM_LOG_FILE intentionally unset

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("DIM_SOME_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Leveler{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
