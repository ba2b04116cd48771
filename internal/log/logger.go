/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up slog for the application: a human-friendly console
// handler, an optional rotating JSON file, and helpers that tag records with
// the component, operation and the currently open project. Every subsystem
// (manager, storage, ui, crash) logs through WithComponent, so a single
// project file can be traced across them.
package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"dimensio/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization. The zero value means INFO level,
// console format, no file. Environment overrides:
//
//   - DIM_LOG_LEVEL=debug|info|warn|error
//   - DIM_LOG_FORMAT=console|json
//   - DIM_LOG_FILE=<path> (enables rotated file logging)
//   - DIM_LOG_SOURCE=true|false
//
// The same keys exist in config.yaml under logging:; the UI passes the merged
// result here, headless commands init straight from env.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string // optional path for file logging (rotated)
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   *slog.Logger
)

// L returns the default application logger, initializing from env if needed.
func L() *slog.Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	defaultLoggerMu.RLock()
	l = defaultLogger
	defaultLoggerMu.RUnlock()
	return l
}

// Init configures the global logger and sets slog.Default as well.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handlers []slog.Handler
	var console slog.Handler
	if format == "json" {
		console = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
	} else {
		console = &prettyTextHandler{opts: prettyOpts{Level: lvl, AddSource: opts.AddSource}, w: os.Stderr}
	}
	handlers = append(handlers, withProjectStamp(console))

	if strings.TrimSpace(opts.File) != "" {
		w := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		fh := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: opts.AddSource})
		handlers = append(handlers, withProjectStamp(fh))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = multiHandler(handlers...)
	}

	logger := slog.New(h).With(
		slog.String("app", "dimensio"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)

	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("DIM_LOG_LEVEL", "info"),
		Format:    getenv("DIM_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("DIM_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("DIM_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// parseLevel converts a string to slog.Level.
func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	projectMu   sync.RWMutex
	projectName string
)

// SetProject records the name of the currently open project file. Every
// subsequent log record carries it as project=<name> until the next call;
// an empty name (unsaved project) removes the stamp. The manager updates it
// on open, save and reset.
func SetProject(name string) {
	projectMu.Lock()
	projectName = name
	projectMu.Unlock()
}

// CurrentProject returns the name set by SetProject, or "".
func CurrentProject() string {
	projectMu.RLock()
	defer projectMu.RUnlock()
	return projectName
}

// withProjectStamp wraps a handler so records pick up the active project.
func withProjectStamp(h slog.Handler) slog.Handler { return &projectStamp{next: h} }

type projectStamp struct{ next slog.Handler }

func (p *projectStamp) Enabled(ctx context.Context, level slog.Level) bool {
	return p.next.Enabled(ctx, level)
}

func (p *projectStamp) Handle(ctx context.Context, r slog.Record) error {
	if name := CurrentProject(); name != "" {
		r = r.Clone()
		r.AddAttrs(slog.String("project", name))
	}
	return p.next.Handle(ctx, r)
}

func (p *projectStamp) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &projectStamp{next: p.next.WithAttrs(attrs)}
}

func (p *projectStamp) WithGroup(name string) slog.Handler {
	return &projectStamp{next: p.next.WithGroup(name)}
}

// multiHandler fans out log records to multiple handlers.
func multiHandler(handlers ...slog.Handler) slog.Handler { return &multi{hs: handlers} }

type multi struct{ hs []slog.Handler }

func (m *multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multi) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if err := h.Handle(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &multi{hs: res}
}

func (m *multi) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &multi{hs: res}
}
