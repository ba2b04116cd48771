/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry sends anonymous, strictly opt-in usage events for the
// measurement workflow (project lifecycle, blueprint exports) plus optional
// crash uploads. Payloads carry counts and formats only, never project
// content, paths or frame titles.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "dimensio/internal/log"
	"dimensio/internal/version"
)

// Event names emitted by the UI and CLI. Keep the vocabulary small; every
// addition must stay free of project content.
const (
	EventAppStart        = "app_start"
	EventProjectOpen     = "project_open"
	EventProjectSave     = "project_save"
	EventBlueprintExport = "blueprint_export"
)

// ProjectProps is the standard property set for project lifecycle events.
func ProjectProps(frameCount int) map[string]any {
	return map[string]any{"frames": frameCount}
}

// ExportProps adds the output format to the project properties.
func ExportProps(format string, frameCount int) map[string]any {
	return map[string]any{"format": format, "frames": frameCount}
}

// Config holds runtime configuration for telemetry and crash uploads.
// All telemetry is disabled by default.
//
// Environment variables (read by FromEnv):
// - DIM_TELEMETRY_OPT_IN: "1", "true", "yes" to enable metrics
// - DIM_TELEMETRY_URL: base URL to POST JSON events to
// - DIM_CRASH_UPLOAD_URL: URL to POST crash reports to
// - DIM_TELEMETRY_TIMEOUT_MS: optional request timeout, default 1500ms
// - DIM_TELEMETRY_DEBUG: if set, logs send attempts
//
// Without a URL, events are dropped even when opt-in is true.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        parseBool(os.Getenv("DIM_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("DIM_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("DIM_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("DIM_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("DIM_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// event is one queued measurement; the wire payload is built at send time so
// enqueueing stays allocation-light on the UI goroutine.
type event struct {
	name  string
	props map[string]any
	at    time.Time
}

// Client is a minimal async sender; it drops events silently on errors and
// never blocks the caller (the queue is bounded).
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan event
	once   sync.Once
	closed chan struct{}
}

var defaultClient *Client
var defaultOnce sync.Once

// InitDefault initializes the package-level default client from env when first used.
func InitDefault() {
	defaultOnce.Do(func() {
		NewDefault(FromEnv())
	})
}

// NewDefault creates and installs the default client with cfg.
func NewDefault(cfg Config) {
	defaultClient = New(cfg)
}

// ConfigureOptIn installs a default client whose opt-in comes from the user's
// persisted preference (the settings checkbox) while endpoints and timeouts
// still come from env. Env opt-in can only enable, never a URL.
func ConfigureOptIn(optIn bool) {
	cfg := FromEnv()
	cfg.OptIn = cfg.OptIn || optIn
	NewDefault(cfg)
	defaultOnce.Do(func() {})
}

// New constructs a client.
func New(cfg Config) *Client {
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan event, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether anonymous telemetry is enabled and an endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Enabled reports whether anonymous telemetry is enabled using the default client.
func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

// Event queues a named event. Safe to call from anywhere; drops when the
// client is disabled or the queue is full.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	select {
	case c.q <- event{name: name, props: props, at: time.Now().UTC()}:
	default:
		// queue full
	}
}

// Event using default client.
func Event(name string, props map[string]any) { InitDefault(); defaultClient.Event(name, props) }

// Flush waits briefly for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		if len(c.q) == 0 || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops the background goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case ev := <-c.q:
			c.send(ev)
		}
	}
}

func (c *Client) send(ev event) {
	payload := map[string]any{
		"name":    ev.name,
		"ts":      ev.at.Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range ev.props {
		payload[k] = v
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.post(c.cfg.EventsURL, "application/json", buf); err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("event send failed", slog.String("name", ev.name), slog.Any("err", err))
		}
		return
	}
	if c.cfg.DebugLogging {
		c.log.Debug("event sent", slog.String("name", ev.name))
	}
}

func (c *Client) post(url, contentType string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// UploadCrash posts an already-serialized crash report to the configured
// crash URL. Crash uploads honor the same opt-in but need no events URL.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go func(b []byte) {
		if err := c.post(c.cfg.CrashURL, "text/plain; charset=utf-8", b); err != nil {
			if c.cfg.DebugLogging {
				c.log.Debug("crash upload failed", slog.Any("err", err))
			}
			return
		}
		if c.cfg.DebugLogging {
			c.log.Debug("crash report uploaded")
		}
	}(append([]byte(nil), report...))
}

// UploadCrash using default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
