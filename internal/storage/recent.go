/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "dimensio/internal/log"
	"dimensio/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// HistoryFileName lives next to the user config.
	HistoryFileName = "history.sqlite"

	// historySchemaVersion tracks the local SQLite schema. Bump when the
	// structure changes and add a migration step below.
	historySchemaVersion = 1

	// maxRecent bounds how many entries OpenHistory.Recent returns.
	maxRecent = 10
)

// History records recently opened/saved projects so the UI can offer a
// recent-files menu across runs.
type History struct {
	db *sql.DB
}

// OpenHistory opens (creating if needed) the per-user history database at
// dir/history.sqlite, enables WAL, and ensures the schema exists.
func OpenHistory(dir string) (*History, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "history_open").With(
		slog.String("dir", dir),
	)
	if dir == "" {
		return nil, errors.New("history dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Error("create history dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	path := filepath.Join(dir, HistoryFileName)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Embedded usage: single connection is enough and avoids writer contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureHistorySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure history schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("history ready", slog.String("path", path))
	return &History{db: db}, nil
}

// Close releases the underlying database.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// Touch upserts a project path with the current timestamp and frame count.
func (h *History) Touch(ctx context.Context, path string, frameCount int) error {
	if h == nil || h.db == nil {
		return errors.New("history not open")
	}
	// Fixed-width fraction keeps lexical ordering equal to time ordering.
	now := time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO projects (path, last_opened, frame_count)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET last_opened=excluded.last_opened, frame_count=excluded.frame_count`,
		path, now, frameCount)
	if err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	return nil
}

// Entry is one recent-project row.
type Entry struct {
	Path       string
	LastOpened time.Time
	FrameCount int
}

// Recent returns up to maxRecent entries, most recent first. Paths that no
// longer exist on disk are skipped (and left in place; they may reappear on
// removable media).
func (h *History) Recent(ctx context.Context) ([]Entry, error) {
	if h == nil || h.db == nil {
		return nil, errors.New("history not open")
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT path, last_opened, frame_count FROM projects
		ORDER BY last_opened DESC LIMIT ?`, maxRecent*2)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() && len(out) < maxRecent {
		var e Entry
		var ts string
		if err := rows.Scan(&e.Path, &ts, &e.FrameCount); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			e.LastOpened = t
		}
		if _, serr := os.Stat(e.Path); serr != nil {
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes a path from the history.
func (h *History) Forget(ctx context.Context, path string) error {
	if h == nil || h.db == nil {
		return errors.New("history not open")
	}
	if _, err := h.db.ExecContext(ctx, `DELETE FROM projects WHERE path=?`, path); err != nil {
		return fmt.Errorf("forget project: %w", err)
	}
	return nil
}

func ensureHistorySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS projects (
			path        TEXT PRIMARY KEY,
			last_opened TEXT NOT NULL,
			frame_count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_projects_last_opened ON projects(last_opened);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, historySchemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}
