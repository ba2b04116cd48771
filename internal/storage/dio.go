/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"dimensio/internal/frame"
	"dimensio/internal/geometry"
)

const (
	// FileVersion is the .dio format version this build reads and writes.
	FileVersion = "1.0"
	// FileExt is forced onto every saved path.
	FileExt = ".dio"
)

// Project is the on-disk manifest. Field names and types follow the .dio
// format; keep in sync with schema.json.
type Project struct {
	Version      string        `json:"version"`
	AppVersion   string        `json:"app_version"`
	CreatedAt    string        `json:"created_at"`
	FrameRecords []FrameRecord `json:"frames"`
}

// FrameRecord is one frame snapshot inside a project file.
type FrameRecord struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	BgColor     string      `json:"bg_color"`
	BorderColor string      `json:"border_color"`
	Radii       RadiiRecord `json:"radii"`
	Locked      bool        `json:"locked"`
	Visible     bool        `json:"visible"`
	FillEnabled bool        `json:"fill_enabled"`
}

type RadiiRecord struct {
	TL int `json:"tl"`
	TR int `json:"tr"`
	BL int `json:"bl"`
	BR int `json:"br"`
}

// defaultFrameRecord holds the .dio per-field defaults. Keys absent from a
// record keep these values, so a sparse hand-written frame loads visible and
// filled rather than collapsing to Go zero values.
func defaultFrameRecord() FrameRecord {
	return FrameRecord{
		X:           100,
		Y:           100,
		Width:       200,
		Height:      200,
		BgColor:     "#2c3e50",
		BorderColor: "#ffffff",
		Visible:     true,
		FillEnabled: true,
	}
}

// UnmarshalJSON decodes over a default-initialized record.
func (r *FrameRecord) UnmarshalJSON(data []byte) error {
	type plain FrameRecord
	rec := plain(defaultFrameRecord())
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*r = FrameRecord(rec)
	return nil
}

// ValidationError marks a structurally invalid project file. Loads failing
// with it must leave the caller's in-memory state untouched.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid project file %s: %s", e.Path, e.Reason)
}

// NewProject snapshots the given frames into a manifest.
func NewProject(frames []*frame.Frame, appVersion string) Project {
	records := make([]FrameRecord, 0, len(frames))
	for _, f := range frames {
		records = append(records, FrameRecord{
			ID:          f.ID,
			Title:       f.Title,
			X:           f.Rect.X,
			Y:           f.Rect.Y,
			Width:       f.Rect.Width,
			Height:      f.Rect.Height,
			BgColor:     f.FillColor.Hex(),
			BorderColor: f.BorderColor.Hex(),
			Radii:       RadiiRecord{TL: f.Radii.TL, TR: f.Radii.TR, BL: f.Radii.BL, BR: f.Radii.BR},
			Locked:      f.Locked,
			Visible:     f.Visible,
			FillEnabled: f.FillEnabled,
		})
	}
	return Project{
		Version:      FileVersion,
		AppVersion:   appVersion,
		CreatedAt:    time.Now().Format(time.RFC3339),
		FrameRecords: records,
	}
}

// Frames materializes the manifest back into frame entities, numbering them
// sequentially in file order. Missing per-frame fields already hold their
// JSON zero values; defaults for colors and IDs are applied here.
func (p Project) Frames() ([]*frame.Frame, error) {
	out := make([]*frame.Frame, 0, len(p.FrameRecords))
	for i, rec := range p.FrameRecords {
		fill, err := frame.ParseColor(rec.BgColor)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		border, err := frame.ParseColor(rec.BorderColor)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		f := &frame.Frame{
			ID:          rec.ID,
			Number:      i + 1,
			Title:       rec.Title,
			FillColor:   fill,
			BorderColor: border,
			Radii:       frame.Radii{TL: rec.Radii.TL, TR: rec.Radii.TR, BL: rec.Radii.BL, BR: rec.Radii.BR},
			Locked:      rec.Locked,
			Visible:     rec.Visible,
			FillEnabled: rec.FillEnabled,
			ShowName:    true,
			ShowSize:    true,
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if f.Title == "" {
			f.Title = frame.DefaultTitle(f.Number)
		}
		f.SetRect(geometry.R(rec.X, rec.Y, rec.Width, rec.Height))
		out = append(out, f)
	}
	return out, nil
}

// NormalizePath forces the .dio extension onto a save path.
func NormalizePath(path string) string {
	if strings.EqualFold(filepath.Ext(path), FileExt) {
		return path
	}
	return path + FileExt
}

// Save writes the project to path (extension forced to .dio) with
// transactional semantics: marshal, write to a temp file in the same
// directory, fsync, then rename over the target. An existing file is copied
// to <path>.bak first.
func Save(path string, p Project) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("save path is required")
	}
	path = NormalizePath(path)

	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal project: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("ensure project dir: %w", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if cerr := copyFile(path, path+".bak"); cerr != nil {
			return "", fmt.Errorf("backup current project: %w", cerr)
		}
	}

	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return "", fmt.Errorf("write temp project: %w", werr)
	}
	// Windows cannot rename over an existing file; elsewhere the rename alone
	// replaces atomically and the target must never disappear in between.
	if runtime.GOOS == "windows" {
		if _, err := os.Stat(path); err == nil {
			_ = os.Remove(path)
		}
	}
	if rerr := os.Rename(temp, path); rerr != nil {
		_ = os.Remove(temp)
		return "", fmt.Errorf("replace project: %w", rerr)
	}
	return path, nil
}

// Load reads and validates a project file. On any validation failure it
// returns a *ValidationError and no partial result.
func Load(path string) (Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read project: %w", err)
	}
	if err := Validate(b); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
			return Project{}, verr
		}
		return Project{}, err
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return Project{}, &ValidationError{Path: path, Reason: err.Error()}
	}
	return p, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
