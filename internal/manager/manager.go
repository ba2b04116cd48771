/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package manager owns the frame collection, selection, workspace settings
// and project lifecycle. It is UI-agnostic: the sidebar and the overlay
// windows talk to it through method calls and receive change notifications
// through the Listener interface, so the whole orchestration layer is
// testable headless.
package manager

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"dimensio/internal/config"
	"dimensio/internal/drag"
	"dimensio/internal/frame"
	"dimensio/internal/geometry"
	"dimensio/internal/guides"
	applog "dimensio/internal/log"
	"dimensio/internal/spacing"
	"dimensio/internal/storage"
	"dimensio/internal/undo"
	"dimensio/internal/version"
)

// DuplicateOffset is the pixel shift applied to duplicated/inherited frames.
const DuplicateOffset = 20

// Listener receives state-change notifications. All callbacks run on the
// caller's goroutine (the UI event loop); implementations must not call back
// into the manager re-entrantly.
type Listener interface {
	// FramesChanged fires whenever the list, ordering, titles, lock or
	// visibility state changed; the UI rebuilds its layer list from it.
	FramesChanged()
	// SelectionChanged fires with the newly selected frame (nil for none).
	SelectionChanged(f *frame.Frame)
	// GeometryChanged fires for live geometry updates of one frame.
	GeometryChanged(f *frame.Frame)
	// ProjectChanged fires when the project path or dirty flag changed.
	ProjectChanged(name string, dirty bool)
	// GuidesChanged fires with the current guide set (nil to clear).
	GuidesChanged(gs []guides.Guide)
}

// NopListener is embedded by tests and partial UI surfaces.
type NopListener struct{}

func (NopListener) FramesChanged()                {}
func (NopListener) SelectionChanged(*frame.Frame) {}
func (NopListener) GeometryChanged(*frame.Frame)  {}
func (NopListener) ProjectChanged(string, bool)   {}
func (NopListener) GuidesChanged([]guides.Guide)  {}

// Manager is the single owner of all mutable application state.
type Manager struct {
	log      *slog.Logger
	listener Listener
	locator  geometry.Locator

	cfg    config.AppConfig
	guides *guides.Tracker
	undo   *undo.Manager

	frames      []*frame.Frame
	selected    *frame.Frame
	colorIdx    int
	projectPath string
	dirty       bool

	// dragSnap holds the pre-drag layout while a gesture is in flight, so the
	// whole drag undoes as one step.
	dragSnap *undo.Snapshot
}

// New creates a manager. The listener may be nil during construction and set
// later with SetListener (the sidebar is built after the manager).
func New(cfg config.AppConfig, loc geometry.Locator, listener Listener) *Manager {
	m := &Manager{
		log:      applog.WithComponent("manager"),
		listener: listener,
		locator:  loc,
		cfg:      cfg,
		undo: undo.NewManager(undo.Config{
			MaxBytes:    8 * 1024 * 1024,
			MaxDepth:    50,
			MinInterval: 300 * time.Millisecond,
		}),
	}
	m.guides = guides.NewTracker(func(gs []guides.Guide) {
		if m.listener != nil {
			m.listener.GuidesChanged(gs)
		}
	})
	if m.listener == nil {
		m.listener = NopListener{}
	}
	return m
}

func (m *Manager) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	m.listener = l
}

// Frames returns the ordered frame list (callers must not mutate entries
// outside manager calls).
func (m *Manager) Frames() []*frame.Frame { return m.frames }

// Selected returns the selected frame or nil.
func (m *Manager) Selected() *frame.Frame { return m.selected }

// Workspace returns the current workspace settings.
func (m *Manager) Workspace() config.WorkspaceConfig { return m.cfg.Workspace }

// Dirty reports whether there are unsaved changes.
func (m *Manager) Dirty() bool { return m.dirty }

// ProjectPath returns the current save path ("" for unsaved projects).
func (m *Manager) ProjectPath() string { return m.projectPath }

// ProjectName is the label shown in the sidebar title bar.
func (m *Manager) ProjectName() string {
	if m.projectPath == "" {
		return "Unsaved Project"
	}
	return filepath.Base(m.projectPath)
}

// Locator exposes the screen locator for the UI's drag engines.
func (m *Manager) Locator() geometry.Locator { return m.locator }

// CreateFrame allocates a new frame with the next palette color, inheriting
// geometry (+offset) and radii from the selected frame when one exists.
func (m *Manager) CreateFrame() *frame.Frame {
	fill, border := frame.PaletteColor(m.colorIdx)
	m.colorIdx++

	f := frame.New(len(m.frames)+1, fill, border)
	f.FillEnabled = m.cfg.Workspace.FillFrame
	f.ShowName = m.cfg.Workspace.ShowFrameName
	f.ShowSize = m.cfg.Workspace.ShowFrameSize

	if m.selected != nil {
		f.SetRect(m.selected.Rect.Translated(DuplicateOffset, DuplicateOffset))
		f.Radii = m.selected.Radii
	}

	m.undo.Push(m.snapshot())
	m.frames = append(m.frames, f)
	m.log.Info("frame created", slog.String("id", f.ID), slog.Int("number", f.Number))
	m.SelectFrame(f)
	m.markDirty()
	return f
}

// DuplicateFrame clones geometry, radii and colors of f, offset by a fixed
// delta, titled "<title> copy".
func (m *Manager) DuplicateFrame(f *frame.Frame) *frame.Frame {
	if !m.owns(f) {
		return nil
	}
	fill, border := frame.PaletteColor(m.colorIdx)
	m.colorIdx++

	dup := f.Clone()
	dup.Number = len(m.frames) + 1
	dup.Title = f.Title + " copy"
	dup.FillColor = fill
	dup.BorderColor = border
	dup.SetRect(f.Rect.Translated(DuplicateOffset, DuplicateOffset))

	m.undo.Push(m.snapshot())
	m.frames = append(m.frames, dup)
	m.log.Info("frame duplicated", slog.String("src", f.ID), slog.String("id", dup.ID))
	m.SelectFrame(dup)
	m.markDirty()
	return dup
}

// DeleteFrame removes f. If it was selected, selection falls back to the new
// last frame (or none). Remaining default-titled frames are renumbered.
func (m *Manager) DeleteFrame(f *frame.Frame) {
	idx := -1
	for i, x := range m.frames {
		if x == f {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	m.undo.Push(m.snapshot())
	m.frames = append(m.frames[:idx], m.frames[idx+1:]...)
	if m.selected == f {
		if len(m.frames) > 0 {
			m.selected = m.frames[len(m.frames)-1]
		} else {
			m.selected = nil
		}
	}
	m.renumber()
	m.log.Info("frame deleted", slog.String("id", f.ID))
	m.listener.FramesChanged()
	m.listener.SelectionChanged(m.selected)
	m.markDirty()
}

// SelectFrame updates the selection and notifies the UI so it can push the
// frame's dimensions/radii into the sidebar and pulse the highlight.
func (m *Manager) SelectFrame(f *frame.Frame) {
	m.selected = f
	m.listener.SelectionChanged(f)
	m.listener.FramesChanged()
}

func (m *Manager) renumber() {
	for i, f := range m.frames {
		f.SetNumber(i + 1)
	}
}

func (m *Manager) owns(f *frame.Frame) bool {
	for _, x := range m.frames {
		if x == f {
			return true
		}
	}
	return false
}

// ApplyGeometry commits a new rect for f (from drag, wheel or nudge) and
// refreshes smart guides against all other visible frames. During an active
// drag guides persist; otherwise they auto-hide.
func (m *Manager) ApplyGeometry(f *frame.Frame, r geometry.Rect, dragging bool) {
	if !m.owns(f) {
		return
	}
	if dragging {
		if m.dragSnap == nil {
			s := m.snapshot()
			m.dragSnap = &s
		}
	} else {
		m.undo.PushCoalesced(m.snapshot())
	}
	f.SetRect(r)
	others := make([]geometry.Rect, 0, len(m.frames))
	for _, x := range m.frames {
		if x != f && x.Visible {
			others = append(others, x.Rect)
		}
	}
	m.guides.Update(f.Rect, others, !dragging)
	m.listener.GeometryChanged(f)
	m.markDirty()
}

// DragFinished clears transient guide state after a drag gesture ends and
// commits the pre-drag layout as one undo step.
func (m *Manager) DragFinished(f *frame.Frame) {
	m.guides.Clear()
	if m.dragSnap != nil {
		m.undo.PushCoalesced(*m.dragSnap)
		m.dragSnap = nil
	}
}

// NudgeSelected moves the selected frame one step (10px with the fast
// modifier) clamped to its screen.
func (m *Manager) NudgeSelected(dir drag.Direction, fast bool) {
	f := m.selected
	if f == nil || f.Locked {
		return
	}
	m.ApplyGeometry(f, drag.Nudge(f.Rect, dir, fast, m.locator), false)
}

// SetDimension applies a manual numeric width/height entry to the selected
// frame, leaving origin and the other axis unchanged.
func (m *Manager) SetDimension(axis drag.Axis, value int) {
	f := m.selected
	if f == nil {
		return
	}
	m.ApplyGeometry(f, drag.SetDimension(f.Rect, axis, value, m.locator), false)
}

// SetRadii updates the selected frame's corner radii.
func (m *Manager) SetRadii(r frame.Radii) {
	f := m.selected
	if f == nil {
		return
	}
	f.Radii = r
	m.listener.GeometryChanged(f)
	m.markDirty()
}

// SetTitle renames a frame; a custom title permanently opts the frame out of
// renumbering.
func (m *Manager) SetTitle(f *frame.Frame, title string) {
	if !m.owns(f) {
		return
	}
	f.Title = title
	m.listener.FramesChanged()
	m.markDirty()
}

// SetColor applies a new hue to a frame (border at standard alpha, fill as
// the translucent wash).
func (m *Manager) SetColor(f *frame.Frame, hex string) error {
	if !m.owns(f) {
		return nil
	}
	c, err := frame.ParseColor(hex)
	if err != nil {
		return err
	}
	f.SetColor(c)
	m.listener.FramesChanged()
	m.listener.GeometryChanged(f)
	m.markDirty()
	return nil
}

// SetLocked toggles move/resize protection.
func (m *Manager) SetLocked(f *frame.Frame, locked bool) {
	if !m.owns(f) {
		return
	}
	f.Locked = locked
	m.listener.FramesChanged()
	m.markDirty()
}

// SetVisible shows or hides a frame. Hidden frames do not participate in
// guide matching or spacing.
func (m *Manager) SetVisible(f *frame.Frame, visible bool) {
	if !m.owns(f) {
		return
	}
	f.Visible = visible
	m.listener.FramesChanged()
	m.markDirty()
}

// UpdateSpacing computes gap measurements between the selected frame and the
// visible frame under the cursor. Returns nil (clear the overlay) when there
// is no selection, no hovered frame, or the hovered frame is the selection.
func (m *Manager) UpdateSpacing(cursor geometry.Pt) []spacing.Gap {
	if m.selected == nil {
		return nil
	}
	for _, f := range m.frames {
		if f == m.selected || !f.Visible {
			continue
		}
		if f.Rect.Contains(cursor) {
			return spacing.Measure(m.selected.Rect, f.Rect)
		}
	}
	return nil
}

// ApplySettings broadcasts changed workspace settings to every frame and
// persists them.
func (m *Manager) ApplySettings(ws config.WorkspaceConfig) {
	m.cfg.Workspace = ws
	for _, f := range m.frames {
		f.FillEnabled = ws.FillFrame
		f.ShowName = ws.ShowFrameName
		f.ShowSize = ws.ShowFrameSize
	}
	if err := config.Save(m.cfg); err != nil {
		m.log.Warn("persist settings failed", slog.Any("err", err))
	}
	m.listener.FramesChanged()
	for _, f := range m.frames {
		m.listener.GeometryChanged(f)
	}
}

func (m *Manager) markDirty() {
	m.dirty = true
	m.listener.ProjectChanged(m.ProjectName(), m.dirty)
}

// snapshot serializes the current layout. Marshal cannot fail for these
// types, so errors only cost the undo entry, never the edit itself.
func (m *Manager) snapshot() undo.Snapshot {
	p := storage.NewProject(m.frames, version.Version)
	blob, err := json.Marshal(p)
	if err != nil {
		m.log.Warn("undo snapshot failed", slog.Any("err", err))
	}
	return undo.Snapshot{Blob: blob, TS: time.Now()}
}

// Undo restores the layout before the most recent change, if any.
func (m *Manager) Undo() bool { return m.restoreSnapshot(m.undo.Undo) }

// Redo reapplies an undone change, if any.
func (m *Manager) Redo() bool { return m.restoreSnapshot(m.undo.Redo) }

func (m *Manager) restoreSnapshot(pop func(undo.Snapshot) (undo.Snapshot, bool)) bool {
	s, ok := pop(m.snapshot())
	if !ok {
		return false
	}
	var p storage.Project
	if err := json.Unmarshal(s.Blob, &p); err != nil {
		m.log.Warn("undo restore failed", slog.Any("err", err))
		return false
	}
	frames, err := p.Frames()
	if err != nil {
		m.log.Warn("undo restore failed", slog.Any("err", err))
		return false
	}
	m.replaceFrames(frames)
	m.markDirty()
	return true
}

func (m *Manager) replaceFrames(frames []*frame.Frame) {
	m.frames = frames
	for _, f := range m.frames {
		f.FillEnabled = m.cfg.Workspace.FillFrame
		f.ShowName = m.cfg.Workspace.ShowFrameName
		f.ShowSize = m.cfg.Workspace.ShowFrameSize
	}
	if len(m.frames) > 0 {
		m.selected = m.frames[0]
	} else {
		m.selected = nil
	}
	m.listener.FramesChanged()
	m.listener.SelectionChanged(m.selected)
	for _, f := range m.frames {
		m.listener.GeometryChanged(f)
	}
}

// NewProject resets the workspace. An established dirty project is auto-saved
// first; the reset then clears all frames, resets the palette cycle and
// creates one fresh default frame.
func (m *Manager) NewProject() {
	if m.projectPath != "" && m.dirty && len(m.frames) > 0 {
		if _, err := m.Save(m.projectPath); err != nil {
			m.log.Error("new project autosave failed", slog.Any("err", err))
		}
	}
	m.frames = nil
	m.selected = nil
	m.projectPath = ""
	m.dirty = false
	m.colorIdx = 0
	m.undo.Clear()
	m.guides.Clear()
	applog.SetProject("")

	m.listener.FramesChanged()
	m.listener.SelectionChanged(nil)
	m.listener.ProjectChanged(m.ProjectName(), false)

	m.CreateFrame()
}

// ErrNothingToSave is returned when a save is requested with zero frames; the
// UI surfaces it as a warning dialog rather than an error.
var ErrNothingToSave = fmt.Errorf("no frames available")

// Save writes the project to path (or the established path when path is "").
// Returns the normalized path actually written.
func (m *Manager) Save(path string) (string, error) {
	if len(m.frames) == 0 {
		return "", ErrNothingToSave
	}
	if path == "" {
		path = m.projectPath
	}
	if path == "" {
		return "", fmt.Errorf("no save path established")
	}
	written, err := storage.Save(path, storage.NewProject(m.frames, version.Version))
	if err != nil {
		m.log.Error("save failed", slog.Any("err", err), slog.String("path", path))
		return "", err
	}
	m.projectPath = written
	m.dirty = false
	applog.SetProject(filepath.Base(written))
	m.listener.ProjectChanged(m.ProjectName(), false)
	m.log.Info("project saved", slog.String("path", written), slog.Int("frames", len(m.frames)))
	return written, nil
}

// Open loads a project file, replacing the current state only after the file
// validated and parsed completely. On error the in-memory project is
// untouched.
func (m *Manager) Open(path string) error {
	p, err := storage.Load(path)
	if err != nil {
		m.log.Error("open failed", slog.Any("err", err), slog.String("path", path))
		return err
	}
	frames, err := p.Frames()
	if err != nil {
		m.log.Error("open failed", slog.Any("err", err), slog.String("path", path))
		return err
	}
	m.projectPath = path
	m.colorIdx = len(frames)
	m.undo.Clear()
	m.guides.Clear()
	m.replaceFrames(frames)
	m.dirty = false
	applog.SetProject(filepath.Base(path))
	m.listener.ProjectChanged(m.ProjectName(), false)
	m.log.Info("project opened", slog.String("path", path), slog.Int("frames", len(frames)))
	return nil
}
