package manager

import (
	"os"
	"path/filepath"
	"testing"

	"dimensio/internal/config"
	"dimensio/internal/drag"
	"dimensio/internal/frame"
	"dimensio/internal/geometry"
	"dimensio/internal/guides"
	applog "dimensio/internal/log"
)

type recordingListener struct {
	NopListener
	framesChanged    int
	selectionChanged int
	lastSelected     *frame.Frame
	lastGuides       []guides.Guide
	lastProject      string
	lastDirty        bool
}

func (r *recordingListener) FramesChanged() { r.framesChanged++ }
func (r *recordingListener) SelectionChanged(f *frame.Frame) {
	r.selectionChanged++
	r.lastSelected = f
}
func (r *recordingListener) GuidesChanged(gs []guides.Guide) { r.lastGuides = gs }
func (r *recordingListener) ProjectChanged(name string, dirty bool) {
	r.lastProject = name
	r.lastDirty = dirty
}

func newTestManager(t *testing.T) (*Manager, *recordingListener) {
	t.Helper()
	loc := geometry.StaticLocator{Screens: []geometry.Screen{
		{Bounds: geometry.R(0, 0, 1920, 1080), Primary: true},
	}}
	rec := &recordingListener{}
	return New(config.Defaults(), loc, rec), rec
}

func TestCreateFrameDefaultsAndInheritance(t *testing.T) {
	m, rec := newTestManager(t)

	first := m.CreateFrame()
	if first.Rect != frame.DefaultSize {
		t.Fatalf("first frame rect: %+v", first.Rect)
	}
	if m.Selected() != first || rec.lastSelected != first {
		t.Fatal("new frame must become the selection")
	}
	first.Radii = frame.Radii{TL: 12, TR: 12, BL: 12, BR: 12}

	second := m.CreateFrame()
	want := first.Rect.Translated(DuplicateOffset, DuplicateOffset)
	if second.Rect != want {
		t.Fatalf("inherited rect: %+v, want %+v", second.Rect, want)
	}
	if second.Radii != first.Radii {
		t.Fatalf("inherited radii: %+v", second.Radii)
	}
	if second.BorderColor == first.BorderColor {
		t.Fatal("palette should advance between frames")
	}
	if second.Title != "Frame 2" {
		t.Fatalf("title: %q", second.Title)
	}
	if !m.Dirty() {
		t.Fatal("creation must mark the project dirty")
	}
}

func TestDuplicateFrame(t *testing.T) {
	m, _ := newTestManager(t)
	src := m.CreateFrame()
	src.Title = "Header"
	src.Radii = frame.Radii{TL: 4}

	dup := m.DuplicateFrame(src)
	if dup == nil {
		t.Fatal("duplicate returned nil")
	}
	if dup.Title != "Header copy" {
		t.Fatalf("title: %q", dup.Title)
	}
	if dup.Rect != src.Rect.Translated(DuplicateOffset, DuplicateOffset) {
		t.Fatalf("rect: %+v", dup.Rect)
	}
	if dup.Radii != src.Radii {
		t.Fatalf("radii: %+v", dup.Radii)
	}
	if dup.ID == src.ID {
		t.Fatal("duplicate must get a fresh ID")
	}
	if dup.BorderColor == src.BorderColor {
		t.Fatal("duplicate should take the next palette color")
	}
	if m.Selected() != dup {
		t.Fatal("duplicate must become the selection")
	}
}

func TestDeleteFrameRenumbersAndSelectsLast(t *testing.T) {
	m, _ := newTestManager(t)
	f1 := m.CreateFrame()
	f2 := m.CreateFrame()
	f3 := m.CreateFrame()
	f3.Title = "Keep Me"

	m.SelectFrame(f2)
	m.DeleteFrame(f2)

	frames := m.Frames()
	if len(frames) != 2 {
		t.Fatalf("frames: %d", len(frames))
	}
	if f1.Title != "Frame 1" {
		t.Fatalf("f1 title: %q", f1.Title)
	}
	// Custom titles keep their text; the number still compacts.
	if f3.Title != "Keep Me" || f3.Number != 2 {
		t.Fatalf("f3: %q #%d", f3.Title, f3.Number)
	}
	if m.Selected() != f3 {
		t.Fatal("selection should fall back to the last frame")
	}

	m.DeleteFrame(f1)
	m.DeleteFrame(f3)
	if m.Selected() != nil {
		t.Fatal("selection must clear when the last frame goes")
	}
}

func TestDeleteIgnoresForeignFrame(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateFrame()
	fill, border := frame.PaletteColor(0)
	stranger := frame.New(99, fill, border)
	m.DeleteFrame(stranger)
	if len(m.Frames()) != 1 {
		t.Fatal("foreign frame delete must be a no-op")
	}
}

func TestApplyGeometryUpdatesGuides(t *testing.T) {
	m, rec := newTestManager(t)
	f1 := m.CreateFrame()
	f2 := m.CreateFrame()

	// Align f2's left edge with f1's left edge.
	m.ApplyGeometry(f2, geometry.R(f1.Rect.X, 600, 200, 100), true)
	if len(rec.lastGuides) == 0 {
		t.Fatal("aligned move should produce guides")
	}

	m.DragFinished(f2)
	if rec.lastGuides != nil {
		t.Fatal("guides must clear when the drag ends")
	}
}

func TestNudgeSelected(t *testing.T) {
	m, _ := newTestManager(t)
	f := m.CreateFrame()
	x := f.Rect.X

	m.NudgeSelected(drag.Right, false)
	if f.Rect.X != x+1 {
		t.Fatalf("nudge: %d", f.Rect.X)
	}
	m.NudgeSelected(drag.Right, true)
	if f.Rect.X != x+11 {
		t.Fatalf("fast nudge: %d", f.Rect.X)
	}

	f.Locked = true
	m.NudgeSelected(drag.Right, false)
	if f.Rect.X != x+11 {
		t.Fatal("locked frame must not move")
	}
}

func TestSetDimension(t *testing.T) {
	m, _ := newTestManager(t)
	f := m.CreateFrame()
	m.SetDimension(drag.AxisWidth, 640)
	if f.Rect.Width != 640 {
		t.Fatalf("width: %d", f.Rect.Width)
	}
	m.SetDimension(drag.AxisHeight, 2)
	if f.Rect.Height != geometry.MinSize {
		t.Fatalf("height clamp: %d", f.Rect.Height)
	}
}

func TestUpdateSpacing(t *testing.T) {
	m, _ := newTestManager(t)
	f1 := m.CreateFrame()
	f2 := m.CreateFrame()
	m.ApplyGeometry(f2, geometry.R(800, 100, 200, 250), false)
	m.SelectFrame(f1)

	gaps := m.UpdateSpacing(f2.Rect.Center())
	if len(gaps) == 0 {
		t.Fatal("expected a gap measurement")
	}
	if !gaps[0].Horizontal {
		t.Fatalf("expected horizontal gap, got %+v", gaps[0])
	}

	// Hovering the selected frame itself yields nothing.
	if gaps := m.UpdateSpacing(f1.Rect.Center()); gaps != nil {
		t.Fatalf("self-hover should measure nothing, got %v", gaps)
	}
	// Hidden frames are not measured.
	m.SetVisible(f2, false)
	if gaps := m.UpdateSpacing(f2.Rect.Center()); gaps != nil {
		t.Fatalf("hidden frame measured: %v", gaps)
	}
}

func TestApplySettingsBroadcasts(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)

	m, _ := newTestManager(t)
	f := m.CreateFrame()

	ws := m.Workspace()
	ws.FillFrame = false
	ws.ShowFrameName = false
	m.ApplySettings(ws)

	if f.FillEnabled || f.ShowName {
		t.Fatalf("settings not broadcast: %+v", f)
	}
	if !f.ShowSize {
		t.Fatal("untouched setting changed")
	}
	// New frames pick up the changed settings too.
	f2 := m.CreateFrame()
	if f2.FillEnabled {
		t.Fatal("new frame ignored workspace settings")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	m.CreateFrame()
	m.CreateFrame()
	if len(m.Frames()) != 2 {
		t.Fatalf("frames: %d", len(m.Frames()))
	}

	if !m.Undo() {
		t.Fatal("undo failed")
	}
	if len(m.Frames()) != 1 {
		t.Fatalf("after undo: %d frames", len(m.Frames()))
	}

	if !m.Redo() {
		t.Fatal("redo failed")
	}
	if len(m.Frames()) != 2 {
		t.Fatalf("after redo: %d frames", len(m.Frames()))
	}
}

func TestUndoDeleteRestoresFrame(t *testing.T) {
	m, _ := newTestManager(t)
	f := m.CreateFrame()
	f.Title = "Precious"
	m.DeleteFrame(f)
	if len(m.Frames()) != 0 {
		t.Fatal("delete failed")
	}

	if !m.Undo() {
		t.Fatal("undo failed")
	}
	frames := m.Frames()
	if len(frames) != 1 || frames[0].Title != "Precious" {
		t.Fatalf("restored state: %v", frames)
	}
}

func TestSaveRequiresFrames(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.Save(filepath.Join(t.TempDir(), "x.dio")); err != ErrNothingToSave {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.dio")

	m, _ := newTestManager(t)
	f := m.CreateFrame()
	f.Title = "Nav"
	m.ApplyGeometry(f, geometry.R(50, 60, 300, 400), false)

	written, err := m.Save(path)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if m.Dirty() {
		t.Fatal("save must clear the dirty flag")
	}
	if m.ProjectPath() != written {
		t.Fatalf("project path: %q", m.ProjectPath())
	}
	if m.ProjectName() != "layout.dio" {
		t.Fatalf("project name: %q", m.ProjectName())
	}
	if applog.CurrentProject() != "layout.dio" {
		t.Fatalf("log project stamp: %q", applog.CurrentProject())
	}

	m2, rec2 := newTestManager(t)
	if err := m2.Open(written); err != nil {
		t.Fatalf("open: %v", err)
	}
	frames := m2.Frames()
	if len(frames) != 1 || frames[0].Title != "Nav" {
		t.Fatalf("loaded frames: %v", frames)
	}
	if frames[0].Rect != geometry.R(50, 60, 300, 400) {
		t.Fatalf("loaded rect: %+v", frames[0].Rect)
	}
	if m2.Dirty() {
		t.Fatal("open must start clean")
	}
	if rec2.lastSelected != frames[0] {
		t.Fatal("open should select the first frame")
	}
}

func TestOpenInvalidFileLeavesStateUntouched(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.dio")
	if err := os.WriteFile(bad, []byte(`{"frames": "nope"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestManager(t)
	f := m.CreateFrame()
	f.Title = "Survivor"

	if err := m.Open(bad); err == nil {
		t.Fatal("expected open to fail")
	}
	frames := m.Frames()
	if len(frames) != 1 || frames[0].Title != "Survivor" {
		t.Fatalf("state was touched by failed open: %v", frames)
	}
}

func TestNewProjectAutosavesEstablishedProject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "work.dio")

	m, rec := newTestManager(t)
	m.CreateFrame()
	if _, err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	// Change something so the project is dirty again.
	m.CreateFrame()

	m.NewProject()

	// Reset state: one fresh default frame, no path, palette restarted.
	frames := m.Frames()
	if len(frames) != 1 || frames[0].Title != "Frame 1" {
		t.Fatalf("reset state: %v", frames)
	}
	if m.ProjectPath() != "" {
		t.Fatalf("path not cleared: %q", m.ProjectPath())
	}
	_, b0 := frame.PaletteColor(0)
	if frames[0].BorderColor != b0 {
		t.Fatal("palette cycle should restart")
	}
	if rec.lastProject == "" {
		t.Fatal("project change not published")
	}

	// The dirty established project was saved before the reset.
	p, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("autosave missing: %v", err)
	}
	m2, _ := newTestManager(t)
	if err := m2.Open(path); err != nil {
		t.Fatalf("autosaved file unreadable: %v", err)
	}
	if len(m2.Frames()) != 2 {
		t.Fatalf("autosave should hold both frames, got %d (%d bytes)", len(m2.Frames()), len(p))
	}
}

func TestSetColorValidatesHex(t *testing.T) {
	m, _ := newTestManager(t)
	f := m.CreateFrame()
	if err := m.SetColor(f, "#00ff88"); err != nil {
		t.Fatalf("valid color rejected: %v", err)
	}
	if f.BorderColor.R != 0 || f.BorderColor.G != 0xff || f.BorderColor.B != 0x88 {
		t.Fatalf("color not applied: %+v", f.BorderColor)
	}
	if f.FillColor.A >= f.BorderColor.A {
		t.Fatal("fill should be the translucent wash")
	}
	if err := m.SetColor(f, "nope"); err == nil {
		t.Fatal("invalid color accepted")
	}
}
