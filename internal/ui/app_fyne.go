//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"dimensio/internal/config"
	"dimensio/internal/crash"
	"dimensio/internal/drag"
	"dimensio/internal/export"
	"dimensio/internal/frame"
	"dimensio/internal/geometry"
	"dimensio/internal/guides"
	applog "dimensio/internal/log"
	"dimensio/internal/manager"
	"dimensio/internal/storage"
	"dimensio/internal/telemetry"
	"dimensio/internal/version"
)

// overlayApp is the Fyne shell around the manager: a sidebar with the layer
// list and controls next to a scrollable workspace where frames are dragged.
type overlayApp struct {
	log *slog.Logger

	fyneApp fyne.App
	win     fyne.Window
	mgr     *manager.Manager
	history *storage.History

	workspace    *fyne.Container
	workspaceBG  *canvas.Rectangle
	frameLayer   *fyne.Container
	guideLayer   *fyne.Container
	spacingLayer *fyne.Container
	widgets      map[string]*frameWidget

	list      *widget.List
	listRows  []*frame.Frame
	title     *widget.Label
	status    *widget.Label
	widthIn   *widget.Entry
	heightIn  *widget.Entry
	radiusIn  [4]*widget.Entry
	syncing   bool
	recentSub *fyne.Menu
}

// Run starts the Fyne-based desktop UI. projectPath may name a .dio file to
// open immediately.
func Run(projectPath string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	telemetry.ConfigureOptIn(cfg.General.TelemetryOptIn)

	reportDir := ""
	if p, perr := config.Path(); perr == nil {
		reportDir = filepath.Dir(p)
	}

	loc := geometry.StaticLocator{Screens: []geometry.Screen{
		{Bounds: geometry.Rect{Width: workspaceW, Height: workspaceH}, Primary: true},
	}}

	a := &overlayApp{
		log:     l,
		fyneApp: app.NewWithID("dimensio"),
		widgets: map[string]*frameWidget{},
	}
	a.mgr = manager.New(cfg, loc, nil)

	defer crash.Recover(reportDir, func(dir string) (string, error) {
		if len(a.mgr.Frames()) == 0 {
			return "", errors.New("nothing to snapshot")
		}
		p := filepath.Join(dir, fmt.Sprintf("emergency-%s.dio", time.Now().Format("20060102-150405")))
		return storage.Save(p, storage.NewProject(a.mgr.Frames(), version.Version))
	})

	if reportDir != "" {
		if h, herr := storage.OpenHistory(reportDir); herr != nil {
			l.Warn("recent-projects history unavailable", slog.Any("err", herr))
		} else {
			a.history = h
			defer func() { _ = h.Close() }()
		}
	}

	a.win = a.fyneApp.NewWindow("Dimensio")
	prefs := a.fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1280), 900)
	winH := max(prefs.IntWithFallback("window.height", 800), 600)
	a.win.Resize(fyne.NewSize(float32(winW), float32(winH)))

	a.buildUI()
	a.mgr.SetListener(a)
	a.installShortcuts()

	if projectPath != "" {
		if err := a.mgr.Open(storage.NormalizePath(projectPath)); err != nil {
			return err
		}
		a.touchHistory(a.mgr.ProjectPath())
	} else {
		a.mgr.NewProject()
	}
	telemetry.Event(telemetry.EventAppStart, telemetry.ProjectProps(len(a.mgr.Frames())))

	a.win.SetCloseIntercept(func() {
		sz := a.win.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		a.win.Close()
	})
	a.win.ShowAndRun()
	return nil
}

func (a *overlayApp) buildUI() {
	a.title = widget.NewLabel("Unsaved Project")
	a.title.TextStyle = fyne.TextStyle{Bold: true}
	a.status = widget.NewLabel("Ready")

	a.buildWorkspace()
	sidebar := a.buildSidebar()
	a.buildMenus()

	split := container.NewHSplit(sidebar, container.NewScroll(a.workspace))
	split.SetOffset(0.22)
	a.win.SetContent(container.NewBorder(nil, a.status, nil, nil, split))
}

func (a *overlayApp) buildWorkspace() {
	a.workspaceBG = canvas.NewRectangle(color.RGBA{R: 48, G: 48, B: 52, A: 255})
	a.workspaceBG.Resize(fyne.NewSize(workspaceW, workspaceH))
	a.frameLayer = container.NewWithoutLayout()
	a.guideLayer = container.NewWithoutLayout()
	a.spacingLayer = container.NewWithoutLayout()
	a.workspace = container.NewWithoutLayout(a.workspaceBG, a.frameLayer, a.guideLayer, a.spacingLayer)
	a.workspace.Resize(fyne.NewSize(workspaceW, workspaceH))
}

func (a *overlayApp) buildSidebar() fyne.CanvasObject {
	a.list = widget.NewList(
		func() int { return len(a.listRows) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < 0 || int(i) >= len(a.listRows) {
				return
			}
			f := a.listRows[i]
			text := f.Title
			var marks []string
			if f.Locked {
				marks = append(marks, "locked")
			}
			if !f.Visible {
				marks = append(marks, "hidden")
			}
			if len(marks) > 0 {
				text += " [" + strings.Join(marks, ", ") + "]"
			}
			o.(*widget.Label).SetText(text)
		},
	)
	a.list.OnSelected = func(id widget.ListItemID) {
		if int(id) < len(a.listRows) && a.listRows[id] != a.mgr.Selected() {
			a.mgr.SelectFrame(a.listRows[id])
		}
	}

	toolbar := container.NewGridWithColumns(3,
		widget.NewButton("New", func() { a.mgr.CreateFrame() }),
		widget.NewButton("Duplicate", func() {
			if f := a.mgr.Selected(); f != nil {
				a.mgr.DuplicateFrame(f)
			}
		}),
		widget.NewButton("Delete", func() {
			if f := a.mgr.Selected(); f != nil {
				a.mgr.DeleteFrame(f)
			}
		}),
		widget.NewButton("Rename", func() {
			if f := a.mgr.Selected(); f != nil {
				a.renameFrameDialog(f)
			}
		}),
		widget.NewButton("Lock", func() {
			if f := a.mgr.Selected(); f != nil {
				a.mgr.SetLocked(f, !f.Locked)
			}
		}),
		widget.NewButton("Hide", func() {
			if f := a.mgr.Selected(); f != nil {
				a.mgr.SetVisible(f, !f.Visible)
			}
		}),
	)
	colorBtn := widget.NewButton("Color...", func() {
		f := a.mgr.Selected()
		if f == nil {
			return
		}
		entry := widget.NewEntry()
		entry.SetText(f.BorderColor.Hex())
		dialog.ShowForm("Frame Color", "Apply", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Hex (#RRGGBB)", entry)},
			func(ok bool) {
				if !ok {
					return
				}
				if err := a.mgr.SetColor(f, entry.Text); err != nil {
					dialog.ShowError(err, a.win)
				}
			}, a.win)
	})

	a.widthIn = widget.NewEntry()
	a.heightIn = widget.NewEntry()
	a.widthIn.OnSubmitted = func(s string) { a.submitDimension(drag.AxisWidth, s) }
	a.heightIn.OnSubmitted = func(s string) { a.submitDimension(drag.AxisHeight, s) }
	dims := container.NewGridWithColumns(2,
		widget.NewLabel("Width"), a.widthIn,
		widget.NewLabel("Height"), a.heightIn,
	)

	radiusLabels := [4]string{"TL", "TR", "BL", "BR"}
	radiusBox := container.NewGridWithColumns(4)
	for i := range a.radiusIn {
		e := widget.NewEntry()
		e.PlaceHolder = radiusLabels[i]
		e.OnSubmitted = func(string) { a.submitRadii() }
		a.radiusIn[i] = e
		radiusBox.Add(e)
	}

	ws := a.mgr.Workspace()
	settings := container.NewVBox(
		widget.NewCheck("Uniform corner radius", func(v bool) {
			ws := a.mgr.Workspace()
			ws.RadiusCurve = v
			a.mgr.ApplySettings(ws)
			a.submitRadii()
		}),
		widget.NewCheck("Fill frames", func(v bool) {
			ws := a.mgr.Workspace()
			ws.FillFrame = v
			a.mgr.ApplySettings(ws)
		}),
		widget.NewCheck("Show frame names", func(v bool) {
			ws := a.mgr.Workspace()
			ws.ShowFrameName = v
			a.mgr.ApplySettings(ws)
		}),
		widget.NewCheck("Show frame sizes", func(v bool) {
			ws := a.mgr.Workspace()
			ws.ShowFrameSize = v
			a.mgr.ApplySettings(ws)
		}),
		widget.NewCheck("Dim workspace backdrop", func(v bool) {
			ws := a.mgr.Workspace()
			ws.Screenshot = v
			a.mgr.ApplySettings(ws)
			a.applyBackdrop(v)
		}),
	)
	checks := settings.Objects
	checks[0].(*widget.Check).SetChecked(ws.RadiusCurve)
	checks[1].(*widget.Check).SetChecked(ws.FillFrame)
	checks[2].(*widget.Check).SetChecked(ws.ShowFrameName)
	checks[3].(*widget.Check).SetChecked(ws.ShowFrameSize)
	checks[4].(*widget.Check).SetChecked(ws.Screenshot)
	a.applyBackdrop(ws.Screenshot)

	top := container.NewVBox(
		a.title,
		widget.NewSeparator(),
		toolbar,
		colorBtn,
	)
	bottom := container.NewVBox(
		widget.NewSeparator(),
		widget.NewLabel("Dimensions"),
		dims,
		widget.NewLabel("Corner radius"),
		radiusBox,
		widget.NewSeparator(),
		settings,
	)
	return container.NewBorder(top, bottom, nil, nil, a.list)
}

func (a *overlayApp) applyBackdrop(dim bool) {
	if dim {
		a.workspaceBG.FillColor = color.RGBA{R: 24, G: 24, B: 26, A: 255}
	} else {
		a.workspaceBG.FillColor = color.RGBA{R: 48, G: 48, B: 52, A: 255}
	}
	a.workspaceBG.Refresh()
}

func (a *overlayApp) buildMenus() {
	a.recentSub = fyne.NewMenu("Open Recent")
	a.rebuildRecentMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() { a.mgr.NewProject() }),
		fyne.NewMenuItem("Open...", a.openDialog),
		&fyne.MenuItem{Label: "Open Recent", ChildMenu: a.recentSub},
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", func() { a.save(a.mgr.ProjectPath()) }),
		fyne.NewMenuItem("Save As...", a.saveAsDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", func() { a.exportDialog(".png") }),
		fyne.NewMenuItem("Export PDF...", func() { a.exportDialog(".pdf") }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { a.mgr.Undo() }),
		fyne.NewMenuItem("Redo", func() { a.mgr.Redo() }),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("Dimensio",
				fmt.Sprintf("Dimensio %s\nScreen measurement frames for designers.", version.String()), a.win)
		}),
	)
	a.win.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

func (a *overlayApp) rebuildRecentMenu() {
	if a.recentSub == nil {
		return
	}
	a.recentSub.Items = nil
	if a.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		entries, err := a.history.Recent(ctx)
		cancel()
		if err == nil {
			for _, e := range entries {
				path := e.Path
				a.recentSub.Items = append(a.recentSub.Items,
					fyne.NewMenuItem(filepath.Base(path), func() { a.open(path) }))
			}
		}
	}
	if len(a.recentSub.Items) == 0 {
		item := fyne.NewMenuItem("(empty)", nil)
		item.Disabled = true
		a.recentSub.Items = append(a.recentSub.Items, item)
	}
	a.recentSub.Refresh()
}

func (a *overlayApp) installShortcuts() {
	c := a.win.Canvas()
	ctrl := func(k fyne.KeyName, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: k, Modifier: fyne.KeyModifierControl},
			func(fyne.Shortcut) { fn() })
	}
	ctrl(fyne.KeyN, func() { a.mgr.NewProject() })
	ctrl(fyne.KeyO, a.openDialog)
	ctrl(fyne.KeyS, func() { a.save(a.mgr.ProjectPath()) })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift},
		func(fyne.Shortcut) { a.saveAsDialog() })
	ctrl(fyne.KeyD, func() {
		if f := a.mgr.Selected(); f != nil {
			a.mgr.DuplicateFrame(f)
		}
	})
	ctrl(fyne.KeyZ, func() { a.mgr.Undo() })
	ctrl(fyne.KeyY, func() { a.mgr.Redo() })
	ctrl(fyne.KeyE, func() { a.exportDialog(".png") })

	shiftArrow := func(k fyne.KeyName, dir drag.Direction) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: k, Modifier: fyne.KeyModifierShift},
			func(fyne.Shortcut) { a.mgr.NudgeSelected(dir, true) })
	}
	shiftArrow(fyne.KeyUp, drag.Up)
	shiftArrow(fyne.KeyDown, drag.Down)
	shiftArrow(fyne.KeyLeft, drag.Left)
	shiftArrow(fyne.KeyRight, drag.Right)

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyUp:
			a.mgr.NudgeSelected(drag.Up, false)
		case fyne.KeyDown:
			a.mgr.NudgeSelected(drag.Down, false)
		case fyne.KeyLeft:
			a.mgr.NudgeSelected(drag.Left, false)
		case fyne.KeyRight:
			a.mgr.NudgeSelected(drag.Right, false)
		case fyne.KeyDelete:
			if f := a.mgr.Selected(); f != nil {
				a.mgr.DeleteFrame(f)
			}
		}
	})
}

// --- dialogs ---

func (a *overlayApp) renameFrameDialog(f *frame.Frame) {
	entry := widget.NewEntry()
	entry.SetText(f.Title)
	dialog.ShowForm("Rename Frame", "Rename", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Title", entry)},
		func(ok bool) {
			if ok && entry.Text != "" {
				a.mgr.SetTitle(f, entry.Text)
			}
		}, a.win)
}

func (a *overlayApp) openDialog() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		a.open(path)
	}, a.win)
	fd.SetFilter(fstorage.NewExtensionFileFilter([]string{storage.FileExt}))
	fd.Show()
}

func (a *overlayApp) open(path string) {
	if err := a.mgr.Open(path); err != nil {
		var verr *storage.ValidationError
		if errors.As(err, &verr) {
			dialog.ShowError(fmt.Errorf("%s is not a valid Dimensio project: %s", filepath.Base(path), verr.Reason), a.win)
		} else {
			dialog.ShowError(err, a.win)
		}
		return
	}
	a.touchHistory(path)
	a.status.SetText(fmt.Sprintf("Opened %s", filepath.Base(path)))
	telemetry.Event(telemetry.EventProjectOpen, telemetry.ProjectProps(len(a.mgr.Frames())))
}

func (a *overlayApp) save(path string) {
	if path == "" {
		a.saveAsDialog()
		return
	}
	written, err := a.mgr.Save(path)
	if err != nil {
		if errors.Is(err, manager.ErrNothingToSave) {
			dialog.ShowInformation("Nothing to save", "The project has no frames.", a.win)
		} else {
			dialog.ShowError(err, a.win)
		}
		return
	}
	a.touchHistory(written)
	a.status.SetText(fmt.Sprintf("Saved %s", filepath.Base(written)))
	telemetry.Event(telemetry.EventProjectSave, telemetry.ProjectProps(len(a.mgr.Frames())))
}

func (a *overlayApp) saveAsDialog() {
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()
		a.save(storage.NormalizePath(path))
	}, a.win)
	fd.SetFileName("layout" + storage.FileExt)
	fd.SetFilter(fstorage.NewExtensionFileFilter([]string{storage.FileExt}))
	fd.Show()
}

func (a *overlayApp) exportDialog(ext string) {
	if len(a.mgr.Frames()) == 0 {
		dialog.ShowInformation("Nothing to export", "The project has no frames.", a.win)
		return
	}
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()
		var exErr error
		if ext == ".pdf" {
			exErr = export.BlueprintPDF(a.mgr.Frames(), path)
		} else {
			exErr = export.BlueprintPNG(a.mgr.Frames(), path)
		}
		if exErr != nil {
			dialog.ShowError(exErr, a.win)
			return
		}
		a.status.SetText(fmt.Sprintf("Exported %s", filepath.Base(path)))
		telemetry.Event(telemetry.EventBlueprintExport, telemetry.ExportProps(ext, len(a.mgr.Frames())))
	}, a.win)
	fd.SetFileName(filepath.Base(export.DefaultPath(ext)))
	fd.Show()
}

func (a *overlayApp) touchHistory(path string) {
	if a.history == nil || path == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.history.Touch(ctx, path, len(a.mgr.Frames())); err != nil {
		a.log.Warn("history touch failed", slog.Any("err", err))
	}
	a.rebuildRecentMenu()
}

// --- sidebar input handling ---

func (a *overlayApp) submitDimension(axis drag.Axis, s string) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return
	}
	a.mgr.SetDimension(axis, v)
}

func (a *overlayApp) submitRadii() {
	f := a.mgr.Selected()
	if f == nil {
		return
	}
	parse := func(e *widget.Entry) int {
		v, err := strconv.Atoi(strings.TrimSpace(e.Text))
		if err != nil || v < 0 {
			return 0
		}
		return v
	}
	r := frame.Radii{
		TL: parse(a.radiusIn[0]),
		TR: parse(a.radiusIn[1]),
		BL: parse(a.radiusIn[2]),
		BR: parse(a.radiusIn[3]),
	}
	if a.mgr.Workspace().RadiusCurve {
		r.TR, r.BL, r.BR = r.TL, r.TL, r.TL
	}
	a.mgr.SetRadii(r)
}

func (a *overlayApp) updateSpacing(cursor geometry.Pt) {
	gaps := a.mgr.UpdateSpacing(cursor)
	a.spacingLayer.RemoveAll()
	for _, g := range gaps {
		for _, o := range spacingObjects(g) {
			a.spacingLayer.Add(o)
		}
	}
	a.spacingLayer.Refresh()
}

func (a *overlayApp) clearSpacing() {
	a.spacingLayer.RemoveAll()
	a.spacingLayer.Refresh()
}

// --- manager.Listener ---

func (a *overlayApp) FramesChanged() {
	a.listRows = a.mgr.Frames()

	seen := map[string]bool{}
	for _, f := range a.listRows {
		seen[f.ID] = true
		w, ok := a.widgets[f.ID]
		if !ok {
			w = newFrameWidget(a, f)
			a.widgets[f.ID] = w
			a.frameLayer.Add(w)
			w.syncGeometry()
		}
		if f.Visible {
			w.Show()
		} else {
			w.Hide()
		}
		w.Refresh()
	}
	for id, w := range a.widgets {
		if !seen[id] {
			a.frameLayer.Remove(w)
			delete(a.widgets, id)
		}
	}
	a.list.Refresh()
	if sel := a.mgr.Selected(); sel != nil {
		for i, f := range a.listRows {
			if f == sel {
				a.list.Select(i)
				break
			}
		}
	} else {
		a.list.UnselectAll()
	}
}

func (a *overlayApp) SelectionChanged(f *frame.Frame) {
	a.syncing = true
	defer func() { a.syncing = false }()
	if f == nil {
		a.widthIn.SetText("")
		a.heightIn.SetText("")
		for _, e := range a.radiusIn {
			e.SetText("")
		}
		return
	}
	a.widthIn.SetText(strconv.Itoa(f.Rect.Width))
	a.heightIn.SetText(strconv.Itoa(f.Rect.Height))
	a.radiusIn[0].SetText(strconv.Itoa(f.Radii.TL))
	a.radiusIn[1].SetText(strconv.Itoa(f.Radii.TR))
	a.radiusIn[2].SetText(strconv.Itoa(f.Radii.BL))
	a.radiusIn[3].SetText(strconv.Itoa(f.Radii.BR))
	for _, w := range a.widgets {
		w.Refresh()
	}
}

func (a *overlayApp) GeometryChanged(f *frame.Frame) {
	if w, ok := a.widgets[f.ID]; ok {
		w.syncGeometry()
	}
	if a.mgr.Selected() == f && !a.syncing {
		a.syncing = true
		a.widthIn.SetText(strconv.Itoa(f.Rect.Width))
		a.heightIn.SetText(strconv.Itoa(f.Rect.Height))
		a.syncing = false
	}
}

func (a *overlayApp) ProjectChanged(name string, dirty bool) {
	if dirty {
		name += " *"
	}
	a.title.SetText(name)
	a.win.SetTitle("Dimensio - " + name)
}

// GuidesChanged may fire from the tracker's auto-hide timer goroutine, so it
// marshals onto the UI thread.
func (a *overlayApp) GuidesChanged(gs []guides.Guide) {
	fyne.Do(func() {
		a.guideLayer.RemoveAll()
		for _, g := range gs {
			a.guideLayer.Add(guideLine(g))
		}
		a.guideLayer.Refresh()
	})
}
