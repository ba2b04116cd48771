/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dimensio/internal/config"
	"dimensio/internal/crash"
	"dimensio/internal/export"
	"dimensio/internal/frame"
	applog "dimensio/internal/log"
	"dimensio/internal/storage"
	"dimensio/internal/ui"
	"dimensio/internal/version"
)

func usage() {
	fmt.Println("Dimensio — screen measurement frames for designers")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dimensio version|-v|--version             Show version")
	fmt.Println("  dimensio new <file.dio>                   Create a project file with one default frame")
	fmt.Println("  dimensio info <file.dio>                  Validate a project file and print a summary")
	fmt.Println("  dimensio export <file.dio> <out.png|pdf>  Render a blueprint without opening the UI")
	fmt.Println("  dimensio open <file.dio>                  Launch desktop UI with the given project")
	fmt.Println("  dimensio ui [<file.dio>]                  Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	reportDir := ""
	if p, err := config.Path(); err == nil {
		reportDir = filepath.Dir(p)
	}
	defer crash.Recover(reportDir, nil)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Dimensio — screen measurement frames for designers")
			fmt.Println(version.String())
			return
		case "new":
			if len(args) < 3 {
				fmt.Println("new requires <file.dio>")
				usage()
				os.Exit(2)
			}
			fill, border := frame.PaletteColor(0)
			f := frame.New(1, fill, border)
			written, err := storage.Save(args[2], storage.NewProject([]*frame.Frame{f}, version.Version))
			if err != nil {
				l.Error("create failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Created", written)
			return
		case "info":
			if len(args) < 3 {
				fmt.Println("info requires <file.dio>")
				usage()
				os.Exit(2)
			}
			path := storage.NormalizePath(args[2])
			l.Info("inspect project", slog.String("path", path))
			p, err := storage.Load(path)
			if err != nil {
				l.Error("load failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Project: %s\n", path)
			fmt.Printf("File version: %s (written by %s)\n", p.Version, p.AppVersion)
			fmt.Printf("Frames: %d\n", len(p.FrameRecords))
			for _, fr := range p.FrameRecords {
				fmt.Printf("  %-24s %dx%d at (%d, %d)\n", fr.Title, fr.Width, fr.Height, fr.X, fr.Y)
			}
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <file.dio> and <out.png|pdf>")
				usage()
				os.Exit(2)
			}
			inPath := storage.NormalizePath(args[2])
			outPath := args[3]
			l.Info("export blueprint", slog.String("in", inPath), slog.String("out", outPath))
			p, err := storage.Load(inPath)
			if err != nil {
				l.Error("load failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			frames, err := p.Frames()
			if err != nil {
				l.Error("load failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			switch strings.ToLower(filepath.Ext(outPath)) {
			case ".pdf":
				err = export.BlueprintPDF(frames, outPath)
			case ".png":
				err = export.BlueprintPNG(frames, outPath)
			default:
				err = fmt.Errorf("unsupported export format %q (use .png or .pdf)", filepath.Ext(outPath))
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported blueprint to", outPath)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <file.dio>")
				usage()
				os.Exit(2)
			}
			if err := ui.Run(storage.NormalizePath(args[2])); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var path string
			if len(args) >= 3 {
				path = args[2]
			}
			if err := ui.Run(path); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
