package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func setHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("AppData", dir)
	default:
		t.Setenv("HOME", dir)
	}
	return dir
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ConfigVersion != 1 {
		t.Fatalf("config version: %d", cfg.ConfigVersion)
	}
	if cfg.General.TelemetryOptIn {
		t.Fatal("telemetry must default to off")
	}
	ws := cfg.Workspace
	if ws.RadiusCurve || !ws.FillFrame || !ws.ShowFrameName || !ws.ShowFrameSize || ws.Screenshot {
		t.Fatalf("workspace defaults: %+v", ws)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	setHome(t)

	cfg := Defaults()
	cfg.General.Theme = "dark"
	cfg.Workspace.FillFrame = false
	cfg.Workspace.RadiusCurve = true
	cfg.Logging.Level = "debug"
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.General.Theme != "dark" {
		t.Fatalf("theme: %q", got.General.Theme)
	}
	if got.Workspace.FillFrame || !got.Workspace.RadiusCurve {
		t.Fatalf("workspace not persisted: %+v", got.Workspace)
	}
	if got.Logging.Level != "debug" {
		t.Fatalf("logging level: %q", got.Logging.Level)
	}
}

func TestLoadPartialFileKeepsSectionDefaults(t *testing.T) {
	setHome(t)
	// A hand-edited file with only the logging section must not wipe the
	// workspace or general defaults.
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Logging.Level != "debug" {
		t.Fatalf("logging level: %q", got.Logging.Level)
	}
	if got.Workspace != Defaults().Workspace {
		t.Fatalf("missing workspace section wiped the defaults: %+v", got.Workspace)
	}
	if got.General != Defaults().General {
		t.Fatalf("missing general section wiped the defaults: %+v", got.General)
	}
}

func TestLoadWithoutFileYieldsDefaults(t *testing.T) {
	setHome(t)
	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	setHome(t)
	t.Setenv(EnvTelemetryOptIn, "true")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvLogFile, "/tmp/dim.log")

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.General.TelemetryOptIn {
		t.Fatal("env opt-in ignored")
	}
	if got.Logging.Level != "warn" {
		t.Fatalf("env level: %q", got.Logging.Level)
	}
	if got.Logging.File != "/tmp/dim.log" {
		t.Fatalf("env file: %q", got.Logging.File)
	}
}

func TestEnvOverrideFor(t *testing.T) {
	t.Setenv(EnvLogFormat, "json")
	if name, ok := EnvOverrideFor("logging.format"); !ok || name != EnvLogFormat {
		t.Fatalf("expected override report, got %q %v", name, ok)
	}
	os.Unsetenv(EnvLogFormat)
	if _, ok := EnvOverrideFor("logging.format"); ok {
		t.Fatal("override reported without env var set")
	}
}

func TestPathIsUnderUserScope(t *testing.T) {
	home := setHome(t)
	p, err := Path()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if filepath.Base(p) != "config.yaml" {
		t.Fatalf("file name: %s", p)
	}
	rel, err := filepath.Rel(home, p)
	if err != nil || rel == "" || rel[0] == '.' && len(rel) > 1 && rel[1] == '.' {
		t.Fatalf("config path %s not under user scope %s", p, home)
	}
}
