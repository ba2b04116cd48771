/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the
// user scope. Environment variables are read-only overrides at runtime.
//
// Workspace holds the process-wide frame settings. It is an explicit struct
// owned by the frame manager and passed into constructors; there is no ambient
// global settings store.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// WorkspaceConfig are the toggles broadcast to every frame and persisted
// across runs.
type WorkspaceConfig struct {
	RadiusCurve   bool `yaml:"radius_curve"`
	FillFrame     bool `yaml:"fill_frame"`
	ShowFrameName bool `yaml:"show_frame_name"`
	ShowFrameSize bool `yaml:"show_frame_size"`
	Screenshot    bool `yaml:"screenshot"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	General       GeneralConfig   `yaml:"general"`
	Logging       LoggingConfig   `yaml:"logging"`
	Workspace     WorkspaceConfig `yaml:"workspace"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Workspace: WorkspaceConfig{
			RadiusCurve:   false,
			FillFrame:     true,
			ShowFrameName: true,
			ShowFrameSize: true,
			Screenshot:    false,
		},
	}
}

// Env var names used as overrides.
const (
	EnvTelemetryOptIn = "DIM_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "DIM_LOG_LEVEL"
	EnvLogFormat = "DIM_LOG_FORMAT"
	EnvLogSource = "DIM_LOG_SOURCE"
	EnvLogFile   = "DIM_LOG_FILE"
)

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Dimensio")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Dimensio")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "dimensio")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// fileConfig mirrors AppConfig with pointer sections so an absent section in a
// hand-edited file is distinguishable from one full of zero values and keeps
// the defaults.
type fileConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	General       *GeneralConfig   `yaml:"general"`
	Logging       *LoggingConfig   `yaml:"logging"`
	Workspace     *WorkspaceConfig `yaml:"workspace"`
}

func mergeInto(dst *AppConfig, src *fileConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General != nil {
		if src.General.Theme != "" {
			dst.General.Theme = src.General.Theme
		}
		// booleans: copy directly from src (file) so user preferences persist
		dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	}
	if src.Workspace != nil {
		dst.Workspace = *src.Workspace
	}
	if src.Logging != nil {
		if strings.TrimSpace(src.Logging.Level) != "" {
			dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
		}
		if strings.TrimSpace(src.Logging.Format) != "" {
			dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
		}
		dst.Logging.Source = src.Logging.Source
		if strings.TrimSpace(src.Logging.File) != "" {
			dst.Logging.File = strings.TrimSpace(src.Logging.File)
		}
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		lv := strings.ToLower(v)
		cfg.General.TelemetryOptIn = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
