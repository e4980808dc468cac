package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	koanfjson "github.com/knadh/koanf/parsers/json"
	koanftoml "github.com/knadh/koanf/parsers/toml/v2"
	koanfenv "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

const envPrefix = "SBROWSER_"

// Settings is the user configuration read from sbrowser_config.json
type Settings struct {
	Home         string `koanf:"home"`
	SearchEngine string `koanf:"search_engine"`
	DownloadDir  string `koanf:"download_dir"`

	// Colors are 3-element RGB sequences
	Window    []int `koanf:"window"`
	EntryBG   []int `koanf:"entry_bg"`
	EntryText []int `koanf:"entry_text"`
	TabBG     []int `koanf:"tab_bg"`

	// StrictScheme classifies targets by URL scheme instead of the
	// "http" substring check.
	StrictScheme   bool   `koanf:"strict_scheme"`
	RestoreSession bool   `koanf:"restore_session"`
	LogLevel       string `koanf:"log_level"`
}

// ConfigError is returned when the settings file is missing or malformed.
// It is fatal at startup.
type ConfigError struct {
	Path string
	Op   string // "open", "parse", "validate"
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadSettings reads the settings file at path, applies SBROWSER_ environment
// overrides and validates the result.
func LoadSettings(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ConfigError{Path: path, Op: "open", Err: err}
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, &ConfigError{Path: path, Op: "parse", Err: err}
	}

	// SBROWSER_SEARCH_ENGINE overrides "search_engine". Keys are flat, so the
	// underscores are kept.
	if err := k.Load(koanfenv.Provider(".", koanfenv.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		slog.Warn("failed to load environment overrides", "error", err)
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, &ConfigError{Path: path, Op: "parse", Err: fmt.Errorf("failed to unmarshal config: %w", err)}
	}

	if err := settings.validate(); err != nil {
		return nil, &ConfigError{Path: path, Op: "validate", Err: err}
	}
	return &settings, nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return koanftoml.Parser()
	}
	return koanfjson.Parser()
}

func (s *Settings) validate() error {
	if strings.TrimSpace(s.Home) == "" {
		return errors.New("missing required key \"home\"")
	}
	if strings.TrimSpace(s.SearchEngine) == "" {
		return errors.New("missing required key \"search_engine\"")
	}

	colors := []struct {
		key string
		rgb []int
	}{
		{"window", s.Window},
		{"entry_bg", s.EntryBG},
		{"entry_text", s.EntryText},
		{"tab_bg", s.TabBG},
	}
	for _, c := range colors {
		if c.rgb == nil {
			continue
		}
		if len(c.rgb) != 3 {
			return fmt.Errorf("%q must have 3 components, got %d", c.key, len(c.rgb))
		}
		for _, v := range c.rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("%q component %d out of range 0-255", c.key, v)
			}
		}
	}
	return nil
}

// HomeLocation resolves the home setting. Local html pages live in the
// config directory.
func (s *Settings) HomeLocation(configDir string) string {
	if strings.Contains(s.Home, ".html") {
		abs, err := filepath.Abs(filepath.Join(configDir, s.Home))
		if err != nil {
			abs = filepath.Join(configDir, s.Home)
		}
		return "file://" + filepath.ToSlash(abs)
	}
	return s.Home
}

// SettingsSource supplies the current settings and re-reads them on demand
type SettingsSource interface {
	Settings() *Settings
	Reload() error
}

// FileSettings is a SettingsSource backed by the settings file
type FileSettings struct {
	path    string
	mu      sync.RWMutex
	current *Settings
}

// NewFileSettings loads the settings file once. A failure here is fatal.
func NewFileSettings(path string) (*FileSettings, error) {
	settings, err := LoadSettings(path)
	if err != nil {
		return nil, err
	}
	return &FileSettings{path: path, current: settings}, nil
}

// Settings returns the last successfully loaded settings
func (f *FileSettings) Settings() *Settings {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Reload re-reads the file. On failure the previous settings stay in place.
func (f *FileSettings) Reload() error {
	settings, err := LoadSettings(f.path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.current = settings
	f.mu.Unlock()
	return nil
}

// Path returns the settings file location
func (f *FileSettings) Path() string {
	return f.path
}

// isMissingConfig reports whether err is a settings file that does not exist
func isMissingConfig(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr) && cfgErr.Op == "open" && errors.Is(err, fs.ErrNotExist)
}
