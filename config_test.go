package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validSettingsJSON = `{
	"home": "https://start.example",
	"search_engine": "https://duckduckgo.com",
	"download_dir": "/tmp/downloads",
	"window": [17, 5, 30],
	"entry_bg": [39, 29, 48],
	"tab_bg": [55, 55, 2],
	"restore_session": true
}`

func TestLoadSettingsJSON(t *testing.T) {
	path := writeSettings(t, "sbrowser_config.json", validSettingsJSON)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "https://start.example", settings.Home)
	assert.Equal(t, "https://duckduckgo.com", settings.SearchEngine)
	assert.Equal(t, "/tmp/downloads", settings.DownloadDir)
	assert.Equal(t, []int{17, 5, 30}, settings.Window)
	assert.Nil(t, settings.EntryText)
	assert.True(t, settings.RestoreSession)
	assert.False(t, settings.StrictScheme)
}

func TestLoadSettingsTOML(t *testing.T) {
	path := writeSettings(t, "sbrowser_config.toml", `
home = "https://start.example"
search_engine = "https://search.example"
strict_scheme = true
log_level = "debug"
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://search.example", settings.SearchEngine)
	assert.True(t, settings.StrictScheme)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	path := writeSettings(t, "sbrowser_config.json", validSettingsJSON)
	t.Setenv("SBROWSER_SEARCH_ENGINE", "https://override.example")

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example", settings.SearchEngine)
	assert.Equal(t, "https://start.example", settings.Home)
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantOp  string
	}{
		{name: "malformed json", content: `{"home": `, wantOp: "parse"},
		{name: "missing home", content: `{"search_engine": "https://s.example"}`, wantOp: "validate"},
		{name: "missing search engine", content: `{"home": "https://h.example"}`, wantOp: "validate"},
		{
			name:    "short color",
			content: `{"home": "h", "search_engine": "s", "window": [1, 2]}`,
			wantOp:  "validate",
		},
		{
			name:    "color out of range",
			content: `{"home": "h", "search_engine": "s", "tab_bg": [1, 2, 300]}`,
			wantOp:  "validate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, "sbrowser_config.json", tt.content)
			_, err := LoadSettings(path)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.wantOp, cfgErr.Op)
			assert.Equal(t, path, cfgErr.Path)
			assert.False(t, isMissingConfig(err))
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := LoadSettings(path)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "open", cfgErr.Op)
	assert.True(t, isMissingConfig(err))
	assert.Contains(t, err.Error(), path)
}

func TestHomeLocation(t *testing.T) {
	dir := t.TempDir()

	remote := &Settings{Home: "https://start.example"}
	assert.Equal(t, "https://start.example", remote.HomeLocation(dir))

	local := &Settings{Home: "home.html"}
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(dir, "home.html")), local.HomeLocation(dir))
}

func TestFileSettingsReload(t *testing.T) {
	path := writeSettings(t, "sbrowser_config.json", validSettingsJSON)
	fs, err := NewFileSettings(path)
	require.NoError(t, err)
	assert.Equal(t, path, fs.Path())
	assert.Equal(t, "https://duckduckgo.com", fs.Settings().SearchEngine)

	require.NoError(t, os.WriteFile(path, []byte(`{"home": "h", "search_engine": "https://new.example"}`), 0644))
	require.NoError(t, fs.Reload())
	assert.Equal(t, "https://new.example", fs.Settings().SearchEngine)

	// A broken file keeps the last good settings
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	require.Error(t, fs.Reload())
	assert.Equal(t, "https://new.example", fs.Settings().SearchEngine)
}

func TestNewFileSettingsMissing(t *testing.T) {
	_, err := NewFileSettings(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, isMissingConfig(err))
}
