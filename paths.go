package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	settingsFileName = "sbrowser_config.json"
	historyFileName  = ".history"
	bookmarkFileName = ".bookmark"
)

// Paths holds every storage location. They are resolved once at startup and
// never change during a session.
type Paths struct {
	HomeDir   string
	ConfigDir string
	DataDir   string
	Settings  string
	History   string
	Bookmarks string
	Database  string
	LogFile   string
}

// ResolvePaths works out the platform specific locations. A non-empty
// settingsOverride replaces the settings file lookup.
func ResolvePaths(settingsOverride string) (Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return resolvePaths(runtime.GOOS, homeDir, settingsOverride), nil
}

func resolvePaths(goos, homeDir, settingsOverride string) Paths {
	p := Paths{HomeDir: homeDir}

	if goos == "windows" {
		// Windows keeps everything next to the working directory
		p.ConfigDir = ".config"
		p.DataDir = ".config"
		p.Settings = settingsFileName
	} else {
		p.ConfigDir = filepath.Join(homeDir, ".config", "sbrowser")
		p.DataDir = filepath.Join(homeDir, ".local", "share", "sbrowser")

		// User config wins, the working directory is the fallback
		p.Settings = filepath.Join(p.ConfigDir, settingsFileName)
		if _, err := os.Stat(p.Settings); err != nil {
			p.Settings = settingsFileName
		}
	}

	if settingsOverride != "" {
		p.Settings = settingsOverride
	}

	p.History = filepath.Join(p.ConfigDir, historyFileName)
	p.Bookmarks = filepath.Join(p.ConfigDir, bookmarkFileName)
	p.Database = filepath.Join(p.DataDir, "sbrowser.sqlite")
	p.LogFile = filepath.Join(p.DataDir, "sbrowser.log")
	return p
}
