package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	githubOwner = "afittestide"
	githubRepo  = "sbrowser"
)

// parseVersion parses a version string, handling "v" prefix
func parseVersion(v string) (semver.Version, error) {
	v = strings.TrimPrefix(v, "v")
	return semver.Parse(v)
}

func releaseSlug() string {
	return fmt.Sprintf("%s/%s", githubOwner, githubRepo)
}

// CheckForUpdates checks if a newer version is available on GitHub
func CheckForUpdates(currentVersion string) (*selfupdate.Release, bool, error) {
	current, err := parseVersion(currentVersion)
	if err != nil {
		return nil, false, fmt.Errorf("invalid current version: %w", err)
	}

	latest, found, err := selfupdate.DetectLatest(releaseSlug())
	if err != nil {
		return nil, false, fmt.Errorf("failed to detect latest version: %w", err)
	}
	if !found {
		return nil, false, fmt.Errorf("no release found")
	}

	if latest.Version.LTE(current) {
		slog.Debug("current version is up to date", "current", currentVersion, "latest", latest.Version)
		return latest, false, nil
	}
	return latest, true, nil
}

// SelfUpdate replaces the running binary with the latest release
func SelfUpdate(currentVersion string) (semver.Version, error) {
	current, err := parseVersion(currentVersion)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid current version: %w", err)
	}

	latest, err := selfupdate.UpdateSelf(current, releaseSlug())
	if err != nil {
		return semver.Version{}, fmt.Errorf("failed to update: %w", err)
	}

	if latest.Version.Equals(current) {
		slog.Info("already up to date", "version", currentVersion)
		return current, nil
	}

	slog.Info("successfully updated", "from", currentVersion, "to", latest.Version)
	return latest.Version, nil
}
