package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
		wantErr bool
	}{
		{name: "version with v prefix", version: "v0.1.0", want: "0.1.0"},
		{name: "version without v prefix", version: "0.1.0", want: "0.1.0"},
		{name: "prerelease", version: "v1.2.3-rc.1", want: "1.2.3-rc.1"},
		{name: "invalid version", version: "invalid", wantErr: true},
		{name: "empty version", version: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersion(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestReleaseSlug(t *testing.T) {
	assert.Equal(t, "afittestide/sbrowser", releaseSlug())
}

func TestCheckForUpdatesRejectsBadVersion(t *testing.T) {
	_, _, err := CheckForUpdates("not-a-version")
	assert.ErrorContains(t, err, "invalid current version")

	_, err = SelfUpdate("")
	assert.ErrorContains(t, err, "invalid current version")
}
