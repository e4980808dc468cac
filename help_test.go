package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeysMarkdown(t *testing.T) {
	md := keysMarkdown(DefaultKeyMap())

	for _, key := range []string{"`o`", "`b`", "`:`", "`esc`", "`ctrl+t`", "`ctrl+w`", "`ctrl+left`"} {
		assert.Contains(t, md, key)
	}
	assert.Contains(t, md, "`:q`, `:cmd q`")
	assert.Contains(t, md, "`:clear_history`, `:cmd clear_history`")
	assert.Contains(t, md, "`:open <url or words>`")
	assert.Contains(t, md, "`:bookmark`")

	// One table row per binding plus the header rows
	keyTable := strings.Split(md, "## Commands")[0]
	assert.Equal(t, len(DefaultKeyMap())+2, strings.Count(keyTable, "\n|"))
}

func TestRenderKeysFallsBackToWidth(t *testing.T) {
	out := renderKeys(DefaultKeyMap(), 0)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "sbrowser")
}
