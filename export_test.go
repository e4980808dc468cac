package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleExport() logExport {
	return logExport{
		Name:    "history",
		Path:    "/home/me/.config/sbrowser/.history",
		Entries: []string{"https://a.com", "https://b.com"},
	}
}

func TestTextExport(t *testing.T) {
	exporter, err := NewExporter("text")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(sampleExport(), &buf))
	assert.Equal(t, "https://a.com\nhttps://b.com\n", buf.String())

	// text is the default
	exporter, err = NewExporter("")
	require.NoError(t, err)
	assert.IsType(t, textExporter{}, exporter)
}

func TestJSONExport(t *testing.T) {
	exporter, err := NewExporter("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(sampleExport(), &buf))

	var got logExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleExport(), got)
	assert.Contains(t, buf.String(), "\n  \"entries\"")
}

func TestYAMLExport(t *testing.T) {
	exporter, err := NewExporter("yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(sampleExport(), &buf))

	var got logExport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleExport(), got)
}

func TestExportEmptyEntries(t *testing.T) {
	doc := logExport{Name: "bookmarks", Path: "x"}

	var jsonBuf bytes.Buffer
	require.NoError(t, jsonExporter{}.Export(doc, &jsonBuf))
	assert.Contains(t, jsonBuf.String(), `"entries": []`)

	var yamlBuf bytes.Buffer
	require.NoError(t, yamlExporter{}.Export(doc, &yamlBuf))
	assert.Contains(t, yamlBuf.String(), "entries: []")
}

func TestUnsupportedExportFormat(t *testing.T) {
	_, err := NewExporter("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: xml")
}

func TestPrintLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bookmark")
	writeLog(t, path, "https://x.com", "https://y.com")

	var buf bytes.Buffer
	require.NoError(t, printLog(&buf, "bookmarks", path, "text"))
	assert.Equal(t, []string{"https://x.com", "https://y.com"}, strings.Fields(buf.String()))

	// A log that was never written prints nothing
	buf.Reset()
	require.NoError(t, printLog(&buf, "history", filepath.Join(t.TempDir(), ".history"), "text"))
	assert.Empty(t, buf.String())

	require.Error(t, printLog(&buf, "history", path, "csv"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestYAMLExportReportsWriteError(t *testing.T) {
	err := yamlExporter{}.Export(sampleExport(), failingWriter{})
	assert.Error(t, err)
}
