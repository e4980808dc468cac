package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// logExport is the document written by the history and bookmarks commands
type logExport struct {
	Name    string   `json:"name" yaml:"name"`
	Path    string   `json:"path" yaml:"path"`
	Entries []string `json:"entries" yaml:"entries"`
}

// Exporter writes a log in one format
type Exporter interface {
	Export(doc logExport, w io.Writer) error
}

// NewExporter returns the exporter for format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "", "text":
		return textExporter{}, nil
	case "json":
		return jsonExporter{}, nil
	case "yaml":
		return yamlExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

// textExporter prints one entry per line, like the log file itself
type textExporter struct{}

func (textExporter) Export(doc logExport, w io.Writer) error {
	for _, entry := range doc.Entries {
		if _, err := fmt.Fprintln(w, entry); err != nil {
			return err
		}
	}
	return nil
}

type jsonExporter struct{}

func (jsonExporter) Export(doc logExport, w io.Writer) error {
	if doc.Entries == nil {
		doc.Entries = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

type yamlExporter struct{}

func (yamlExporter) Export(doc logExport, w io.Writer) error {
	if doc.Entries == nil {
		doc.Entries = []string{}
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
