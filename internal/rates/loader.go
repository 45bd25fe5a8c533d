package rates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDocument reads a snapshot document from a .json, .yaml, or .yml file.
func LoadDocument(path string) (Document, error) {
	var doc Document

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read rate snapshot: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("parse rate snapshot %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("parse rate snapshot %s: %w", filepath.Base(path), err)
		}
	default:
		return doc, fmt.Errorf("unsupported rate snapshot format %q (use .json, .yaml, or .yml)", filepath.Ext(path))
	}

	return doc, nil
}

// Load reads a snapshot document from a file and converts it.
func Load(path string) (*Snapshot, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}
