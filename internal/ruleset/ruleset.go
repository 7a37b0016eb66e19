// Package ruleset loads an engine.Ruleset from a JSON file, the way the
// teacher's internal/config.Loader loads any other JSON-backed
// configuration: a thin wrapper over encoding/json and os, with no schema
// validation library, matching the stdlib-first style the teacher uses for
// configuration (spec.md glossary: "Ruleset: an external module defining
// constants").
package ruleset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/opd-ai/monbattle/internal/engine"
)

// Loader reads Ruleset JSON documents from a base directory.
type Loader struct {
	basePath string
}

// New creates a Loader rooted at basePath.
func New(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// document is the on-disk shape; TimeoutSeconds is stored as a plain number
// of seconds rather than a Go duration string, so the file stays readable
// by non-Go tooling that might generate it.
type document struct {
	TeamSize        int `json:"team_size"`
	TimeoutSeconds  int `json:"timeout_seconds"`
	NumActiveSlots  int `json:"num_active_slots"`
}

// Load reads filename (relative to the loader's base path) and returns the
// decoded Ruleset. Zero or missing NumActiveSlots defaults to 1 (1v1).
func (l *Loader) Load(filename string) (engine.Ruleset, error) {
	fullPath := filepath.Join(l.basePath, filename)

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return engine.Ruleset{}, fmt.Errorf("ruleset: read %s: %w", fullPath, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return engine.Ruleset{}, fmt.Errorf("ruleset: parse %s: %w", fullPath, err)
	}

	if doc.NumActiveSlots <= 0 {
		doc.NumActiveSlots = 1
	}
	if doc.TeamSize <= 0 {
		return engine.Ruleset{}, fmt.Errorf("ruleset: %s: team_size must be positive", fullPath)
	}
	if doc.TimeoutSeconds <= 0 {
		return engine.Ruleset{}, fmt.Errorf("ruleset: %s: timeout_seconds must be positive", fullPath)
	}

	return engine.Ruleset{
		TeamSize:        doc.TeamSize,
		TimeoutDuration: time.Duration(doc.TimeoutSeconds) * time.Second,
		NumActiveSlots:  doc.NumActiveSlots,
	}, nil
}

// Save writes rs to filename under the loader's base path, creating the
// directory if needed — the mirror of the teacher's Loader.SaveJSON.
func (l *Loader) Save(filename string, rs engine.Ruleset) error {
	fullPath := filepath.Join(l.basePath, filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("ruleset: create dir for %s: %w", fullPath, err)
	}

	doc := document{
		TeamSize:       rs.TeamSize,
		TimeoutSeconds: int(rs.TimeoutDuration / time.Second),
		NumActiveSlots: rs.NumActiveSlots,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("ruleset: marshal: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("ruleset: write %s: %w", fullPath, err)
	}
	return nil
}
