// Package testutil provides helpers for building component trees in tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Reviewer is an authorized reviewer in the embedded release schema.
const Reviewer = "release.engineering@pipeline-tools.dev"

// Document is a release.json document under construction.
type Document map[string]any

// ValidDocument returns a release document that passes the embedded schema
// for the given component and version.
func ValidDocument(component, version string) Document {
	return Document{
		"component":   component,
		"version":     version,
		"released_by": "builder@pipeline-tools.dev",
		"released_at": "2026-10-01",
		"peer_review": map[string]any{
			"reviewer":    Reviewer,
			"outcome":     "approved",
			"reviewed_at": "2026-09-30",
		},
	}
}

// Without returns a copy of d with the given top-level keys removed.
func (d Document) Without(keys ...string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// With returns a copy of d with key set to value.
func (d Document) With(key string, value any) Document {
	out := d.Without()
	out[key] = value
	return out
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// MkdirAll creates a directory below root and returns its path.
func MkdirAll(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
	return path
}

// WriteRelease creates <root>/<component>/<version>/ and, when doc is not nil,
// a release.json inside it. Returns the release folder path.
func WriteRelease(t *testing.T, root, component, version string, doc Document) string {
	t.Helper()
	dir := MkdirAll(t, root, component, version)
	if doc == nil {
		return dir
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode release document: %v", err)
	}
	WriteFile(t, dir, "release.json", string(data)+"\n")
	return dir
}

// WriteValidRelease writes a release whose document passes the embedded schema.
func WriteValidRelease(t *testing.T, root, component, version string) string {
	t.Helper()
	return WriteRelease(t, root, component, version, ValidDocument(component, version))
}

// WriteRawRelease writes a release whose release.json holds content verbatim.
func WriteRawRelease(t *testing.T, root, component, version, content string) string {
	t.Helper()
	dir := MkdirAll(t, root, component, version)
	WriteFile(t, dir, "release.json", content)
	return dir
}
