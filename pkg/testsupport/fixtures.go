// Package testsupport holds helpers shared by package tests: layout and
// record fixtures, golden files, and template output capture.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/record"
)

// MustLoadLayout parses a layout fixture, failing the test on error.
func MustLoadLayout(t *testing.T, path string) layout.Screen {
	t.Helper()

	screen, err := layout.LoadFile(path)
	if err != nil {
		t.Fatalf("load layout %s: %v", path, err)
	}
	return screen
}

// MustDefaultLayout returns the embedded match layout.
func MustDefaultLayout(t *testing.T) layout.Screen {
	t.Helper()

	screen, err := layout.Default()
	if err != nil {
		t.Fatalf("default layout: %v", err)
	}
	return screen
}

// MustReadRecord decodes a stored record fixture.
func MustReadRecord(t *testing.T, path string) record.Record {
	t.Helper()

	rec, err := record.FromRecord(MustReadGolden(t, path))
	if err != nil {
		t.Fatalf("decode record %s: %v", path, err)
	}
	return rec
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
