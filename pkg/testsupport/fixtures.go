package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metafields/pkg/meta"
)

// MustDescriptors builds descriptors from opts, failing the test on the first
// invalid declaration.
func MustDescriptors(t *testing.T, opts ...meta.Options) []meta.Descriptor {
	t.Helper()
	out := make([]meta.Descriptor, 0, len(opts))
	for _, o := range opts {
		d, err := meta.New(o)
		if err != nil {
			t.Fatalf("descriptor %q: %v", o.Key, err)
		}
		out = append(out, d)
	}
	return out
}

// SettingsFixture returns the plugin settings used across component tests:
// a toggle, a bounded integer, a select and a REST-hidden secret.
func SettingsFixture(t *testing.T) []meta.Descriptor {
	t.Helper()
	return MustDescriptors(t,
		meta.Options{Key: "enable_projects", DataType: meta.DataTypeBoolean, Default: true, Description: "Enable the <em>projects</em> archive"},
		meta.Options{Key: "projects_per_page", DataType: meta.DataTypeInteger, Default: 10},
		meta.Options{
			Key:     "archive_layout",
			Default: "grid",
			Options: meta.Choices{{Value: "grid", Label: "Grid"}, {Value: "list", Label: "List"}},
		},
		meta.Options{Key: "private_key", ShowInRest: meta.Bool(false)},
	)
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
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
