// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

// MustReadFixture reads a fixture file and returns its raw bytes.
func MustReadFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// MustLoadRegistry returns the built-in registry extended with the overlay
// fixtures at paths, with every widget kind resolved.
func MustLoadRegistry(t *testing.T, paths ...string) *schema.Registry {
	t.Helper()

	registry := schema.NewRegistry()
	for _, path := range paths {
		records, err := schema.ParseOverlay(MustReadFixture(t, path))
		if err != nil {
			t.Fatalf("parse overlay %s: %v", path, err)
		}
		if err := registry.Register(records...); err != nil {
			t.Fatalf("register overlay %s: %v", path, err)
		}
	}
	registry.Apply(widgets.NewRegistry().Decorate)
	return registry
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
