package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/schema"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, schema.Record, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "ant"})
	reg.MustRegister(stubRenderer{name: "TUI"})

	if err := reg.Register(stubRenderer{name: "ant"}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if err := reg.Register(stubRenderer{name: " "}); err == nil {
		t.Fatal("expected empty name error")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("expected nil renderer error")
	}

	if diff := cmp.Diff([]string{"ant", "tui"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if reg.Default() != "ant" {
		t.Fatalf("default = %q, want ant", reg.Default())
	}

	got, err := reg.Get("")
	if err != nil || got.Name() != "ant" {
		t.Fatalf("default lookup: %v %v", got, err)
	}
	if got, err := reg.Get(" Tui "); err != nil || got.Name() != "TUI" {
		t.Fatalf("case-insensitive lookup: %v %v", got, err)
	}
	if _, err := reg.Get("preact"); !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
}
