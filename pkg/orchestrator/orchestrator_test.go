package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cmdform/pkg/orchestrator"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/schema"
)

type stubRenderer struct {
	name string
	last schema.Record
	opts render.RenderOptions
}

func (s *stubRenderer) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubRenderer) ContentType() string { return "text/plain" }

func (s *stubRenderer) Render(_ context.Context, record schema.Record, opts render.RenderOptions) ([]byte, error) {
	s.last = record
	s.opts = opts
	return []byte(record.Command + "/" + record.Operation), nil
}

func stubOrchestrator(t *testing.T, opts ...orchestrator.Option) (*orchestrator.Orchestrator, *stubRenderer) {
	t.Helper()
	renderer := &stubRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	base := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
	}
	return orchestrator.New(append(base, opts...)...), renderer
}

func TestGenerate_DefaultsToAntHTML(t *testing.T) {
	out, err := orchestrator.New().Generate(context.Background(), orchestrator.Request{
		Command:   "organization",
		Operation: "leave",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{`name="orgid"`, `id="result"`, `class="ant-input"`} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerate_DecoratesLegacyKinds(t *testing.T) {
	orch, renderer := stubOrchestrator(t)
	_, err := orch.Generate(context.Background(), orchestrator.Request{
		Record: &schema.Record{
			Command: "x", Operation: "y",
			Fields: []schema.Field{
				{Name: "app_list", Descriptor: schema.Descriptor{Placeholder: "apps"}},
				{Name: "is_ca", Descriptor: schema.Descriptor{Placeholder: "ca"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	got := []schema.Kind{renderer.last.Fields[0].Descriptor.Kind, renderer.last.Fields[1].Descriptor.Kind}
	want := []schema.Kind{schema.KindList, schema.KindCheckbox}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_UnknownCommand(t *testing.T) {
	orch, renderer := stubOrchestrator(t)
	out, err := orch.Generate(context.Background(), orchestrator.Request{Command: "nope", Operation: "x"})
	if err != nil {
		t.Fatalf("lenient generate: %v", err)
	}
	if string(out) != "nope/x" || !renderer.last.Empty() {
		t.Errorf("expected empty record carrying the selection, got %q %#v", out, renderer.last)
	}

	_, err = orch.Generate(context.Background(), orchestrator.Request{Command: "nope", Operation: "x", Strict: true})
	if !errors.Is(err, orchestrator.ErrUnknownCommand) {
		t.Errorf("strict err = %v, want ErrUnknownCommand", err)
	}
}

func TestGenerate_AppliesTransformer(t *testing.T) {
	called := false
	orch, renderer := stubOrchestrator(t, orchestrator.WithSchemaTransformer(
		orchestrator.TransformerFunc(func(_ context.Context, record *schema.Record) error {
			called = true
			record.Title = "patched"
			return nil
		}),
	))
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Command: "sign", Operation: "any"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !called || renderer.last.Title != "patched" {
		t.Errorf("transformer not applied: %#v", renderer.last)
	}
}

func TestGenerate_TransformerError(t *testing.T) {
	boom := errors.New("boom")
	orch, _ := stubOrchestrator(t, orchestrator.WithSchemaTransformer(
		orchestrator.TransformerFunc(func(context.Context, *schema.Record) error { return boom }),
	))
	_, err := orch.Generate(context.Background(), orchestrator.Request{Command: "sign"})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestGenerate_UnknownRenderer(t *testing.T) {
	orch, _ := stubOrchestrator(t)
	_, err := orch.Generate(context.Background(), orchestrator.Request{Command: "sign", Renderer: "missing"})
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Errorf("err = %v, want ErrUnknownRenderer", err)
	}
}

func TestGenerate_PassesRenderOptions(t *testing.T) {
	orch, renderer := stubOrchestrator(t)
	opts := render.RenderOptions{Action: "/cmdlist", Values: map[string]string{"orgid": "a"}}
	if _, err := orch.Generate(context.Background(), orchestrator.Request{
		Command: "organization", Operation: "leave", RenderOptions: opts,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff(opts, renderer.opts); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	orch, _ := stubOrchestrator(t)
	if _, err := orch.Generate(ctx, orchestrator.Request{Command: "sign"}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestJSONPresetTransformer(t *testing.T) {
	fsys := fstest.MapFS{"preset.json": {Data: []byte(`{
		"organization/leave": {
			"title": "Leave",
			"help": "<b>careful</b><script>x</script>",
			"fields": {"orgid": {"placeholder": "org to leave", "kind": "list"}}
		},
		"sign/*": {"title": "Sign anything"}
	}`)}}
	preset, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}
	orch, renderer := stubOrchestrator(t, orchestrator.WithSchemaTransformer(preset))

	if _, err := orch.Generate(context.Background(), orchestrator.Request{Command: "organization", Operation: "leave"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	orgid, _ := renderer.last.Field("orgid")
	if renderer.last.Title != "Leave" || orgid.Descriptor.Placeholder != "org to leave" || orgid.Descriptor.Kind != schema.KindList {
		t.Errorf("patch not applied: %#v", renderer.last)
	}
	if strings.Contains(renderer.last.Help, "<script>") || !strings.Contains(renderer.last.Help, "<b>careful</b>") {
		t.Errorf("help not sanitised: %q", renderer.last.Help)
	}

	if _, err := orch.Generate(context.Background(), orchestrator.Request{Command: "sign", Operation: "now"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.last.Title != "Sign anything" {
		t.Errorf("wildcard patch not applied: %q", renderer.last.Title)
	}
}

func TestJSONPresetTransformer_Errors(t *testing.T) {
	if _, err := orchestrator.NewJSONPresetTransformer(nil); err == nil {
		t.Error("expected error for empty document")
	}
	if _, err := orchestrator.NewJSONPresetTransformer([]byte(`{"a/b": {"fields": {"x": {"kind": "slider"}}}}`)); err == nil {
		t.Error("expected error for unknown kind")
	}

	preset, err := orchestrator.NewJSONPresetTransformer([]byte(`{"organization/leave": {"fields": {"ghost": {"placeholder": "?"}}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	orch, _ := stubOrchestrator(t, orchestrator.WithSchemaTransformer(preset))
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Command: "organization", Operation: "leave"}); err == nil {
		t.Error("expected error for unknown field")
	}
}
