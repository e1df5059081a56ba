package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

func TestResolve_ExplicitKindWins(t *testing.T) {
	reg := NewRegistry()
	got := reg.Resolve("app_list", schema.Descriptor{Kind: schema.KindInput})
	if got != schema.KindInput {
		t.Fatalf("expected explicit kind to win, got %q", got)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		expect schema.Kind
	}{
		{name: "is_ca", expect: schema.KindCheckbox},
		{name: "isCA", expect: schema.KindCheckbox},
		{name: "app_list", expect: schema.KindList},
		{name: "code_text", expect: schema.KindText},
		{name: "abi_definition_text", expect: schema.KindText},
		{name: "configfile", expect: schema.KindFile},
		{name: "genesisfile", expect: schema.KindFile},
		{name: "backend", expect: schema.KindInput},
		{name: "text_body", expect: schema.KindInput},
		{name: "list_apps", expect: schema.KindInput},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := reg.Resolve(tc.name, schema.Descriptor{Placeholder: "x"}); got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestResolve_FileBeatsSuffixes(t *testing.T) {
	reg := NewRegistry()
	if got := reg.Resolve("isfile_text", schema.Descriptor{}); got != schema.KindFile {
		t.Fatalf("file matcher should have the highest priority, got %q", got)
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register(schema.KindText, 999, func(name string) bool { return name == "seeds" })
	reg.Register("slider", 1000, func(string) bool { return true })

	if got := reg.Resolve("seeds", schema.Descriptor{}); got != schema.KindText {
		t.Fatalf("priority matcher should win, got %q", got)
	}
}

func TestResolve_NilRegistry(t *testing.T) {
	var reg *Registry
	if got := reg.Resolve("isCA", schema.Descriptor{}); got != schema.KindInput {
		t.Fatalf("nil registry should fall back to input, got %q", got)
	}
}

func TestDecorate_MigratesLegacyRecord(t *testing.T) {
	legacy := schema.Record{
		Command:   "organization",
		Operation: "create",
		Fields: []schema.Field{
			{Name: "backend", Descriptor: schema.Descriptor{Placeholder: "addr"}},
			{Name: "app_list", Descriptor: schema.Descriptor{Placeholder: "apps"}},
			{Name: "configfile", Descriptor: schema.Descriptor{Placeholder: "~/.ann_runtime/config.toml"}},
			{Name: "isCA", Descriptor: schema.Descriptor{}},
		},
	}

	got := NewRegistry().Decorate(legacy)
	kinds := make([]schema.Kind, 0, len(got.Fields))
	for _, field := range got.Fields {
		kinds = append(kinds, field.Descriptor.Kind)
	}
	want := []schema.Kind{schema.KindInput, schema.KindList, schema.KindFile, schema.KindCheckbox}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if legacy.Fields[1].Descriptor.Kind != "" {
		t.Fatal("Decorate must not mutate its input")
	}
}
