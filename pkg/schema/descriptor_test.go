package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDescriptor(t *testing.T) {
	cases := []struct {
		raw  string
		want Descriptor
	}{
		{raw: "'Node RPC address'|input", want: Descriptor{Placeholder: "Node RPC address", Kind: KindInput}},
		{raw: "|checkbox", want: Descriptor{Kind: KindCheckbox}},
		{raw: "Contract ABI|TEXT", want: Descriptor{Placeholder: "Contract ABI", Kind: KindText}},
		{raw: "plain placeholder", want: Descriptor{Placeholder: "plain placeholder"}},
		{raw: "a|b|file", want: Descriptor{Placeholder: "a", Kind: "b|file"}},
		{raw: "", want: Descriptor{}},
	}

	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, ParseDescriptor(tc.raw)); diff != "" {
			t.Errorf("ParseDescriptor(%q) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestDescriptorStringRoundTrip(t *testing.T) {
	desc := Descriptor{Placeholder: "~/.ann_runtime/config.toml", Kind: KindFile}
	if got := desc.String(); got != "~/.ann_runtime/config.toml|file" {
		t.Fatalf("unexpected encoding %q", got)
	}
	if got := ParseDescriptor(desc.String()); got != desc {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got := (Descriptor{Placeholder: "legacy"}).String(); got != "legacy" {
		t.Fatalf("legacy descriptors encode to their placeholder, got %q", got)
	}
}

func TestMustKindFallsBackToInput(t *testing.T) {
	if got := (Descriptor{}).MustKind(); got != KindInput {
		t.Fatalf("legacy descriptor kind = %q, want input", got)
	}
	if got := (Descriptor{Kind: "slider"}).MustKind(); got != KindInput {
		t.Fatalf("unknown kind = %q, want input", got)
	}
	if got := (Descriptor{Kind: KindFile}).MustKind(); got != KindFile {
		t.Fatalf("file kind = %q", got)
	}
}

func TestAcceptFor(t *testing.T) {
	cases := map[string]string{
		"configfile":   ".toml",
		"node_config":  ".toml",
		"genesisfile":  ".json",
		"contractfile": ".json",
	}
	for name, want := range cases {
		if got := AcceptFor(name); got != want {
			t.Errorf("AcceptFor(%q) = %q, want %q", name, got, want)
		}
	}
}
