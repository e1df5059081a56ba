package openapi

import (
	"testing"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

func TestExportOptionsNormalize(t *testing.T) {
	got := ExportOptions{BasePath: "api/cmds/"}.Normalize()
	if got.Title != DefaultTitle || got.Version != DefaultVersion || got.BasePath != "/api/cmds" {
		t.Fatalf("unexpected normalised options %#v", got)
	}
	if got := (ExportOptions{}).Normalize().BasePath; got != DefaultBasePath {
		t.Fatalf("default base path = %q", got)
	}
}

func TestOperationPathAndID(t *testing.T) {
	tests := []struct {
		key      schema.Key
		wantPath string
		wantID   string
	}{
		{schema.Key{Command: "organization", Operation: "create"}, "/cmdlist/organization/create", "organization.create"},
		{schema.Key{Command: "sign", Operation: schema.AnyOperation}, "/cmdlist/sign/{op}", "sign"},
	}
	for _, tc := range tests {
		if got := OperationPath(DefaultBasePath, tc.key); got != tc.wantPath {
			t.Errorf("OperationPath(%v) = %q, want %q", tc.key, got, tc.wantPath)
		}
		if got := OperationID(tc.key); got != tc.wantID {
			t.Errorf("OperationID(%v) = %q, want %q", tc.key, got, tc.wantID)
		}
	}
}

func TestNewDocument(t *testing.T) {
	if _, err := NewDocument(nil, nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
	raw := []byte(`{"openapi":"3.0.3"}`)
	doc, err := NewDocument(raw, []Operation{{ID: "a"}})
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	raw[0] = 'x'
	if doc.Raw()[0] != '{' {
		t.Fatal("document should copy its payload")
	}
	if len(doc.Operations()) != 1 {
		t.Fatalf("operations = %v", doc.Operations())
	}
}
