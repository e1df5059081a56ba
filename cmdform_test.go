package cmdform

import (
	"context"
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	pkgopenapi "github.com/goliatone/go-cmdform/pkg/openapi"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant"
)

func TestSelectSchema(t *testing.T) {
	record := SelectSchema("evm", "read")
	if record.Empty() || record.Fields[0].Name != "backend" {
		t.Fatalf("unexpected evm/read record: %#v", record)
	}
	if !SelectSchema("evm", "nope").Empty() {
		t.Errorf("unknown pair should be empty")
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := GenerateHTML(context.Background(), "jvm", "call", RenderOptions{Values: map[string]string{"method": "transfer"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `name="contractid"`) || !strings.Contains(html, `value="transfer"`) {
		t.Errorf("unexpected html:\n%s", html)
	}
}

func TestExportOpenAPI(t *testing.T) {
	doc, err := ExportOpenAPI(context.Background(), nil, pkgopenapi.ExportOptions{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(doc.Raw(), &raw); err != nil {
		t.Fatalf("raw is not json: %v", err)
	}
	if got := len(doc.Operations()); got != 14 {
		t.Errorf("operations = %d, want 14", got)
	}
}

func TestAssetsFSContainsRuntimeScript(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), ant.RuntimeScriptName)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "ChangeFile") {
		t.Fatalf("expected runtime script to define ChangeFile")
	}
}

func TestEmbeddedTemplatesContainsForm(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("form template missing: %v", err)
	}
}
