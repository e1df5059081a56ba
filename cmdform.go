// Package cmdform renders, decodes and exports the input forms of the node
// console commands. The root package exposes the simplest entry points; the
// pkg/ subpackages carry the full APIs.
package cmdform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-cmdform/internal/openapi/exporter"
	pkgopenapi "github.com/goliatone/go-cmdform/pkg/openapi"
	"github.com/goliatone/go-cmdform/pkg/orchestrator"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

// RenderOptions aliases render.RenderOptions for callers prefilling values.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// DefaultRegistry returns a fresh registry holding the built-in commands.
func DefaultRegistry() *schema.Registry {
	return schema.NewRegistry()
}

// SelectSchema returns the built-in record for (command, operation). Unknown
// pairs yield an empty record.
func SelectSchema(command, operation string) schema.Record {
	return defaultRegistry.Select(command, operation)
}

var defaultRegistry = schema.NewRegistry()

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the ant form for (command, operation).
func GenerateHTML(ctx context.Context, command, operation string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Command:       command,
		Operation:     operation,
		RenderOptions: opts,
	})
}

// ExportOpenAPI exports every record of registry as an OpenAPI document. A
// nil registry exports the built-in commands.
func ExportOpenAPI(ctx context.Context, registry *schema.Registry, opts pkgopenapi.ExportOptions) (pkgopenapi.Document, error) {
	if registry == nil {
		registry = defaultRegistry
	}
	return exporter.New(widgets.NewRegistry()).Export(ctx, registry.Records(), opts)
}

// EmbeddedTemplates exposes the built-in ant templates so callers can reuse or
// extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return ant.TemplatesFS()
}

// AssetsFS exposes the stylesheet and runtime script served next to the forms.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(cmdform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return ant.AssetsFS()
}
