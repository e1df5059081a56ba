package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-cmdform/pkg/openapi"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant/components"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

const openAPIVersion = "3.0.3"

// Exporter implements pkgopenapi.Exporter and pkgopenapi.Validator using
// kin-openapi.
type Exporter struct {
	widgets *widgets.Registry
}

var (
	_ pkgopenapi.Exporter  = (*Exporter)(nil)
	_ pkgopenapi.Validator = (*Exporter)(nil)
)

// New constructs an Exporter. A nil widget registry uses the built-in
// inference rules for records that still carry legacy descriptors.
func New(registry *widgets.Registry) *Exporter {
	if registry == nil {
		registry = widgets.NewRegistry()
	}
	return &Exporter{widgets: registry}
}

// Export builds one POST operation per record. Records without fields are
// skipped.
func (e *Exporter) Export(ctx context.Context, records []schema.Record, opts pkgopenapi.ExportOptions) (pkgopenapi.Document, error) {
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}
	opts = opts.Normalize()

	spec := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(),
	}
	for _, server := range opts.Servers {
		if server = strings.TrimSpace(server); server != "" {
			spec.AddServer(&openapi3.Server{URL: server})
		}
	}

	operations := make([]pkgopenapi.Operation, 0, len(records))
	for _, record := range records {
		if record.Empty() {
			continue
		}
		record = e.widgets.Decorate(record)
		key := record.Key()
		path := pkgopenapi.OperationPath(opts.BasePath, key)
		if spec.Paths.Value(path) != nil {
			return pkgopenapi.Document{}, fmt.Errorf("openapi exporter: duplicate path %s for %s", path, key)
		}

		op, summary := buildOperation(record)
		spec.Paths.Set(path, &openapi3.PathItem{Post: op})

		summary.Path = path
		operations = append(operations, summary)
	}

	raw, err := json.Marshal(spec)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi exporter: marshal document: %w", err)
	}
	return pkgopenapi.NewDocument(raw, operations)
}

// Validate reloads the payload with the kin-openapi loader and runs its
// structural validation.
func (e *Exporter) Validate(ctx context.Context, doc pkgopenapi.Document) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false

	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return fmt.Errorf("openapi exporter: load document: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return fmt.Errorf("openapi exporter: validate document: %w", err)
	}
	return nil
}

func buildOperation(record schema.Record) (*openapi3.Operation, pkgopenapi.Operation) {
	key := record.Key()
	summary := pkgopenapi.Operation{
		ID:        pkgopenapi.OperationID(key),
		Method:    "POST",
		Command:   key.Command,
		Operation: key.Operation,
		Summary:   record.Title,
	}

	op := openapi3.NewOperation()
	op.OperationID = summary.ID
	op.Summary = record.Title
	op.Tags = []string{key.Command}
	if key.Operation == schema.AnyOperation {
		op.AddParameter(openapi3.NewPathParameter("op").WithSchema(openapi3.NewStringSchema()))
	}

	urlencoded := openapi3.NewObjectSchema()
	multipart := openapi3.NewObjectSchema()
	for _, field := range record.Fields {
		prop := propertySchema(field)
		urlencoded.WithProperty(field.Name, prop)
		multipart.WithProperty(field.Name, prop)
		if field.Descriptor.Kind == schema.KindFile {
			upload := openapi3.NewStringSchema().WithFormat("binary")
			upload.Description = "accepts " + schema.AcceptFor(field.Name)
			multipart.WithProperty(field.Name+"_file", upload)
		}

		summary.Fields = append(summary.Fields, pkgopenapi.Property{
			Name:        field.Name,
			Kind:        field.Descriptor.Kind,
			Type:        firstType(prop),
			Format:      prop.Format,
			Description: prop.Description,
		})
	}

	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.Content{
				"application/x-www-form-urlencoded": openapi3.NewMediaType().WithSchema(urlencoded),
				"multipart/form-data":               openapi3.NewMediaType().WithSchema(multipart),
			}),
	}

	resultSchema := openapi3.NewObjectSchema().
		WithProperty("cmd", openapi3.NewStringSchema()).
		WithProperty("op", openapi3.NewStringSchema()).
		WithProperty("result", openapi3.NewStringSchema())
	errorSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema())

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Command result").WithJSONSchema(resultSchema),
		}),
		openapi3.WithStatus(400, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Invalid submission").WithJSONSchema(errorSchema),
		}),
	)
	return op, summary
}

func propertySchema(field schema.Field) *openapi3.Schema {
	var prop *openapi3.Schema
	switch field.Descriptor.Kind {
	case schema.KindCheckbox:
		prop = openapi3.NewBoolSchema()
	case schema.KindList:
		prop = openapi3.NewStringSchema()
		prop.Extensions = map[string]any{"x-cmdform-suggestions": components.DefaultSuggestions}
	case schema.KindText, schema.KindFile:
		prop = openapi3.NewStringSchema()
		prop.Extensions = map[string]any{"x-cmdform-widget": string(field.Descriptor.Kind)}
	default:
		prop = openapi3.NewStringSchema()
	}
	prop.Description = field.Descriptor.Placeholder
	return prop
}

func firstType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		return ""
	}
	types := s.Type.Slice()
	if len(types) == 0 {
		return ""
	}
	return types[0]
}
