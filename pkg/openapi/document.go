package openapi

import (
	"errors"
	"slices"
	"strings"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Defaults applied by ExportOptions.Normalize.
const (
	DefaultTitle    = "cmdform console commands"
	DefaultVersion  = "1.0.0"
	DefaultBasePath = "/cmdlist"
)

// ExportOptions tune the exported document.
type ExportOptions struct {
	Title    string
	Version  string
	BasePath string
	Servers  []string
}

// Normalize fills zero values with the package defaults.
func (o ExportOptions) Normalize() ExportOptions {
	if strings.TrimSpace(o.Title) == "" {
		o.Title = DefaultTitle
	}
	if strings.TrimSpace(o.Version) == "" {
		o.Version = DefaultVersion
	}
	o.BasePath = "/" + strings.Trim(strings.TrimSpace(o.BasePath), "/")
	if o.BasePath == "/" {
		o.BasePath = DefaultBasePath
	}
	return o
}

// OperationPath returns the submit path of a record. Wildcard operations
// become a path parameter.
func OperationPath(basePath string, key schema.Key) string {
	op := key.Operation
	if op == "" || op == schema.AnyOperation {
		op = "{op}"
	}
	return strings.TrimRight(basePath, "/") + "/" + key.Command + "/" + op
}

// OperationID returns the operationId of a record.
func OperationID(key schema.Key) string {
	if key.Operation == "" || key.Operation == schema.AnyOperation {
		return key.Command
	}
	return key.Command + "." + key.Operation
}

// Property describes one form field in the exported request body.
type Property struct {
	Name        string
	Kind        schema.Kind
	Type        string
	Format      string
	Description string
}

// Operation summarises one exported submit endpoint.
type Operation struct {
	ID        string
	Method    string
	Path      string
	Command   string
	Operation string
	Summary   string
	Fields    []Property
}

// Document is an exported OpenAPI payload together with the operations it
// describes.
type Document struct {
	raw        []byte
	operations []Operation
}

// NewDocument wraps an exported payload.
func NewDocument(raw []byte, operations []Operation) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{
		raw:        slices.Clone(raw),
		operations: slices.Clone(operations),
	}, nil
}

// Raw returns a copy of the JSON payload.
func (d Document) Raw() []byte {
	return slices.Clone(d.raw)
}

// Operations returns the exported operations in registry order.
func (d Document) Operations() []Operation {
	return slices.Clone(d.operations)
}
