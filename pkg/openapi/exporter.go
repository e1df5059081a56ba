package openapi

import (
	"context"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Exporter converts command records into an OpenAPI document.
type Exporter interface {
	Export(ctx context.Context, records []schema.Record, opts ExportOptions) (Document, error)
}

// Validator checks an exported document for structural validity.
type Validator interface {
	Validate(ctx context.Context, doc Document) error
}
