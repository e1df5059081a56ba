package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"strings"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Transformer mutates a record before it is rendered. Implementations can
// reword placeholders, force widget kinds or attach help text.
type Transformer interface {
	Transform(ctx context.Context, record *schema.Record) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, record *schema.Record) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, record *schema.Record) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, record)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, record *schema.Record) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, record); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSONPresetTransformer applies declarative overrides loaded from JSON, keyed
// by "cmd/op":
//
//	{
//	  "organization/create": {
//	    "title": "Create",
//	    "help": "<b>Base org</b> only",
//	    "fields": {"seeds": {"placeholder": "host:port list"}}
//	  }
//	}
//
// Patches for other commands are ignored. A patch naming a field the record
// does not have is an error.
type JSONPresetTransformer struct {
	document map[string]jsonRecordPatch
}

type jsonRecordPatch struct {
	Title  string                    `json:"title"`
	Help   string                    `json:"help"`
	Meta   map[string]string         `json:"meta"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Placeholder string      `json:"placeholder"`
	Kind        schema.Kind `json:"kind"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document map[string]jsonRecordPatch
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for key, patch := range document {
		for name, field := range patch.Fields {
			if field.Kind != "" && !field.Kind.Valid() {
				return nil, fmt.Errorf("json preset transformer: %s field %q: unknown kind %q", key, name, field.Kind)
			}
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patch registered for the record's key, falling back
// to the "cmd/*" patch.
func (t *JSONPresetTransformer) Transform(ctx context.Context, record *schema.Record) error {
	if record == nil {
		return errors.New("json preset transformer: record is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	patch, ok := t.document[record.Command+"/"+record.Operation]
	if !ok {
		patch, ok = t.document[record.Command+"/"+schema.AnyOperation]
	}
	if !ok {
		return nil
	}

	if patch.Title != "" {
		record.Title = patch.Title
	}
	if patch.Help != "" {
		record.Help = schema.SanitizeHelp(patch.Help)
	}
	if len(patch.Meta) > 0 {
		if record.Meta == nil {
			record.Meta = map[string]string{}
		}
		maps.Copy(record.Meta, patch.Meta)
	}
	for name, fieldPatch := range patch.Fields {
		idx := fieldIndex(record.Fields, name)
		if idx < 0 {
			return fmt.Errorf("json preset transformer: field %q not found in %s/%s", name, record.Command, record.Operation)
		}
		if fieldPatch.Placeholder != "" {
			record.Fields[idx].Descriptor.Placeholder = fieldPatch.Placeholder
		}
		if fieldPatch.Kind != "" {
			record.Fields[idx].Descriptor.Kind = fieldPatch.Kind
		}
	}
	return nil
}

func fieldIndex(fields []schema.Field, name string) int {
	for idx := range fields {
		if fields[idx].Name == name {
			return idx
		}
	}
	return -1
}
