package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-cmdform/pkg/ingest"
	"github.com/goliatone/go-cmdform/pkg/keycrypt"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant/components"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

// Renderer implements render.Renderer for terminal sessions: every field of
// the record is prompted in order and the answers are serialized together
// with the cmd and op values.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	sealed            []string
	passphrase        string
	suggestions       []string
	readFile          FileReader
	widgets           *widgets.Registry
	validateFiles     bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		readFile:     os.ReadFile,
		widgets:      widgets.NewRegistry(),
		suggestions:  components.DefaultSuggestions,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of record. Values in opts prefill the
// prompts.
func (r *Renderer) Render(ctx context.Context, record schema.Record, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	record = r.widgets.Decorate(record)
	if title := strings.TrimSpace(record.Title); title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return nil, err
		}
	}

	values := make(map[string]string, len(record.Fields))
	order := make([]string, 0, len(record.Fields)+2)
	for _, field := range record.Fields {
		if schema.IsReserved(field.Name) {
			continue
		}
		value, err := r.promptField(ctx, field, opts.Value(field.Name))
		if err != nil {
			return nil, fmt.Errorf("tui: %s: %w", field.Name, err)
		}
		values[field.Name] = value
		order = append(order, field.Name)
	}

	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		values = transformed
	}

	if err := r.seal(values, order); err != nil {
		return nil, err
	}

	for _, hidden := range render.FormHiddenFields(record, opts.Hidden...) {
		if hidden.Name == render.HiddenFileDiv {
			continue
		}
		values[hidden.Name] = hidden.Value
	}
	return r.serialize(values, order)
}

func (r *Renderer) promptField(ctx context.Context, field schema.Field, prefill string) (string, error) {
	help := field.Descriptor.Placeholder
	switch field.Descriptor.Kind {
	case schema.KindCheckbox:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: field.Name,
			Default: prefill != "false",
			Help:    help,
		})
		if err != nil {
			return "", err
		}
		if ok {
			return "true", nil
		}
		return "false", nil
	case schema.KindText:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: field.Name,
			Default: prefill,
			Help:    help,
		})
	case schema.KindList:
		return r.driver.Input(ctx, InputConfig{
			Message:     field.Name,
			Default:     prefill,
			Help:        help,
			Suggestions: r.suggestions,
		})
	case schema.KindFile:
		return r.promptFile(ctx, field, help)
	}

	cfg := InputConfig{Message: field.Name, Default: prefill, Help: help}
	if slices.Contains(r.sealed, field.Name) {
		return r.driver.Password(ctx, cfg)
	}
	return r.driver.Input(ctx, cfg)
}

// seal encrypts the non-empty sealed values with the configured passphrase
// and adds the passphrase entry the server decrypts them with.
func (r *Renderer) seal(values map[string]string, order []string) error {
	if r.passphrase == "" {
		return nil
	}
	sealed := false
	for _, name := range order {
		value := values[name]
		if value == "" || !slices.Contains(r.sealed, name) {
			continue
		}
		hex, err := keycrypt.Encrypt(value, r.passphrase)
		if err != nil {
			return fmt.Errorf("tui: seal %s: %w", name, err)
		}
		values[name] = hex
		sealed = true
	}
	if sealed {
		values[render.PassphraseField] = r.passphrase
	}
	return nil
}

// promptFile asks for a path and returns the file contents, mirroring the
// browser picker that fills the field with the chosen file.
func (r *Renderer) promptFile(ctx context.Context, field schema.Field, help string) (string, error) {
	path, err := r.driver.Input(ctx, InputConfig{
		Message: fmt.Sprintf("%s (%s file path)", field.Name, schema.AcceptFor(field.Name)),
		Help:    help,
	})
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	data, err := r.readFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if r.validateFiles {
		if err := ingest.Validate(field.Name, data); err != nil {
			return "", err
		}
	}
	return string(data), nil
}

func (r *Renderer) serialize(values map[string]string, order []string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, value)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var buf bytes.Buffer
		for _, name := range []string{render.HiddenCommand, render.HiddenOperation} {
			fmt.Fprintf(&buf, "%s: %s\n", name, values[name])
		}
		for _, name := range order {
			value, ok := values[name]
			if !ok {
				continue
			}
			if slices.Contains(r.sealed, name) && value != "" {
				value = "******"
			}
			fmt.Fprintf(&buf, "%s: %s\n", name, value)
		}
		return buf.Bytes(), nil
	default:
		return marshalOrdered(values, order)
	}
}

// marshalOrdered writes values as a JSON object keyed cmd, op, then the
// fields in record order, then any remaining keys sorted by name.
func marshalOrdered(values map[string]string, order []string) ([]byte, error) {
	keys := make([]string, 0, len(values))
	for _, name := range append([]string{render.HiddenCommand, render.HiddenOperation}, order...) {
		if _, ok := values[name]; ok && !slices.Contains(keys, name) {
			keys = append(keys, name)
		}
	}
	var rest []string
	for name := range values {
		if !slices.Contains(keys, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
