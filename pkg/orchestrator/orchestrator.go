package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

const defaultRendererName = "ant"

// ErrUnknownCommand is returned when Strict is set and the requested pair has
// no record.
var ErrUnknownCommand = errors.New("orchestrator: unknown command")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSchemas injects the command registry.
func WithSchemas(registry *schema.Registry) Option {
	return func(o *Orchestrator) {
		o.schemas = registry
	}
}

// WithWidgets injects the widget inference registry.
func WithWidgets(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate records after
// widget inference but before rendering.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator coordinates record selection and rendering. It applies the
// built-in registry and the ant renderer when nothing else is injected.
type Orchestrator struct {
	schemas         *schema.Registry
	widgets         *widgets.Registry
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the command to render.
type Request struct {
	Command   string
	Operation string

	// Record bypasses the registry lookup when set.
	Record *schema.Record

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// Strict turns an unmatched pair into ErrUnknownCommand instead of an
	// empty form.
	Strict bool

	RenderOptions render.RenderOptions
}

// Resolve returns the decorated and transformed record for req.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (schema.Record, error) {
	if ctx == nil {
		return schema.Record{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return schema.Record{}, err
	}
	if err := o.initialiseErr; err != nil {
		return schema.Record{}, err
	}

	var record schema.Record
	if req.Record != nil {
		record = req.Record.Clone()
	} else {
		record = o.schemas.Select(req.Command, req.Operation)
		if record.Empty() {
			if req.Strict {
				return schema.Record{}, fmt.Errorf("%w: %s/%s", ErrUnknownCommand, req.Command, req.Operation)
			}
			record.Command, record.Operation = req.Command, req.Operation
		}
	}

	record = o.widgets.Decorate(record)
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &record); err != nil {
			return schema.Record{}, fmt.Errorf("orchestrator: transform record: %w", err)
		}
	}
	return record, nil
}

// Generate selects the record and renders it with the named renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	record, err := o.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, record, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err == nil {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
	}

	renderer, err = o.registry.Get("")
	if err != nil {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.schemas == nil {
		o.schemas = schema.NewRegistry()
	}
	if o.widgets == nil {
		o.widgets = widgets.NewRegistry()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := ant.New(ant.WithWidgets(o.widgets))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
