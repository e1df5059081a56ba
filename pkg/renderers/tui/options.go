package tui

import (
	"slices"

	"github.com/goliatone/go-cmdform/pkg/widgets"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]string) (map[string]string, error)

// FileReader loads the file a file field points at.
type FileReader func(path string) ([]byte, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithSealedFields lists fields prompted without echo.
func WithSealedFields(names ...string) Option {
	return func(r *Renderer) {
		r.sealed = slices.Clone(names)
	}
}

// WithPassphrase encrypts the sealed fields with key before serialization
// and adds the passphrase entry, matching what the browser form posts.
func WithPassphrase(key string) Option {
	return func(r *Renderer) {
		r.passphrase = key
	}
}

// WithFileReader overrides how file fields are loaded from disk.
func WithFileReader(reader FileReader) Option {
	return func(r *Renderer) {
		if reader != nil {
			r.readFile = reader
		}
	}
}

// WithSuggestions replaces the completions offered by list fields.
func WithSuggestions(values ...string) Option {
	return func(r *Renderer) {
		r.suggestions = slices.Clone(values)
	}
}

// WithWidgets overrides the widget inference registry.
func WithWidgets(registry *widgets.Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.widgets = registry
		}
	}
}

// WithFileValidation checks loaded files with ingest.Validate.
func WithFileValidation(enabled bool) Option {
	return func(r *Renderer) {
		r.validateFiles = enabled
	}
}
