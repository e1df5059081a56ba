package ant

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-cmdform/pkg/render"
	rendertemplate "github.com/goliatone/go-cmdform/pkg/render/template"
	gotemplate "github.com/goliatone/go-cmdform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant/components"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

// DefaultAssetPrefix is the URL prefix runtime assets are served under.
const DefaultAssetPrefix = "/assets/"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	widgets          *widgets.Registry
	assetPrefix      string
	suggestions      []string
	sealed           []string
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers templates from a directory on disk over the
// template bundle. Files missing from dir fall back to the bundle.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents overrides the component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithWidgets overrides the widget inference registry used for fields whose
// descriptor carries no kind.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithAssetPrefix sets the URL prefix for the stylesheet and runtime script.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			cfg.assetPrefix = prefix
		}
	}
}

// WithSuggestions replaces the options offered by list fields.
func WithSuggestions(values ...string) Option {
	return func(cfg *config) {
		cfg.suggestions = slices.Clone(values)
	}
}

// WithSealedFields replaces render.DefaultSealedFields. Forms with sealed
// fields gain a passphrase control and the runtime encrypts those fields
// before posting.
func WithSealedFields(names ...string) Option {
	return func(cfg *config) {
		cfg.sealed = slices.Clone(names)
	}
}

// WithSubmitLabel sets the caption of the submit button.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label = strings.TrimSpace(label); label != "" {
			cfg.submitLabel = label
		}
	}
}

// Renderer produces ant-styled HTML forms for command records.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	components  *components.Registry
	widgets     *widgets.Registry
	assetPrefix string
	suggestions []string
	sealed      []string
	submitLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the ant renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		assetPrefix: DefaultAssetPrefix,
		sealed:      slices.Clone(render.DefaultSealedFields),
		submitLabel: "Submit",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOpts := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		}
		if cfg.templatesDir != "" {
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templatesDir))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("ant renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	r := &Renderer{
		templates:   templates,
		widgets:     cfg.widgets,
		assetPrefix: cfg.assetPrefix,
		suggestions: cfg.suggestions,
		sealed:      cfg.sealed,
		submitLabel: cfg.submitLabel,
	}
	if r.widgets == nil {
		r.widgets = widgets.NewRegistry()
	}
	r.components = cfg.components
	if r.components == nil {
		r.components = components.NewDefaultRegistry(r.ScriptURL())
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "ant"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// StylesheetURL is the public URL of the embedded stylesheet.
func (r *Renderer) StylesheetURL() string {
	return path.Join(r.assetPrefix, StylesheetName)
}

// ScriptURL is the public URL of the embedded runtime script.
func (r *Renderer) ScriptURL() string {
	return path.Join(r.assetPrefix, RuntimeScriptName)
}

// Render satisfies render.Renderer by returning the form fragment.
func (r *Renderer) Render(ctx context.Context, record schema.Record, opts render.RenderOptions) ([]byte, error) {
	return r.BuildForm(ctx, record, opts)
}

// RenderField renders a single field, including its form-item chrome. The
// output depends only on the field.
func (r *Renderer) RenderField(field schema.Field) (string, error) {
	markup, _, err := r.renderField(field, "")
	return markup, err
}

// BuildForm renders every field of record in declaration order followed by
// the hidden bookkeeping inputs, the button row and the result container.
func (r *Renderer) BuildForm(ctx context.Context, record schema.Record, opts render.RenderOptions) ([]byte, error) {
	form, _, err := r.buildForm(ctx, record, opts)
	if err != nil {
		return nil, err
	}
	return []byte(form), nil
}

// RenderPage wraps the form in a standalone HTML document that links the
// stylesheet and runtime script.
func (r *Renderer) RenderPage(ctx context.Context, record schema.Record, opts render.RenderOptions) ([]byte, error) {
	form, kinds, err := r.buildForm(ctx, record, opts)
	if err != nil {
		return nil, err
	}

	stylesheets := []string{r.StylesheetURL()}
	scripts := []string{r.ScriptURL()}
	extraStyles, extraScripts := r.components.Assets(kinds)
	for _, href := range extraStyles {
		if !slices.Contains(stylesheets, href) {
			stylesheets = append(stylesheets, href)
		}
	}
	for _, script := range extraScripts {
		if !slices.Contains(scripts, script.Src) {
			scripts = append(scripts, script.Src)
		}
	}

	result, err := r.templates.RenderTemplate("templates/page.tmpl", map[string]any{
		"title":       pageTitle(record),
		"form":        form,
		"stylesheets": stylesheets,
		"scripts":     scripts,
	})
	if err != nil {
		return nil, fmt.Errorf("ant renderer: render page: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) buildForm(ctx context.Context, record schema.Record, opts render.RenderOptions) (string, []string, error) {
	if r == nil || r.templates == nil {
		return "", nil, fmt.Errorf("ant renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	var (
		fields strings.Builder
		kinds  []string
	)
	for _, field := range record.Fields {
		if schema.IsReserved(field.Name) {
			continue
		}
		markup, kind, err := r.renderField(field, opts.Value(field.Name))
		if err != nil {
			return "", nil, err
		}
		fields.WriteString(markup)
		if !slices.Contains(kinds, string(kind)) {
			kinds = append(kinds, string(kind))
		}
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"action":        opts.Action,
		"command":       record.Command,
		"operation":     record.Operation,
		"help":          schema.SanitizeHelp(record.Help),
		"hidden_fields": render.FormHiddenFields(record, opts.Hidden...),
		"fields":        fields.String(),
		"sealed":        strings.Join(render.SealedNames(record, r.sealed), " "),
		"passphrase":    render.PassphraseField,
		"submit_label":  r.submitLabel,
	})
	if err != nil {
		return "", nil, fmt.Errorf("ant renderer: render form: %w", err)
	}
	return result, kinds, nil
}

func pageTitle(record schema.Record) string {
	if title := strings.TrimSpace(record.Title); title != "" {
		return title
	}
	if title := strings.TrimSpace(record.Meta["title"]); title != "" {
		return title
	}
	if record.Command == "" {
		return "cmdform"
	}
	return strings.TrimSpace(record.Command + " " + record.Operation)
}
