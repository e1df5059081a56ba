package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-cmdform/internal/config"
	"github.com/goliatone/go-cmdform/internal/observability"
	"github.com/goliatone/go-cmdform/internal/openapi/exporter"
	"github.com/goliatone/go-cmdform/pkg/keycrypt"
	pkgopenapi "github.com/goliatone/go-cmdform/pkg/openapi"
	"github.com/goliatone/go-cmdform/pkg/orchestrator"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant"
	"github.com/goliatone/go-cmdform/pkg/renderers/tui"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

func main() {
	command := flag.String("cmd", "", "command to render")
	operation := flag.String("op", "", "operation to render")
	rendererName := flag.String("renderer", "ant", "renderer to use (ant, tui)")
	prompt := flag.Bool("prompt", false, "fill the form in the terminal (same as -renderer tui)")
	format := flag.String("format", string(tui.OutputFormatJSON), "terminal output format (json, form, pretty)")
	output := flag.String("output", "", "output file (stdout if empty)")
	overlays := flag.String("overlays", "", "directory of command overlay files")
	preset := flag.String("preset", "", "JSON preset applied to the rendered record")
	strict := flag.Bool("strict", false, "fail on unknown cmd/op instead of rendering an empty form")
	list := flag.Bool("list", false, "list known commands")
	exportOpenAPI := flag.Bool("openapi", false, "print the OpenAPI document for every command")
	encrypt := flag.String("encrypt", "", "encrypt the given text with -key")
	decrypt := flag.String("decrypt", "", "decrypt the given hex with -key")
	key := flag.String("key", "", "cipher key for -encrypt/-decrypt")
	passphrase := flag.String("passphrase", "", "encrypt privkey/sec answers with this key in terminal output")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := observability.NewLogger(config.ObservabilityConfig{LogLevel: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := run(ctx, logger, options{
		command:    *command,
		operation:  *operation,
		renderer:   *rendererName,
		prompt:     *prompt,
		format:     tui.OutputFormat(*format),
		overlays:   *overlays,
		preset:     *preset,
		strict:     *strict,
		list:       *list,
		openapi:    *exportOpenAPI,
		encrypt:    *encrypt,
		decrypt:    *decrypt,
		key:        *key,
		passphrase: *passphrase,
	})
	if errors.Is(err, tui.ErrAborted) {
		os.Exit(130)
	}
	if err != nil {
		logger.Fatal("cmdform-cli failed", zap.Error(err))
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			logger.Fatal("write output", zap.String("path", *output), zap.Error(err))
		}
		fmt.Printf("Output written to %s\n", *output)
		return
	}
	fmt.Println(string(out))
}

type options struct {
	command    string
	operation  string
	renderer   string
	prompt     bool
	format     tui.OutputFormat
	overlays   string
	preset     string
	strict     bool
	list       bool
	openapi    bool
	encrypt    string
	decrypt    string
	key        string
	passphrase string
}

func run(ctx context.Context, logger *zap.Logger, opts options) ([]byte, error) {
	switch {
	case opts.encrypt != "":
		hex, err := keycrypt.Encrypt(opts.encrypt, opts.key)
		return []byte(hex), err
	case opts.decrypt != "":
		plain, err := keycrypt.Decrypt(opts.decrypt, opts.key)
		return []byte(plain), err
	}

	wr := widgets.NewRegistry()
	registry := schema.NewRegistry()
	if opts.overlays != "" {
		records, err := schema.LoadFS(os.DirFS(opts.overlays))
		if err != nil {
			return nil, err
		}
		if err := registry.Register(records...); err != nil {
			return nil, err
		}
		logger.Info("overlays loaded", zap.String("dir", opts.overlays), zap.Int("records", len(records)))
	}
	registry.Apply(wr.Decorate)

	switch {
	case opts.list:
		var b strings.Builder
		for _, key := range registry.Keys() {
			b.WriteString(key.String())
			b.WriteByte('\n')
		}
		return []byte(strings.TrimRight(b.String(), "\n")), nil
	case opts.openapi:
		exp := exporter.New(wr)
		doc, err := exp.Export(ctx, registry.Records(), pkgopenapi.ExportOptions{})
		if err != nil {
			return nil, err
		}
		if err := exp.Validate(ctx, doc); err != nil {
			return nil, err
		}
		return doc.Raw(), nil
	}

	renderers := render.NewRegistry()
	antRenderer, err := ant.New(ant.WithWidgets(wr))
	if err != nil {
		return nil, err
	}
	renderers.MustRegister(antRenderer)
	tuiRenderer, err := tui.New(
		tui.WithOutputFormat(opts.format),
		tui.WithWidgets(wr),
		tui.WithSealedFields(render.DefaultSealedFields...),
		tui.WithPassphrase(opts.passphrase),
	)
	if err != nil {
		return nil, err
	}
	renderers.MustRegister(tuiRenderer)

	orchOpts := []orchestrator.Option{
		orchestrator.WithSchemas(registry),
		orchestrator.WithWidgets(wr),
		orchestrator.WithRegistry(renderers),
	}
	if opts.preset != "" {
		data, err := os.ReadFile(opts.preset)
		if err != nil {
			return nil, err
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		orchOpts = append(orchOpts, orchestrator.WithSchemaTransformer(transformer))
	}

	name := opts.renderer
	if opts.prompt {
		name = tuiRenderer.Name()
	}
	return orchestrator.New(orchOpts...).Generate(ctx, orchestrator.Request{
		Command:   opts.command,
		Operation: opts.operation,
		Renderer:  name,
		Strict:    opts.strict,
	})
}
