package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-cmdform/internal/config"
	"github.com/goliatone/go-cmdform/internal/observability"
	"github.com/goliatone/go-cmdform/internal/openapi/exporter"
	"github.com/goliatone/go-cmdform/internal/transport"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/submit"
	"github.com/goliatone/go-cmdform/pkg/widgets"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (defaults when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	wr := widgets.NewRegistry()
	registry, err := buildRegistry(cfg.Schema, wr)
	if err != nil {
		logger.Error("command registry initialization failed", zap.Error(err))
		return 1
	}

	rendererOpts := []ant.Option{
		ant.WithWidgets(wr),
		ant.WithAssetPrefix(cfg.Render.AssetPrefix),
		ant.WithSuggestions(cfg.Render.Suggestions...),
		ant.WithSubmitLabel(cfg.Render.SubmitLabel),
		ant.WithSealedFields(cfg.Submit.SealedFields...),
	}
	if cfg.Render.TemplatesDir != "" {
		rendererOpts = append(rendererOpts, ant.WithTemplatesDir(cfg.Render.TemplatesDir))
	}
	renderer, err := ant.New(rendererOpts...)
	if err != nil {
		logger.Error("renderer initialization failed", zap.Error(err))
		return 1
	}

	decoder := submit.NewDecoder(registry,
		submit.WithWidgets(wr),
		submit.WithLogger(logger.Named("submit")),
		submit.WithSealedFields(cfg.Submit.SealedFields...),
		submit.WithMaxMemory(cfg.Submit.MaxMemory),
		submit.WithFileValidation(cfg.Submit.ValidateFiles),
	)

	router := transport.NewRouter(transport.Dependencies{
		Config:     cfg,
		Logger:     logger,
		Schemas:    registry,
		Renderer:   renderer,
		Decoder:    decoder,
		Dispatcher: submit.EchoDispatcher{},
		Exporter:   exporter.New(wr),
		Assets:     ant.AssetsFS(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server started",
		zap.String("addr", cfg.Server.Addr),
		zap.String("version", version),
		zap.String("commit", commit),
		zap.Int("commands", len(registry.Keys())),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return 0
}

// buildRegistry loads the built-in commands plus any overlays and resolves
// every legacy widget kind up front.
func buildRegistry(cfg config.SchemaConfig, wr *widgets.Registry) (*schema.Registry, error) {
	registry := schema.NewRegistry()
	if cfg.OverlayDir != "" {
		records, err := schema.LoadFS(os.DirFS(cfg.OverlayDir))
		if err != nil {
			return nil, err
		}
		if err := registry.Register(records...); err != nil {
			return nil, err
		}
	}
	registry.Apply(wr.Decorate)
	return registry, nil
}
