package transport

import (
	"context"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-cmdform/components/suggestions"
	"github.com/goliatone/go-cmdform/internal/config"
	"github.com/goliatone/go-cmdform/pkg/openapi"
	"github.com/goliatone/go-cmdform/pkg/render"
	"github.com/goliatone/go-cmdform/pkg/renderers/ant/components"
	"github.com/goliatone/go-cmdform/pkg/schema"
	"github.com/goliatone/go-cmdform/pkg/submit"
)

// Route paths served by the console.
const (
	PathCommandList = "/cmdlist"
	PathForm        = "/cmdlist/form"
	PathSuggestions = "/cmdlist/suggestions"
	PathCommands    = "/commands"
	PathOpenAPI     = "/openapi.json"
	PathHealth      = "/health"
)

// PageRenderer renders form fragments and standalone pages.
type PageRenderer interface {
	render.Renderer
	BuildForm(ctx context.Context, record schema.Record, opts render.RenderOptions) ([]byte, error)
	RenderPage(ctx context.Context, record schema.Record, opts render.RenderOptions) ([]byte, error)
}

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Schemas    *schema.Registry
	Renderer   PageRenderer
	Decoder    *submit.Decoder
	Dispatcher submit.Dispatcher
	// Exporter is optional; without it /openapi.json is not registered.
	Exporter openapi.Exporter
	// Assets is optional; without it no static files are served.
	Assets fs.FS
}

// NewRouter creates a chi.Router with the middleware pipeline and all route
// registrations. The health endpoint bypasses request logging.
func NewRouter(deps Dependencies) chi.Router {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config == nil {
		deps.Config = config.Defaults()
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = submit.EchoDispatcher{}
	}
	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(Recovery(deps.Logger))
	r.Use(RequestID(deps.Logger))
	r.Use(SecurityHeaders)

	r.Get(PathHealth, handleHealth)

	if deps.Assets != nil {
		prefix := "/" + strings.Trim(deps.Config.Render.AssetPrefix, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.FS(deps.Assets))))
	}

	r.Group(func(r chi.Router) {
		r.Use(HandlerTimeout(deps.Config.Server.HandlerTimeout))
		r.Use(RequestLogging(deps.Logger))

		r.Get(PathCommandList, h.page)
		r.Get(PathForm, h.form)
		r.Post(PathCommandList, h.submit)
		r.Post(PathCommandList+"/{cmd}/{op}", h.submit)
		r.Method(http.MethodGet, PathSuggestions, suggestions.NewHandler(
			suggestions.WithValues(suggestionValues(deps.Config)),
		))
		r.Get(PathCommands, h.commands)
		if deps.Exporter != nil {
			r.Get(PathOpenAPI, h.openAPI)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func suggestionValues(cfg *config.Config) []string {
	if len(cfg.Render.Suggestions) > 0 {
		return cfg.Render.Suggestions
	}
	return components.DefaultSuggestions
}
