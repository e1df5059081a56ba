package render

import (
	"context"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Renderer converts a command record into a byte representation (HTML,
// terminal prompts, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, record schema.Record, options RenderOptions) ([]byte, error)
}
