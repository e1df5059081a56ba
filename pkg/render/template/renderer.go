package template

import (
	"io"
)

// TemplateRenderer is the seam renderers use to execute templates. The
// gotemplate package provides the pongo2-backed implementation.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data map[string]any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data map[string]any) error
}
