// Package template defines the renderer-agnostic template interface used by
// the HTML renderers and its pongo2 adapter.
package template
