package components

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

const templatePrefix = "templates/components/"

// DefaultSuggestions are the application names offered by list fields.
var DefaultSuggestions = []string{"evm", "ikhofi", "noop", "remote"}

// NewDefaultRegistry constructs a registry with one component per widget
// kind. File pickers depend on the runtime script for ChangeFile.
func NewDefaultRegistry(runtimeScript string) *Registry {
	registry := New()

	registry.MustRegister(schema.KindInput, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "input.tmpl"),
	})
	registry.MustRegister(schema.KindCheckbox, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "checkbox.tmpl"),
	})
	registry.MustRegister(schema.KindText, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "text.tmpl"),
	})
	registry.MustRegister(schema.KindList, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "list.tmpl"),
	})

	file := Descriptor{
		Renderer:  templateComponentRenderer(templatePrefix + "file.tmpl"),
		OwnChrome: true,
	}
	if runtimeScript != "" {
		file.Scripts = []Script{{Src: runtimeScript, Defer: true}}
	}
	registry.MustRegister(schema.KindFile, file)

	return registry
}

func templateComponentRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		suggestions := data.Suggestions
		if len(suggestions) == 0 {
			suggestions = DefaultSuggestions
		}
		payload := map[string]any{
			"name":        field.Name,
			"placeholder": field.Descriptor.Placeholder,
			"kind":        string(field.Descriptor.Kind),
			"value":       data.Value,
			"suggestions": suggestions,
		}
		rendered, err := data.Template.RenderTemplate(templateName, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
