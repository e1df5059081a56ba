package ant

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-cmdform/pkg/renderers/ant/components"
	"github.com/goliatone/go-cmdform/pkg/schema"
)

func (r *Renderer) renderField(field schema.Field, value string) (string, schema.Kind, error) {
	if strings.TrimSpace(field.Name) == "" {
		return "", "", fmt.Errorf("ant renderer: field name is required")
	}

	kind := r.widgets.Resolve(field.Name, field.Descriptor)
	field.Descriptor.Kind = kind

	descriptor, ok := r.components.Descriptor(kind)
	if !ok {
		return "", kind, fmt.Errorf("ant renderer: component %q not registered for field %q", kind, field.Name)
	}

	var control bytes.Buffer
	err := descriptor.Renderer(&control, field, components.ComponentData{
		Template:    r.templates,
		Value:       value,
		Suggestions: r.suggestions,
	})
	if err != nil {
		return "", kind, fmt.Errorf("ant renderer: render %s field %q: %w", kind, field.Name, err)
	}

	if descriptor.OwnChrome {
		return control.String(), kind, nil
	}
	return buildFieldMarkup(field, kind, control.String()), kind, nil
}

// buildFieldMarkup wraps a control in the label/control grid row.
func buildFieldMarkup(field schema.Field, kind schema.Kind, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 384)

	name := html.EscapeString(field.Name)

	builder.WriteString(`<div class="ant-row ant-form-item" data-kind="`)
	builder.WriteString(html.EscapeString(string(kind)))
	builder.WriteString("\">\n")

	builder.WriteString(`    <div class="ant-form-item-label ant-col-xs-24 ant-col-sm-4"><label for="`)
	builder.WriteString(name)
	builder.WriteString(`" title="`)
	builder.WriteString(name)
	builder.WriteString(`"><span>`)
	builder.WriteString(name)
	builder.WriteString("</span></label></div>\n")

	builder.WriteString(`    <div class="ant-form-item-control-wrapper ant-col-xs-24 ant-col-sm-20"><div class="ant-form-item-control"><span class="ant-form-item-children">`)
	builder.WriteByte('\n')
	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	builder.WriteString("    </span></div></div>\n")

	builder.WriteString("</div>\n")
	return builder.String()
}
