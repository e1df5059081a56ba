package schema

import (
	"maps"
	"slices"
	"strings"
)

// Kind identifies the widget used to render a field.
type Kind string

const (
	KindInput    Kind = "input"
	KindCheckbox Kind = "checkbox"
	KindText     Kind = "text"
	KindFile     Kind = "file"
	KindList     Kind = "list"
)

// Kinds lists every supported widget kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindInput, KindCheckbox, KindText, KindFile, KindList}
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds(), k)
}

// Descriptor is the schema value of a field: the placeholder shown to the
// operator and the widget kind. An empty Kind marks a legacy descriptor whose
// kind still has to be inferred from the field name.
type Descriptor struct {
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Kind        Kind   `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// String encodes the descriptor back into its composite `placeholder|kind`
// form. Legacy descriptors encode to the bare placeholder.
func (d Descriptor) String() string {
	if d.Kind == "" {
		return d.Placeholder
	}
	return d.Placeholder + descriptorSeparator + string(d.Kind)
}

// Field is a single named entry of a Record.
type Field struct {
	Name       string     `json:"name" yaml:"name"`
	Descriptor Descriptor `json:"descriptor" yaml:"descriptor"`
}

// Key is the composite (command, operation) selector of a Record.
type Key struct {
	Command   string
	Operation string
}

// AnyOperation matches every operation of a command that has no more
// specific record.
const AnyOperation = "*"

func (k Key) String() string {
	if k.Operation == "" {
		return k.Command
	}
	return k.Command + "/" + k.Operation
}

func (k Key) normalized() Key {
	return Key{
		Command:   strings.TrimSpace(k.Command),
		Operation: strings.TrimSpace(k.Operation),
	}
}

// Record is the ordered field list defining the input form of one command.
// Meta carries non-data members (titles, hints) that are never rendered as
// fields. Help is sanitised HTML shown above the form.
type Record struct {
	Command   string            `json:"command"`
	Operation string            `json:"operation"`
	Title     string            `json:"title,omitempty"`
	Help      string            `json:"help,omitempty"`
	Fields    []Field           `json:"fields"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Empty reports whether the record has no fields to render.
func (r Record) Empty() bool {
	return len(r.Fields) == 0
}

// Key returns the selector the record is registered under.
func (r Record) Key() Key {
	return Key{Command: r.Command, Operation: r.Operation}
}

// Field returns the named field and whether it exists.
func (r Record) Field(name string) (Field, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.Fields))
	for _, field := range r.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy so callers can mutate the result freely.
func (r Record) Clone() Record {
	out := r
	out.Fields = slices.Clone(r.Fields)
	out.Meta = maps.Clone(r.Meta)
	return out
}
