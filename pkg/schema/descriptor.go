package schema

import "strings"

const descriptorSeparator = "|"

// ParseDescriptor decodes a raw schema value. Composite values use the
// `placeholder|kind` form and split on the first separator; anything else is
// a legacy placeholder with no explicit kind. Placeholders quoted with single
// quotes lose the quotes.
func ParseDescriptor(raw string) Descriptor {
	placeholder, kind, found := strings.Cut(raw, descriptorSeparator)
	desc := Descriptor{Placeholder: unquote(strings.TrimSpace(placeholder))}
	if found {
		desc.Kind = Kind(strings.ToLower(strings.TrimSpace(kind)))
	}
	return desc
}

// MustKind returns the descriptor kind, falling back to KindInput when the
// descriptor is legacy or names an unknown kind.
func (d Descriptor) MustKind() Kind {
	if d.Kind.Valid() {
		return d.Kind
	}
	return KindInput
}

// AcceptFor returns the file extension accepted by a file field. Config files
// are TOML; every other upload is JSON.
func AcceptFor(name string) string {
	if strings.Contains(name, "config") {
		return ".toml"
	}
	return ".json"
}

func unquote(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		return value[1 : len(value)-1]
	}
	return value
}
