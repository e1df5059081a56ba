package submit

import (
	"slices"
)

// FieldValue is one submitted schema field.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Submission is a decoded form post. Fields follow the record's declaration
// order and only carry names the record defines.
type Submission struct {
	Command   string       `json:"cmd"`
	Operation string       `json:"op"`
	Fields    []FieldValue `json:"fields"`
	// Sealed lists the fields whose values were decrypted during decoding.
	Sealed []string `json:"-"`
}

// Value returns the submitted value for name.
func (s Submission) Value(name string) string {
	for _, field := range s.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Values returns the submitted fields as a map.
func (s Submission) Values() map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, field := range s.Fields {
		out[field.Name] = field.Value
	}
	return out
}

// IsSealed reports whether name was decrypted during decoding.
func (s Submission) IsSealed(name string) bool {
	return slices.Contains(s.Sealed, name)
}
