package render

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Bookkeeping hidden field names emitted on every form.
const (
	HiddenCommand   = "cmd"
	HiddenOperation = "op"
	HiddenFileDiv   = "filediv"
)

// PassphraseField carries the key sealed fields are encrypted with.
const PassphraseField = "passphrase"

// DefaultSealedFields are encrypted in the browser when a passphrase is set.
var DefaultSealedFields = []string{"privkey", "sec"}

// SealedNames returns the fields of record listed in sealed, in record order.
// It returns nil when the record declares its own passphrase field.
func SealedNames(record schema.Record, sealed []string) []string {
	names := record.Names()
	if slices.Contains(names, PassphraseField) {
		return nil
	}
	var out []string
	for _, name := range names {
		if slices.Contains(sealed, name) {
			out = append(out, name)
		}
	}
	return out
}

// HiddenField represents a hidden form input emitted alongside the visible
// schema.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// BookkeepingFields returns the fixed hidden inputs (cmd, op, filediv) for a
// record, in that order.
func BookkeepingFields(record schema.Record) []HiddenField {
	return []HiddenField{
		Hidden(HiddenCommand, record.Command),
		Hidden(HiddenOperation, record.Operation),
		Hidden(HiddenFileDiv, ""),
	}
}

// IsBookkeeping reports whether name is one of the fixed hidden fields.
func IsBookkeeping(name string) bool {
	switch strings.TrimSpace(name) {
	case HiddenCommand, HiddenOperation, HiddenFileDiv:
		return true
	default:
		return false
	}
}

// FormHiddenFields returns the bookkeeping fields followed by the extras
// sorted by name. Extras with empty names, bookkeeping names or names already
// used by the record are dropped; later extras win on collisions.
func FormHiddenFields(record schema.Record, extras ...HiddenField) []HiddenField {
	out := BookkeepingFields(record)

	reserved := record.Names()
	clean := make(map[string]string, len(extras))
	for _, field := range extras {
		name := strings.TrimSpace(field.Name)
		if name == "" || IsBookkeeping(name) || slices.Contains(reserved, name) {
			continue
		}
		clean[name] = field.Value
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}
