package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Matcher decides whether a widget kind applies to the named field.
type Matcher func(name string) bool

type rule struct {
	kind     schema.Kind
	priority int
	match    Matcher
	order    int
}

// Registry infers widget kinds for legacy descriptors that carry only a
// placeholder. Explicit kinds are always honoured; otherwise the highest
// priority matcher wins and ties fall back to registration order. Fields no
// matcher claims resolve to schema.KindInput.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the console naming conventions
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for kind with the provided priority. Invalid kinds
// and nil matchers are ignored.
func (r *Registry) Register(kind schema.Kind, priority int, matcher Matcher) {
	if r == nil || matcher == nil || !kind.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     kind,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget kind for a field.
func (r *Registry) Resolve(name string, desc schema.Descriptor) schema.Kind {
	if desc.Kind.Valid() {
		return desc.Kind
	}
	if r == nil {
		return schema.KindInput
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(name) {
			return entry.kind
		}
	}
	return schema.KindInput
}

// Decorate resolves every field of the record so that each descriptor carries
// an explicit kind. Run it once on legacy records before rendering.
func (r *Registry) Decorate(record schema.Record) schema.Record {
	out := record.Clone()
	for idx, field := range out.Fields {
		out.Fields[idx].Descriptor.Kind = r.Resolve(field.Name, field.Descriptor)
	}
	return out
}

func (r *Registry) registerBuiltins() {
	r.Register(schema.KindFile, 90, func(name string) bool {
		return strings.Contains(name, "file")
	})
	r.Register(schema.KindList, 80, func(name string) bool {
		return strings.HasSuffix(name, "_list")
	})
	r.Register(schema.KindText, 70, func(name string) bool {
		return strings.HasSuffix(name, "_text")
	})
	r.Register(schema.KindCheckbox, 60, func(name string) bool {
		return strings.HasPrefix(name, "is")
	})
}
