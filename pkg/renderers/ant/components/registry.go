package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	rendertemplate "github.com/goliatone/go-cmdform/pkg/render/template"
	"github.com/goliatone/go-cmdform/pkg/schema"
)

// Renderer writes the control markup for one field into buf.
type Renderer func(buf *bytes.Buffer, field schema.Field, data ComponentData) error

// ComponentData carries the per-render inputs a component needs.
type ComponentData struct {
	Template    rendertemplate.TemplateRenderer
	Value       string
	Suggestions []string
}

// Script describes a JavaScript dependency a component needs emitted once per
// page.
type Script struct {
	Src   string
	Defer bool
}

// Descriptor bundles a component renderer with its asset dependencies.
// OwnChrome marks components that emit their own form-item rows.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	OwnChrome   bool
	Stylesheets []string
	Scripts     []Script
}

// Registry tracks component descriptors keyed by widget kind.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Clone returns a deep copy of the registry to allow isolated mutations.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with a widget kind. Existing entries are
// replaced.
func (r *Registry) Register(kind schema.Kind, descriptor Descriptor) error {
	name := normalize(string(kind))
	if name == "" {
		return fmt.Errorf("components: component kind is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(kind schema.Kind, descriptor Descriptor) {
	if err := r.Register(kind, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches the descriptor registered for kind.
func (r *Registry) Descriptor(kind schema.Kind) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(string(kind))]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Names returns the sorted registered kinds.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Assets resolves the deduplicated stylesheets and scripts for the provided
// kinds, in the order given.
func (r *Registry) Assets(kinds []string) (stylesheets []string, scripts []Script) {
	if len(kinds) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seenStyles := make(map[string]struct{})
	seenScripts := make(map[string]struct{})

	for _, kind := range kinds {
		descriptor, ok := r.components[normalize(kind)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seenStyles[href]; exists {
				continue
			}
			seenStyles[href] = struct{}{}
			stylesheets = append(stylesheets, href)
		}
		for _, script := range descriptor.Scripts {
			if script.Src == "" {
				continue
			}
			if _, exists := seenScripts[script.Src]; exists {
				continue
			}
			seenScripts[script.Src] = struct{}{}
			scripts = append(scripts, script)
		}
	}
	return stylesheets, scripts
}

func cloneDescriptor(src Descriptor) Descriptor {
	clone := src
	clone.Stylesheets = slices.Clone(src.Stylesheets)
	clone.Scripts = slices.Clone(src.Scripts)
	return clone
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
