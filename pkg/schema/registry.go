package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrDuplicateCommand is returned when two records claim the same key within
// one registration batch.
var ErrDuplicateCommand = errors.New("schema: duplicate command record")

// ErrReservedField is returned when a record declares a field whose name is
// reserved for the form bookkeeping inputs or the result container.
var ErrReservedField = errors.New("schema: reserved field name")

var reservedNames = map[string]struct{}{
	"cmd":     {},
	"op":      {},
	"filediv": {},
	"result":  {},
}

// IsReserved reports whether name is reserved by the form assembler.
func IsReserved(name string) bool {
	_, ok := reservedNames[strings.TrimSpace(name)]
	return ok
}

// Registry stores command records keyed by (command, operation). Lookups are
// safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[Key]Record
	order   []Key
}

// NewRegistry constructs a registry pre-populated with the built-in console
// commands.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	for _, record := range builtinRecords() {
		reg.put(record)
	}
	return reg
}

// NewEmptyRegistry constructs a registry with no records.
func NewEmptyRegistry() *Registry {
	return &Registry{records: make(map[Key]Record)}
}

// Register adds or replaces records. Keys must be unique within the batch.
func (r *Registry) Register(records ...Record) error {
	seen := make(map[Key]struct{}, len(records))
	for _, record := range records {
		key := record.Key().normalized()
		if key.Command == "" {
			return fmt.Errorf("schema: record command is required")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, key)
		}
		seen[key] = struct{}{}
		for _, field := range record.Fields {
			if strings.TrimSpace(field.Name) == "" {
				return fmt.Errorf("schema: record %s has a field without a name", key)
			}
			if IsReserved(field.Name) {
				return fmt.Errorf("%w: %q in %s", ErrReservedField, field.Name, key)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range records {
		r.putLocked(record)
	}
	return nil
}

// Select returns the record for the (command, operation) pair. Unknown pairs
// yield an empty record; this is a silent miss, not an error. A command
// registered under AnyOperation matches every operation.
func (r *Registry) Select(command, operation string) Record {
	if r == nil {
		return Record{}
	}
	key := Key{Command: command, Operation: operation}.normalized()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if record, ok := r.records[key]; ok {
		return record.Clone()
	}
	if record, ok := r.records[Key{Command: key.Command, Operation: AnyOperation}]; ok {
		out := record.Clone()
		out.Operation = key.Operation
		return out
	}
	return Record{}
}

// Has reports whether the pair resolves to a record.
func (r *Registry) Has(command, operation string) bool {
	return !r.Select(command, operation).Empty()
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []Key {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Records returns copies of every registered record in registration order.
func (r *Registry) Records() []Record {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.records[key].Clone())
	}
	return out
}

// Apply runs fn over every record and stores the result, letting callers
// migrate records in place (for example resolving legacy widget kinds).
func (r *Registry) Apply(fn func(Record) Record) {
	if r == nil || fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.order {
		updated := fn(r.records[key].Clone())
		updated.Command, updated.Operation = key.Command, key.Operation
		r.records[key] = updated
	}
}

func (r *Registry) put(record Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(record)
}

func (r *Registry) putLocked(record Record) {
	key := record.Key().normalized()
	record = record.Clone()
	record.Command, record.Operation = key.Command, key.Operation
	if _, exists := r.records[key]; !exists {
		r.order = append(r.order, key)
	}
	r.records[key] = record
}
