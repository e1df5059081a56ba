package ingest

import (
	"maps"
	"sync"
)

// Values is a concurrency-safe store of form control values keyed by id.
type Values struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewValues returns an empty store.
func NewValues() *Values {
	return &Values{data: make(map[string]string)}
}

// Set stores value under id.
func (v *Values) Set(id, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[id] = value
}

// Get returns the value stored under id.
func (v *Values) Get(id string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.data[id]
	return value, ok
}

// Snapshot returns a copy of every stored value.
func (v *Values) Snapshot() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.data)
}
