package storage

import (
	"sync"

	"github.com/eugenenazirov/cloudconfig/internal/options"
)

// Storage holds the configuration entries shared by the resolver.
type Storage interface {
	Get(name string) (options.Value, bool)
	Set(name string, value options.Value)
	Merge(values options.Options)
	Snapshot() options.Options
	Reset()
}

// MemoryStorage keeps configuration in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	values options.Options
}

// NewMemoryStorage initialises an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(options.Options),
	}
}

// Get returns a defensive copy of the named entry.
func (s *MemoryStorage) Get(name string) (options.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values.Get(name)
}

// Set stores a copy of value under name. An invalid value removes the entry.
func (s *MemoryStorage) Set(name string, value options.Value) {
	s.mu.Lock()
	s.values.Set(name, value)
	s.mu.Unlock()
}

// Merge writes every top-level entry of values, replacing existing entries with
// the same name wholesale. Invalid values remove their entries.
func (s *MemoryStorage) Merge(values options.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, value := range values {
		s.values.Set(name, value)
	}
}

// Snapshot returns a deep copy of all entries.
func (s *MemoryStorage) Snapshot() options.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values.Clone()
}

// Reset drops every entry.
func (s *MemoryStorage) Reset() {
	s.mu.Lock()
	s.values = make(options.Options)
	s.mu.Unlock()
}
