package jar

import (
	"sort"
	"sync"
)

// MemoryStore is a volatile Store kept entirely in process memory.
// Nothing it holds survives the process.
type MemoryStore struct {
	mu      sync.RWMutex
	cookies map[Origin]map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cookies: make(map[Origin]map[string]Record)}
}

func (m *MemoryStore) Lookup(origin Origin, name string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.cookies[origin][name]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) Insert(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byName, ok := m.cookies[rec.Origin]
	if !ok {
		byName = make(map[string]Record)
		m.cookies[rec.Origin] = byName
	}
	byName[rec.Name] = rec
	return nil
}

func (m *MemoryStore) Remove(origin Origin, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byName, ok := m.cookies[origin]
	if !ok {
		return nil
	}
	delete(byName, name)
	if len(byName) == 0 {
		delete(m.cookies, origin)
	}
	return nil
}

// Records returns the cookies of origin sorted by name.
func (m *MemoryStore) Records(origin Origin) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byName := m.cookies[origin]
	out := make([]Record, 0, len(byName))
	for _, rec := range byName {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Purge() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cookies = make(map[Origin]map[string]Record)
	return nil
}

// Len returns the total number of cookies across all origins.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, byName := range m.cookies {
		n += len(byName)
	}
	return n
}

var _ Store = (*MemoryStore)(nil)
