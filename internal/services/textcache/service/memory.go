package service

import (
	"container/list"
	"sync"
)

// memory is the bounded in-process tier; the oldest insertion goes first
type memory struct {
	mu    sync.Mutex
	cap   int
	items map[string]*list.Element
	order *list.List
}

type memEntry struct{ key, val string }

func newMemory(capacity int) *memory {
	if capacity <= 0 {
		capacity = 5000
	}
	return &memory{cap: capacity, items: make(map[string]*list.Element), order: list.New()}
}

func (m *memory) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		return el.Value.(memEntry).val, true
	}
	return "", false
}

// put keeps the original insertion position when key already exists
func (m *memory) put(key, val string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		el.Value = memEntry{key: key, val: val}
		return
	}
	m.items[key] = m.order.PushBack(memEntry{key: key, val: val})
	for m.order.Len() > m.cap {
		oldest := m.order.Front()
		m.order.Remove(oldest)
		delete(m.items, oldest.Value.(memEntry).key)
	}
}

func (m *memory) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
