package workflow

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps items and events in process memory. It backs tests and
// ad-hoc runs without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]ReviewItem
	events map[string]PublishEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:  map[string]ReviewItem{},
		events: map[string]PublishEvent{},
	}
}

func (m *MemoryStore) InsertItem(_ context.Context, it ReviewItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
	return nil
}

func (m *MemoryStore) FindItem(_ context.Context, id string) (ReviewItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return ReviewItem{}, ErrNotFound
	}
	return it, nil
}

func (m *MemoryStore) ListItemsByStatus(_ context.Context, status ItemStatus, slug string) ([]ReviewItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ReviewItem
	for _, it := range m.items {
		if it.Status != status {
			continue
		}
		if slug != "" && it.TechnologySlug != slug {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GeneratedAt != out[j].GeneratedAt {
			return out[i].GeneratedAt > out[j].GeneratedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpdateItemStatus(_ context.Context, id string, status ItemStatus, updatedAt int64) (ReviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return ReviewItem{}, ErrNotFound
	}
	it.Status = status
	it.UpdatedAt = updatedAt
	m.items[id] = it
	return it, nil
}

func (m *MemoryStore) InsertEvent(_ context.Context, ev PublishEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.ID] = ev
	return nil
}

func (m *MemoryStore) FindEvent(_ context.Context, id string) (PublishEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.events[id]
	if !ok {
		return PublishEvent{}, ErrNotFound
	}
	return ev, nil
}

func (m *MemoryStore) UpdateEventStatus(_ context.Context, id string, status EventStatus) (PublishEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return PublishEvent{}, ErrNotFound
	}
	ev.Status = status
	m.events[id] = ev
	return ev, nil
}

func (m *MemoryStore) ListEvents(_ context.Context) ([]PublishEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PublishEvent, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
