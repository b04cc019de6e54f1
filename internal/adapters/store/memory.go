package store

import (
	"context"
	"sort"
	"sync"

	"github.com/larriantoniy/wx_isfriend/internal/domain"
)

// MemoryStore хранит чекпоинты только в памяти процесса
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]map[int][]domain.Contact
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]map[int][]domain.Contact)}
}

func (m *MemoryStore) SaveBatch(_ context.Context, runID string, batch int, deleted []domain.Contact) error {
	if runID == "" {
		return ErrEmptyRunID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		run = make(map[int][]domain.Contact)
		m.runs[runID] = run
	}
	run[batch] = append([]domain.Contact(nil), deleted...)
	return nil
}

func (m *MemoryStore) Load(_ context.Context, runID string) ([]domain.Contact, error) {
	if runID == "" {
		return nil, ErrEmptyRunID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	run := m.runs[runID]
	batches := make([]int, 0, len(run))
	for b := range run {
		batches = append(batches, b)
	}
	sort.Ints(batches)

	var out []domain.Contact
	for _, b := range batches {
		out = append(out, run[b]...)
	}
	return out, nil
}

func (m *MemoryStore) Close(context.Context) error {
	return nil
}
