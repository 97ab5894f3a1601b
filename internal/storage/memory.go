package storage

import (
	"context"
	"sync"

	"budget/internal/core"
)

// MemoryRepository keeps a copy of the last saved collection in memory.
type MemoryRepository struct {
	mu    sync.Mutex
	items []core.Transaction
	saves int
}

func NewMemoryRepository(seed ...core.Transaction) *MemoryRepository {
	return &MemoryRepository{items: append([]core.Transaction(nil), seed...)}
}

func (m *MemoryRepository) Load(_ context.Context) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction{}, m.items...), nil
}

func (m *MemoryRepository) Save(_ context.Context, txs []core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]core.Transaction{}, txs...)
	m.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (m *MemoryRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
