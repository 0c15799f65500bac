package store

import (
	"context"
	"sync/atomic"
	"time"

	"pair-engine/internal/model"
)

// Memory swaps an immutable batch pointer; no reader ever sees a partially
// written batch and no lock is held while analyzing.
type Memory struct {
	current atomic.Pointer[model.Batch]
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Store(_ context.Context, assignments []model.Assignment) (*model.Batch, error) {
	b := newBatch(assignments, m.now())
	m.current.Store(b)
	return b, nil
}

// RetrieveOrEmpty returns the stored batch. Callers must treat it as read-only.
func (m *Memory) RetrieveOrEmpty(_ context.Context) (*model.Batch, error) {
	if b := m.current.Load(); b != nil {
		return b, nil
	}
	return emptyBatch(), nil
}

func (m *Memory) HasData(_ context.Context) (bool, error) {
	return !m.current.Load().Empty(), nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.current.Store(nil)
	return nil
}
