package repo

import (
	"context"
	"sync"

	"poligrama.dev/backend/internal/model"
)

// MemoryQueueStore keeps the queue for the life of the process.
type MemoryQueueStore struct {
	mu     sync.Mutex
	charts []model.SavedChart
}

func NewMemoryQueueStore() *MemoryQueueStore {
	return &MemoryQueueStore{}
}

func (s *MemoryQueueStore) Load(ctx context.Context) ([]model.SavedChart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCharts(s.charts), nil
}

func (s *MemoryQueueStore) Update(ctx context.Context, fn func([]model.SavedChart) ([]model.SavedChart, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(cloneCharts(s.charts))
	if err != nil {
		return err
	}
	s.charts = cloneCharts(next)
	return nil
}

func (s *MemoryQueueStore) Ping(ctx context.Context) error {
	return nil
}
