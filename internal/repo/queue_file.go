package repo

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"poligrama.dev/backend/internal/model"
)

// FileQueueStore keeps the queue in a JSON file. Writes go through a
// temporary file renamed over the target.
type FileQueueStore struct {
	mu   sync.Mutex
	path string
}

func NewFileQueueStore(path string) *FileQueueStore {
	return &FileQueueStore{path: path}
}

func (s *FileQueueStore) read() ([]model.SavedChart, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.SavedChart{}, nil
		}
		return nil, errors.Wrap(err, "failed to read queue file")
	}
	if len(b) == 0 {
		return []model.SavedChart{}, nil
	}

	var charts []model.SavedChart
	if err := json.Unmarshal(b, &charts); err != nil {
		return nil, errors.Wrap(err, "failed to decode queue file")
	}
	return cloneCharts(charts), nil
}

func (s *FileQueueStore) write(charts []model.SavedChart) error {
	b, err := json.Marshal(cloneCharts(charts))
	if err != nil {
		return errors.Wrap(err, "failed to encode queue")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create queue directory")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "failed to write queue file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "failed to replace queue file")
}

func (s *FileQueueStore) Load(ctx context.Context) ([]model.SavedChart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileQueueStore) Update(ctx context.Context, fn func([]model.SavedChart) ([]model.SavedChart, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.write(next)
}

func (s *FileQueueStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
