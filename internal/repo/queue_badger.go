package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/model"
)

// OpenBadger opens the badger database at dir, or an in-memory one when dir
// is empty.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{l: log.With().Str("evt.name", "repo.badger").Logger()}).
		WithNumVersionsToKeep(1)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger")
	}
	return db, nil
}

// BadgerQueueStore keeps the queue under a single msgpack-encoded key.
// Updates are serialized in process so transactions never conflict.
type BadgerQueueStore struct {
	mu  sync.Mutex
	db  *badger.DB
	key []byte
}

func NewBadgerQueueStore(db *badger.DB) *BadgerQueueStore {
	return &BadgerQueueStore{db: db, key: []byte(constant.QueueStoreKey)}
}

func (s *BadgerQueueStore) get(txn *badger.Txn) ([]model.SavedChart, error) {
	item, err := txn.Get(s.key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []model.SavedChart{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get queue")
	}

	var charts []model.SavedChart
	err = item.Value(func(val []byte) error {
		return msgpack.Unmarshal(val, &charts)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode queue")
	}
	return cloneCharts(charts), nil
}

func (s *BadgerQueueStore) Load(ctx context.Context) ([]model.SavedChart, error) {
	var charts []model.SavedChart
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		charts, err = s.get(txn)
		return err
	})
	return charts, err
}

func (s *BadgerQueueStore) Update(ctx context.Context, fn func([]model.SavedChart) ([]model.SavedChart, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		current, err := s.get(txn)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		b, err := msgpack.Marshal(cloneCharts(next))
		if err != nil {
			return errors.Wrap(err, "failed to encode queue")
		}
		return txn.Set(s.key, b)
	})
}

func (s *BadgerQueueStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msg(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msg(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msg(fmt.Sprintf(format, args...))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Msg(fmt.Sprintf(format, args...))
}
