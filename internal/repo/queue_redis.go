package repo

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"poligrama.dev/backend/internal/constant"
	"poligrama.dev/backend/internal/model"
)

// RedisQueueStore shares the queue between instances. Updates hold a
// redsync mutex; the key expires ttl after the last write.
type RedisQueueStore struct {
	client *redis.Client
	sync   *redsync.Redsync
	ttl    time.Duration
	key    string
}

func NewRedisQueueStore(client *redis.Client, sync *redsync.Redsync, ttl time.Duration) *RedisQueueStore {
	return &RedisQueueStore{client: client, sync: sync, ttl: ttl, key: constant.QueueStoreKey}
}

func (s *RedisQueueStore) Load(ctx context.Context) ([]model.SavedChart, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.SavedChart{}, nil
	}
	if err != nil {
		log.Error().Err(err).Str("evt.name", "repo.queue.redis.get").Str("key", s.key).Msg("failed to get queue from redis")
		return nil, err
	}

	var charts []model.SavedChart
	if err := msgpack.Unmarshal(b, &charts); err != nil {
		return nil, errors.Wrap(err, "failed to decode queue")
	}
	return cloneCharts(charts), nil
}

func (s *RedisQueueStore) Update(ctx context.Context, fn func([]model.SavedChart) ([]model.SavedChart, error)) error {
	mutex := s.sync.NewMutex("poligrama:mutex:"+s.key,
		redsync.WithExpiry(10*time.Second),
		redsync.WithTries(20),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return errors.Wrap(err, "failed to lock queue")
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			log.Warn().Err(err).Str("evt.name", "repo.queue.redis.unlock").Msg("failed to unlock queue")
		}
	}()

	current, err := s.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}

	if len(next) == 0 {
		return s.client.Del(ctx, s.key).Err()
	}
	b, err := msgpack.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "failed to encode queue")
	}
	return s.client.Set(ctx, s.key, b, s.ttl).Err()
}

func (s *RedisQueueStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
