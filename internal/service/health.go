package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/repo"
)

var (
	ErrQueueStoreNotReachable = errors.New("queue store not reachable")
	ErrRedisNotReachable      = errors.New("redis not reachable")
)

type Health struct {
	Store repo.QueueStore
	Redis *redis.Client

	pingRedis bool
}

func NewHealth(conf *appconfig.Config, store repo.QueueStore, redis *redis.Client) *Health {
	return &Health{
		Store:     store,
		Redis:     redis,
		pingRedis: conf.QueueStore == appconfig.QueueStoreRedis,
	}
}

func (s *Health) Ping(ctx context.Context) error {
	if err := s.Store.Ping(ctx); err != nil {
		return errors.Wrap(ErrQueueStoreNotReachable, err.Error())
	}

	if s.pingRedis {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return errors.Wrap(ErrRedisNotReachable, err.Error())
		}
	}

	return nil
}
