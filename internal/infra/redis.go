package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"poligrama.dev/backend/internal/app/appconfig"
)

// Redis opens the client used by the redis queue store and the idempotency
// middleware. The connection is only checked when redis backs the queue.
func Redis(conf *appconfig.Config, lc fx.Lifecycle) (*redis.Client, error) {
	u, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		log.Error().Err(err).Str("evt.name", "infra.redis.parse").Msg("failed to parse redis url")
		return nil, err
	}

	client := redis.NewClient(u)
	lc.Append(fx.StopHook(client.Close))

	if conf.QueueStore != appconfig.QueueStoreRedis {
		return client, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("evt.name", "infra.redis.ping").Msg("failed to ping redis")
		return nil, err
	}

	return client, nil
}
