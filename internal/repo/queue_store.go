package repo

import (
	"context"

	"github.com/go-redsync/redsync/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/model"
)

// QueueStore persists the export queue as a whole.
type QueueStore interface {
	// Load returns the stored charts in insertion order.
	Load(ctx context.Context) ([]model.SavedChart, error)

	// Update replaces the stored charts with the result of fn, applied to
	// the current ones while no other Update of the same store runs.
	Update(ctx context.Context, fn func([]model.SavedChart) ([]model.SavedChart, error)) error

	Ping(ctx context.Context) error
}

type QueueStoreParams struct {
	fx.In

	Config    *appconfig.Config
	Lifecycle fx.Lifecycle
	Redis     *redis.Client
	RedSync   *redsync.Redsync
}

// NewQueueStore opens the store selected by the QueueStore setting.
func NewQueueStore(p QueueStoreParams) (QueueStore, error) {
	conf := p.Config
	switch conf.QueueStore {
	case appconfig.QueueStoreFile:
		return NewFileQueueStore(conf.QueueFile), nil
	case appconfig.QueueStoreBadger:
		db, err := OpenBadger(conf.QueueBadgerDir)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.StopHook(db.Close))
		return NewBadgerQueueStore(db), nil
	case appconfig.QueueStoreRedis:
		return NewRedisQueueStore(p.Redis, p.RedSync, conf.QueueTTL), nil
	case appconfig.QueueStoreMemory, "":
		return NewMemoryQueueStore(), nil
	default:
		return nil, errors.Errorf("unknown queue store %q", conf.QueueStore)
	}
}

func cloneCharts(charts []model.SavedChart) []model.SavedChart {
	if charts == nil {
		return []model.SavedChart{}
	}
	return append([]model.SavedChart(nil), charts...)
}
