package service

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/observability"
	"poligrama.dev/backend/internal/pkg/pgerr"
	"poligrama.dev/backend/internal/repo"
)

// Queue holds charts saved for a later export. Entries expire after the
// configured TTL.
type Queue struct {
	Store         repo.QueueStore
	ExportService *Export

	ttl time.Duration
	now func() time.Time
}

func NewQueue(conf *appconfig.Config, store repo.QueueStore, exportService *Export) *Queue {
	return &Queue{
		Store:         store,
		ExportService: exportService,
		ttl:           conf.QueueTTL,
		now:           time.Now,
	}
}

func (s *Queue) live(charts []model.SavedChart) []model.SavedChart {
	now := s.now()
	return lo.Filter(charts, func(c model.SavedChart, _ int) bool {
		return !c.Expired(now, s.ttl)
	})
}

func (s *Queue) Add(ctx context.Context, title string, chartType model.ChartType, svg string) (model.SavedChart, error) {
	c := model.SavedChart{
		ID:        ulid.Make().String(),
		Title:     title,
		ChartType: chartType,
		SVG:       svg,
		CreatedAt: s.now(),
	}
	err := s.Store.Update(ctx, func(charts []model.SavedChart) ([]model.SavedChart, error) {
		return append(s.live(charts), c), nil
	})
	if err != nil {
		return model.SavedChart{}, err
	}

	log.Debug().
		Str("evt.name", "service.queue.add").
		Str("id", c.ID).
		Str("chartType", string(chartType)).
		Msg("chart queued for export")
	return c, nil
}

// List returns the live entries in the order they were added.
func (s *Queue) List(ctx context.Context) ([]model.SavedChart, error) {
	charts, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	charts = s.live(charts)
	observability.QueueSize.Set(float64(len(charts)))
	return charts, nil
}

func (s *Queue) Remove(ctx context.Context, id string) error {
	return s.Store.Update(ctx, func(charts []model.SavedChart) ([]model.SavedChart, error) {
		charts = s.live(charts)
		_, idx, found := lo.FindIndexOf(charts, func(c model.SavedChart) bool {
			return c.ID == id
		})
		if !found {
			return nil, pgerr.ErrNotFound.Msg("chart %q not found in export queue", id)
		}
		return append(charts[:idx:idx], charts[idx+1:]...), nil
	})
}

func (s *Queue) Clear(ctx context.Context) error {
	err := s.Store.Update(ctx, func([]model.SavedChart) ([]model.SavedChart, error) {
		return []model.SavedChart{}, nil
	})
	if err == nil {
		observability.QueueSize.Set(0)
	}
	return err
}

// Export archives the live queue and empties it. The queue is left intact
// when building the archive fails.
func (s *Queue) Export(ctx context.Context) (*Archive, error) {
	var archive *Archive
	err := s.Store.Update(ctx, func(charts []model.SavedChart) ([]model.SavedChart, error) {
		charts = s.live(charts)
		if len(charts) == 0 {
			return nil, pgerr.ErrInvalidReq.Msg("export queue is empty")
		}
		a, err := s.ExportService.Build(ctx, charts)
		if err != nil {
			return nil, err
		}
		archive = a
		return []model.SavedChart{}, nil
	})
	if err != nil {
		return nil, err
	}
	observability.QueueSize.Set(0)
	return archive, nil
}
