package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/core/adapter"
	"poligrama.dev/backend/internal/core/selection"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/async"
	"poligrama.dev/backend/internal/pkg/observability"
	"poligrama.dev/backend/internal/pkg/pgerr"
	"poligrama.dev/backend/internal/render"
)

const chartTracerName = "poligrama.dev/backend/internal/service/chart"

// Rendered is a drawn chart.
type Rendered struct {
	Title     string          `json:"title"`
	ChartType model.ChartType `json:"chartType"`
	SVG       string          `json:"svg"`
	// Placeholder is set when the chart could not be drawn from its data
	// and SVG holds the empty state canvas instead.
	Placeholder bool `json:"placeholder"`
}

type Chart struct {
	SheetService *Sheet

	tracer      trace.Tracer
	concurrency int

	mu    sync.Mutex
	cache *simplelru.LRU
}

func NewChart(conf *appconfig.Config, sheetService *Sheet, tp trace.TracerProvider) (*Chart, error) {
	s := &Chart{
		SheetService: sheetService,
		tracer:       tp.Tracer(chartTracerName),
		concurrency:  conf.BatchConcurrency,
	}
	if conf.RenderCacheSize > 0 {
		cache, err := simplelru.NewLRU(conf.RenderCacheSize, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create render cache")
		}
		s.cache = cache
	}
	return s, nil
}

// Render draws the chart described by req. Data problems the user can fix
// from the chart form (a missing second column, an empty selection) still
// yield a chart: the placeholder canvas carrying the message. Requests that
// cannot be served at all return an error.
func (s *Chart) Render(ctx context.Context, req *model.RenderRequest) (*Rendered, error) {
	chartType := string(req.ChartType)
	mode := string(req.InputMode())

	ctx, span := s.tracer.Start(ctx, "chart.render", trace.WithAttributes(
		attribute.String("chart.type", chartType),
		attribute.String("chart.mode", mode),
	))
	defer span.End()

	if _, ok := render.Lookup(req.ChartType); !ok {
		observability.RenderTotal.WithLabelValues(chartType, "error").Inc()
		return nil, pgerr.ErrUnsupportedChartType.Msg("chart type %q not available", req.ChartType)
	}

	key, err := s.cacheKey(req)
	if err != nil {
		return nil, s.fail(span, chartType, err)
	}
	if r, ok := s.cached(key); ok {
		span.SetAttributes(attribute.Bool("chart.cached", true))
		observability.RenderTotal.WithLabelValues(chartType, "cached").Inc()
		return r, nil
	}

	start := time.Now()
	src, err := s.load(ctx, req)
	if err != nil {
		return nil, s.fail(span, chartType, err)
	}

	in, err := s.input(src, req)
	if err != nil {
		return nil, s.fail(span, chartType, err)
	}

	svg, err := render.Render(req.ChartType, in)
	if err != nil {
		return nil, s.fail(span, chartType, err)
	}
	observability.RenderDuration.WithLabelValues(chartType, mode).Observe(time.Since(start).Seconds())

	r := &Rendered{
		Title:       in.Title,
		ChartType:   req.ChartType,
		SVG:         svg,
		Placeholder: in.Err != nil,
	}
	outcome := "ok"
	if r.Placeholder {
		outcome = "placeholder"
		span.SetAttributes(attribute.String("chart.placeholder", adapter.Message(in.Err)))
		log.Debug().
			Str("evt.name", "service.chart.placeholder").
			Str("chartType", chartType).
			Err(in.Err).
			Msg("chart drawn as placeholder")
	}
	observability.RenderTotal.WithLabelValues(chartType, outcome).Inc()

	s.store(key, r)
	return r, nil
}

// RenderBatch draws every request with bounded concurrency. Results keep
// the order of reqs; the first failing request fails the whole batch.
func (s *Chart) RenderBatch(ctx context.Context, reqs []model.RenderRequest) ([]*Rendered, error) {
	ctx, span := s.tracer.Start(ctx, "chart.batch", trace.WithAttributes(
		attribute.Int("chart.batch.size", len(reqs)),
	))
	defer span.End()

	out, err := async.Map(ctx, reqs, s.concurrency, func(ctx context.Context, req model.RenderRequest) (*Rendered, error) {
		return s.Render(ctx, &req)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (s *Chart) load(ctx context.Context, req *model.RenderRequest) (*Source, error) {
	ctx, span := s.tracer.Start(ctx, "chart.load")
	defer span.End()

	src, err := s.SheetService.Load(ctx, req.Spreadsheet, req.Sheet)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("sheet.rows", src.Grid.Rows()))
	return src, nil
}

// input runs the frequency, selection and adapter stages for req.
func (s *Chart) input(src *Source, req *model.RenderRequest) (render.Input, error) {
	in := render.Input{
		Options: render.Options{
			Title:      Title(src, req),
			SheetTitle: sheetTitle(req),
			Canvas:     render.CanvasByName(req.Canvas),
			Colors:     req.Colors,
			Background: req.Background,
			TextColor:  req.TextColor,
		},
	}

	records, err := Records(src, req)
	if err != nil {
		if errors.Is(err, pgerr.ErrMissingRequiredInput) {
			in.Err = err
			return in, nil
		}
		return in, err
	}
	prepared := Prepared(records, req)
	in.Records = prepared
	labels := model.Labels(prepared)
	summary := req.InputMode().IsSummary()

	switch req.ChartType {
	case model.ChartTypeMatrix:
		if summary {
			in.Crosstab, in.Err = adapter.CrosstabSummary(src.Grid, prepared, req.SecondRange)
		} else {
			in.Crosstab, in.Err = adapter.CrosstabRaw(src.Columns, req.Column, req.SecondColumn, labels)
		}
	case model.ChartTypeMediumDonut:
		if summary {
			in.Comparative = adapter.ComparativeSummary(src.Grid, prepared, labels, req.SecondRange)
		} else {
			in.Comparative, in.Err = adapter.ComparativeRaw(src.Columns, req.Column, req.SecondColumn, labels)
		}
	case model.ChartTypeStacked:
		if summary {
			in.Stacked = adapter.StackedSummary(src.Grid, req.StackedRanges, req.StackedLabelCells)
		} else {
			if categories := stackedCategories(src, req, labels); len(categories) > 0 {
				in.Stacked = adapter.StackedRaw(src.Columns, req.StackedColumns, categories)
			}
		}
	case model.ChartTypeTracking, model.ChartTypeStackedVertical:
		series, err := Series(src, req)
		if err == nil {
			series, err = adapter.ReorderTracking(series, labels)
		}
		in.Tracking, in.Err = series, err
	}

	if in.Err != nil && !errors.Is(in.Err, pgerr.ErrMissingRequiredInput) {
		return in, in.Err
	}
	return in, nil
}

// stackedCategories is the segment order of a raw stacked chart. With a
// question column it is the prepared labels of that column; otherwise the
// values of the first stacked column, reconciled with the saved order and
// the exclusions.
func stackedCategories(src *Source, req *model.RenderRequest, labels []string) []string {
	var categories []string
	if req.Column != "" {
		categories = labels
	} else {
		records := lo.Map(adapter.StackedCategories(src.Columns, req.StackedColumns), func(l string, _ int) model.FrequencyRecord {
			return model.FrequencyRecord{Label: l}
		})
		categories = selection.Reconcile(req.Order, records, selection.NewExclusion(req.Excluded...))
	}
	return lo.Filter(categories, func(l string, _ int) bool {
		return strings.TrimSpace(l) != ""
	})
}

func sheetTitle(req *model.RenderRequest) string {
	if req.SheetName != "" {
		return req.SheetName
	}
	return req.Sheet
}

// cacheKey hashes req together with the current version of its workbook,
// so editing the file invalidates every chart drawn from it.
func (s *Chart) cacheKey(req *model.RenderRequest) (uint64, error) {
	version, err := s.SheetService.Version(req.Spreadsheet)
	if err != nil {
		return 0, err
	}
	b, err := json.Marshal(req)
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode render request")
	}
	b = append(b, '|')
	b = append(b, version...)
	return xxh3.Hash(b), nil
}

func (s *Chart) cached(key uint64) (*Rendered, bool) {
	if s.cache == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Rendered), true
}

func (s *Chart) store(key uint64, r *Rendered) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(key, r)
}

// Purge drops every cached chart.
func (s *Chart) Purge() {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
}

func (s *Chart) fail(span trace.Span, chartType string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	observability.RenderTotal.WithLabelValues(chartType, "error").Inc()
	log.Debug().
		Str("evt.name", "service.chart.failed").
		Str("chartType", chartType).
		Err(err).
		Msg("chart render failed")
	return err
}
