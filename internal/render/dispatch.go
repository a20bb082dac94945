package render

import (
	"github.com/rs/zerolog/log"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

var builders = map[model.ChartType]Builder{
	model.ChartTypeDonut:           Donut,
	model.ChartTypeBar:             Bar,
	model.ChartTypeMatrix:          Matrix,
	model.ChartTypeScore:           Score,
	model.ChartTypeApproval:        Approval,
	model.ChartTypePartido:         Partido,
	model.ChartTypeTracking:        Tracking,
	model.ChartTypeStacked:         Stacked,
	model.ChartTypeMediumDonut:     MediumDonut,
	model.ChartTypeStackedVertical: StackedVertical,
}

// Lookup returns the builder registered for t.
func Lookup(t model.ChartType) (Builder, bool) {
	b, ok := builders[t]
	return b, ok
}

// Types lists the chart types that have a builder, in menu order.
func Types() []model.ChartType {
	out := make([]model.ChartType, 0, len(builders))
	for _, t := range model.ChartTypes {
		if _, ok := builders[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Render draws in with the builder of t. An unknown type yields
// ErrUnsupportedChartType; a builder panic yields the placeholder canvas.
func Render(t model.ChartType, in Input) (out string, err error) {
	b, ok := Lookup(t)
	if !ok {
		return "", pgerr.ErrUnsupportedChartType.Msg("chart type %q not available", t)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("evt.name", "render.panic").
				Str("chartType", string(t)).
				Interface("panic", r).
				Msg("chart builder panicked, falling back to placeholder")
			out, err = Placeholder(in.Options, MsgNoData), nil
		}
	}()
	return b(in), nil
}
