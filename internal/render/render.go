// Package render draws chart shapes as standalone SVG documents.
//
// Every builder is a pure function of its Input: the same input always
// yields byte-identical markup. Builders never fail; missing or empty data
// produces a placeholder canvas with a centered message.
package render

import (
	"strings"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

const (
	MsgNoData        = "No hay datos para la gráfica."
	MsgNoScore       = "No hay datos para calcular el promedio"
	MsgNoApproval    = "No hay datos para el gráfico de aprobación"
	MsgNoPartido     = "No hay datos para el gráfico de partidos"
	MsgNoStacked     = "No hay datos para el gráfico apilado"
	MsgNoTracking    = "No hay datos suficientes para tracking"
	MsgNoMatrixInput = "Select both columns to generate matrix"
)

const defaultTitleBudget = 108

// TitleBudget is the title wrap width, in characters, of each chart type on
// the wide preset. The tall preset always wraps at 80.
var TitleBudget = map[model.ChartType]int{
	model.ChartTypeDonut:           108,
	model.ChartTypeBar:             108,
	model.ChartTypeScore:           108,
	model.ChartTypeApproval:        108,
	model.ChartTypePartido:         108,
	model.ChartTypeMatrix:          115,
	model.ChartTypeMediumDonut:     115,
	model.ChartTypeTracking:        115,
	model.ChartTypeStacked:         115,
	model.ChartTypeStackedVertical: 115,
}

type Options struct {
	Title      string         `json:"title"`
	SheetTitle string         `json:"sheetTitle"`
	Canvas     Canvas         `json:"canvas"`
	Colors     model.ColorMap `json:"colors"`
	Background string         `json:"background,omitempty"`
	TextColor  string         `json:"textColor,omitempty"`
}

// Input carries every shape a builder may draw from. Each builder reads
// only the fields of its chart type.
type Input struct {
	Options
	Records     []model.FrequencyRecord
	Crosstab    *model.Crosstab
	Comparative *model.Comparative
	Stacked     []model.StackedRow
	Tracking    *model.TrackingSeries
	// Err is an adapter failure; its message replaces the chart.
	Err error
}

type Builder func(in Input) string

// errorMessage returns the placeholder text of an adapter failure.
func errorMessage(err error) string {
	if e, ok := pgerr.As(err); ok {
		return e.Message
	}
	return err.Error()
}

// Placeholder renders the empty state canvas of opt with msg.
func Placeholder(opt Options, msg string) string {
	var b strings.Builder
	placeholder(&b, opt, msg)
	return b.String()
}

// guard returns the placeholder for in when the adapter failed.
func guard(in Input) (string, bool) {
	if in.Err == nil {
		return "", false
	}
	return Placeholder(in.Options, errorMessage(in.Err)), true
}
