// Package adapter shapes frequency data and sheet contents into the
// structures each chart type draws from.
//
// Adapters never fail hard: when a chart lacks a companion input they return
// an ErrMissingRequiredInput whose message is shown on the placeholder
// canvas.
package adapter

import (
	"math"
	"strings"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

const (
	MsgSelectBothColumns  = "Select both columns to generate matrix"
	MsgDefineSecondRange  = "Define el rango de la segunda pregunta"
	MsgRangeNeedsTwoCols  = "El rango debe tener dos columnas"
	MsgSelectSecondColumn = "Debes seleccionar la segunda columna para la comparativa"
	MsgTrackingRange      = "No se pudo leer la tabla de tracking (revisa el rango)."
	MsgTrackingColumns    = "No hay columnas suficientes para tracking"
	MsgTrackingMonths     = "No se detectaron columnas de meses (ENE, FEB, MAR, etc.)"
	MsgTrackingEmpty      = "No hay datos suficientes para tracking"
	MsgTrackingExcluded   = "No hay datos (todas las categorías excluidas)."
)

func missing(msg string) error {
	return pgerr.ErrMissingRequiredInput.Msg("%s", msg)
}

// Message returns the text to print on a placeholder canvas for err.
func Message(err error) string {
	if e, ok := pgerr.As(err); ok {
		return e.Message
	}
	return err.Error()
}

// roundInt matches the whole-number rounding used for crosstab cells.
func roundInt(x float64) float64 {
	return math.Round(x)
}

func findColumn(columns []model.DatasetColumn, name string) (model.DatasetColumn, int, bool) {
	if name == "" {
		return model.DatasetColumn{}, -1, false
	}
	for i, c := range columns {
		if c.Name == name {
			return c, i, true
		}
	}
	return model.DatasetColumn{}, -1, false
}

// distinctNonEmpty keeps the first appearance of every non-blank value.
func distinctNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func valueAt(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}
