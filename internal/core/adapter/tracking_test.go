package adapter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
)

func TestTrackingRawCounts(t *testing.T) {
	columns := []model.DatasetColumn{
		{Name: "Mes", Values: []string{"Marzo", "Enero", "Enero", "Marzo", "Enero", "Marzo"}},
		{Name: "Problema principal", Values: []string{"Seguridad", "Salud", "Seguridad", "Seguridad", "Seguridad", "Salud"}},
	}

	got, err := TrackingRaw(columns)
	require.NoError(t, err)

	want := &model.TrackingSeries{
		Months: []string{"ENE", "MAR"},
		Categories: []model.TrackingCategory{
			{Name: "Seguridad", Values: []float64{66.7, 66.7}},
			{Name: "Salud", Values: []float64{33.3, 33.3}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TrackingRaw() mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackingRawValues(t *testing.T) {
	columns := []model.DatasetColumn{
		{Name: "MES", Values: []string{"feb", "ene", "feb"}},
		{Name: "Categoría", Values: []string{"Salud", "Salud", "Movilidad"}},
		{Name: "Valor", Values: []string{"0,25", "31.44", ""}},
	}

	got, err := TrackingRaw(columns)
	require.NoError(t, err)
	assert.Equal(t, []string{"ENE", "FEB"}, got.Months)
	assert.Equal(t, []model.TrackingCategory{
		{Name: "Salud", Values: []float64{31.4, 25}},
		{Name: "Movilidad", Values: []float64{0, 0}},
	}, got.Categories)
}

func TestTrackingRawMessages(t *testing.T) {
	_, err := TrackingRaw(nil)
	assert.Equal(t, MsgTrackingColumns, Message(err))

	_, err = TrackingRaw([]model.DatasetColumn{{Name: "Mes", Values: []string{"Lunes"}}})
	assert.Equal(t, MsgTrackingMonths, Message(err))

	_, err = TrackingRaw([]model.DatasetColumn{
		{Name: "Mes", Values: []string{"Enero"}},
		{Name: "Respuesta", Values: []string{"Salud"}},
	})
	assert.Equal(t, MsgTrackingColumns, Message(err))
}

func TestTrackingSummary(t *testing.T) {
	grid := cellgrid.FromStrings([][]string{
		{"Problema", "ENE", "", "MAR"},
		{"Seguridad", "0.4", "x", "45%"},
		{"", "1", "1", "1"},
		{"Salud", "12", "", "9,5"},
	})

	got, err := TrackingSummary(grid, "A1:D4")
	require.NoError(t, err)

	want := &model.TrackingSeries{
		Months: []string{"ENE", "MAR"},
		Categories: []model.TrackingCategory{
			{Name: "Seguridad", Values: []float64{40, 45}},
			{Name: "Salud", Values: []float64{12, 9.5}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TrackingSummary() mismatch (-want +got):\n%s", diff)
	}

	_, err = TrackingSummary(grid, "A1:")
	assert.Equal(t, MsgTrackingRange, Message(err))
	_, err = TrackingSummary(grid, "A2:A4")
	assert.Equal(t, MsgTrackingRange, Message(err))
}

func TestReorderTracking(t *testing.T) {
	series := &model.TrackingSeries{
		Months: []string{"ENE"},
		Categories: []model.TrackingCategory{
			{Name: "Seguridad", Values: []float64{10}},
			{Name: "Salud", Values: []float64{20}},
			{Name: "Movilidad", Values: []float64{30}},
		},
	}

	got, err := ReorderTracking(series, []string{"Movilidad", "Otro", "Seguridad", "Movilidad"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Movilidad", "Seguridad"}, []string{got.Categories[0].Name, got.Categories[1].Name})
	assert.Len(t, got.Categories, 2)

	same, err := ReorderTracking(series, nil)
	require.NoError(t, err)
	assert.Same(t, series, same)

	_, err = ReorderTracking(series, []string{"Otro"})
	assert.Equal(t, MsgTrackingExcluded, Message(err))

	_, err = ReorderTracking(&model.TrackingSeries{}, nil)
	assert.Equal(t, MsgTrackingEmpty, Message(err))
}

func TestMonthAbbr(t *testing.T) {
	assert.Equal(t, "FEB", MonthAbbr(" febrero"))
	assert.Equal(t, "DIC", MonthAbbr("dic"))
	assert.Equal(t, "AB", MonthAbbr("ab"))
}

func TestTrackingRawSharesAddUpPerMonth(t *testing.T) {
	columns := []model.DatasetColumn{
		{Name: "Mes", Values: []string{"Enero", "Enero", "Enero"}},
		{Name: "Tema", Values: []string{"Salud", "Empleo", "Agua"}},
	}

	got, err := TrackingRaw(columns)
	require.NoError(t, err)

	var sum float64
	for _, c := range got.Categories {
		sum += c.Values[0]
	}
	assert.InDelta(t, 100, sum, 0.1)
}
