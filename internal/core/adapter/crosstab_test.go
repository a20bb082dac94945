package adapter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

var surveyColumns = []model.DatasetColumn{
	{Name: "¿Se siente seguro?", Values: []string{"Sí", "No", "Sí", "Sí", "No", ""}},
	{Name: "Sexo", Values: []string{"H", "H", "M", "M", "M", "H"}},
}

func TestCrosstabRaw(t *testing.T) {
	got, err := CrosstabRaw(surveyColumns, "¿Se siente seguro?", "Sexo", []string{"Sí", "No"})
	require.NoError(t, err)

	want := &model.Crosstab{
		RowLabels: []string{"Sí", "No"},
		ColLabels: []string{"H", "M"},
		Values: [][]float64{
			{33, 67},
			{50, 50},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CrosstabRaw() mismatch (-want +got):\n%s", diff)
	}
}

func TestCrosstabRawMissingColumn(t *testing.T) {
	_, err := CrosstabRaw(surveyColumns, "¿Se siente seguro?", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pgerr.ErrMissingRequiredInput))
	assert.Equal(t, MsgSelectBothColumns, Message(err))
}

func TestCrosstabSummaryIndependenceApproximation(t *testing.T) {
	grid := cellgrid.FromStrings([][]string{
		{"Hombre", "0.48"},
		{"Mujer", "52%"},
	})
	records := []model.FrequencyRecord{
		{Label: "Sí", Value: 60, Percentage: 60},
		{Label: "No", Value: 40, Percentage: 40},
	}

	got, err := CrosstabSummary(grid, records, "A1:B2")
	require.NoError(t, err)

	// joint values are p1*p2/100, not an observed distribution
	want := &model.Crosstab{
		RowLabels: []string{"Sí", "No"},
		ColLabels: []string{"Hombre", "Mujer"},
		Values: [][]float64{
			{29, 31},
			{19, 21},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CrosstabSummary() mismatch (-want +got):\n%s", diff)
	}
}

func TestCrosstabSummaryMessages(t *testing.T) {
	grid := cellgrid.FromStrings([][]string{{"Hombre", "48"}})

	_, err := CrosstabSummary(grid, nil, " ")
	assert.Equal(t, MsgDefineSecondRange, Message(err))

	_, err = CrosstabSummary(grid, nil, "A1:A4")
	assert.Equal(t, MsgRangeNeedsTwoCols, Message(err))
}

func TestComparativeRaw(t *testing.T) {
	got, err := ComparativeRaw(surveyColumns, "¿Se siente seguro?", "Sexo", []string{"Sí", "No"})
	require.NoError(t, err)

	want := &model.Comparative{
		Headers: []string{"H", "M", "Total"},
		Rows: []model.ComparativeRow{
			{Label: "Sí", Values: []float64{50, 67, 60}},
			{Label: "No", Values: []float64{50, 33, 40}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComparativeRaw() mismatch (-want +got):\n%s", diff)
	}

	_, err = ComparativeRaw(surveyColumns, "¿Se siente seguro?", "", nil)
	assert.Equal(t, MsgSelectSecondColumn, Message(err))
}

func TestComparativeSummary(t *testing.T) {
	grid := cellgrid.FromStrings([][]string{
		{"Centro", "0.25"},
		{"Norte", "75"},
	})
	records := []model.FrequencyRecord{{Label: "Seguro", Percentage: 62.4}, {Label: "Inseguro", Percentage: 37.6}}

	got := ComparativeSummary(grid, records, []string{"Inseguro", "Seguro"}, "A1:B2")
	assert.Equal(t, []string{"Centro", "Norte", "Total"}, got.Headers)
	assert.Equal(t, []model.ComparativeRow{
		{Label: "Inseguro", Values: []float64{9, 28, 38}},
		{Label: "Seguro", Values: []float64{16, 47, 62}},
	}, got.Rows)

	onlyTotal := ComparativeSummary(grid, records, []string{"Seguro"}, "")
	assert.Equal(t, []string{"Total"}, onlyTotal.Headers)
	assert.Equal(t, []float64{62}, onlyTotal.Rows[0].Values)
}
