package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
)

func TestFromGrid(t *testing.T) {
	grid := cellgrid.FromStrings([][]string{
		{"", ""},
		{"Sexo", "", "Edad"},
		{"H", "x", "30"},
		{"M"},
	})

	cols := FromGrid(grid)
	require.Len(t, cols, 3)
	assert.Equal(t, model.DatasetColumn{Name: "Sexo", Values: []string{"H", "M"}}, cols[0])
	assert.Equal(t, model.DatasetColumn{Name: "Columna 2", Values: []string{"x", ""}}, cols[1])
	assert.Equal(t, model.DatasetColumn{Name: "Edad", Values: []string{"30", ""}}, cols[2])

	c, ok := Column(cols, "Edad")
	assert.True(t, ok)
	assert.Equal(t, "Edad", c.Name)
	assert.Equal(t, 2, ColumnIndex(cols, "Edad"))
	assert.Equal(t, -1, ColumnIndex(cols, "Nope"))
}

func TestFromGridEmpty(t *testing.T) {
	assert.Nil(t, FromGrid(nil))
	assert.Nil(t, FromGrid(cellgrid.FromStrings([][]string{{" "}})))
}

func TestSpreadsheetID(t *testing.T) {
	assert.Equal(t, "1AbC-_9", SpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-_9/edit#gid=0"))
	assert.Equal(t, "encuesta_2025", SpreadsheetID(" encuesta_2025 "))
	assert.Equal(t, "", SpreadsheetID("../etc/passwd"))
}
