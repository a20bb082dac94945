// Package dataset turns a sheet snapshot into named columns.
package dataset

import (
	"regexp"
	"strconv"
	"strings"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
)

var (
	spreadsheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	spreadsheetIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
)

// FromGrid uses the first non-empty row as header. Header cells left blank
// are named "Columna N" (1-based).
func FromGrid(grid cellgrid.Grid) []model.DatasetColumn {
	headerIdx := -1
	for i, row := range grid {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil
	}

	header := grid[headerIdx]
	body := grid[headerIdx+1:]

	columns := make([]model.DatasetColumn, len(header))
	for j, h := range header {
		name := strings.TrimSpace(h.String())
		if name == "" {
			name = "Columna " + strconv.Itoa(j+1)
		}
		values := make([]string, len(body))
		for i, row := range body {
			if j < len(row) {
				values[i] = row[j].String()
			}
		}
		columns[j] = model.DatasetColumn{Name: name, Values: values}
	}
	return columns
}

// Column finds a column by exact name.
func Column(columns []model.DatasetColumn, name string) (model.DatasetColumn, bool) {
	for _, c := range columns {
		if c.Name == name {
			return c, true
		}
	}
	return model.DatasetColumn{}, false
}

// ColumnIndex is Column returning the position instead, or -1.
func ColumnIndex(columns []model.DatasetColumn, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// SpreadsheetID extracts the document ID of a Google Sheets URL. Bare IDs are
// returned unchanged; anything else yields "".
func SpreadsheetID(ref string) string {
	ref = strings.TrimSpace(ref)
	if m := spreadsheetURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	if spreadsheetIDPattern.MatchString(ref) {
		return ref
	}
	return ""
}

func isBlankRow(row []cellgrid.Cell) bool {
	for _, c := range row {
		if strings.TrimSpace(c.String()) != "" {
			return false
		}
	}
	return true
}
