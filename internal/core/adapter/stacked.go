package adapter

import (
	"regexp"
	"strconv"
	"strings"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/pkg/percent"
)

var percentColumnName = regexp.MustCompile(`(?i)porcentaje`)

// StackedCategories is the default segment set of a raw stacked chart: the
// distinct values of the first selected column.
func StackedCategories(columns []model.DatasetColumn, stacked []string) []string {
	if len(stacked) == 0 {
		return nil
	}
	first, _, ok := findColumn(columns, stacked[0])
	if !ok {
		return nil
	}
	return distinctNonEmpty(first.Values)
}

// StackedRaw builds one stacked row per selected column. The shared category
// set is categories as given, or StackedCategories when categories is nil.
// A column immediately followed by a percentage column takes its segment
// values from it; otherwise the column is tallied.
func StackedRaw(columns []model.DatasetColumn, stacked []string, categories []string) []model.StackedRow {
	if len(stacked) == 0 {
		return nil
	}
	if categories == nil {
		categories = StackedCategories(columns, stacked)
		if categories == nil {
			return nil
		}
	}

	var rows []model.StackedRow
	for _, name := range stacked {
		col, idx, ok := findColumn(columns, name)
		if !ok {
			continue
		}

		var segments []model.StackedSegment
		if idx+1 < len(columns) && isPercentColumn(columns[idx+1]) {
			segments = segmentsFromPercentColumn(col, columns[idx+1], categories)
		} else {
			segments = segmentsFromTally(col, categories)
		}
		rows = append(rows, model.StackedRow{Label: name, Segments: segments})
	}
	return rows
}

func isPercentColumn(c model.DatasetColumn) bool {
	if percentColumnName.MatchString(c.Name) {
		return true
	}
	for _, v := range c.Values {
		if _, ok := percent.Parse(v); ok {
			return true
		}
	}
	return false
}

func segmentsFromPercentColumn(question, pct model.DatasetColumn, categories []string) []model.StackedSegment {
	segments := make([]model.StackedSegment, len(categories))
	for i, cat := range categories {
		var p float64
		for row, v := range question.Values {
			if v == cat {
				p = percent.FromString(valueAt(pct.Values, row))
				break
			}
		}
		segments[i] = model.StackedSegment{Label: cat, Percentage: p}
	}
	return segments
}

func segmentsFromTally(question model.DatasetColumn, categories []string) []model.StackedSegment {
	counts := make(map[string]float64, len(categories))
	var total float64
	for _, v := range question.Values {
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}

	parts := make([]float64, len(categories))
	for i, cat := range categories {
		parts[i] = counts[cat]
	}
	shares := percent.Shares(parts, total)

	segments := make([]model.StackedSegment, len(categories))
	for i, cat := range categories {
		segments[i] = model.StackedSegment{Label: cat, Percentage: shares[i]}
	}
	return segments
}

// StackedSummary builds one stacked row per range of the comma-separated
// ranges list. Row labels come from the matching cell of labelCells, falling
// back to the upper-cased reference itself and then to "Serie N".
func StackedSummary(grid cellgrid.Grid, ranges, labelCells string) []model.StackedRow {
	if len(grid) == 0 {
		return nil
	}
	refs := coord.SplitList(labelCells)

	var rows []model.StackedRow
	for idx, rng := range coord.SplitList(ranges) {
		segments := summarySegments(grid, rng)
		if len(segments) == 0 {
			continue
		}

		label := "Serie " + strconv.Itoa(idx+1)
		if idx < len(refs) {
			label = strings.ToUpper(refs[idx])
			if c, err := coord.Parse(refs[idx]); err == nil {
				if v := strings.TrimSpace(grid.At(c.Row, c.Col).String()); v != "" {
					label = v
				}
			}
		}
		rows = append(rows, model.StackedRow{Label: label, Segments: segments})
	}
	return rows
}

func summarySegments(grid cellgrid.Grid, rng string) []model.StackedSegment {
	parsed := coord.ParseRangeLenient(rng)
	if parsed == nil {
		return nil
	}
	r := grid.Clip(*parsed)

	var segments []model.StackedSegment
	for row := r.RowStart; row <= r.RowEnd; row++ {
		label := strings.TrimSpace(grid.At(row, r.ColStart).String())
		if label == "" {
			continue
		}
		segments = append(segments, model.StackedSegment{
			Label:      label,
			Percentage: percent.FromCell(grid.At(row, r.ColStart+1)),
		})
	}
	return segments
}
