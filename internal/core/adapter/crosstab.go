package adapter

import (
	"strings"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/pkg/percent"
)

// CrosstabRaw crosses the primary column with the secondary one. Every cell
// is the share of the row label within that row, in whole percents.
func CrosstabRaw(columns []model.DatasetColumn, primary, secondary string, rowLabels []string) (*model.Crosstab, error) {
	col1, _, ok1 := findColumn(columns, primary)
	col2, _, ok2 := findColumn(columns, secondary)
	if !ok1 || !ok2 {
		return nil, missing(MsgSelectBothColumns)
	}

	colLabels := distinctNonEmpty(col2.Values)
	rowIdx := indexOf(rowLabels)
	colIdx := indexOf(colLabels)

	counts := make([][]float64, len(rowLabels))
	for i := range counts {
		counts[i] = make([]float64, len(colLabels))
	}
	for i, v1 := range col1.Values {
		v2 := valueAt(col2.Values, i)
		if v1 == "" || v2 == "" {
			continue
		}
		r, ok := rowIdx[v1]
		if !ok {
			continue
		}
		c, ok := colIdx[v2]
		if !ok {
			continue
		}
		counts[r][c]++
	}

	for _, row := range counts {
		var total float64
		for _, n := range row {
			total += n
		}
		for j, n := range row {
			if total > 0 {
				row[j] = roundInt(n / total * 100)
			} else {
				row[j] = 0
			}
		}
	}

	return &model.Crosstab{
		RowLabels: append([]string(nil), rowLabels...),
		ColLabels: colLabels,
		Values:    counts,
	}, nil
}

// CrosstabSummary combines the primary records with a second results table.
// Summary tables carry no microdata, so the joint value is the product of
// both marginals, round(p1*p2/100). This assumes the two questions are
// independent.
func CrosstabSummary(grid cellgrid.Grid, records []model.FrequencyRecord, secondRange string) (*model.Crosstab, error) {
	labels, percents, err := secondQuestion(grid, secondRange)
	if err != nil {
		return nil, err
	}

	ct := &model.Crosstab{
		RowLabels: model.Labels(records),
		ColLabels: labels,
		Values:    make([][]float64, len(records)),
	}
	for i, r := range records {
		row := make([]float64, len(percents))
		for j, p2 := range percents {
			row[j] = roundInt(r.Percentage * p2 / 100)
		}
		ct.Values[i] = row
	}
	return ct, nil
}

// secondQuestion reads the (label, percentage) table of a second question.
func secondQuestion(grid cellgrid.Grid, rangeStr string) ([]string, []float64, error) {
	if strings.TrimSpace(rangeStr) == "" {
		return nil, nil, missing(MsgDefineSecondRange)
	}
	r := coord.ParseRangeLenient(rangeStr)
	if r == nil {
		return nil, nil, missing(MsgDefineSecondRange)
	}
	if r.Cols() < 2 {
		return nil, nil, missing(MsgRangeNeedsTwoCols)
	}
	rows := grid.Clip(*r)

	var (
		labels   []string
		percents []float64
	)
	for row := rows.RowStart; row <= rows.RowEnd; row++ {
		label := strings.TrimSpace(grid.At(row, r.ColStart).String())
		if label == "" {
			continue
		}
		labels = append(labels, label)
		percents = append(percents, percent.FromCell(grid.At(row, r.ColStart+1)))
	}
	return labels, percents, nil
}

func indexOf(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, ok := m[l]; !ok {
			m[l] = i
		}
	}
	return m
}
