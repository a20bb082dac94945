package adapter

import (
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
)

const TotalHeader = "Total"

// ComparativeRaw builds the medium donut table from microdata: one column per
// distinct value of the group column followed by the overall Total. Only rows
// whose main value is one of labels are counted.
func ComparativeRaw(columns []model.DatasetColumn, main, group string, labels []string) (*model.Comparative, error) {
	if group == "" {
		return nil, missing(MsgSelectSecondColumn)
	}
	col1, _, ok1 := findColumn(columns, main)
	col2, _, ok2 := findColumn(columns, group)
	if !ok1 || !ok2 {
		return nil, missing(MsgSelectSecondColumn)
	}

	known := indexOf(labels)
	groups := distinctNonEmpty(col2.Values)

	shares := func(keep func(i int) bool) []float64 {
		counts := make([]float64, len(labels))
		var total float64
		for i, v := range col1.Values {
			if v == "" || !keep(i) {
				continue
			}
			idx, ok := known[v]
			if !ok {
				continue
			}
			counts[idx]++
			total++
		}
		for i := range counts {
			if total > 0 {
				counts[i] = roundInt(counts[i] / total * 100)
			}
		}
		return counts
	}

	perGroup := make([][]float64, len(groups))
	for g, name := range groups {
		perGroup[g] = shares(func(i int) bool { return valueAt(col2.Values, i) == name })
	}
	overall := shares(func(int) bool { return true })

	out := &model.Comparative{
		Headers: append(append([]string(nil), groups...), TotalHeader),
		Rows:    make([]model.ComparativeRow, len(labels)),
	}
	for i, label := range labels {
		values := make([]float64, 0, len(groups)+1)
		for g := range groups {
			values = append(values, perGroup[g][i])
		}
		values = append(values, overall[i])
		out.Rows[i] = model.ComparativeRow{Label: label, Values: values}
	}
	return out, nil
}

// ComparativeSummary builds the medium donut table from results tables. When
// no usable second range is given only the Total column is produced.
func ComparativeSummary(grid cellgrid.Grid, records []model.FrequencyRecord, labels []string, secondRange string) *model.Comparative {
	byLabel := make(map[string]float64, len(records))
	for _, r := range records {
		if _, ok := byLabel[r.Label]; !ok {
			byLabel[r.Label] = r.Percentage
		}
	}

	heads, percents, err := secondQuestion(grid, secondRange)
	if err != nil || len(heads) == 0 {
		heads, percents = nil, nil
	}

	out := &model.Comparative{
		Headers: append(append([]string(nil), heads...), TotalHeader),
		Rows:    make([]model.ComparativeRow, len(labels)),
	}
	for i, label := range labels {
		p1 := byLabel[label]
		values := make([]float64, 0, len(percents)+1)
		for _, p2 := range percents {
			values = append(values, roundInt(p1*p2/100))
		}
		values = append(values, roundInt(p1))
		out.Rows[i] = model.ComparativeRow{Label: label, Values: values}
	}
	return out
}
