package model

type StackedSegment struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// StackedRow is one stacked bar. Segments need not add up to 100.
type StackedRow struct {
	Label    string           `json:"label"`
	Segments []StackedSegment `json:"segments"`
}

// Total is the sum of the segment percentages of the row.
func (r *StackedRow) Total() float64 {
	var sum float64
	for _, s := range r.Segments {
		sum += s.Percentage
	}
	return sum
}

// Crosstab holds the joint percentage of every (row, column) label pair.
type Crosstab struct {
	RowLabels []string    `json:"rowLabels"`
	ColLabels []string    `json:"colLabels"`
	Values    [][]float64 `json:"values"`
}

// Comparative is the table shown next to a medium donut: one row per label
// and one value per header, in display order.
type Comparative struct {
	Headers []string         `json:"headers"`
	Rows    []ComparativeRow `json:"rows"`
}

type ComparativeRow struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

type TrackingCategory struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// TrackingSeries is a month by category grid; every category holds one value
// per month.
type TrackingSeries struct {
	Months     []string           `json:"months"`
	Categories []TrackingCategory `json:"categories"`
}
