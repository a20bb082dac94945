package adapter

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/pkg/percent"
)

// Months are the calendar month abbreviations recognized in a month column.
var Months = []string{"ENE", "FEB", "MAR", "ABR", "MAY", "JUN", "JUL", "AGO", "SEP", "OCT", "NOV", "DIC"}

var (
	monthColumnName   = regexp.MustCompile(`(?i)mes`)
	problemColumnName = regexp.MustCompile(`(?i)(problema|categor[ií]a|tema)`)
	valueColumnName   = regexp.MustCompile(`(?i)(porcentaje|valor|rango)`)
)

// MonthAbbr upper-cases the first three letters of v ("Febrero" -> "FEB").
func MonthAbbr(v string) string {
	r := []rune(strings.TrimSpace(v))
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}

func monthIndex(abbr string) int {
	return lo.IndexOf(Months, abbr)
}

// TrackingRaw detects a month column, a category column and an optional
// value column by name and builds the month by category grid. Without
// numeric values the grid holds each category's share of the month's rows.
func TrackingRaw(columns []model.DatasetColumn) (*model.TrackingSeries, error) {
	if len(columns) == 0 {
		return nil, missing(MsgTrackingColumns)
	}

	monthCol, ok := lo.Find(columns, func(c model.DatasetColumn) bool {
		return monthColumnName.MatchString(c.Name) && lo.SomeBy(c.Values, func(v string) bool {
			return monthIndex(MonthAbbr(v)) != -1
		})
	})
	if !ok {
		return nil, missing(MsgTrackingMonths)
	}
	problemCol, ok := lo.Find(columns, func(c model.DatasetColumn) bool {
		return problemColumnName.MatchString(c.Name)
	})
	if !ok {
		return nil, missing(MsgTrackingColumns)
	}
	valueCol, hasValueCol := lo.Find(columns, func(c model.DatasetColumn) bool {
		return valueColumnName.MatchString(c.Name)
	})

	months := lo.Uniq(lo.FilterMap(monthCol.Values, func(v string, _ int) (string, bool) {
		abbr := MonthAbbr(v)
		return abbr, monthIndex(abbr) != -1
	}))
	sort.SliceStable(months, func(i, j int) bool {
		return monthIndex(months[i]) < monthIndex(months[j])
	})
	problems := distinctNonEmpty(problemCol.Values)

	if len(months) == 0 || len(problems) == 0 {
		return nil, missing(MsgTrackingEmpty)
	}
	series := &model.TrackingSeries{
		Months: months,
		Categories: lo.Map(problems, func(p string, _ int) model.TrackingCategory {
			return model.TrackingCategory{Name: p, Values: make([]float64, len(months))}
		}),
	}

	monthPos := indexOf(months)
	problemPos := indexOf(problems)

	if hasValueCol && lo.SomeBy(valueCol.Values, func(v string) bool {
		_, ok := parseNumeric(v)
		return ok
	}) {
		for i, mv := range monthCol.Values {
			m, ok := monthPos[MonthAbbr(mv)]
			if !ok {
				continue
			}
			p, ok := problemPos[valueAt(problemCol.Values, i)]
			if !ok {
				continue
			}
			v, ok := parseNumeric(valueAt(valueCol.Values, i))
			if !ok {
				continue
			}
			series.Categories[p].Values[m] = percent.FromNumber(v)
		}
		return series, nil
	}

	monthTotals := make([]float64, len(months))
	counts := make([][]float64, len(problems))
	for i := range counts {
		counts[i] = make([]float64, len(months))
	}
	for i, mv := range monthCol.Values {
		m, ok := monthPos[MonthAbbr(mv)]
		if !ok {
			continue
		}
		monthTotals[m]++
		if p, ok := problemPos[valueAt(problemCol.Values, i)]; ok {
			counts[p][m]++
		}
	}
	for m := range months {
		column := make([]float64, len(problems))
		for p := range problems {
			column[p] = counts[p][m]
		}
		for p, share := range percent.Shares(column, monthTotals[m]) {
			series.Categories[p].Values[m] = share
		}
	}
	return series, nil
}

func parseNumeric(v string) (float64, bool) {
	v = strings.TrimSpace(strings.Replace(v, ",", ".", 1))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// TrackingSummary reads a results table whose first row holds month headers
// (from the second column of the range on) and whose following rows hold a
// category name and one percentage per month.
func TrackingSummary(grid cellgrid.Grid, rangeStr string) (*model.TrackingSeries, error) {
	parsed := coord.ParseRangeLenient(rangeStr)
	if len(grid) == 0 || parsed == nil {
		return nil, missing(MsgTrackingRange)
	}
	r := grid.Clip(*parsed)

	var (
		months  []string
		monthAt []int
	)
	for col := r.ColStart + 1; col <= r.ColEnd; col++ {
		h := strings.TrimSpace(grid.At(r.RowStart, col).String())
		if h == "" {
			continue
		}
		months = append(months, h)
		monthAt = append(monthAt, col)
	}
	if len(months) == 0 {
		return nil, missing(MsgTrackingRange)
	}

	series := &model.TrackingSeries{Months: months}
	for row := r.RowStart + 1; row <= r.RowEnd; row++ {
		name := strings.TrimSpace(grid.At(row, r.ColStart).String())
		if name == "" {
			continue
		}
		values := make([]float64, len(monthAt))
		for i, col := range monthAt {
			values[i] = percent.FromCell(grid.At(row, col))
		}
		series.Categories = append(series.Categories, model.TrackingCategory{Name: name, Values: values})
	}
	return series, nil
}

// ReorderTracking keeps only the categories named in labels, in that order.
// An empty labels list leaves the series untouched.
func ReorderTracking(series *model.TrackingSeries, labels []string) (*model.TrackingSeries, error) {
	if series == nil || len(series.Months) == 0 || len(series.Categories) == 0 {
		return nil, missing(MsgTrackingEmpty)
	}
	if len(labels) == 0 {
		return series, nil
	}

	byName := make(map[string]model.TrackingCategory, len(series.Categories))
	for _, c := range series.Categories {
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = c
		}
	}

	out := &model.TrackingSeries{Months: series.Months}
	for _, l := range labels {
		c, ok := byName[l]
		if !ok {
			continue
		}
		delete(byName, l)
		out.Categories = append(out.Categories, c)
	}
	if len(out.Categories) == 0 {
		return nil, missing(MsgTrackingExcluded)
	}
	return out, nil
}
