package model

import "time"

type ChartType string

const (
	ChartTypeDonut           ChartType = "donut"
	ChartTypeBar             ChartType = "bar"
	ChartTypeMatrix          ChartType = "matrix"
	ChartTypeScore           ChartType = "score"
	ChartTypeApproval        ChartType = "approval"
	ChartTypePartido         ChartType = "partido"
	ChartTypeTracking        ChartType = "tracking"
	ChartTypeStacked         ChartType = "stacked"
	ChartTypeMediumDonut     ChartType = "mediumdonut"
	ChartTypeStackedVertical ChartType = "stackedvertical"
)

// ChartTypes lists every chart type in the order they are offered to users.
var ChartTypes = []ChartType{
	ChartTypeDonut,
	ChartTypeBar,
	ChartTypeMatrix,
	ChartTypeScore,
	ChartTypeApproval,
	ChartTypePartido,
	ChartTypeTracking,
	ChartTypeStacked,
	ChartTypeMediumDonut,
	ChartTypeStackedVertical,
}

// UsesTrackingData reports whether the chart is built from a month by
// category grid instead of a frequency sequence.
func (t ChartType) UsesTrackingData() bool {
	return t == ChartTypeTracking || t == ChartTypeStackedVertical
}

// SavedChart is an entry of the export queue.
type SavedChart struct {
	ID        string    `json:"id" msgpack:"id"`
	Title     string    `json:"title" msgpack:"title"`
	ChartType ChartType `json:"chartType" msgpack:"chartType"`
	SVG       string    `json:"svg" msgpack:"svg"`
	CreatedAt time.Time `json:"createdAt" msgpack:"createdAt"`
}

// Expired reports whether the entry is older than ttl at now.
func (c *SavedChart) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.CreatedAt) >= ttl
}
