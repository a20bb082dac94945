package model

// FrequencyRecord is one label of a distribution. Percentage is always in
// [0,100] rounded to one decimal; Value is the raw count in raw mode and
// mirrors Percentage in summary mode.
type FrequencyRecord struct {
	Label      string  `json:"label" yaml:"label"`
	Value      float64 `json:"value" yaml:"value"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Labels returns the record labels in order.
func Labels(records []FrequencyRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Label
	}
	return out
}

// ColorMap overrides the color of individual labels with a hex string.
type ColorMap map[string]string

// InputMode tells whether frequencies come from row-level data or from a
// pre-aggregated results table.
type InputMode string

const (
	InputModeRaw     InputMode = "raw"
	InputModeSummary InputMode = "summary"
)

func (m InputMode) IsSummary() bool {
	return m == InputModeSummary
}
