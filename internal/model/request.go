package model

import "strings"

// RenderRequest describes one chart to draw from a spreadsheet.
//
// In raw mode Column names the dataset column holding the answers; in
// summary mode Range points at a two-column results table (label, percent).
type RenderRequest struct {
	ChartType ChartType `json:"chartType" yaml:"chartType" validate:"required,charttype"`
	Mode      InputMode `json:"mode" yaml:"mode" validate:"omitempty,inputmode"`

	Title        string `json:"title" yaml:"title" validate:"max=500"`
	SheetName    string `json:"sheetName" yaml:"sheetName"`
	Canvas       string `json:"canvas" yaml:"canvas" validate:"omitempty,canvas"`
	Background   string `json:"background" yaml:"background" validate:"omitempty,max=64"`
	TextColor    string `json:"textColor" yaml:"textColor" validate:"omitempty,max=64"`
	QuestionCell string `json:"questionCell" yaml:"questionCell" validate:"omitempty,cellref"`

	Spreadsheet string `json:"spreadsheet" yaml:"spreadsheet" validate:"required,max=512"`
	Sheet       string `json:"sheet" yaml:"sheet"`

	Column         string   `json:"column" yaml:"column"`
	SecondColumn   string   `json:"secondColumn" yaml:"secondColumn"`
	StackedColumns []string `json:"stackedColumns" yaml:"stackedColumns"`

	Range             string `json:"range" yaml:"range" validate:"omitempty,cellrange"`
	SecondRange       string `json:"secondRange" yaml:"secondRange" validate:"omitempty,cellrange"`
	StackedRanges     string `json:"stackedRanges" yaml:"stackedRanges"`
	StackedLabelCells string `json:"stackedLabelCells" yaml:"stackedLabelCells"`

	Excluded     []string `json:"excluded" yaml:"excluded"`
	Order        []string `json:"order" yaml:"order"`
	Colors       ColorMap `json:"colors" yaml:"colors"`
	EnforceTotal bool     `json:"enforceTotal" yaml:"enforceTotal"`
}

// InputMode returns the effective mode; an empty mode means raw.
func (r *RenderRequest) InputMode() InputMode {
	if r.Mode == "" {
		return InputModeRaw
	}
	return r.Mode
}

// NeedsColumn reports whether the request must name a dataset column.
func (r *RenderRequest) NeedsColumn() bool {
	if r.InputMode().IsSummary() {
		return false
	}
	return r.ChartType != ChartTypeStacked && r.ChartType != ChartTypeTracking
}

// NeedsRange reports whether the request must carry a results range.
func (r *RenderRequest) NeedsRange() bool {
	if !r.InputMode().IsSummary() {
		return false
	}
	return r.ChartType != ChartTypeStacked
}

// DisplayTitle is the chart title: the explicit title, else the column name.
func (r *RenderRequest) DisplayTitle() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return r.Column
}

// BatchRequest renders several charts in one call.
type BatchRequest struct {
	Requests []RenderRequest `json:"requests" yaml:"requests" validate:"required,min=1,max=100,dive"`
}

// FrequencyPreview is the selection stage output shown before rendering.
type FrequencyPreview struct {
	Records []FrequencyRecord `json:"records"`
	Order   []string          `json:"order"`
}
