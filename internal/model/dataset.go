package model

// DatasetColumn is one column of a loaded sheet. All columns of a load share
// the same row indexing.
type DatasetColumn struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// SheetInfo describes a worksheet of a spreadsheet.
type SheetInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
