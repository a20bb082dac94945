package service

import (
	"context"
	"strings"

	"poligrama.dev/backend/internal/core/adapter"
	"poligrama.dev/backend/internal/core/dataset"
	"poligrama.dev/backend/internal/core/frequency"
	"poligrama.dev/backend/internal/core/selection"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/pkg/pgerr"
	"poligrama.dev/backend/internal/repo"
)

type Sheet struct {
	WorkbookRepo *repo.Workbook
}

func NewSheet(workbookRepo *repo.Workbook) *Sheet {
	return &Sheet{
		WorkbookRepo: workbookRepo,
	}
}

// Source is a loaded sheet: the raw grid and its dataset columns.
type Source struct {
	Grid    cellgrid.Grid
	Columns []model.DatasetColumn
	// Version changes whenever the workbook file does.
	Version string
}

func (s *Sheet) List(ctx context.Context, ref string) ([]model.SheetInfo, error) {
	return s.WorkbookRepo.ListSheets(ctx, ref)
}

func (s *Sheet) Grid(ctx context.Context, ref, sheet, rng string) (cellgrid.Grid, error) {
	return s.WorkbookRepo.GetGrid(ctx, ref, sheet, rng)
}

func (s *Sheet) Columns(ctx context.Context, ref, sheet string) ([]model.DatasetColumn, error) {
	grid, err := s.WorkbookRepo.GetGrid(ctx, ref, sheet, "")
	if err != nil {
		return nil, err
	}
	return dataset.FromGrid(grid), nil
}

func (s *Sheet) Version(ref string) (string, error) {
	return s.WorkbookRepo.Version(ref)
}

// Load reads the sheet a request points at.
func (s *Sheet) Load(ctx context.Context, ref, sheet string) (*Source, error) {
	version, err := s.WorkbookRepo.Version(ref)
	if err != nil {
		return nil, err
	}
	grid, err := s.WorkbookRepo.GetGrid(ctx, ref, sheet, "")
	if err != nil {
		return nil, err
	}
	return &Source{
		Grid:    grid,
		Columns: dataset.FromGrid(grid),
		Version: version,
	}, nil
}

// Records builds the frequency sequence of req before any selection:
// tallied from the dataset column in raw mode, read from the results range
// in summary mode.
// Month by category charts list their categories instead, valued by the
// latest month.
func Records(src *Source, req *model.RenderRequest) ([]model.FrequencyRecord, error) {
	if req.ChartType.UsesTrackingData() {
		series, err := Series(src, req)
		if err != nil {
			return nil, err
		}
		return categoryRecords(series), nil
	}

	if req.InputMode().IsSummary() {
		if strings.TrimSpace(req.Range) == "" {
			return nil, nil
		}
		if req.EnforceTotal {
			return frequency.FromSummaryStrict(src.Grid, req.Range)
		}
		return frequency.FromSummary(src.Grid, req.Range), nil
	}

	if req.Column == "" {
		return nil, nil
	}
	col, ok := dataset.Column(src.Columns, req.Column)
	if !ok {
		return nil, pgerr.ErrNotFound.Msg("column %q not found in sheet", req.Column)
	}
	return frequency.Tally(col.Values), nil
}

// Series reads the month by category grid of a tracking request.
func Series(src *Source, req *model.RenderRequest) (*model.TrackingSeries, error) {
	if req.InputMode().IsSummary() {
		return adapter.TrackingSummary(src.Grid, req.Range)
	}
	return adapter.TrackingRaw(src.Columns)
}

func categoryRecords(series *model.TrackingSeries) []model.FrequencyRecord {
	out := make([]model.FrequencyRecord, 0, len(series.Categories))
	for _, c := range series.Categories {
		var last float64
		if n := len(c.Values); n > 0 {
			last = c.Values[n-1]
		}
		out = append(out, model.FrequencyRecord{Label: c.Name, Value: last, Percentage: last})
	}
	return out
}

// Title is the chart title of req. In summary mode an empty title falls back
// to the question cell text, then to the cell reference itself.
func Title(src *Source, req *model.RenderRequest) string {
	if t := req.DisplayTitle(); t != "" {
		return t
	}
	if req.QuestionCell == "" {
		return ""
	}
	c, err := coord.Parse(req.QuestionCell)
	if err != nil {
		return req.QuestionCell
	}
	if v := strings.TrimSpace(src.Grid.At(c.Row, c.Col).String()); v != "" {
		return v
	}
	return strings.ToUpper(strings.TrimSpace(req.QuestionCell))
}

// Prepared runs the selection stage over records.
func Prepared(records []model.FrequencyRecord, req *model.RenderRequest) []model.FrequencyRecord {
	return selection.Prepare(
		records,
		selection.NewExclusion(req.Excluded...),
		req.Order,
		req.InputMode(),
		req.ChartType.UsesTrackingData(),
	)
}

// Frequencies previews the records a request would draw, with the
// reconciled label order to persist for the next request.
func (s *Sheet) Frequencies(ctx context.Context, req *model.RenderRequest) (*model.FrequencyPreview, error) {
	src, err := s.Load(ctx, req.Spreadsheet, req.Sheet)
	if err != nil {
		return nil, err
	}
	records, err := Records(src, req)
	if err != nil {
		return nil, err
	}
	if req.ChartType.UsesTrackingData() {
		records = selection.DedupFirst(records)
	}

	prepared := Prepared(records, req)
	return &model.FrequencyPreview{
		Records: prepared,
		Order:   selection.Reconcile(req.Order, records, selection.NewExclusion(req.Excluded...)),
	}, nil
}
