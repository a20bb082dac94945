package repo

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/core/dataset"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/pkg/observability"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

const workbookExt = ".xlsx"

// Workbook reads sheets of the .xlsx files kept in the data directory.
// A spreadsheet reference is a file ID or a Google Sheets URL whose
// document ID names the file.
type Workbook struct {
	dir          string
	defaultRange string
	grids        *cache.Cache
}

func NewWorkbook(conf *appconfig.Config) *Workbook {
	return &Workbook{
		dir:          conf.DataDir,
		defaultRange: conf.DefaultRange,
		grids:        cache.New(conf.GridCacheTTL, 2*conf.GridCacheTTL),
	}
}

// Path resolves ref to the workbook file.
func (r *Workbook) Path(ref string) (string, error) {
	id := dataset.SpreadsheetID(ref)
	if id == "" {
		return "", pgerr.ErrInvalidReq.Msg("invalid spreadsheet reference %q", ref)
	}
	return filepath.Join(r.dir, id+workbookExt), nil
}

func (r *Workbook) open(ctx context.Context, ref string) (*excelize.File, os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	path, err := r.Path(ref)
	if err != nil {
		return nil, nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, pgerr.ErrNotFound.Msg("spreadsheet %q not found", ref)
		}
		return nil, nil, errors.Wrap(err, "failed to stat workbook")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open workbook %s", path)
	}
	return f, stat, nil
}

func (r *Workbook) ListSheets(ctx context.Context, ref string) ([]model.SheetInfo, error) {
	f, _, err := r.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]model.SheetInfo, 0, len(names))
	for _, name := range names {
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get sheet index of %q", name)
		}
		sheets = append(sheets, model.SheetInfo{ID: idx, Name: name})
	}
	return sheets, nil
}

// GetGrid reads rangeA1 of sheet (the first sheet when empty). The empty
// range means the configured default range. Cell coordinates of the grid
// are relative to the range start; the default range starts at A1 so they
// match the sheet.
func (r *Workbook) GetGrid(ctx context.Context, ref, sheet, rangeA1 string) (cellgrid.Grid, error) {
	if rangeA1 == "" {
		rangeA1 = r.defaultRange
	}
	rng, err := coord.ParseRange(rangeA1)
	if err != nil {
		return nil, err
	}

	path, err := r.Path(ref)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err == nil {
		if g, ok := r.grids.Get(gridKey(path, stat, sheet, rng)); ok {
			observability.GridLoadDuration.WithLabelValues("true").Observe(0)
			return g.(cellgrid.Grid), nil
		}
	}

	start := time.Now()
	f, stat, err := r.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, pgerr.ErrNotFound.Msg("spreadsheet %q has no sheets", ref)
		}
		sheet = list[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, pgerr.ErrNotFound.Msg("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rows of sheet %q", sheet)
	}

	grid := cellgrid.FromStrings(crop(rows, rng))
	r.grids.SetDefault(gridKey(path, stat, sheet, rng), grid)

	observability.GridLoadDuration.WithLabelValues("false").Observe(time.Since(start).Seconds())
	log.Debug().
		Str("evt.name", "repo.workbook.load").
		Str("path", path).
		Str("sheet", sheet).
		Str("range", rng.String()).
		Int("rows", grid.Rows()).
		Dur("duration", time.Since(start)).
		Msg("loaded sheet grid")

	return grid, nil
}

// Version identifies the current content of the workbook behind ref. It
// changes whenever the file is replaced or modified.
func (r *Workbook) Version(ref string) (string, error) {
	path, err := r.Path(ref)
	if err != nil {
		return "", err
	}
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", pgerr.ErrNotFound.Msg("spreadsheet %q not found", ref)
		}
		return "", errors.Wrap(err, "failed to stat workbook")
	}
	return strconv.FormatInt(stat.ModTime().UnixNano(), 10) + "-" + strconv.FormatInt(stat.Size(), 10), nil
}

// Invalidate drops every cached grid.
func (r *Workbook) Invalidate() {
	r.grids.Flush()
}

func gridKey(path string, stat os.FileInfo, sheet string, rng coord.Range) string {
	return path + "|" + strconv.FormatInt(stat.ModTime().UnixNano(), 10) + "|" + sheet + "|" + rng.String()
}

// crop keeps the rows and columns of rows covered by rng without padding:
// rows stay ragged and trailing blanks are not materialized.
func crop(rows [][]string, rng coord.Range) [][]string {
	if rng.RowStart > len(rows) {
		return nil
	}
	end := min(rng.RowEnd, len(rows))

	out := make([][]string, 0, end-rng.RowStart+1)
	for _, row := range rows[rng.RowStart-1 : end] {
		if rng.ColStart > len(row) {
			out = append(out, nil)
			continue
		}
		out = append(out, row[rng.ColStart-1:min(rng.ColEnd, len(row))])
	}
	return out
}
