package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

func writeFixture(t *testing.T, dir, id string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Encuesta"))
	require.NoError(t, f.SetSheetRow("Encuesta", "A1", &[]interface{}{"P1", "P2"}))
	require.NoError(t, f.SetSheetRow("Encuesta", "A2", &[]interface{}{"Sí", "A. Bien"}))
	require.NoError(t, f.SetSheetRow("Encuesta", "A3", &[]interface{}{"No", 7}))

	_, err := f.NewSheet("Resultados")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Resultados", "B2", &[]interface{}{"Sí", "60%"}))

	require.NoError(t, f.SaveAs(filepath.Join(dir, id+".xlsx")))
}

func newTestWorkbook(t *testing.T) *Workbook {
	dir := t.TempDir()
	writeFixture(t, dir, "enc-2025")

	conf := &appconfig.Config{}
	conf.DataDir = dir
	conf.DefaultRange = "A1:ZZ1000"
	conf.GridCacheTTL = time.Minute
	return NewWorkbook(conf)
}

func TestWorkbookListSheets(t *testing.T) {
	r := newTestWorkbook(t)

	sheets, err := r.ListSheets(context.Background(), "https://docs.google.com/spreadsheets/d/enc-2025/edit#gid=0")
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, model.SheetInfo{ID: 0, Name: "Encuesta"}, sheets[0])
	assert.Equal(t, "Resultados", sheets[1].Name)
}

func TestWorkbookGetGrid(t *testing.T) {
	r := newTestWorkbook(t)
	ctx := context.Background()

	grid, err := r.GetGrid(ctx, "enc-2025", "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, grid.Rows())
	assert.Equal(t, "P2", grid.At(1, 2).String())
	assert.Equal(t, cellgrid.NumberCell(7), grid.At(3, 2))

	summary, err := r.GetGrid(ctx, "enc-2025", "Resultados", "")
	require.NoError(t, err)
	assert.Equal(t, "60%", summary.At(2, 3).String())

	cropped, err := r.GetGrid(ctx, "enc-2025", "Encuesta", "B2:B3")
	require.NoError(t, err)
	assert.Equal(t, "A. Bien", cropped.At(1, 1).String())
	assert.Equal(t, 1, cropped.Width())
}

func TestWorkbookErrors(t *testing.T) {
	r := newTestWorkbook(t)
	ctx := context.Background()

	_, err := r.GetGrid(ctx, "missing", "", "")
	assert.ErrorIs(t, err, pgerr.ErrNotFound)

	_, err = r.GetGrid(ctx, "../etc/passwd", "", "")
	assert.ErrorIs(t, err, pgerr.ErrInvalidReq)

	_, err = r.GetGrid(ctx, "enc-2025", "Nope", "")
	assert.ErrorIs(t, err, pgerr.ErrNotFound)

	_, err = r.GetGrid(ctx, "enc-2025", "", "1A")
	assert.ErrorIs(t, err, pgerr.ErrInvalidCoordinate)
}

func TestCrop(t *testing.T) {
	rows := [][]string{{"a", "b", "c"}, {"d"}, {"e", "f"}}

	assert.Equal(t, [][]string{nil, {"f"}}, crop(rows, mustRange(2, 5, 2, 2)))
	assert.Nil(t, crop(rows, mustRange(9, 10, 1, 1)))
}

func mustRange(rowStart, rowEnd, colStart, colEnd int) coord.Range {
	return coord.Range{RowStart: rowStart, RowEnd: rowEnd, ColStart: colStart, ColEnd: colEnd}
}
