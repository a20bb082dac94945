package service

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace"

	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/pgerr"
	"poligrama.dev/backend/internal/repo"
)

func writeSurvey(t *testing.T, dir string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Encuesta"))
	rows := [][]interface{}{
		{"Intención", "Edad"},
		{"Morena", "18-29"},
		{"PAN", "30-44"},
		{"Morena", "30-44"},
		{"PRI", "18-29"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Encuesta", cell, &row))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, "enc-2025.xlsx")))
}

func testConfig(t *testing.T) *appconfig.Config {
	conf := &appconfig.Config{}
	conf.DataDir = t.TempDir()
	conf.DefaultRange = "A1:ZZ1000"
	conf.GridCacheTTL = time.Minute
	conf.RenderCacheSize = 16
	conf.BatchConcurrency = 2
	conf.QueueTTL = time.Hour
	writeSurvey(t, conf.DataDir)
	return conf
}

func newTestChart(t *testing.T) (*Chart, *Sheet) {
	conf := testConfig(t)
	sheet := NewSheet(repo.NewWorkbook(conf))
	chart, err := NewChart(conf, sheet, trace.NewNoopTracerProvider())
	require.NoError(t, err)
	return chart, sheet
}

func TestSheetFrequencies(t *testing.T) {
	_, sheet := newTestChart(t)

	preview, err := sheet.Frequencies(context.Background(), &model.RenderRequest{
		ChartType:   model.ChartTypeDonut,
		Spreadsheet: "enc-2025",
		Column:      "Intención",
		Excluded:    []string{"PRI"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Morena", "PAN"}, preview.Order)
	require.Len(t, preview.Records, 2)
	assert.Equal(t, 66.7, preview.Records[0].Percentage)
	assert.Equal(t, 33.3, preview.Records[1].Percentage)
}

func TestSheetColumns(t *testing.T) {
	_, sheet := newTestChart(t)

	cols, err := sheet.Columns(context.Background(), "enc-2025", "Encuesta")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "Edad", cols[1].Name)
	assert.Len(t, cols[1].Values, 4)
}

func TestChartRenderCaches(t *testing.T) {
	chart, _ := newTestChart(t)
	ctx := context.Background()
	req := &model.RenderRequest{
		ChartType:   model.ChartTypeDonut,
		Spreadsheet: "enc-2025",
		Column:      "Intención",
	}

	first, err := chart.Render(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Placeholder)
	assert.Contains(t, first.SVG, "<svg")
	assert.Equal(t, "Intención", first.Title)

	second, err := chart.Render(ctx, req)
	require.NoError(t, err)
	assert.Same(t, first, second)

	chart.Purge()
	third, err := chart.Render(ctx, req)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first.SVG, third.SVG)
}

func TestChartRenderPlaceholder(t *testing.T) {
	chart, _ := newTestChart(t)

	r, err := chart.Render(context.Background(), &model.RenderRequest{
		ChartType:   model.ChartTypeMediumDonut,
		Spreadsheet: "enc-2025",
		Column:      "Intención",
	})
	require.NoError(t, err)
	assert.True(t, r.Placeholder)
	assert.Contains(t, r.SVG, "Debes seleccionar la segunda columna para la comparativa")
}

func TestChartRenderErrors(t *testing.T) {
	chart, _ := newTestChart(t)
	ctx := context.Background()

	_, err := chart.Render(ctx, &model.RenderRequest{ChartType: "pie", Spreadsheet: "enc-2025"})
	assert.True(t, errors.Is(err, pgerr.ErrUnsupportedChartType))

	_, err = chart.Render(ctx, &model.RenderRequest{ChartType: model.ChartTypeBar, Spreadsheet: "enc-2025", Column: "P9"})
	assert.True(t, errors.Is(err, pgerr.ErrNotFound))

	_, err = chart.Render(ctx, &model.RenderRequest{ChartType: model.ChartTypeBar, Spreadsheet: "missing", Column: "Edad"})
	assert.True(t, errors.Is(err, pgerr.ErrNotFound))
}

func TestChartStackedSegmentsFollowSelection(t *testing.T) {
	chart, sheet := newTestChart(t)
	src, err := sheet.Load(context.Background(), "enc-2025", "Encuesta")
	require.NoError(t, err)

	in, err := chart.input(src, &model.RenderRequest{
		ChartType:      model.ChartTypeStacked,
		Spreadsheet:    "enc-2025",
		StackedColumns: []string{"Edad"},
		Excluded:       []string{"18-29"},
		Order:          []string{"60+", "30-44", "18-29"},
	})
	require.NoError(t, err)
	require.Len(t, in.Stacked, 1)
	assert.Equal(t, []model.StackedSegment{{Label: "30-44", Percentage: 50}}, in.Stacked[0].Segments)

	in, err = chart.input(src, &model.RenderRequest{
		ChartType:      model.ChartTypeStacked,
		Spreadsheet:    "enc-2025",
		Column:         "Intención",
		StackedColumns: []string{"Intención", "Edad"},
		Excluded:       []string{"PAN"},
		Order:          []string{"Verde", "PRI"},
	})
	require.NoError(t, err)
	require.Len(t, in.Stacked, 2)
	for _, row := range in.Stacked {
		assert.Equal(t, []string{"PRI", "Morena"}, []string{row.Segments[0].Label, row.Segments[1].Label}, row.Label)
	}

	in, err = chart.input(src, &model.RenderRequest{
		ChartType:      model.ChartTypeStacked,
		Spreadsheet:    "enc-2025",
		StackedColumns: []string{"Intención"},
		Excluded:       []string{"Morena", "PAN", "PRI"},
	})
	require.NoError(t, err)
	assert.Empty(t, in.Stacked)
}

func TestChartRenderBatchKeepsOrder(t *testing.T) {
	chart, _ := newTestChart(t)

	out, err := chart.RenderBatch(context.Background(), []model.RenderRequest{
		{ChartType: model.ChartTypeBar, Spreadsheet: "enc-2025", Column: "Edad"},
		{ChartType: model.ChartTypeDonut, Spreadsheet: "enc-2025", Column: "Intención", Title: "Voto"},
		{ChartType: model.ChartTypeMatrix, Spreadsheet: "enc-2025", Column: "Intención", SecondColumn: "Edad"},
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, model.ChartTypeBar, out[0].ChartType)
	assert.Equal(t, "Voto", out[1].Title)
	assert.Equal(t, model.ChartTypeMatrix, out[2].ChartType)
	assert.False(t, out[2].Placeholder)
}

func newTestQueue(t *testing.T, now *time.Time) *Queue {
	conf := testConfig(t)
	q := NewQueue(conf, repo.NewMemoryQueueStore(), NewExport(conf, nil))
	q.now = func() time.Time { return *now }
	return q
}

func TestQueueLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	q := newTestQueue(t, &now)
	ctx := context.Background()

	a, err := q.Add(ctx, "Aprobación", model.ChartTypeApproval, "<svg>a</svg>")
	require.NoError(t, err)
	b, err := q.Add(ctx, "Voto", model.ChartTypeDonut, "<svg>b</svg>")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	list, err := q.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, []string{list[0].ID, list[1].ID})

	assert.True(t, errors.Is(q.Remove(ctx, "nope"), pgerr.ErrNotFound))
	require.NoError(t, q.Remove(ctx, a.ID))

	list, err = q.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	require.NoError(t, q.Clear(ctx))
	list, err = q.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestQueueExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	q := newTestQueue(t, &now)
	ctx := context.Background()

	_, err := q.Add(ctx, "Viejo", model.ChartTypeBar, "<svg/>")
	require.NoError(t, err)

	now = now.Add(time.Hour)
	list, err := q.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestQueueExport(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	q := newTestQueue(t, &now)
	ctx := context.Background()

	_, err := q.Export(ctx)
	assert.True(t, errors.Is(err, pgerr.ErrInvalidReq))

	_, err = q.Add(ctx, "Aprobación", model.ChartTypeApproval, "<svg>a</svg>")
	require.NoError(t, err)
	_, err = q.Add(ctx, "Voto", model.ChartTypeDonut, "<svg>b</svg>")
	require.NoError(t, err)

	archive, err := q.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "graficas-poligrama.zip", archive.Name)
	assert.Equal(t, 2, archive.Count)

	zr, err := zip.NewReader(bytes.NewReader(archive.Content), int64(len(archive.Content)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "01_Aprobación.svg", zr.File[0].Name)
	assert.Equal(t, "02_Voto.svg", zr.File[1].Name)

	list, err := q.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEntriesDisambiguateTitles(t *testing.T) {
	entries := Entries([]model.SavedChart{
		{Title: "Voto", ChartType: model.ChartTypeDonut},
		{Title: "Voto", ChartType: model.ChartTypeBar},
		{Title: "Edad", ChartType: model.ChartTypeBar},
	})

	assert.Equal(t, "01_voto_donut.svg", entries[0].Name)
	assert.Equal(t, "02_voto_bar.svg", entries[1].Name)
	assert.Equal(t, "03_Edad.svg", entries[2].Name)
}

func TestExportToDir(t *testing.T) {
	dir := t.TempDir()
	s := &Export{}

	paths, err := s.ExportToDir(context.Background(), []model.SavedChart{
		{Title: "Voto", ChartType: model.ChartTypeDonut, SVG: "<svg/>"},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "01_Voto.svg"),
		filepath.Join(dir, "graficas-poligrama.zip"),
	}, paths)
}
