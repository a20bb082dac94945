package test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"poligrama.dev/backend/internal/app"
	"poligrama.dev/backend/internal/app/appconfig"
	"poligrama.dev/backend/internal/app/appcontext"
)

// testing hooks: https://pkg.go.dev/testing#hdr-Subtests_and_Sub_benchmarks

var (
	gMu       sync.Mutex
	gFiberApp *fiber.App
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
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Encuesta", cell, &row))
	}

	_, err := f.NewSheet("Resultados")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Resultados", "B2", &[]interface{}{"Aprueba", "55%"}))
	require.NoError(t, f.SetSheetRow("Resultados", "B3", &[]interface{}{"Desaprueba", "45%"}))

	require.NoError(t, f.SaveAs(filepath.Join(dir, "enc-2025.xlsx")))
}

// testConfig points the data directory at a fresh fixture. The directory
// outlives the test that created it since the app is shared by every test.
func testConfig(t *testing.T) *appconfig.Config {
	dir, err := os.MkdirTemp("", "poligrama-api-")
	require.NoError(t, err)
	writeSurvey(t, dir)

	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			ServiceAddress:            ":0",
			DevMode:                   true,
			LogLevel:                  "warn",
			TrustedProxies:            []string{"127.0.0.1"},
			DataDir:                   dir,
			DefaultRange:              "A1:ZZ1000",
			GridCacheTTL:              time.Minute,
			RenderCacheSize:           16,
			BatchConcurrency:          2,
			QueueStore:                appconfig.QueueStoreMemory,
			QueueTTL:                  time.Hour,
			RedisURL:                  "redis://127.0.0.1:6379/0",
			S3Prefix:                  "exports/",
			AWSRegion:                 "us-east-1",
			HTTPServerShutdownTimeout: time.Second,
		},
		AppContext: appcontext.Declare(appcontext.EnvServer),
	}
}

func startup(t *testing.T) {
	t.Helper()

	gMu.Lock()
	defer gMu.Unlock()

	if gFiberApp != nil {
		return
	}

	var fiberApp *fiber.App
	fxApp := fxtest.New(t,
		append(app.OptionsWithConfig(testConfig(t)), fx.Populate(&fiberApp))...,
	)
	fxApp.RequireStart()

	gFiberApp = fiberApp
}

func request(t *testing.T, req *http.Request, msTimeout ...int) *http.Response {
	t.Helper()

	resp, err := gFiberApp.Test(req, msTimeout...)
	if err != nil {
		t.Fatal(err)
	}

	return resp
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAcceptLanguage, "en")
	return req
}

func TestAPIMeta(t *testing.T) {
	startup(t)

	t.Run("index", func(t *testing.T) {
		resp := request(t, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("health", func(t *testing.T) {
		resp := request(t, httptest.NewRequest(http.MethodGet, "/api/_/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", gjson.Get(bodyString(resp), "status").String())
	})

	t.Run("version", func(t *testing.T) {
		resp := request(t, httptest.NewRequest(http.MethodGet, "/api/_/bininfo", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAPISheets(t *testing.T) {
	startup(t)

	t.Run("list", func(t *testing.T) {
		resp := request(t, httptest.NewRequest(http.MethodGet, "/api/v1/sheets/enc-2025", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := bodyString(resp)
		assert.Equal(t, int64(2), gjson.Get(body, "#").Int())
		assert.Equal(t, "Encuesta", gjson.Get(body, "0.name").String())
	})

	t.Run("columns", func(t *testing.T) {
		resp := request(t, httptest.NewRequest(http.MethodGet, "/api/v1/sheets/enc-2025/Encuesta/columns", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Edad", gjson.Get(bodyString(resp), "1.name").String())
	})

	t.Run("missing", func(t *testing.T) {
		resp := request(t, httptest.NewRequest(http.MethodGet, "/api/v1/sheets/nope", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", gjson.Get(bodyString(resp), "code").String())
	})
}

func TestAPICharts(t *testing.T) {
	startup(t)

	t.Run("types", func(t *testing.T) {
		resp := request(t, httptest.NewRequest(http.MethodGet, "/api/v1/charts/types", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := bodyString(resp)
		assert.Equal(t, int64(10), gjson.Get(body, "types.#").Int())
		assert.Equal(t, "wide", gjson.Get(body, "canvases.0.name").String())
	})

	t.Run("render", func(t *testing.T) {
		resp := request(t, jsonRequest(t, http.MethodPost, "/api/v1/charts/render", fiber.Map{
			"chartType":   "donut",
			"spreadsheet": "enc-2025",
			"column":      "Intención",
		}))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/svg+xml", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, bodyString(resp), "<svg")
	})

	t.Run("render summary", func(t *testing.T) {
		resp := request(t, jsonRequest(t, http.MethodPost, "/api/v1/charts/render", fiber.Map{
			"chartType":   "approval",
			"mode":        "summary",
			"spreadsheet": "enc-2025",
			"sheet":       "Resultados",
			"range":       "B2:C3",
			"title":       "Aprobación",
		}))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("X-Poligrama-Placeholder"))
	})

	t.Run("invalid", func(t *testing.T) {
		resp := request(t, jsonRequest(t, http.MethodPost, "/api/v1/charts/render", fiber.Map{
			"chartType":   "pie",
			"spreadsheet": "enc-2025",
		}))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := bodyString(resp)
		assert.Equal(t, "INVALID_REQUEST", gjson.Get(body, "code").String())
		assert.Equal(t, "charttype", gjson.Get(body, "violations.0.violation").String())
	})

	t.Run("frequencies", func(t *testing.T) {
		resp := request(t, jsonRequest(t, http.MethodPost, "/api/v1/charts/frequencies", fiber.Map{
			"chartType":   "bar",
			"spreadsheet": "enc-2025",
			"column":      "Intención",
		}))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := bodyString(resp)
		assert.Equal(t, "Morena", gjson.Get(body, "order.0").String())
		assert.Equal(t, 66.7, gjson.Get(body, "records.0.percentage").Float())
	})

	t.Run("batch", func(t *testing.T) {
		resp := request(t, jsonRequest(t, http.MethodPost, "/api/v1/charts/batch", fiber.Map{
			"requests": []fiber.Map{
				{"chartType": "bar", "spreadsheet": "enc-2025", "column": "Edad"},
				{"chartType": "donut", "spreadsheet": "enc-2025", "column": "Intención"},
			},
		}))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := bodyString(resp)
		assert.Equal(t, int64(2), gjson.Get(body, "svgs.#").Int())
		assert.Equal(t, "donut", gjson.Get(body, "charts.1.chartType").String())
	})
}

func TestAPIQueue(t *testing.T) {
	startup(t)

	resp := request(t, httptest.NewRequest(http.MethodPost, "/api/v1/queue/export", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	add := jsonRequest(t, http.MethodPost, "/api/v1/queue", fiber.Map{
		"chartType":   "bar",
		"spreadsheet": "enc-2025",
		"column":      "Edad",
		"title":       "Edad",
	})
	add.Header.Set("X-Poligrama-Idempotency-Key", "abc123")
	resp = request(t, add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := gjson.Get(bodyString(resp), "id").String()
	assert.NotEmpty(t, id)

	resp = request(t, httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyString(resp)
	assert.Equal(t, int64(1), gjson.Get(body, "#").Int())
	assert.Equal(t, id, gjson.Get(body, "0.id").String())

	resp = request(t, httptest.NewRequest(http.MethodDelete, "/api/v1/queue/unknown", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = request(t, httptest.NewRequest(http.MethodPost, "/api/v1/queue/export", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "graficas-poligrama.zip")

	resp = request(t, httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), gjson.Get(bodyString(resp), "#").Int())
}
