package rekuest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/pgerr"
	"poligrama.dev/backend/internal/util/i18n"
)

func violations(t *testing.T, err error) []*ErrorResponse {
	t.Helper()
	e, ok := pgerr.As(err)
	require.True(t, ok)
	require.NotNil(t, e.Extras)
	v, ok := (*e.Extras)["violations"].([]*ErrorResponse)
	require.True(t, ok)
	return v
}

func TestStructAcceptsValidRequest(t *testing.T) {
	tr, _ := i18n.UT.GetTranslator("en")
	req := model.RenderRequest{
		ChartType:   model.ChartTypeDonut,
		Spreadsheet: "abc",
		Column:      "P1",
		Canvas:      "Tall",
	}
	assert.NoError(t, Struct(tr, &req))
}

func TestStructRejectsUnknownChartType(t *testing.T) {
	tr, _ := i18n.UT.GetTranslator("en")
	req := model.RenderRequest{ChartType: "pie", Spreadsheet: "abc", Column: "P1"}

	v := violations(t, Struct(tr, &req))
	require.Len(t, v, 1)
	assert.Equal(t, "charttype", v[0].Violation)
	assert.Equal(t, "ChartType must be an available chart type", v[0].Message)
}

func TestStructRequiresModeInputs(t *testing.T) {
	tr, _ := i18n.UT.GetTranslator("en")

	raw := model.RenderRequest{ChartType: model.ChartTypeBar, Spreadsheet: "abc"}
	v := violations(t, Struct(tr, &raw))
	require.Len(t, v, 1)
	assert.Equal(t, "RenderRequest.Column", v[0].Field)

	summary := model.RenderRequest{ChartType: model.ChartTypeBar, Mode: model.InputModeSummary, Spreadsheet: "abc"}
	v = violations(t, Struct(tr, &summary))
	require.Len(t, v, 1)
	assert.Equal(t, "RenderRequest.Range", v[0].Field)

	tracking := model.RenderRequest{ChartType: model.ChartTypeTracking, Spreadsheet: "abc"}
	assert.NoError(t, Struct(tr, &tracking))
}

func TestStructRejectsBadCellAndCanvas(t *testing.T) {
	tr, _ := i18n.UT.GetTranslator("es")
	req := model.RenderRequest{
		ChartType:    model.ChartTypeScore,
		Spreadsheet:  "abc",
		Column:       "P1",
		Canvas:       "square",
		QuestionCell: "1A",
	}

	v := violations(t, Struct(tr, &req))
	tags := make([]string, 0, len(v))
	for _, r := range v {
		tags = append(tags, r.Violation)
	}
	assert.ElementsMatch(t, []string{"canvas", "cellref"}, tags)
}

func TestStructRejectsRangesPastTheSheet(t *testing.T) {
	tr, _ := i18n.UT.GetTranslator("en")
	req := model.RenderRequest{
		ChartType:   model.ChartTypeBar,
		Mode:        model.InputModeSummary,
		Spreadsheet: "abc",
		Range:       "A1:B999999999",
		SecondRange: "C2:D5",
	}

	v := violations(t, Struct(tr, &req))
	require.Len(t, v, 1)
	assert.Equal(t, "cellrange", v[0].Violation)
	assert.Equal(t, "RenderRequest.Range", v[0].Field)
}
