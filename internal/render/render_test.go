package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

// texts parses doc and returns the character data of every text element.
func texts(t *testing.T, doc string) []string {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	var out []string
	var inText int
	var cur strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "document must be well formed")
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "text" {
				inText++
				cur.Reset()
			}
		case xml.EndElement:
			if el.Name.Local == "text" {
				inText--
				out = append(out, strings.TrimSpace(cur.String()))
			}
		case xml.CharData:
			if inText > 0 {
				cur.Write(el)
			}
		}
	}
	return out
}

func sampleInput() Input {
	return Input{
		Options: Options{Title: "¿Cómo califica el servicio?", SheetTitle: "Encuesta", Canvas: Wide},
		Records: []model.FrequencyRecord{
			{Label: "Muy efectivo", Value: 3, Percentage: 60},
			{Label: "Nada efectivo", Value: 2, Percentage: 40},
		},
		Crosstab: &model.Crosstab{
			RowLabels: []string{"Muy efectivo", "Nada efectivo"},
			ColLabels: []string{"Hombre", "Mujer"},
			Values:    [][]float64{{30, 30}, {20, 20}},
		},
		Stacked: []model.StackedRow{
			{Label: "Servicio", Segments: []model.StackedSegment{{Label: "A", Percentage: 30}, {Label: "B", Percentage: 60}}},
		},
		Tracking: &model.TrackingSeries{
			Months: []string{"ENE", "FEB"},
			Categories: []model.TrackingCategory{
				{Name: "Seguridad", Values: []float64{40, 50}},
				{Name: "Salud", Values: []float64{60, 50}},
			},
		},
	}
}

func TestEveryTypeHasBuilder(t *testing.T) {
	assert.Equal(t, model.ChartTypes, Types())
}

func TestPlaceholderOnEmptyInput(t *testing.T) {
	for _, ct := range Types() {
		t.Run(string(ct), func(t *testing.T) {
			out, err := Render(ct, Input{Options: Options{Title: "Vacía"}})
			require.NoError(t, err)
			ts := texts(t, out)
			require.Len(t, ts, 1)
			assert.NotEmpty(t, ts[0])
		})
	}
}

func TestRenderSample(t *testing.T) {
	for _, ct := range Types() {
		t.Run(string(ct), func(t *testing.T) {
			out, err := Render(ct, sampleInput())
			require.NoError(t, err)
			ts := texts(t, out)
			assert.Contains(t, ts, "Poligrama.")
			assert.Contains(t, ts, footerText)
			assert.Contains(t, ts, "Encuesta")
			assert.Contains(t, out, `width="1920"`)
			assert.Contains(t, out, `viewBox="0 0 1920 1080"`)
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	for _, ct := range Types() {
		a, _ := Render(ct, sampleInput())
		b, _ := Render(ct, sampleInput())
		assert.Equal(t, a, b, string(ct))
	}
}

var negativeSize = regexp.MustCompile(`(width|height)="-`)

func crowdedInput(n int) Input {
	labels := make([]string, n)
	records := make([]model.FrequencyRecord, n)
	segments := make([]model.StackedSegment, n)
	categories := make([]model.TrackingCategory, n)
	values := make([]float64, n)
	rows := make([]model.ComparativeRow, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Opción %d", i+1)
		records[i] = model.FrequencyRecord{Label: labels[i], Value: 1, Percentage: 0.5}
		segments[i] = model.StackedSegment{Label: labels[i], Percentage: 0.5}
		categories[i] = model.TrackingCategory{Name: labels[i], Values: []float64{0.5, 0.5}}
		values[i] = 0.5
	}
	for i := range rows {
		rows[i] = model.ComparativeRow{Label: labels[i], Values: values}
	}

	return Input{
		Options: Options{Title: "Muchas opciones", Canvas: Wide},
		Records: records,
		Crosstab: &model.Crosstab{
			RowLabels: labels[:2],
			ColLabels: labels,
			Values:    [][]float64{values, values},
		},
		Comparative: &model.Comparative{Headers: labels, Rows: rows},
		Stacked:     []model.StackedRow{{Label: "Servicio", Segments: segments}},
		Tracking:    &model.TrackingSeries{Months: []string{"ENE", "FEB"}, Categories: categories},
	}
}

func TestCrowdedChartsKeepSizesNonNegative(t *testing.T) {
	for _, ct := range Types() {
		t.Run(string(ct), func(t *testing.T) {
			out, err := Render(ct, crowdedInput(200))
			require.NoError(t, err)
			texts(t, out)
			assert.Empty(t, negativeSize.FindAllString(out, -1))
		})
	}

	tall := crowdedInput(200)
	tall.Crosstab = &model.Crosstab{RowLabels: tall.Crosstab.ColLabels, ColLabels: tall.Crosstab.RowLabels}
	assert.Empty(t, negativeSize.FindAllString(Matrix(tall), -1))
}

func TestTallCanvas(t *testing.T) {
	in := sampleInput()
	in.Canvas = Tall
	out := Donut(in)
	texts(t, out)
	assert.Contains(t, out, `width="1440"`)
	assert.Contains(t, out, `height="1800"`)
	assert.Contains(t, out, `viewBox="0 0 1440 1800"`)
}

func TestUnknownType(t *testing.T) {
	_, err := Render("pie", sampleInput())
	assert.ErrorIs(t, err, pgerr.ErrUnsupportedChartType)
}

func TestAdapterErrorBecomesPlaceholder(t *testing.T) {
	in := sampleInput()
	in.Err = pgerr.ErrMissingRequiredInput.Msg("Define el rango de la segunda pregunta")
	ts := texts(t, Matrix(in))
	assert.Equal(t, []string{"Define el rango de la segunda pregunta"}, ts)
}

func TestTextIsEscaped(t *testing.T) {
	in := sampleInput()
	in.Title = `Pregunta <1> & "2"`
	out := Bar(in)
	assert.Contains(t, texts(t, out), `Pregunta <1> & "2"`)
	assert.NotContains(t, out, "<1>")
}

func TestUnsafeColorIgnored(t *testing.T) {
	in := sampleInput()
	in.Colors = model.ColorMap{"Muy efectivo": `red" onload="alert(1)`}
	out := Donut(in)
	texts(t, out)
	assert.NotContains(t, out, "onload")
	assert.Contains(t, out, ColorPrimary)
}

func TestCustomColorApplied(t *testing.T) {
	in := sampleInput()
	in.Colors = model.ColorMap{"Muy efectivo": "#123456"}
	assert.Contains(t, Bar(in), `fill="#123456"`)
}

func TestStackedWidthsUseRowTotal(t *testing.T) {
	row := model.StackedRow{Segments: []model.StackedSegment{{Label: "A", Percentage: 30}, {Label: "B", Percentage: 60}}}
	w := StackedWidths(row, 900)
	require.Len(t, w, 2)
	assert.InDelta(t, 300, w[0], 1e-9)
	assert.InDelta(t, 600, w[1], 1e-9)
	assert.InDelta(t, 33.3, w[0]/900*100, 0.05)
	assert.InDelta(t, 66.7, w[1]/900*100, 0.05)
}

func TestScoreAverage(t *testing.T) {
	records := []model.FrequencyRecord{
		{Label: "10", Value: 3, Percentage: 37.5},
		{Label: "5 - Regular", Value: 1, Percentage: 12.5},
		{Label: "No sabe", Value: 4, Percentage: 50},
	}
	assert.InDelta(t, 8.75, ScoreAverage(records), 1e-9)

	byPercent := []model.FrequencyRecord{
		{Label: "8", Percentage: 50},
		{Label: "6", Percentage: 50},
	}
	assert.InDelta(t, 7, ScoreAverage(byPercent), 1e-9)

	assert.Equal(t, 0.0, ScoreAverage([]model.FrequencyRecord{{Label: "15", Value: 1}}))
	assert.Equal(t, 0.0, ScoreAverage([]model.FrequencyRecord{{Label: "-3", Value: 1}}))

	withOutOfScale := []model.FrequencyRecord{
		{Label: "8", Value: 1},
		{Label: "11", Value: 1},
		{Label: "10", Value: 1},
	}
	assert.InDelta(t, 9, ScoreAverage(withOutOfScale), 1e-9)

	assert.Contains(t, texts(t, Score(Input{Records: records})), "8.8")
}

func TestNudgeLabel(t *testing.T) {
	assert.Equal(t, 95.0, nudgeLabel(nil, 95, 14))
	assert.Equal(t, 86.0, nudgeLabel([]float64{100}, 95, 14))
	assert.Equal(t, 72.0, nudgeLabel([]float64{100, 86}, 99, 14))
	assert.Equal(t, 50.0, nudgeLabel([]float64{100}, 50, 14))
}

func TestPartyInitials(t *testing.T) {
	assert.Equal(t, "MC", PartyInitials("Movimiento Ciudadano"))
	assert.Equal(t, "M", PartyInitials("MORENA"))
	assert.Equal(t, "NS", PartyInitials("No sabe / No contestó"))
	assert.Equal(t, "Ñ", PartyInitials("ñu"))
	assert.Equal(t, "", PartyInitials(""))
}
