package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"poligrama.dev/backend/internal/model"
)

var sample = []model.FrequencyRecord{
	{Label: "Sí", Value: 50, Percentage: 50},
	{Label: "No", Value: 30, Percentage: 30},
	{Label: "NS", Value: 20, Percentage: 20},
}

func TestApplyRenormalizesRaw(t *testing.T) {
	got := Apply(sample, NewExclusion("NS"), model.InputModeRaw)

	assert.Equal(t, []model.FrequencyRecord{
		{Label: "Sí", Value: 50, Percentage: 62.5},
		{Label: "No", Value: 30, Percentage: 37.5},
	}, got)
}

func TestApplyRenormalizationSumsTo100(t *testing.T) {
	records := []model.FrequencyRecord{
		{Label: "a", Value: 7}, {Label: "b", Value: 11}, {Label: "c", Value: 13},
		{Label: "d", Value: 3}, {Label: "e", Value: 1},
	}
	for _, hidden := range [][]string{{"a"}, {"b", "c"}, {"e"}, {"a", "b", "c", "d"}} {
		var sum float64
		for _, r := range Apply(records, NewExclusion(hidden...), model.InputModeRaw) {
			sum += r.Percentage
		}
		assert.InDelta(t, 100, sum, 0.1, "hidden %v", hidden)
	}
}

func TestApplyRenormalizationOverEqualValues(t *testing.T) {
	var records []model.FrequencyRecord
	for _, l := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		records = append(records, model.FrequencyRecord{Label: l, Value: 1})
	}

	var sum float64
	for _, r := range Apply(records, NewExclusion("h"), model.InputModeRaw) {
		sum += r.Percentage
	}
	assert.InDelta(t, 100, sum, 0.1)
}

func TestApplyKeepsSummaryPercentages(t *testing.T) {
	records := []model.FrequencyRecord{
		{Label: "Sí", Value: 40.66, Percentage: 40.66},
		{Label: "No", Value: 22.3, Percentage: 22.3},
	}
	got := Apply(records, NewExclusion("No"), model.InputModeSummary)
	assert.Equal(t, []model.FrequencyRecord{{Label: "Sí", Value: 40.66, Percentage: 40.7}}, got)
}

func TestApplyAllExcluded(t *testing.T) {
	assert.Empty(t, Apply(sample, NewExclusion("Sí", "No", "NS"), model.InputModeRaw))
}

func TestExclusionToggle(t *testing.T) {
	e := NewExclusion()
	e.Toggle("Sí")
	assert.True(t, e.Has("Sí"))
	e.Toggle("Sí")
	assert.False(t, e.Has("Sí"))
	e.Toggle("No")
	e.Toggle("NS")
	assert.ElementsMatch(t, []string{"No", "NS"}, e.Labels())
	e.Reset()
	assert.Empty(t, e.Labels())
}

func TestReconcile(t *testing.T) {
	order := []string{"NS", "Sí", "Gone", "NS"}
	got := Reconcile(order, sample, NewExclusion())
	assert.Equal(t, []string{"NS", "Sí", "No"}, got)

	got = Reconcile(order, sample, NewExclusion("Sí"))
	assert.Equal(t, []string{"NS", "No"}, got)
}

func TestReconcileStableAfterRemoval(t *testing.T) {
	order := []string{"NS", "No", "Sí"}
	withoutNo := []model.FrequencyRecord{sample[0], sample[2]}

	got := Reconcile(order, withoutNo, NewExclusion())
	assert.Equal(t, []string{"NS", "Sí"}, got)
}

func TestArrange(t *testing.T) {
	got := Arrange(sample, []string{"No", "Missing"})
	assert.Equal(t, []string{"No", "Sí", "NS"}, model.Labels(got))
}

func TestDedupFirst(t *testing.T) {
	got := DedupFirst([]model.FrequencyRecord{
		{Label: "Seguridad", Value: 1},
		{Label: "Salud", Value: 2},
		{Label: "Seguridad", Value: 3},
	})
	assert.Equal(t, []model.FrequencyRecord{
		{Label: "Seguridad", Value: 1},
		{Label: "Salud", Value: 2},
	}, got)
}

func TestPrepare(t *testing.T) {
	got := Prepare(sample, NewExclusion("Sí"), []string{"NS"}, model.InputModeRaw, false)
	assert.Equal(t, []model.FrequencyRecord{
		{Label: "NS", Value: 20, Percentage: 40},
		{Label: "No", Value: 30, Percentage: 60},
	}, got)
}
