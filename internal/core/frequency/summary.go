package frequency

import (
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/cellgrid"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/pkg/percent"
	"poligrama.dev/backend/internal/pkg/pgerr"
)

// TotalTolerance is how far from 100 a strict summary table may add up.
const TotalTolerance = 1.0

// FromSummary reads (label, percentage) pairs from the first two columns of
// rangeStr in sheet order. Rows with a blank label are skipped. A malformed
// range is logged and yields no records.
func FromSummary(grid cellgrid.Grid, rangeStr string) []model.FrequencyRecord {
	records, err := extractSummary(grid, rangeStr)
	if err != nil {
		log.Warn().
			Str("evt.name", "frequency.summary.range").
			Str("range", rangeStr).
			Err(err).
			Msg("ignoring invalid summary range")
		return nil
	}
	return records
}

// FromSummaryStrict is FromSummary that additionally requires the
// percentages to add up to 100 within TotalTolerance.
func FromSummaryStrict(grid cellgrid.Grid, rangeStr string) ([]model.FrequencyRecord, error) {
	records, err := extractSummary(grid, rangeStr)
	if err != nil {
		return nil, err
	}
	if err := CheckTotal(records); err != nil {
		return nil, err
	}
	return records, nil
}

// CheckTotal fails with ErrUnnormalizedTotal when the percentages of records
// do not add up to 100 within TotalTolerance.
func CheckTotal(records []model.FrequencyRecord) error {
	var total float64
	for _, r := range records {
		total += r.Percentage
	}
	if math.Abs(total-100) > TotalTolerance {
		return pgerr.ErrUnnormalizedTotal.WithExtras(pgerr.Extras{
			"total": percent.Round1(total),
		})
	}
	return nil
}

func extractSummary(grid cellgrid.Grid, rangeStr string) ([]model.FrequencyRecord, error) {
	if strings.TrimSpace(rangeStr) == "" {
		return nil, pgerr.ErrInvalidCoordinate.Msg("empty summary range")
	}
	r, err := coord.ParseRange(rangeStr)
	if err != nil {
		return nil, err
	}
	if r.Cols() < 2 {
		log.Debug().
			Str("evt.name", "frequency.summary.range").
			Str("range", r.String()).
			Msg("summary range should span a label and a percentage column")
	}
	r = grid.Clip(r)

	var records []model.FrequencyRecord
	for row := r.RowStart; row <= r.RowEnd; row++ {
		label := strings.TrimSpace(grid.At(row, r.ColStart).String())
		if label == "" {
			continue
		}
		p := percent.FromCell(grid.At(row, r.ColStart+1))
		records = append(records, model.FrequencyRecord{
			Label:      label,
			Value:      p,
			Percentage: p,
		})
	}
	return records, nil
}
