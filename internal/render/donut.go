package render

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"poligrama.dev/backend/internal/model"
)

const (
	donutInnerRatio  = 0.73
	donutLegendPct   = 22
	donutLegendLabel = 20
)

// Donut draws a ring with one slice per positive record and a legend of
// colored pills on the left.
func Donut(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	slices := lo.Filter(in.Records, func(r model.FrequencyRecord, _ int) bool {
		return r.Percentage > 0
	})
	if len(slices) == 0 {
		return Placeholder(in.Options, MsgNoData)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeDonut})
	tall := f.IsTall()

	areaTop := f.lineY - 100
	areaBottom := f.H - float64(f.m.Bottom)
	sideFactor := 0.6
	if tall {
		areaTop = f.lineY - 40
		areaBottom -= 40
		sideFactor = 0.55
	}
	areaH := areaBottom - areaTop
	side := math.Min(f.W, areaH) * sideFactor
	outer := side / 2
	inner := outer * donutInnerRatio
	cx := f.W * 0.68
	cy := areaTop + areaH/2

	total := lo.SumBy(slices, func(r model.FrequencyRecord) float64 { return r.Percentage })
	if total <= 0 {
		total = 1
	}
	colors := make([]string, len(slices))
	angle := -math.Pi / 2
	f.Group()
	for i, s := range slices {
		colors[i] = colorFor(in.Colors, s.Label, paletteColor(i))
		span := 2 * math.Pi * s.Percentage / total
		f.Path(ringPath(cx, cy, outer, inner, angle, angle+span), attrs("fill", colors[i]))
		angle += span
	}
	f.Gend()

	leftAreaWidth := f.W/2 - float64(f.m.Left) - 40
	colWidth := leftAreaWidth / float64(max(len(slices), 3))
	xCenter := float64(f.m.Left) + leftAreaWidth/2
	legendTop := cy - 180
	pillWidth := colWidth * 3
	if tall {
		legendTop = cy - 260
		pillWidth = colWidth * 3.2
	}
	const pillHeight = 60
	for i, s := range slices {
		f.translate(xCenter, legendTop+float64(i*(pillHeight+20)))
		f.Roundrect(px(-pillWidth/2), 0, extent(pillWidth), pillHeight, 12, 12, attrs("fill", colors[i]))
		f.Text(0, 24, pctText(s.Percentage), attrs(
			"text-anchor", "middle", "fill", ColorWhite, "font-size", donutLegendPct, "font-weight", 700))
		f.Text(0, 44, s.Label, attrs(
			"text-anchor", "middle", "fill", ColorWhite, "font-size", donutLegendLabel, "font-weight", 700))
		f.Gend()
	}

	f.finish()
	return b.String()
}
