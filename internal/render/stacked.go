package render

import (
	"strings"

	"poligrama.dev/backend/internal/model"
)

const (
	stackedLabelColumn = 420
	stackedLegendH     = 50
	stackedLegendFont  = 20
	stackedMinTextPx   = 40
)

// StackedWidths partitions track among the segments of row in proportion to
// each segment's share of the row total, so rows that do not add up to 100
// still fill the track.
func StackedWidths(row model.StackedRow, track float64) []float64 {
	total := row.Total()
	if total == 0 {
		total = 1
	}
	out := make([]float64, len(row.Segments))
	for i, s := range row.Segments {
		out[i] = track * clamp(s.Percentage, 0, 100) / total
	}
	return out
}

// Stacked draws one horizontal stacked bar per row with a legend taken from
// the segments of the first row.
func Stacked(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	if len(in.Stacked) == 0 {
		return Placeholder(in.Options, MsgNoStacked)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeStacked, compact: true})

	x0 := float64(stackedLabelColumn)
	track := f.W - float64(f.m.Right) - x0
	legendY := f.lineY + 60
	areaTop := legendY + 40 + 24
	areaBottom := f.H - float64(f.m.Bottom) - 40
	if f.IsTall() {
		areaBottom = f.H - float64(f.m.Bottom) - 60
	}
	gap := (areaBottom - areaTop) / float64(len(in.Stacked)*2)

	if legend := in.Stacked[0].Segments; len(legend) > 0 {
		colW := track / float64(len(legend))
		f.Group()
		for i, s := range legend {
			cx := x0 + colW*(float64(i)+0.5)
			f.Roundrect(px(cx-(colW-8)/2), px(legendY), extent(colW-8), stackedLegendH, 8, 8,
				attrs("fill", colorFor(in.Colors, s.Label, paletteColor(i))))
			lines := WrapWords(s.Label, 18, 2)
			step := float64(stackedLegendFont + 2)
			firstY := legendY + stackedLegendH/2 - float64(len(lines)-1)*step/2
			f.multiline(cx, firstY, lines, step, attrs(
				"fill", ColorWhite, "font-size", stackedLegendFont, "font-weight", 700,
				"text-anchor", "middle", "dominant-baseline", "middle"))
		}
		f.Gend()
	}

	f.Group()
	for r, row := range in.Stacked {
		centerY := areaTop + gap*float64(1+2*r)
		top := centerY - gap/2

		lines := WrapWords(row.Label, 35, 3)
		firstY := centerY - float64(len(lines)-1)*24/2
		f.multiline(x0-30, firstY, lines, 24, attrs(
			"fill", f.fg, "font-size", 20, "font-weight", 700, "text-anchor", "end"))

		x := x0
		for i, w := range StackedWidths(row, track) {
			if w <= 0 {
				continue
			}
			seg := row.Segments[i]
			f.Rect(px(x), px(top), max(px(x+w)-px(x), 0), extent(gap),
				attrs("fill", colorFor(in.Colors, seg.Label, paletteColor(i))))
			if w > stackedMinTextPx {
				f.Text(px(x+w/2), px(centerY+3), pctText(clamp(seg.Percentage, 0, 100)), attrs(
					"fill", ColorWhite, "font-size", 18, "font-weight", 700,
					"text-anchor", "middle", "dominant-baseline", "middle"))
			}
			x += w
		}
	}
	f.Gend()

	f.finish()
	return b.String()
}
