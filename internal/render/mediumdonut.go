package render

import (
	"math"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"poligrama.dev/backend/internal/model"
)

const (
	mdOuterRadius = 140
	mdInnerRadius = 90
	mdHeaderH     = 60
	mdLegendRowH  = 100
	mdLegendPillH = 70
)

var (
	secureRegex   = regexp.MustCompile(`(?i)\bseguro\b`)
	insecureRegex = regexp.MustCompile(`(?i)\binseguro\b`)
)

func mediumDonutColor(colors map[string]string, label string) string {
	fallback := ColorNeutral
	switch {
	case secureRegex.MatchString(label):
		fallback = ColorPrimary
	case insecureRegex.MatchString(label):
		fallback = ColorDanger
	}
	return colorFor(colors, label, fallback)
}

// MediumDonut draws a small donut with its legend on the left and a
// comparative table of the same labels on the right.
func MediumDonut(in Input) string {
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
	f := begin(&b, in.Options, layout{chart: model.ChartTypeMediumDonut, compact: true})
	tall := f.IsTall()

	left := float64(f.m.Left)
	leftWidth, gap := 640.0, 60.0
	cy := f.H / 2
	legendPad := 90.0
	labelColW := 260.0
	if tall {
		leftWidth, gap, legendPad, labelColW = 520, 40, 40, 190
		cy = f.H/2 - 160
	}
	rightX0 := left + leftWidth + gap
	rightWidth := f.W - rightX0 - float64(f.m.Right)
	cx := left + leftWidth/2

	colors := make(map[string]string, len(slices))
	for _, s := range slices {
		colors[s.Label] = mediumDonutColor(in.Colors, s.Label)
	}

	total := lo.SumBy(slices, func(r model.FrequencyRecord) float64 { return r.Percentage })
	angle := -math.Pi / 2
	f.Group()
	for _, s := range slices {
		span := 2 * math.Pi * s.Percentage / total
		f.Path(ringPath(cx, cy, mdOuterRadius, mdInnerRadius, angle, angle+span),
			attrs("fill", colors[s.Label], "stroke", ColorBlack, "stroke-width", 3))
		angle += span
	}
	f.Gend()

	cols := 1
	switch {
	case tall:
	case len(slices) <= 4:
		cols = len(slices)
	default:
		cols = (len(slices) + 1) / 2
	}
	colW := leftWidth / float64(cols)
	legendTop := cy + mdOuterRadius + legendPad
	for i, s := range slices {
		x := left + float64(i%cols)*colW + colW/2
		y := legendTop + float64(i/cols*mdLegendRowH)
		f.Roundrect(px(x-colW/2+4), px(y-mdLegendPillH/2), extent(colW-8), mdLegendPillH, 12, 12,
			attrs("fill", colors[s.Label]))
		lines := WrapWords(s.Label, 28, 2)
		fs := 18
		if len(lines) == 2 {
			fs = 13
		}
		style := attrs("fill", ColorWhite, "font-weight", 700, "font-size", fs, "text-anchor", "middle")
		for li, line := range lines {
			f.Text(px(x), px(y-10)+li*(fs+2), line, style)
		}
		f.Text(px(x), px(y+18), pctText(s.Percentage), attrs(
			"fill", ColorWhite, "font-weight", 700, "font-size", 20, "text-anchor", "middle"))
	}

	headers, rows := comparativeTable(in.Comparative, slices)
	tableTop := f.lineY + 60
	tableH := f.H - float64(f.m.Bottom) - 40 - tableTop
	rowH := math.Max(40, (tableH-mdHeaderH)/float64(len(slices)))
	cellW := (rightWidth - labelColW) / float64(len(headers))

	for i, h := range headers {
		x := rightX0 + labelColW + float64(i)*cellW
		rectY := tableTop + 8
		rectH := float64(mdHeaderH - 16)
		f.Roundrect(px(x+4), px(rectY), extent(cellW-8), extent(rectH), 12, 12, attrs("fill", ColorWhite))
		f.Text(px(x+cellW/2), px(rectY+rectH/2), h, attrs(
			"fill", ColorBlack, "font-size", 20, "font-weight", 700,
			"text-anchor", "middle", "dominant-baseline", "middle"))
	}

	for r, s := range slices {
		y := tableTop + mdHeaderH + float64(r)*rowH
		color := colors[s.Label]
		rectY, rectH := y+6, rowH-12
		f.Roundrect(px(rightX0), px(rectY), extent(labelColW-16), extent(rectH), 12, 12, attrs("fill", color))

		lines := WrapWords(s.Label, 18, 2)
		centerX := rightX0 + (labelColW-16)/2
		line1Y := rectY + rectH/2
		if len(lines) > 1 {
			line1Y -= 10
		}
		style := attrs("fill", ColorWhite, "font-weight", 700, "font-size", 18, "text-anchor", "middle")
		for li, line := range lines {
			f.Text(px(centerX), px(line1Y)+li*20, line, style)
		}

		for c, v := range rows[s.Label] {
			if c >= len(headers) {
				break
			}
			cellX := rightX0 + labelColW + float64(c)*cellW
			f.Roundrect(px(cellX+4), px(rectY), extent(cellW-8), extent(rectH), 12, 12, attrs("fill", color))
			f.Text(px(cellX+cellW/2), px(y+rowH/2), pctText(v), attrs(
				"fill", ColorWhite, "font-size", 20, "font-weight", 700,
				"text-anchor", "middle", "dominant-baseline", "middle"))
		}
	}

	f.finish()
	return b.String()
}

// comparativeTable returns the table headers and the values of every label.
// Without a comparative, the table has a single Total column holding the
// record percentages.
func comparativeTable(c *model.Comparative, records []model.FrequencyRecord) ([]string, map[string][]float64) {
	rows := make(map[string][]float64, len(records))
	if c == nil || len(c.Headers) == 0 {
		for _, r := range records {
			rows[r.Label] = []float64{r.Percentage}
		}
		return []string{"Total"}, rows
	}
	for _, row := range c.Rows {
		rows[row.Label] = row.Values
	}
	return c.Headers, rows
}
