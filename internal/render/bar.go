package render

import (
	"regexp"
	"strings"

	"poligrama.dev/backend/internal/model"
)

const (
	barLabelX        = 120
	barPercentZone   = 100
	barColumnGap     = 80
	barSingleColumn  = 8
	barLabelFontSize = 22
	barValueFontSize = 25
)

var lineBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>|\s*\n\s*`)

type barSlot struct {
	rec      model.FrequencyRecord
	idx      int
	rowInCol int
	x0, x1   float64
	maxWidth float64
	gap      float64
}

// Bar draws horizontal bars on a 0..100 scale, one column up to eight rows
// and two columns beyond.
func Bar(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	if len(in.Records) == 0 {
		return Placeholder(in.Options, MsgNoData)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeBar, captionBelow: true})

	areaTop := f.lineY + 60
	areaH := f.H - float64(f.m.Bottom) - 40 - areaTop
	right := f.W - float64(f.m.Right)

	var slots []barSlot
	addColumn := func(x0, x1 float64, from, count int) {
		gap := areaH / float64(count*2)
		for i := 0; i < count; i++ {
			slots = append(slots, barSlot{
				rec:      in.Records[from+i],
				idx:      from + i,
				rowInCol: i,
				x0:       x0,
				x1:       x1,
				maxWidth: x1 - x0 - barPercentZone,
				gap:      gap,
			})
		}
	}
	n := len(in.Records)
	if n <= barSingleColumn {
		addColumn(barLabelX, right, 0, n)
	} else {
		colWidth := (right - barLabelX - barColumnGap) / 2
		left := (n + 1) / 2
		addColumn(barLabelX, barLabelX+colWidth, 0, left)
		x0 := barLabelX + colWidth + barColumnGap
		addColumn(x0, x0+colWidth, left, n-left)
	}

	for _, s := range slots {
		value := clamp(s.rec.Percentage, 0, 100)
		color := colorFor(in.Colors, s.rec.Label, paletteColor(s.idx))
		centerY := areaTop + s.gap*float64(1+2*s.rowInCol)
		height := s.gap
		top := centerY - height/2

		f.Rect(px(s.x0), px(top), extent(s.maxWidth), extent(height),
			attrs("fill", Darken(color, 0.7), "fill-opacity", 0.3))
		f.Rect(px(s.x0), px(top), extent(s.maxWidth*value/100), extent(height), attrs("fill", color))

		label := strings.TrimSpace(lineBreakRegex.ReplaceAllString(s.rec.Label, " "))
		f.Text(px(s.x0), px(top-12), label, attrs(
			"fill", f.fg, "font-size", barLabelFontSize, "font-weight", 700, "text-anchor", "start"))
		f.Text(px(s.x1-10), px(centerY), pctText(value), attrs(
			"fill", f.fg, "font-size", barValueFontSize, "font-weight", 700,
			"text-anchor", "end", "dominant-baseline", "middle"))
	}

	f.finish()
	return b.String()
}
