package render

import (
	"strings"

	"poligrama.dev/backend/internal/model"
)

const (
	verticalMinLabelPx = 24
	verticalLegendCols = 2
	verticalSquare     = 18
)

var verticalTicks = []float64{0, 20, 40, 60, 80, 100}

// StackedVertical draws one column per month with the categories stacked
// bottom up on a fixed 0..100 scale.
func StackedVertical(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	ts := in.Tracking
	if ts == nil || len(ts.Months) == 0 || len(ts.Categories) == 0 {
		return Placeholder(in.Options, MsgNoTracking)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeStackedVertical})

	axisLeft := float64(f.m.Left + 40)
	barsLeft := axisLeft + 40
	barsRight := f.W - float64(f.m.Right)
	chartTop := f.lineY + 80
	chartBottom := f.H - float64(f.m.Bottom) - 220
	chartH := chartBottom - chartTop
	slot := (barsRight - barsLeft) / float64(len(ts.Months))
	barW := slot * 0.36

	for _, v := range verticalTicks {
		y := chartBottom - v/100*chartH
		f.Line(px(barsLeft), px(y), px(barsRight), px(y),
			attrs("stroke", ColorNeutral, "stroke-width", 0.7, "opacity", 0.25))
		f.Text(px(axisLeft), px(y+4), num(v), attrs("fill", f.fg, "font-size", 20, "text-anchor", "end"))
	}
	f.Line(px(barsLeft), px(chartTop), px(barsLeft), px(chartBottom), attrs("stroke", f.fg, "stroke-width", 2))

	colors := make([]string, len(ts.Categories))
	for i, c := range ts.Categories {
		colors[i] = trackingColor(in.Colors, c.Name)
	}

	for m, month := range ts.Months {
		cx := barsLeft + slot*(float64(m)+0.5)
		x := cx - barW/2
		current := chartBottom
		for ci, c := range ts.Categories {
			if m >= len(c.Values) {
				continue
			}
			value := clamp(c.Values[m], 0, 100)
			if value <= 0 {
				continue
			}
			h := value / 100 * chartH
			top := current - h
			f.Rect(px(x), px(top), extent(barW), max(px(current)-px(top), 0), attrs("fill", colors[ci]))
			if h >= verticalMinLabelPx {
				f.Text(px(cx), px(top+h/2+4), pctText(value), attrs(
					"fill", ColorWhite, "font-size", 18, "font-weight", 700,
					"text-anchor", "middle", "dominant-baseline", "middle"))
			}
			current = top
		}
		f.multiline(cx, chartBottom+28, WrapWords(month, 10, 2), 24, attrs(
			"fill", f.fg, "font-size", 20, "font-weight", 700, "text-anchor", "middle"))
	}

	legendTop := chartBottom + 110
	colW := (barsRight - barsLeft) / verticalLegendCols
	for i, c := range ts.Categories {
		x := barsLeft + float64(i%verticalLegendCols)*colW
		y := legendTop + float64(i/verticalLegendCols*40)
		f.Rect(px(x), px(y), verticalSquare, verticalSquare, attrs("fill", colors[i]))
		f.Text(px(x+verticalSquare+10), px(y+verticalSquare-3), c.Name, attrs(
			"fill", f.fg, "font-size", 18, "text-anchor", "start"))
	}

	f.finish()
	return b.String()
}
