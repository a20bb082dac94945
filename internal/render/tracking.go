package render

import (
	"math"
	"strings"

	"poligrama.dev/backend/internal/model"
)

const (
	trackingLegendWidth = 420
	trackingInnerX      = 40
	trackingGridLines   = 10
	trackingMinLabelGap = 14
	trackingPillH       = 80
	trackingPillGapX    = 16
	trackingPillGapY    = 25
)

// nudgeLabel moves y above every already placed label of the same column
// that sits closer than gap, checking them in placement order.
func nudgeLabel(placed []float64, y, gap float64) float64 {
	for _, prev := range placed {
		if math.Abs(y-prev) < gap {
			y = prev - gap
		}
	}
	return y
}

// Tracking draws one line per category across the months of the series,
// with a pill legend on the left.
func Tracking(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	ts := in.Tracking
	if ts == nil || len(ts.Months) == 0 || len(ts.Categories) == 0 {
		return Placeholder(in.Options, MsgNoTracking)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeTracking})

	contentTop := f.lineY + 60
	bottomPad := 120.0
	if f.IsTall() {
		bottomPad = 160
	}
	chartH := f.H - float64(f.m.Bottom) - bottomPad - contentTop
	left := float64(f.m.Left)
	chartX0 := left + trackingLegendWidth + 120
	chartW := f.W - chartX0 - float64(f.m.Right)

	maxValue := 10.0
	for _, c := range ts.Categories {
		for _, v := range c.Values {
			maxValue = math.Max(maxValue, v)
		}
	}
	yMax := math.Ceil(maxValue/10) * 10

	xAt := func(i int) float64 {
		if len(ts.Months) == 1 {
			return chartX0 + chartW/2
		}
		return chartX0 + trackingInnerX + float64(i)*(chartW-2*trackingInnerX)/float64(len(ts.Months)-1)
	}
	yAt := func(v float64) float64 {
		return contentTop + chartH - v/yMax*chartH
	}

	colors := make([]string, len(ts.Categories))
	for i, c := range ts.Categories {
		colors[i] = trackingColor(in.Colors, c.Name)
	}

	pillW := float64(trackingLegendWidth-trackingPillGapX)/2 + 20
	rows := (len(ts.Categories) + 1) / 2
	legendH := float64(rows*trackingPillH + (rows-1)*trackingPillGapY)
	legendY := contentTop + (chartH-legendH)/2
	for i, c := range ts.Categories {
		x := left + float64(i%2)*(pillW+trackingPillGapX)
		y := legendY + float64(i/2*(trackingPillH+trackingPillGapY))
		f.Roundrect(px(x), px(y), extent(pillW), trackingPillH, 20, 20, attrs("fill", colors[i]))
		lines := WrapWords(c.Name, 18, 2)
		firstY := y + trackingPillH/2 - float64(len(lines)-1)*24/2
		f.multiline(x+pillW/2, firstY, lines, 24, attrs(
			"fill", ColorWhite, "font-size", 22, "font-weight", 700, "text-anchor", "middle"))
	}

	for i := 0; i <= trackingGridLines; i++ {
		t := float64(i) / trackingGridLines
		y := contentTop + chartH*t
		f.Line(px(chartX0), px(y), px(chartX0+chartW), px(y),
			attrs("stroke", ColorNeutral, "stroke-width", 0.5, "opacity", 0.3))
		f.Text(px(chartX0-10), px(y+4), num(math.Round(yMax*(1-t))), attrs(
			"fill", f.fg, "font-size", 20, "text-anchor", "end"))
	}
	for i, m := range ts.Months {
		f.Text(px(xAt(i)), px(contentTop+chartH+24), m, attrs(
			"fill", f.fg, "font-size", 20, "font-weight", 700, "text-anchor", "middle"))
	}

	placed := make([][]float64, len(ts.Months))
	for ci, c := range ts.Categories {
		n := min(len(c.Values), len(ts.Months))
		if n > 1 {
			var d strings.Builder
			for i := 0; i < n; i++ {
				if i == 0 {
					d.WriteString("M ")
				} else {
					d.WriteString(" L ")
				}
				d.WriteString(coord(xAt(i)) + " " + coord(yAt(c.Values[i])))
			}
			f.Path(d.String(), attrs("stroke", colors[ci], "stroke-width", 6, "fill", "none"))
		}
		labelColor := Darken(colors[ci], 0.65)
		for i := 0; i < n; i++ {
			x, y := xAt(i), yAt(c.Values[i])
			labelY := nudgeLabel(placed[i], y-8, trackingMinLabelGap)
			placed[i] = append(placed[i], labelY)
			f.Circle(px(x), px(y), 4, attrs("fill", colors[ci], "stroke", ColorWhite, "stroke-width", 2))
			f.Text(px(x), px(labelY), pctText(c.Values[i]), attrs(
				"fill", labelColor, "stroke", ColorBlack, "stroke-width", 2, "paint-order", "stroke",
				"font-size", 25, "font-weight", 700, "text-anchor", "middle"))
		}
	}

	f.finish()
	return b.String()
}
