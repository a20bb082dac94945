package render

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"poligrama.dev/backend/internal/model"
)

const scoreMax = 10

var firstNumberRegex = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ScoreAverage is the weighted mean of the numeric labels of records.
// Counts weigh the labels when any is positive, percentages otherwise.
// Labels without a number, or with one outside [0,10], are ignored.
func ScoreAverage(records []model.FrequencyRecord) float64 {
	useCounts := lo.SomeBy(records, func(r model.FrequencyRecord) bool { return r.Value > 0 })
	var total, weighted float64
	for _, r := range records {
		m := firstNumberRegex.FindString(strings.TrimSpace(r.Label))
		if m == "" {
			continue
		}
		x, err := strconv.ParseFloat(m, 64)
		if err != nil || x < 0 || x > scoreMax {
			continue
		}
		w := r.Percentage
		if useCounts {
			w = r.Value
		}
		if w <= 0 {
			continue
		}
		total += w
		weighted += x * w
	}
	if total <= 0 {
		return 0
	}
	return clamp(weighted/total, 0, scoreMax)
}

// Score draws the weighted average of a 0..10 scale as a two slice gauge.
func Score(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	if len(in.Records) == 0 {
		return Placeholder(in.Options, MsgNoScore)
	}
	avg := ScoreAverage(in.Records)

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeScore})

	gaugeTop := f.lineY + 80
	gaugeBottom := f.H - float64(f.m.Bottom) - 80
	if f.IsTall() {
		gaugeTop = f.lineY + 40
		gaugeBottom = f.H - float64(f.m.Bottom) - 140
	}
	gaugeH := gaugeBottom - gaugeTop
	side := math.Min(f.W, gaugeH*1.3) * 0.5
	if f.IsTall() {
		side *= 0.8
	}
	outer := side / 1.2
	inner := outer * 0.7
	cx := f.W / 2
	cy := gaugeTop + gaugeH/2

	rest := math.Max(0, scoreMax-avg)
	total := math.Max(0.0001, avg+rest)
	angle := -math.Pi / 2
	f.Group()
	for _, seg := range []struct {
		value float64
		color string
	}{{avg, ColorLightDonut}, {rest, ColorDarkDonut}} {
		if seg.value <= 0 {
			continue
		}
		span := 2 * math.Pi * seg.value / total
		f.Path(ringPath(cx, cy, outer, inner, angle, angle+span), attrs("fill", seg.color, "stroke", "none"))
		angle += span
	}
	f.Gend()

	f.Text(px(cx), px(cy-25), "Promedio", attrs("text-anchor", "middle", "fill", f.fg, "font-size", 50))
	f.Line(px(cx-130), px(cy-15), px(cx+130), px(cy-15), attrs("stroke", f.fg, "stroke-width", 2))
	f.Text(px(cx), px(cy+60), strconv.FormatFloat(avg, 'f', 1, 64), attrs(
		"text-anchor", "middle", "fill", f.fg, "font-size", 75, "font-weight", 700))

	f.finish()
	return b.String()
}
