package render

import (
	"math"
	"strings"

	"poligrama.dev/backend/internal/model"
)

const (
	approvalLabelWrap  = 18
	approvalLabelLines = 3
	approvalLabelStep  = 22
)

func approvalColors(colors map[string]string, label string) (main, track string) {
	key := strings.ToLower(strings.TrimSpace(label))
	fallback := ColorPrimary
	if c, ok := effectiveness[key]; ok {
		fallback = c
	}
	main = colorFor(colors, label, fallback)
	if c, ok := effectivenessTrack[key]; ok {
		return main, c
	}
	return main, RGBA(main, 1, 0.25)
}

// Approval draws one vertical bar per record over a full height track.
func Approval(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	if len(in.Records) == 0 {
		return Placeholder(in.Options, MsgNoApproval)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeApproval, captionBelow: true})
	tall := f.IsTall()

	labelsBlock, footerPadding, topPad, maxHeight, labelsGap := 90.0, 30.0, 80.0, 450.0, 40.0
	if tall {
		labelsBlock, footerPadding, topPad, maxHeight, labelsGap = 120, 40, 140, 900, 50
	}
	areaTop := f.lineY + topPad
	bottom := f.H - float64(f.m.Bottom) - labelsBlock - footerPadding
	trackH := math.Min(maxHeight, math.Max(0, bottom-areaTop))
	labelsY := bottom + labelsGap

	left := float64(f.m.Left)
	slot := (f.W - left - float64(f.m.Right)) / float64(len(in.Records))
	barW := clamp(slot*0.6, 20, 120)

	for i, r := range in.Records {
		pct := clamp(r.Percentage, 0, 100)
		h := pct / 100 * trackH
		cx := left + slot*(float64(i)+0.5)
		x := cx - barW/2
		main, track := approvalColors(in.Colors, r.Label)

		f.Roundrect(px(x), px(bottom-trackH), extent(barW), extent(trackH), 8, 8, attrs("fill", track))
		f.Roundrect(px(x), px(bottom-h), extent(barW), extent(h), 8, 8, attrs("fill", main))
		f.Text(px(cx), px(bottom-trackH-16), pctText(r.Percentage), attrs(
			"fill", f.fg, "font-size", 25, "font-weight", 700, "text-anchor", "middle"))

		lines := WrapWords(r.Label, approvalLabelWrap, approvalLabelLines)
		firstY := labelsY - float64(len(lines)-1)*approvalLabelStep/2
		f.multiline(cx, firstY, lines, approvalLabelStep, attrs(
			"fill", f.fg, "font-size", 20, "font-weight", 700, "text-anchor", "middle"))
	}

	f.finish()
	return b.String()
}
