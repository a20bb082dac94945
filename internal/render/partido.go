package render

import (
	"strings"
	"unicode/utf8"

	"poligrama.dev/backend/internal/model"
)

const (
	partidoLogoSize   = 48
	partidoLogoGap    = 25
	partidoMinRow     = 56
	partidoMaxRow     = 110
	partidoPctWidth   = 120
	partidoPctHeight  = 40
	partidoLabelFont  = 22
	partidoLogoRadius = partidoLogoSize / 1.3
)

var partyInitials = []struct {
	needles  []string
	initials string
}{
	{[]string{"movimiento ciudadano"}, "MC"},
	{[]string{"morena"}, "M"},
	{[]string{"pri"}, "PRI"},
	{[]string{"pan"}, "PAN"},
	{[]string{"verde"}, "V"},
	{[]string{"pt"}, "PT"},
	{[]string{"vida"}, "VIDA"},
	{[]string{"ninguno"}, "N"},
	{[]string{"no sabe", "no contestó"}, "NS"},
}

// PartyInitials is the badge text of a party or candidate label.
func PartyInitials(label string) string {
	lower := strings.ToLower(label)
	for _, p := range partyInitials {
		for _, n := range p.needles {
			if strings.Contains(lower, n) {
				return p.initials
			}
		}
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(label))
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}

// Partido draws one pill per party with a round badge and a percentage tag.
func Partido(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	if len(in.Records) == 0 {
		return Placeholder(in.Options, MsgNoPartido)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypePartido})

	left := float64(f.m.Left)
	pillX := left + partidoLogoSize + partidoLogoGap
	pillW := f.W - float64(f.m.Right) - pillX - 40
	pillH := partidoLogoRadius * 2
	contentTop := f.lineY + 70
	avail := f.H - float64(f.m.Bottom) - 40 - contentTop
	rowH := clamp(avail/float64(len(in.Records)), partidoMinRow, partidoMaxRow)
	block := rowH * float64(len(in.Records))

	startY := contentTop
	switch {
	case f.IsTall():
		startY = float64(f.m.Top + 350)
	case block < avail:
		startY = contentTop + (avail-block)/2
	}

	for i, r := range in.Records {
		centerY := startY + float64(i)*rowH + rowH/2
		color := colorFor(in.Colors, r.Label, ColorPrimary)
		logoX := left + partidoLogoSize/2

		f.Circle(px(logoX), px(centerY), px(partidoLogoRadius), attrs("fill", color))
		f.Text(px(logoX), px(centerY+2), PartyInitials(r.Label), attrs(
			"fill", ColorWhite, "font-size", 30, "font-weight", 700,
			"text-anchor", "middle", "dominant-baseline", "middle"))

		f.Roundrect(px(pillX), px(centerY-pillH/2), extent(pillW), extent(pillH), px(pillH/2), px(pillH/2), attrs("fill", color))
		f.Text(px(pillX+24), px(centerY+partidoLabelFont/3.0), r.Label, attrs(
			"fill", ColorWhite, "font-size", partidoLabelFont, "font-weight", 700, "text-anchor", "start"))

		tagX := pillX + pillW - partidoPctWidth - 12
		f.Roundrect(px(tagX), px(centerY-partidoPctHeight/2), partidoPctWidth, partidoPctHeight,
			partidoPctHeight/2, partidoPctHeight/2, attrs("fill", RGBA(color, 0.8, 0.9)))
		f.Text(px(tagX+partidoPctWidth/2), px(centerY+2), pctText(clamp(r.Percentage, 0, 100)), attrs(
			"fill", ColorWhite, "font-size", 24, "font-weight", 700,
			"text-anchor", "middle", "dominant-baseline", "middle"))
	}

	f.finish()
	return b.String()
}
