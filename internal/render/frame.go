package render

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"poligrama.dev/backend/internal/model"
)

const (
	titleFontSize   = 33
	titleLineGap    = 6
	wordmarkSize    = 40
	wordmarkLine    = 44
	captionFontSize = 30
	footerFontSize  = 30
	footerText      = "2025 | MONTERREY, NL"

	placeholderFontSize = 24
	tallTitleBudget     = 80
)

var wordmark = []string{"Poligrama.", "Poder.", "Ganar."}

// layout holds the per chart choices of the shared frame.
type layout struct {
	// compact uses the narrower margins on the wide preset.
	compact bool
	// captionBelow moves the sheet caption one line under the wordmark top.
	captionBelow bool
	chart        model.ChartType
}

// frame is an open svg document with the header already drawn.
type frame struct {
	*svg.SVG
	Canvas
	m      margins
	bg, fg string
	muted  string
	titleY float64
	lineY  float64
	W, H   float64
}

func colorsOf(opt Options) (bg, fg, muted string) {
	bg = sanitizeColor(opt.Background, ColorBlack)
	fg = sanitizeColor(opt.TextColor, ColorWhite)
	muted = sanitizeColor(opt.TextColor, ColorMuted)
	return
}

// begin writes the document prologue, background, title block, divider,
// sheet caption and wordmark.
func begin(w io.Writer, opt Options, l layout) *frame {
	c := opt.Canvas.orDefault()
	f := &frame{SVG: svg.New(w), Canvas: c, W: float64(c.Width), H: float64(c.Height)}
	f.bg, f.fg, f.muted = colorsOf(opt)
	switch {
	case c.IsTall():
		f.m = tallMargins
	case l.compact:
		f.m = compactMargins
	default:
		f.m = wideMargins
	}

	budget := TitleBudget[l.chart]
	if budget == 0 {
		budget = defaultTitleBudget
	}
	if c.IsTall() {
		budget = tallTitleBudget
	}
	lines := WrapWords(opt.Title, budget, 2)
	block := 0
	if len(lines) > 0 {
		block = len(lines)*titleFontSize + (len(lines)-1)*titleLineGap
	}
	f.titleY = float64(f.m.Top + 130)
	f.lineY = f.titleY + float64(block) + 16

	f.Startview(c.Width, c.Height, 0, 0, c.Width, c.Height)
	f.Rect(0, 0, c.Width, c.Height, attrs("fill", f.bg))
	f.Group(attrs("font-family", fontFamily))

	for i, line := range lines {
		y := f.titleY + float64(i*(titleFontSize+titleLineGap))
		f.Text(f.m.Left, px(y), line, attrs("fill", f.fg, "font-size", titleFontSize))
	}
	f.Line(f.m.Left, px(f.lineY), c.Width-f.m.Right, px(f.lineY), attrs("stroke", f.fg, "stroke-width", 2))

	logoX := c.Width - f.m.Right
	logoY0 := f.m.Top - 24
	if caption := strings.TrimSpace(opt.SheetTitle); caption != "" {
		y := logoY0
		if l.captionBelow {
			y += 40
			if c.IsTall() {
				y += 20
			}
		}
		f.Text(f.m.Left, y, caption, attrs("fill", f.fg, "font-size", captionFontSize, "text-anchor", "start"))
	}
	for i, word := range wordmark {
		f.Text(logoX, logoY0+i*wordmarkLine, word,
			attrs("fill", f.fg, "font-size", wordmarkSize, "font-weight", 700, "text-anchor", "end"))
	}
	return f
}

// finish writes the footer and closes the document.
func (f *frame) finish() {
	f.Text(f.Width-f.m.Right, f.Height-f.m.Bottom, footerText,
		attrs("fill", f.muted, "font-size", footerFontSize, "text-anchor", "end"))
	f.Gend()
	f.End()
}

// multiline writes one text element with a tspan per line, each restarting
// at x and advancing by step.
func (f *frame) multiline(x, y float64, lines []string, step float64, style string) {
	f.Textspan(px(x), px(y), "", style)
	for i, line := range lines {
		dy := 0.0
		if i > 0 {
			dy = step
		}
		f.Span(line, attrs("x", px(x), "dy", num(dy)))
	}
	f.TextEnd()
}

func (f *frame) translate(x, y float64) {
	f.Gtransform(fmt.Sprintf("translate(%s, %s)", coord(x), coord(y)))
}

// placeholder writes the empty state canvas with a centered message.
func placeholder(w io.Writer, opt Options, msg string) {
	c := opt.Canvas.orDefault()
	bg, fg, _ := colorsOf(opt)
	if strings.TrimSpace(msg) == "" {
		msg = MsgNoData
	}
	s := svg.New(w)
	s.Startview(c.Width, c.Height, 0, 0, c.Width, c.Height)
	s.Rect(0, 0, c.Width, c.Height, attrs("fill", bg))
	s.Text(c.Width/2, c.Height/2, msg, attrs(
		"fill", fg,
		"font-family", fontFamily,
		"font-size", placeholderFontSize,
		"text-anchor", "middle",
		"dominant-baseline", "middle",
	))
	s.End()
}
