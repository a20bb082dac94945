package render

import (
	"strings"

	"poligrama.dev/backend/internal/model"
)

const (
	matrixHeaderHeight = 70
	matrixLabelWidth   = 280
	matrixLabelWrap    = 18
	matrixFontSize     = 20
)

// Matrix draws a crosstab as a table of pills whose opacity follows the
// joint percentage of each cell.
func Matrix(in Input) string {
	if out, failed := guard(in); failed {
		return out
	}
	ct := in.Crosstab
	if ct == nil {
		return Placeholder(in.Options, MsgNoMatrixInput)
	}
	if len(ct.RowLabels) == 0 || len(ct.ColLabels) == 0 {
		return Placeholder(in.Options, MsgNoData)
	}

	var b strings.Builder
	f := begin(&b, in.Options, layout{chart: model.ChartTypeMatrix, captionBelow: true})

	left := float64(f.m.Left)
	tableTop := f.lineY + 60
	tableH := f.H - float64(f.m.Bottom) - 40 - tableTop
	rowH := (tableH - matrixHeaderHeight) / float64(len(ct.RowLabels))
	colW := (f.W - left - float64(f.m.Right) - matrixLabelWidth) / float64(len(ct.ColLabels))

	for i, label := range ct.ColLabels {
		x := left + matrixLabelWidth + float64(i)*colW
		rectY := tableTop + 10
		rectH := float64(matrixHeaderHeight - 20)
		f.Roundrect(px(x+4), px(rectY), extent(colW-8), extent(rectH), 12, 12,
			attrs("fill", colorFor(in.Colors, label, ColorWhite)))
		f.Text(px(x+colW/2), px(rectY+rectH/2), label, attrs(
			"fill", ColorBlack, "font-size", matrixFontSize, "font-weight", 700,
			"text-anchor", "middle", "dominant-baseline", "middle"))
	}

	for r, rowLabel := range ct.RowLabels {
		y := tableTop + matrixHeaderHeight + float64(r)*rowH
		base := colorFor(in.Colors, rowLabel, ColorMatrixMedium)
		f.Roundrect(px(left), px(y+6), matrixLabelWidth-16, extent(rowH-12), 10, 10, attrs("fill", base))

		centerX := left + (matrixLabelWidth-16)/2
		centerY := y + rowH/2
		lines := WrapWords(rowLabel, matrixLabelWrap, 2)
		switch len(lines) {
		case 0:
		case 1:
			f.Text(px(centerX), px(centerY), lines[0], attrs(
				"fill", ColorWhite, "text-anchor", "middle", "font-size", matrixFontSize, "dominant-baseline", "middle"))
		default:
			f.Text(px(centerX), px(centerY-12), lines[0], attrs(
				"fill", ColorWhite, "text-anchor", "middle", "font-size", matrixFontSize))
			f.Text(px(centerX), px(centerY+12), lines[1], attrs(
				"fill", ColorWhite, "text-anchor", "middle", "font-size", matrixFontSize))
		}

		cellColor := colorFor(in.Colors, rowLabel, ColorMatrixLight)
		for c := range ct.ColLabels {
			pct := cellValue(ct, r, c)
			cellX := left + matrixLabelWidth + float64(c)*colW
			alpha := 0.25 + clamp(pct, 0, 100)/100*0.55
			f.Roundrect(px(cellX+4), px(y+6), extent(colW-8), extent(rowH-12), 12, 12,
				attrs("fill", cellColor, "fill-opacity", num(roundTo(alpha, 3))))
			f.Text(px(cellX+colW/2), px(centerY), pctText(pct), attrs(
				"fill", ColorWhite, "font-size", matrixFontSize, "font-weight", 700,
				"text-anchor", "middle", "dominant-baseline", "middle"))
		}
	}

	f.finish()
	return b.String()
}

func cellValue(ct *model.Crosstab, r, c int) float64 {
	if r >= len(ct.Values) || c >= len(ct.Values[r]) {
		return 0
	}
	return ct.Values[r][c]
}
