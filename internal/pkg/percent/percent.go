// Package percent normalizes spreadsheet percentage cells onto a 0-100 scale.
package percent

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"poligrama.dev/backend/internal/pkg/cellgrid"
)

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Shares converts every part into a percentage of whole at one decimal, or
// zeros when whole is not positive. Each part is floored to a tenth and the
// tenths lost on the way go to the largest remainders, earlier parts first
// on ties, so the results add up to the rounded share of the sum of parts.
func Shares(parts []float64, whole float64) []float64 {
	out := make([]float64, len(parts))
	if whole <= 0 || len(parts) == 0 {
		return out
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(parts))
	var exact, floored float64
	for i, p := range parts {
		tenths := p / whole * 1000
		f := math.Floor(tenths)
		out[i] = f
		rems[i] = remainder{idx: i, frac: tenths - f}
		exact += tenths
		floored += f
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for k := 0; k < int(math.Round(exact)-floored) && k < len(rems); k++ {
		out[rems[k].idx]++
	}
	for i := range out {
		out[i] /= 10
	}
	return out
}

// FromNumber treats values in (0,1] as fractions and scales them by 100.
// The result is clamped to [0,100].
func FromNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v > 0 && v <= 1 {
		v *= 100
	}
	return Round1(min(max(v, 0), 100))
}

// Parse reads "22.3%", "22,3" or "0.407". The boolean is false when the
// string holds no number at all.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.Replace(s, ",", ".", 1)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(leadingNumber(s), 64)
	if err != nil {
		return 0, false
	}
	return FromNumber(v), true
}

// FromString is Parse with unparseable input mapped to 0.
func FromString(s string) float64 {
	v, _ := Parse(s)
	return v
}

// FromCell normalizes a grid cell; Empty and non-numeric text yield 0.
func FromCell(c cellgrid.Cell) float64 {
	switch c.Kind {
	case cellgrid.Number:
		return FromNumber(c.Num)
	case cellgrid.Text:
		return FromString(c.Str)
	default:
		return 0
	}
}

// leadingNumber keeps the longest prefix that looks like a decimal number,
// so trailing text such as "40.7 pts" still parses.
func leadingNumber(s string) string {
	end := 0
	seenDigit, seenDot := false, false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			if !seenDigit {
				return ""
			}
			return s[:end]
		}
	}
	if !seenDigit {
		return ""
	}
	return s[:end]
}
