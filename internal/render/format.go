package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const fontFamily = "Helvetica, Arial, sans-serif"

func px(v float64) int {
	return int(math.Round(v))
}

// extent is px for a width or height, which svg requires to be non-negative.
func extent(v float64) int {
	return max(px(v), 0)
}

// num prints v with the shortest exact representation.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// coord prints a path coordinate rounded to two decimals.
func coord(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func pctText(v float64) string {
	return num(v) + "%"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// attrs renders key/value pairs as raw svg attributes.
func attrs(kv ...interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(fmt.Sprint(kv[i]))
		b.WriteString(`="`)
		switch v := kv[i+1].(type) {
		case float64:
			b.WriteString(num(v))
		default:
			b.WriteString(fmt.Sprint(v))
		}
		b.WriteByte('"')
	}
	return b.String()
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
