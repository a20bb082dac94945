package render

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	ColorPrimary = "#00a651"
	ColorDanger  = "#e10814"
	ColorNeutral = "#9d9d9c"
	ColorWhite   = "#ffffff"
	ColorBlack   = "#000000"
	ColorMuted   = "#bdbdbd"

	ColorLightDonut = "#9fff6a"
	ColorDarkDonut  = "#2f4a20"

	ColorMatrixDark   = "#58595b"
	ColorMatrixMedium = "#61656c"
	ColorMatrixLight  = "#747577"
)

// Palette colors series without an override, cycling by index.
var Palette = []string{
	ColorPrimary,
	ColorDanger,
	ColorNeutral,
	"#f39c12",
	"#2980b9",
	"#8e44ad",
	"#16a085",
	"#e91e63",
	"#c0ca33",
	"#8d6e63",
}

var effectiveness = map[string]string{
	"muy efectivo":  "#05ae1e",
	"algo efectivo": "#63c26d",
	"poco efectivo": "#c37171",
	"nada efectivo": "#a93838",
	"no sabe":       ColorNeutral,
}

var effectivenessTrack = map[string]string{
	"muy efectivo":  "#0a340b",
	"algo efectivo": "#1e3b20",
	"poco efectivo": "#3a2221",
	"nada efectivo": "#331111",
	"no sabe":       "#262727",
}

// trackingPalette is matched by prefix against folded category names.
var trackingPalette = []struct{ prefix, color string }{
	{"seguridad", "#5dade2"},
	{"mantenimiento", "#9b59b6"},
	{"movilidad", "#e67e22"},
	{"serviciosp", "#16a085"},
	{"obrasp", "#e91e63"},
	{"reparacion", "#f39c12"},
	{"salud", "#c0ca33"},
	{"educacion", "#8d6e63"},
}

var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\([0-9., ]+\)|[a-zA-Z]{3,20})$`)

// sanitizeColor keeps user supplied colors from breaking attribute quoting.
func sanitizeColor(c, fallback string) string {
	c = strings.TrimSpace(c)
	if c == "" || !colorRegex.MatchString(c) {
		return fallback
	}
	return c
}

func paletteColor(i int) string {
	return Palette[i%len(Palette)]
}

// colorFor returns the override of label, else fallback.
func colorFor(colors map[string]string, label, fallback string) string {
	if c, ok := colors[label]; ok {
		return sanitizeColor(c, fallback)
	}
	return fallback
}

func parseHex(c string) (r, g, b int, ok bool) {
	hex := strings.TrimPrefix(c, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func scale(v int, factor float64) int {
	return int(math.Max(0, math.Min(255, math.Round(float64(v)*factor))))
}

// Darken multiplies every channel of a #rrggbb color by factor. Other
// notations are returned unchanged.
func Darken(c string, factor float64) string {
	r, g, b, ok := parseHex(c)
	if !ok {
		return c
	}
	return fmt.Sprintf("#%02x%02x%02x", scale(r, factor), scale(g, factor), scale(b, factor))
}

// RGBA darkens c by factor and renders it with the given alpha.
func RGBA(c string, factor, alpha float64) string {
	r, g, b, ok := parseHex(c)
	if !ok {
		return c
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", scale(r, factor), scale(g, factor), scale(b, factor), num(alpha))
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey lowercases s, strips accents and removes whitespace.
func foldKey(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// trackingColor resolves a category color: exact override, folded override,
// tracking palette, then neutral.
func trackingColor(colors map[string]string, name string) string {
	if c, ok := colors[name]; ok {
		return sanitizeColor(c, ColorNeutral)
	}
	key := foldKey(name)
	labels := lo.Keys(colors)
	sort.Strings(labels)
	for _, label := range labels {
		if foldKey(label) == key {
			return sanitizeColor(colors[label], ColorNeutral)
		}
	}
	for _, p := range trackingPalette {
		if strings.HasPrefix(key, p.prefix) {
			return p.color
		}
	}
	return ColorNeutral
}
