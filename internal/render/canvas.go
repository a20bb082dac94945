package render

import "strings"

// Canvas is one of the fixed output presets.
type Canvas struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var (
	Wide = Canvas{Name: "wide", Width: 1920, Height: 1080}
	Tall = Canvas{Name: "tall", Width: 1440, Height: 1800}
)

// Canvases lists the presets in the order they are offered.
var Canvases = []Canvas{Wide, Tall}

// CanvasByName resolves a preset name, falling back to Wide.
func CanvasByName(name string) Canvas {
	if strings.EqualFold(strings.TrimSpace(name), Tall.Name) {
		return Tall
	}
	return Wide
}

func (c Canvas) IsTall() bool {
	return c.Width == Tall.Width && c.Height == Tall.Height
}

func (c Canvas) orDefault() Canvas {
	if c.Width <= 0 || c.Height <= 0 {
		return Wide
	}
	return c
}

type margins struct {
	Left, Right, Top, Bottom int
}

var (
	wideMargins    = margins{Left: 120, Right: 120, Top: 125, Bottom: 125}
	compactMargins = margins{Left: 90, Right: 90, Top: 80, Bottom: 80}
	tallMargins    = margins{Left: 100, Right: 100, Top: 170, Bottom: 170}
)
