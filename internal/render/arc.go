package render

import (
	"math"
	"strings"
)

// ringPath outlines the ring slice between angles a0 and a1 (radians,
// clockwise from the x axis). A full turn is drawn as two halves since a
// single arc cannot start and end at the same point.
func ringPath(cx, cy, outer, inner, a0, a1 float64) string {
	span := a1 - a0
	if span >= 2*math.Pi-1e-9 {
		return ringPath(cx, cy, outer, inner, a0, a0+math.Pi) + " " +
			ringPath(cx, cy, outer, inner, a0+math.Pi, a0+2*math.Pi)
	}
	large := "0"
	if span > math.Pi {
		large = "1"
	}
	pt := func(r, a float64) string {
		return coord(cx+r*math.Cos(a)) + " " + coord(cy+r*math.Sin(a))
	}
	return strings.Join([]string{
		"M", pt(outer, a0),
		"A", coord(outer), coord(outer), "0", large, "1", pt(outer, a1),
		"L", pt(inner, a1),
		"A", coord(inner), coord(inner), "0", large, "0", pt(inner, a0),
		"Z",
	}, " ")
}
