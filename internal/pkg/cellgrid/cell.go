// Package cellgrid holds rectangular snapshots of spreadsheet values.
package cellgrid

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type Kind uint8

const (
	Empty Kind = iota
	Number
	Text
)

// Cell is a single scalar spreadsheet value.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
}

func NumberCell(v float64) Cell { return Cell{Kind: Number, Num: v} }

func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Str: s}
}

// ParseCell classifies a raw cell string the way a spreadsheet would display
// it: blank is Empty, a plain decimal literal is Number, anything else Text.
func ParseCell(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return NumberCell(v)
	}
	return TextCell(raw)
}

func (c Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// String is the display text of the cell; Empty renders as "".
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case Text:
		return c.Str
	default:
		return ""
	}
}

// Float reports the numeric value of a Number cell, or of a Text cell that
// holds a plain decimal literal.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case Number:
		return c.Num, true
	case Text:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case Number:
		return json.Marshal(c.Num)
	case Text:
		return json.Marshal(c.Str)
	default:
		return []byte("null"), nil
	}
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*c = NumberCell(t)
	case string:
		*c = TextCell(t)
	case bool:
		*c = TextCell(strconv.FormatBool(t))
	default:
		*c = Cell{}
	}
	return nil
}

// UnmarshalYAML lets request files spell grids as plain YAML scalars.
func (c *Cell) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case int:
		*c = NumberCell(float64(t))
	case float64:
		*c = NumberCell(t)
	case string:
		*c = TextCell(t)
	case bool:
		*c = TextCell(strconv.FormatBool(t))
	default:
		*c = Cell{}
	}
	return nil
}
