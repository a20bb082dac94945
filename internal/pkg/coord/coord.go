// Package coord parses A1-style spreadsheet coordinates ("C6", "B7:C15") into
// 1-based row/column rectangles.
package coord

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"poligrama.dev/backend/internal/pkg/pgerr"
)

var cellPattern = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// Coordinate is a single 1-based cell position.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coordinate) String() string {
	return Format(c)
}

// Range is a 1-based inclusive rectangle. RowStart <= RowEnd and
// ColStart <= ColEnd always hold for ranges returned by ParseRange.
type Range struct {
	RowStart int `json:"rowStart"`
	RowEnd   int `json:"rowEnd"`
	ColStart int `json:"colStart"`
	ColEnd   int `json:"colEnd"`
}

// Rows is the number of rows covered by the range.
func (r Range) Rows() int {
	return r.RowEnd - r.RowStart + 1
}

// Cols is the number of columns covered by the range.
func (r Range) Cols() int {
	return r.ColEnd - r.ColStart + 1
}

func (r Range) String() string {
	start := Format(Coordinate{Row: r.RowStart, Col: r.ColStart})
	if r.RowStart == r.RowEnd && r.ColStart == r.ColEnd {
		return start
	}
	return start + ":" + Format(Coordinate{Row: r.RowEnd, Col: r.ColEnd})
}

// Parse converts "C6" (case-insensitive, surrounding whitespace allowed) into
// a Coordinate.
func Parse(s string) (Coordinate, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	m := cellPattern.FindStringSubmatch(normalized)
	if m == nil {
		return Coordinate{}, pgerr.ErrInvalidCoordinate.Msg("invalid cell coordinate %q", s)
	}

	row, err := strconv.Atoi(m[2])
	if err != nil || row < 1 || row > excelize.TotalRows {
		return Coordinate{}, pgerr.ErrInvalidCoordinate.Msg("invalid row in cell coordinate %q", s)
	}

	col, err := ColumnNumber(m[1])
	if err != nil {
		return Coordinate{}, pgerr.ErrInvalidCoordinate.Msg("invalid column in cell coordinate %q", s)
	}

	return Coordinate{Row: row, Col: col}, nil
}

// ParseRange converts "B7:C15" or a single cell "B7" into a Range. Corners may
// be given in any order.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 2 {
		return Range{}, pgerr.ErrInvalidCoordinate.Msg("invalid cell range %q", s)
	}

	start, err := Parse(parts[0])
	if err != nil {
		return Range{}, err
	}
	end := start
	if len(parts) == 2 {
		end, err = Parse(parts[1])
		if err != nil {
			return Range{}, err
		}
	}

	return Range{
		RowStart: min(start.Row, end.Row),
		RowEnd:   max(start.Row, end.Row),
		ColStart: min(start.Col, end.Col),
		ColEnd:   max(start.Col, end.Col),
	}, nil
}

// ParseRangeLenient is ParseRange for input that may still be incomplete,
// returning nil instead of an error.
func ParseRangeLenient(s string) *Range {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	r, err := ParseRange(s)
	if err != nil {
		return nil
	}
	return &r
}

// ColumnNumber maps column letters to their 1-based index (A=1, Z=26, AA=27).
func ColumnNumber(letters string) (int, error) {
	return excelize.ColumnNameToNumber(strings.TrimSpace(letters))
}

// ColumnLetters is the inverse of ColumnNumber.
func ColumnLetters(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

// Format renders a coordinate back to A1 notation.
func Format(c Coordinate) string {
	return ColumnLetters(c.Col) + strconv.Itoa(c.Row)
}

// SplitList splits a comma-separated list of cells or ranges
// ("C7:D11, C13:D17") into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
