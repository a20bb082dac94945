package coord

import (
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poligrama.dev/backend/internal/pkg/pgerr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Coordinate
	}{
		{"A1", Coordinate{Row: 1, Col: 1}},
		{"c6", Coordinate{Row: 6, Col: 3}},
		{"  Z10 ", Coordinate{Row: 10, Col: 26}},
		{"AA3", Coordinate{Row: 3, Col: 27}},
		{"ZZ1000", Coordinate{Row: 1000, Col: 702}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "A", "12", "1A", "A0", "A-1", "A1B", "$A$1", "A1048577", "B999999999"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, pgerr.ErrInvalidCoordinate))
		})
	}
}

func TestParseRangeNormalizesCorners(t *testing.T) {
	r, err := ParseRange("c15:b7")
	require.NoError(t, err)
	assert.Equal(t, Range{RowStart: 7, RowEnd: 15, ColStart: 2, ColEnd: 3}, r)
	assert.Equal(t, 9, r.Rows())
	assert.Equal(t, 2, r.Cols())
	assert.Equal(t, "B7:C15", r.String())

	single, err := ParseRange(" C6 ")
	require.NoError(t, err)
	assert.Equal(t, Range{RowStart: 6, RowEnd: 6, ColStart: 3, ColEnd: 3}, single)
	assert.Equal(t, "C6", single.String())
}

func TestParseRangeLenient(t *testing.T) {
	assert.Nil(t, ParseRangeLenient(""))
	assert.Nil(t, ParseRangeLenient("B7:"))
	assert.Nil(t, ParseRangeLenient("B7:C"))
	assert.Nil(t, ParseRangeLenient("B7:C8:D9"))
	assert.Equal(t, &Range{RowStart: 7, RowEnd: 8, ColStart: 2, ColEnd: 3}, ParseRangeLenient("B7:C8"))
}

func TestColumnRoundTrip(t *testing.T) {
	for col := 1; col <= 702; col++ {
		letters := ColumnLetters(col)
		c, err := Parse(letters + strconv.Itoa(col))
		require.NoError(t, err)
		assert.Equal(t, col, c.Col)
		assert.Equal(t, letters+strconv.Itoa(col), Format(c))
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"C7:D11", "C13:D17", "C19:D23"}, SplitList("C7:D11, C13:D17,C19:D23 "))
	assert.Equal(t, []string{"B7", "B13"}, SplitList("B7,,B13,"))
	assert.Nil(t, SplitList(" "))
}
