// Package frequency builds label/percentage distributions from either a raw
// data column or a results table.
package frequency

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/percent"
)

// enumerationPrefix matches answer labels enumerated as "A. ...", "B. ...".
var enumerationPrefix = regexp.MustCompile(`(?i)^([A-ZÁÉÍÓÚÑ])\.`)

// Tally groups values by exact string equality. Empty values form their own
// bucket and every row counts towards the denominator.
func Tally(values []string) []model.FrequencyRecord {
	if len(values) == 0 {
		return nil
	}

	counts := make(map[string]int, 16)
	var order []string
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}

	values64 := make([]float64, len(order))
	for i, label := range order {
		values64[i] = float64(counts[label])
	}
	shares := percent.Shares(values64, float64(len(values)))

	records := make([]model.FrequencyRecord, 0, len(order))
	for i, label := range order {
		records = append(records, model.FrequencyRecord{
			Label:      label,
			Value:      values64[i],
			Percentage: shares[i],
		})
	}

	return SmartSort(records)
}

// SmartSort orders enumerated labels ("A. Sí", "B. No") by their letter,
// followed by the remaining labels alphabetically. When no label is
// enumerated the records are ordered by descending value.
func SmartSort(records []model.FrequencyRecord) []model.FrequencyRecord {
	out := make([]model.FrequencyRecord, len(records))
	copy(out, records)

	prefixes := make([]string, len(out))
	hasPrefix := false
	for i, r := range out {
		prefixes[i] = EnumerationLetter(r.Label)
		if prefixes[i] != "" {
			hasPrefix = true
		}
	}

	if !hasPrefix {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Value > out[j].Value
		})
		return out
	}

	col := collate.New(language.Spanish)

	type entry struct {
		rec    model.FrequencyRecord
		letter string
	}
	var prefixed, rest []entry
	for i, r := range out {
		if prefixes[i] != "" {
			prefixed = append(prefixed, entry{r, prefixes[i]})
		} else {
			rest = append(rest, entry{r, ""})
		}
	}
	sort.SliceStable(prefixed, func(i, j int) bool {
		return col.CompareString(prefixed[i].letter, prefixed[j].letter) < 0
	})
	sort.SliceStable(rest, func(i, j int) bool {
		return col.CompareString(rest[i].rec.Label, rest[j].rec.Label) < 0
	})

	out = out[:0]
	for _, e := range prefixed {
		out = append(out, e.rec)
	}
	for _, e := range rest {
		out = append(out, e.rec)
	}
	return out
}

// EnumerationLetter returns the upper-cased enumeration letter of label, or
// "" when the label is not enumerated.
func EnumerationLetter(label string) string {
	m := enumerationPrefix.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}
