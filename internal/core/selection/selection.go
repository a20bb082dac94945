// Package selection applies user exclusions and ordering to a frequency
// sequence.
package selection

import (
	"github.com/samber/lo"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/percent"
)

// Exclusion is the set of labels hidden by the user.
type Exclusion map[string]struct{}

func NewExclusion(labels ...string) Exclusion {
	e := make(Exclusion, len(labels))
	for _, l := range labels {
		e[l] = struct{}{}
	}
	return e
}

func (e Exclusion) Has(label string) bool {
	_, ok := e[label]
	return ok
}

// Toggle hides a visible label or shows a hidden one.
func (e Exclusion) Toggle(label string) {
	if e.Has(label) {
		delete(e, label)
		return
	}
	e[label] = struct{}{}
}

func (e Exclusion) Reset() {
	for k := range e {
		delete(e, k)
	}
}

// Labels returns the hidden labels in no particular order.
func (e Exclusion) Labels() []string {
	return lo.Keys(e)
}

// Apply drops excluded records. In raw mode the remaining percentages are
// recomputed from the values so they add up to 100 again; summary
// percentages are authoritative and only rounded.
func Apply(records []model.FrequencyRecord, excluded Exclusion, mode model.InputMode) []model.FrequencyRecord {
	remaining := lo.Filter(records, func(r model.FrequencyRecord, _ int) bool {
		return !excluded.Has(r.Label)
	})

	if mode.IsSummary() {
		return lo.Map(remaining, func(r model.FrequencyRecord, _ int) model.FrequencyRecord {
			r.Percentage = percent.Round1(r.Percentage)
			return r
		})
	}

	values := lo.Map(remaining, func(r model.FrequencyRecord, _ int) float64 {
		return r.Value
	})
	shares := percent.Shares(values, lo.Sum(values))
	return lo.Map(remaining, func(r model.FrequencyRecord, i int) model.FrequencyRecord {
		r.Percentage = shares[i]
		return r
	})
}

// Reconcile filters a persisted label order against the current records:
// labels that vanished or are excluded are dropped, and labels missing from
// the order are appended in record order.
func Reconcile(order []string, records []model.FrequencyRecord, excluded Exclusion) []string {
	present := make(map[string]struct{}, len(records))
	for _, r := range records {
		if !excluded.Has(r.Label) {
			present[r.Label] = struct{}{}
		}
	}

	out := make([]string, 0, len(present))
	seen := make(map[string]struct{}, len(present))
	for _, l := range order {
		if _, ok := present[l]; !ok {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	for _, r := range records {
		if _, ok := present[r.Label]; !ok {
			continue
		}
		if _, dup := seen[r.Label]; dup {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}
	return out
}

// Arrange returns records following order, then any record whose label is
// not in order, in its original position.
func Arrange(records []model.FrequencyRecord, order []string) []model.FrequencyRecord {
	byLabel := make(map[string]model.FrequencyRecord, len(records))
	for _, r := range records {
		if _, ok := byLabel[r.Label]; !ok {
			byLabel[r.Label] = r
		}
	}

	out := make([]model.FrequencyRecord, 0, len(records))
	used := make(map[string]struct{}, len(records))
	for _, l := range order {
		r, ok := byLabel[l]
		if !ok {
			continue
		}
		if _, dup := used[l]; dup {
			continue
		}
		used[l] = struct{}{}
		out = append(out, r)
	}
	for _, r := range records {
		if _, ok := used[r.Label]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DedupFirst keeps the first record of every label.
func DedupFirst(records []model.FrequencyRecord) []model.FrequencyRecord {
	return lo.UniqBy(records, func(r model.FrequencyRecord) string {
		return r.Label
	})
}

// Prepare runs the whole stage: exclusion, renormalization and ordering.
// Tracking charts additionally collapse repeated labels.
func Prepare(records []model.FrequencyRecord, excluded Exclusion, order []string, mode model.InputMode, dedup bool) []model.FrequencyRecord {
	if dedup {
		records = DedupFirst(records)
	}
	adjusted := Apply(records, excluded, mode)
	return Arrange(adjusted, Reconcile(order, records, excluded))
}
