// Package axis aligns sparse label/value series onto one shared axis.
//
// The axis is built from labels in the order they are first seen, scanning
// the series in the order given and each series in its own iteration order.
// No sorting happens here; callers that want a calendar-ordered axis sort
// their inputs first (see Chronological).
package axis

import "budgetdash/internal/core"

// Sparse is one input series: an identifier and its label → amount map.
type Sparse struct {
	ID     string
	Points *core.Amounts
}

// Reconcile returns the union of all labels in first-occurrence order and,
// for every input series, a dense series aligned on that axis with missing
// labels filled with 0. A nil Points map is treated as an empty series.
// When two inputs share an ID the later one wins in the returned map.
func Reconcile(series []Sparse) ([]string, map[string]core.RenderableSeries) {
	axis := make([]string, 0)
	seen := make(map[string]struct{})
	for _, s := range series {
		if s.Points == nil {
			continue
		}
		for p := s.Points.Oldest(); p != nil; p = p.Next() {
			if _, ok := seen[p.Key]; ok {
				continue
			}
			seen[p.Key] = struct{}{}
			axis = append(axis, p.Key)
		}
	}

	aligned := make(map[string]core.RenderableSeries, len(series))
	for _, s := range series {
		aligned[s.ID] = Align(axis, s.Points)
	}
	return axis, aligned
}

// Align projects points onto axis, substituting 0 for absent labels.
func Align(axis []string, points *core.Amounts) core.RenderableSeries {
	labels := make([]string, len(axis))
	values := make([]float64, len(axis))
	copy(labels, axis)
	for i, label := range axis {
		if points == nil {
			continue
		}
		if v, ok := points.Get(label); ok {
			values[i] = v
		}
	}
	return core.RenderableSeries{Labels: labels, Values: values}
}
