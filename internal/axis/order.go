package axis

import (
	"sort"
	"strings"
	"time"

	"budgetdash/internal/core"
)

// period label layouts emitted by the data service and common exports
var periodLayouts = []string{
	"2006-01",
	"Jan 2006",
	"January 2006",
	"2006-01-02",
	"01/2006",
}

// Chronological returns a copy of points ordered by calendar period.
// Labels that do not parse as a period keep their relative order and are
// placed after every parseable label. The input is not modified.
func Chronological(points *core.Amounts) *core.Amounts {
	out := core.NewAmounts()
	if points == nil {
		return out
	}

	type entry struct {
		label string
		value float64
		at    time.Time
		ok    bool
	}
	entries := make([]entry, 0, points.Len())
	for p := points.Oldest(); p != nil; p = p.Next() {
		at, ok := ParsePeriod(p.Key)
		entries = append(entries, entry{label: p.Key, value: p.Value, at: at, ok: ok})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.at.Before(b.at)
	})

	for _, e := range entries {
		out.Set(e.label, e.value)
	}
	return out
}

// ParsePeriod parses a period label such as "2025-03" or "Mar 2025".
func ParsePeriod(label string) (time.Time, bool) {
	label = strings.TrimSpace(label)
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
