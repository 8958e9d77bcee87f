package axis

import (
	"reflect"
	"testing"

	"budgetdash/internal/core"
)

func TestChronological(t *testing.T) {
	tests := []struct {
		name string
		in   *core.Amounts
		want []string
	}{
		{
			name: "iso months",
			in:   amounts(core.Entry{Label: "2025-03", Amount: 3}, core.Entry{Label: "2024-12", Amount: 1}, core.Entry{Label: "2025-01", Amount: 2}),
			want: []string{"2024-12", "2025-01", "2025-03"},
		},
		{
			name: "short month names",
			in:   amounts(core.Entry{Label: "Mar 2025", Amount: 3}, core.Entry{Label: "Jan 2025", Amount: 1}, core.Entry{Label: "Dec 2024", Amount: 2}),
			want: []string{"Dec 2024", "Jan 2025", "Mar 2025"},
		},
		{
			name: "unparseable labels trail in original order",
			in:   amounts(core.Entry{Label: "Unknown", Amount: 9}, core.Entry{Label: "2025-02", Amount: 2}, core.Entry{Label: "later", Amount: 8}, core.Entry{Label: "2025-01", Amount: 1}),
			want: []string{"2025-01", "2025-02", "Unknown", "later"},
		},
		{
			name: "nil input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chronological(tt.in)
			if labels := core.Labels(got); !reflect.DeepEqual(labels, tt.want) {
				t.Fatalf("labels = %v, want %v", labels, tt.want)
			}
		})
	}
}

func TestChronologicalKeepsValuesAndInput(t *testing.T) {
	in := amounts(core.Entry{Label: "2025-02", Amount: 2}, core.Entry{Label: "2025-01", Amount: 1})
	out := Chronological(in)
	if v, _ := out.Get("2025-02"); v != 2 {
		t.Fatalf("value for 2025-02 = %v", v)
	}
	if labels := core.Labels(in); !reflect.DeepEqual(labels, []string{"2025-02", "2025-01"}) {
		t.Fatalf("input was reordered: %v", labels)
	}
}
