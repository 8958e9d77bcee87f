package core

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type (
	// Amounts maps a label (category or period) to an amount and keeps the
	// order in which labels were inserted or decoded from JSON.
	Amounts = orderedmap.OrderedMap[string, float64]

	// CategoryMonthly maps a category to its sparse per-period amounts.
	CategoryMonthly = orderedmap.OrderedMap[string, *Amounts]

	CategoryAmount struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	MonthlyTotal struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
	}

	// AnalyticsPayload is the aggregated insights document returned by the data service.
	AnalyticsPayload struct {
		TotalSpent          float64          `json:"total_spent"`
		CategoryBreakdown   *Amounts         `json:"category_breakdown"`
		CategoryPercentages *Amounts         `json:"category_percentages,omitempty"`
		MonthlySummary      *Amounts         `json:"monthly_summary"`
		TopCategories       []CategoryAmount `json:"top_categories,omitempty"`
	}

	// AdvancedAnalyticsPayload is the visualisation document returned by the data service.
	AdvancedAnalyticsPayload struct {
		Message         string           `json:"message,omitempty"`
		MonthlySpend    []MonthlyTotal   `json:"monthly_spend,omitempty"`
		CategoryMonthly *CategoryMonthly `json:"category_monthly"`
		TopMerchants    []MerchantCount  `json:"top_merchants"`
	}

	// MerchantCount is one entry of the pre-ranked merchant frequency list.
	MerchantCount struct {
		Merchant string `json:"merchant"`
		Count    int64  `json:"count"`

		// fields absent from the decoded JSON object
		missing []string
	}
)

// Entry is one label/amount pair used to build Amounts in order.
type Entry struct {
	Label  string
	Amount float64
}

// NewAmounts returns an Amounts holding entries in the given order.
func NewAmounts(entries ...Entry) *Amounts {
	m := orderedmap.New[string, float64]()
	for _, e := range entries {
		m.Set(e.Label, e.Amount)
	}
	return m
}

// NewCategoryMonthly returns an empty ordered category → amounts map.
func NewCategoryMonthly() *CategoryMonthly {
	return orderedmap.New[string, *Amounts]()
}

// Labels returns the keys of m in order. A nil map yields an empty slice.
func Labels(m *Amounts) []string {
	if m == nil {
		return []string{}
	}
	out := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func (m *MerchantCount) UnmarshalJSON(data []byte) error {
	var wire struct {
		Merchant *string `json:"merchant"`
		Count    *int64  `json:"count"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = MerchantCount{}
	if wire.Merchant == nil {
		m.missing = append(m.missing, "merchant")
	} else {
		m.Merchant = *wire.Merchant
	}
	if wire.Count == nil {
		m.missing = append(m.missing, "count")
	} else {
		m.Count = *wire.Count
	}
	return nil
}

// Validate reports a MalformedPayload for absent fields or a negative count.
func (m MerchantCount) Validate() error {
	if len(m.missing) > 0 {
		return Malformed("top_merchants", "entry is missing %q", m.missing[0])
	}
	if m.Count < 0 {
		return Malformed("top_merchants", "negative count %d for merchant %q", m.Count, m.Merchant)
	}
	return nil
}
