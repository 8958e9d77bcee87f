// Package classify assigns a spending category to a transaction description.
package classify

import (
	"strings"
	"unicode"

	"budgetdash/internal/core"
)

// Classifier maps descriptions to categories, one result per input in order.
type Classifier interface {
	Classify(descriptions []string) []string
}

// Rule assigns Category when any keyword appears as a word in a description.
type Rule struct {
	Category string
	Keywords []string
}

// DefaultRules are checked in order; the first matching rule wins.
var DefaultRules = []Rule{
	{Category: "Food & Beverage", Keywords: []string{"zomato", "swiggy", "dominos", "pizza", "restaurant", "cafe", "coffee", "eat", "meal", "lunch", "dinner", "grocery", "groceries"}},
	{Category: "Entertainment", Keywords: []string{"netflix", "hotstar", "prime", "spotify", "pvr", "movie", "cinema", "youtube premium", "concert"}},
	{Category: "Transport", Keywords: []string{"uber", "ola", "cab", "taxi", "metro", "bus", "fuel", "petrol", "parking", "train"}},
	{Category: "Shopping", Keywords: []string{"amazon", "flipkart", "myntra", "mall", "store", "shopping"}},
	{Category: "Utilities", Keywords: []string{"electricity", "water", "gas", "internet", "broadband", "mobile", "recharge", "rent"}},
}

// Keywords is a rule based Classifier.
type Keywords struct {
	rules []Rule
}

// NewKeywords builds a Classifier from rules. With no rules DefaultRules are used.
func NewKeywords(rules ...Rule) *Keywords {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Keywords{rules: rules}
}

func (k *Keywords) Classify(descriptions []string) []string {
	out := make([]string, len(descriptions))
	for i, d := range descriptions {
		out[i] = k.classifyOne(d)
	}
	return out
}

func (k *Keywords) classifyOne(description string) string {
	text := " " + strings.Join(words(description), " ") + " "
	for _, r := range k.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, " "+strings.ToLower(kw)+" ") {
				return r.Category
			}
		}
	}
	return core.Uncategorized
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
