package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"budgetdash/internal/core"
)

// DecodeAnalytics parses an insights document. Any shape problem, including
// a missing or null total_spent, is reported as a MalformedPayload.
func DecodeAnalytics(data []byte) (core.AnalyticsPayload, error) {
	fields, err := objectFields(data)
	if err != nil {
		return core.AnalyticsPayload{}, err
	}
	total, ok := fields["total_spent"]
	if !ok {
		return core.AnalyticsPayload{}, core.Malformed("total_spent", "field is missing")
	}
	if jsonKind(total) == "null" {
		return core.AnalyticsPayload{}, core.Malformed("total_spent", "field is null")
	}
	if err := requireObjects(fields, "category_breakdown", "category_percentages", "monthly_summary"); err != nil {
		return core.AnalyticsPayload{}, err
	}

	var p core.AnalyticsPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return core.AnalyticsPayload{}, shapeError(err)
	}
	return p, nil
}

// DecodeAdvanced parses an analytics document. Merchant entries missing a
// field are kept so that BuildMerchantFrequency can reject them.
func DecodeAdvanced(data []byte) (core.AdvancedAnalyticsPayload, error) {
	fields, err := objectFields(data)
	if err != nil {
		return core.AdvancedAnalyticsPayload{}, err
	}
	if err := requireObjects(fields, "category_monthly"); err != nil {
		return core.AdvancedAnalyticsPayload{}, err
	}
	if err := requireCategoryObjects(fields["category_monthly"]); err != nil {
		return core.AdvancedAnalyticsPayload{}, err
	}

	var p core.AdvancedAnalyticsPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return core.AdvancedAnalyticsPayload{}, shapeError(err)
	}
	return p, nil
}

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, core.Malformed("", "document is not a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, core.Malformed("", "invalid JSON: %v", err)
	}
	return fields, nil
}

// requireObjects rejects any of the named fields that is present with a value
// other than an object or null.
func requireObjects(fields map[string]json.RawMessage, names ...string) error {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if kind := jsonKind(raw); kind != "object" && kind != "null" {
			return core.Malformed(name, "expected object, got %s", kind)
		}
	}
	return nil
}

// requireCategoryObjects checks every per-category map of category_monthly,
// in document order.
func requireCategoryObjects(raw json.RawMessage) error {
	if jsonKind(raw) != "object" {
		return nil
	}
	categories := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, categories); err != nil {
		return core.Malformed("category_monthly", "invalid JSON: %v", err)
	}
	for pair := categories.Oldest(); pair != nil; pair = pair.Next() {
		if kind := jsonKind(pair.Value); kind != "object" && kind != "null" {
			return core.Malformed("category_monthly."+pair.Key, "expected object, got %s", kind)
		}
	}
	return nil
}

// jsonKind names the JSON type of raw from its first byte.
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}

func shapeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return core.Malformed(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
	}
	return core.Malformed("", "%s", fmt.Sprint(err))
}
