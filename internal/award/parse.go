package award

import (
	"encoding/json"

	"sourcing/internal/models"
)

// ParseRules maps the loosely-typed rule records coming from
// configuration onto the closed AwardRule union. Malformed entries
// (unknown kind, missing or non-numeric threshold) are skipped, never
// fatal: rule-set corruption must not block award processing.
func ParseRules(raw []map[string]any) []models.AwardRule {
	if raw == nil {
		return nil
	}

	rules := make([]models.AwardRule, 0, len(raw))
	for _, entry := range raw {
		kind, _ := entry["kind"].(string)
		switch models.RuleKind(kind) {
		case models.RuleValueThreshold:
			threshold, ok := toFloat(entry["threshold"])
			if !ok {
				continue
			}
			rules = append(rules, models.AwardRule{Kind: models.RuleValueThreshold, Threshold: threshold})

		case models.RuleCategoryThreshold:
			threshold, ok := toFloat(entry["threshold"])
			if !ok {
				continue
			}
			categories := toStrings(entry["categories"])
			if len(categories) == 0 {
				continue
			}
			rules = append(rules, models.AwardRule{
				Kind:       models.RuleCategoryThreshold,
				Threshold:  threshold,
				Categories: categories,
			})

		case models.RuleSplitAward:
			rules = append(rules, models.AwardRule{Kind: models.RuleSplitAward})

		default:
			continue
		}
	}
	return rules
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toStrings(v any) []string {
	var out []string
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
