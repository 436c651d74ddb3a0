package award

import (
	"fmt"
	"strings"

	"sourcing/internal/models"
)

// Evaluate runs every configured rule against a proposed award and
// collects one human-readable reason per triggered rule. Rules never
// short-circuit: the caller always sees every applicable warning. A nil
// rule set means the implicit default value threshold applies. The
// result is advisory; it decides the approval path, not admissibility.
func Evaluate(rules []models.AwardRule, value float64, categories []string, supplierCount int) models.AwardCheckResult {
	if rules == nil {
		rules = []models.AwardRule{{Kind: models.RuleValueThreshold, Threshold: models.DefaultValueThreshold}}
	}

	var reasons []string
	for _, rule := range rules {
		switch rule.Kind {
		case models.RuleValueThreshold:
			if value > rule.Threshold {
				reasons = append(reasons, fmt.Sprintf(
					"estimated award value %.2f exceeds approval threshold %.2f", value, rule.Threshold))
			}
		case models.RuleCategoryThreshold:
			if matched := intersect(categories, rule.Categories); len(matched) > 0 && value > rule.Threshold {
				reasons = append(reasons, fmt.Sprintf(
					"estimated award value %.2f exceeds threshold %.2f for categories: %s",
					value, rule.Threshold, strings.Join(matched, ", ")))
			}
		case models.RuleSplitAward:
			if supplierCount > 1 {
				reasons = append(reasons, fmt.Sprintf(
					"split award across %d suppliers requires higher approval", supplierCount))
			}
		default:
			// unknown kinds were already dropped by ParseRules; skip
			// anything that slipped through rather than failing the check
		}
	}

	return models.AwardCheckResult{Ok: len(reasons) == 0, Reasons: reasons}
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[strings.ToLower(s)] = true
	}
	var out []string
	for _, s := range a {
		if set[strings.ToLower(s)] {
			out = append(out, s)
		}
	}
	return out
}
