package award

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcing/internal/models"
)

func TestEvaluateValueThreshold(t *testing.T) {
	rules := []models.AwardRule{{Kind: models.RuleValueThreshold, Threshold: 100}}

	result := Evaluate(rules, 190, nil, 1)
	require.False(t, result.Ok)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "190")
	assert.Contains(t, result.Reasons[0], "100")

	result = Evaluate(rules, 100, nil, 1)
	assert.True(t, result.Ok)
	assert.Empty(t, result.Reasons)
}

func TestEvaluateDefaultRuleWhenNil(t *testing.T) {
	explicit := []models.AwardRule{{Kind: models.RuleValueThreshold, Threshold: models.DefaultValueThreshold}}

	for _, value := range []float64{0, 49999, 50000, 50001, 1e6} {
		withNil := Evaluate(nil, value, nil, 1)
		withDefault := Evaluate(explicit, value, nil, 1)
		assert.Equal(t, withDefault, withNil, fmt.Sprintf("value %v", value))
	}
}

func TestEvaluateCategoryThreshold(t *testing.T) {
	rules := []models.AwardRule{{
		Kind:       models.RuleCategoryThreshold,
		Threshold:  1000,
		Categories: []string{"IT", "Logistics"},
	}}

	// category intersects and value exceeds
	result := Evaluate(rules, 5000, []string{"IT"}, 1)
	require.False(t, result.Ok)
	assert.Contains(t, result.Reasons[0], "IT")

	// category intersects but value does not exceed
	result = Evaluate(rules, 500, []string{"IT"}, 1)
	assert.True(t, result.Ok)

	// value exceeds but no category intersection
	result = Evaluate(rules, 5000, []string{"Construction"}, 1)
	assert.True(t, result.Ok)
}

func TestEvaluateSplitAward(t *testing.T) {
	rules := []models.AwardRule{{Kind: models.RuleSplitAward}}

	// triggered regardless of value
	result := Evaluate(rules, 0, nil, 2)
	require.False(t, result.Ok)
	assert.Contains(t, result.Reasons[0], "split")

	result = Evaluate(rules, 1e9, nil, 1)
	assert.True(t, result.Ok)
}

func TestEvaluateNeverShortCircuits(t *testing.T) {
	rules := []models.AwardRule{
		{Kind: models.RuleValueThreshold, Threshold: 10},
		{Kind: models.RuleSplitAward},
		{Kind: models.RuleValueThreshold, Threshold: 20},
	}

	result := Evaluate(rules, 100, nil, 3)
	assert.False(t, result.Ok)
	assert.Len(t, result.Reasons, 3, "every rule must be evaluated, no short-circuit")
}

func TestEvaluateOkMatchesReasons(t *testing.T) {
	result := Evaluate(nil, 0, nil, 1)
	assert.Equal(t, len(result.Reasons) == 0, result.Ok)

	result = Evaluate(nil, 1e6, nil, 1)
	assert.Equal(t, len(result.Reasons) == 0, result.Ok)
}
