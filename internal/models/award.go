package models

import (
	"math"
	"time"
)

// AwardRecord documents the decision made for an event. Present on an
// event if and only if its status is Awarded.
type AwardRecord struct {
	Winners       []string  `json:"winners"`
	Justification string    `json:"justification"`
	AwardedAt     time.Time `json:"awardedAt"`
}

// AwardCheckResult is the advisory output of the rule engine. It never
// blocks an action by itself; callers decide what a failed check means
// (typically: route to a higher approval tier).
type AwardCheckResult struct {
	Ok      bool     `json:"ok"`
	Reasons []string `json:"reasons"`
}

type RuleKind string

const (
	RuleValueThreshold    RuleKind = "valueThreshold"
	RuleCategoryThreshold RuleKind = "categoryThreshold"
	RuleSplitAward        RuleKind = "requireHigherApprovalOnSplit"
)

// AwardRule is one configured award constraint. Kind decides which of
// the remaining fields are meaningful.
type AwardRule struct {
	Kind       RuleKind `json:"kind"`
	Threshold  float64  `json:"threshold,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// DefaultValueThreshold applies when no rule set is configured.
const DefaultValueThreshold = 50000

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
