package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstem/internal/contracts"
)

// monday is a fixed weekday so the weekend policy never matches.
var monday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func seedRules() []contracts.PolicyRule {
	return []contracts.PolicyRule{
		{ID: "P_VIP_APPROVAL", PolicyType: "org", Priority: 10,
			Condition: contracts.PolicyCondition{RecipientTier: "VIP"},
			Effect:    contracts.PolicyEffect{RequiresApproval: true}},
		{ID: "P_COLD_OUTREACH_REVIEW", PolicyType: "risk", Priority: 8,
			Condition: contracts.PolicyCondition{IntentType: contracts.IntentColdOutreach},
			Effect:    contracts.PolicyEffect{RequiresApproval: true, RiskFlag: "external_first_contact"}},
		{ID: "P_NO_WEEKENDS", PolicyType: "org", Priority: 5,
			Condition: contracts.PolicyCondition{DaysOfWeek: []string{"saturday", "sunday"}},
			Effect:    contracts.PolicyEffect{DelayUntil: "next_monday"}},
	}
}

func TestMatchPoliciesTracesEveryRule(t *testing.T) {
	plan := contracts.QueryPlan{IntentType: contracts.IntentFollowUp}
	entityData := map[string]map[string]any{
		"Investor X": {"tier": "VIP"},
	}

	pc := matchPolicies(seedRules(), plan, entityData, monday)

	require.Len(t, pc.Trace, 3)
	require.Len(t, pc.Rules, 1)
	assert.Equal(t, "P_VIP_APPROVAL", pc.Rules[0].ID)

	byID := map[string]contracts.PolicyMatchTrace{}
	for _, tr := range pc.Trace {
		byID[tr.PolicyID] = tr
	}
	assert.True(t, byID["P_VIP_APPROVAL"].Matched)
	assert.Equal(t, "all conditions met", byID["P_VIP_APPROVAL"].Reason)
	assert.False(t, byID["P_COLD_OUTREACH_REVIEW"].Matched)
	assert.Contains(t, byID["P_COLD_OUTREACH_REVIEW"].Reason, "intent_type")
	assert.False(t, byID["P_NO_WEEKENDS"].Matched)
	assert.Contains(t, byID["P_NO_WEEKENDS"].Reason, "monday")
}

func TestMatchPoliciesColdOutreachIntent(t *testing.T) {
	plan := contracts.QueryPlan{IntentType: contracts.IntentColdOutreach}

	pc := matchPolicies(seedRules(), plan, map[string]map[string]any{}, monday)

	require.Len(t, pc.Rules, 1)
	assert.Equal(t, "P_COLD_OUTREACH_REVIEW", pc.Rules[0].ID)
	assert.Equal(t, "external_first_contact", pc.Rules[0].Effect.RiskFlag)
}

func TestMatchPoliciesWeekend(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	plan := contracts.QueryPlan{IntentType: contracts.IntentFollowUp}

	pc := matchPolicies(seedRules(), plan, map[string]map[string]any{}, saturday)

	require.Len(t, pc.Rules, 1)
	assert.Equal(t, "P_NO_WEEKENDS", pc.Rules[0].ID)
	assert.Equal(t, "next_monday", pc.Rules[0].Effect.DelayUntil)
}

func TestMatchPoliciesNoTierWithoutEntityData(t *testing.T) {
	plan := contracts.QueryPlan{IntentType: contracts.IntentFollowUp}

	pc := matchPolicies(seedRules(), plan, map[string]map[string]any{}, monday)
	for _, r := range pc.Rules {
		assert.NotEqual(t, "P_VIP_APPROVAL", r.ID)
	}
}

func TestPolicySourcesCiteMatchedRules(t *testing.T) {
	pc := contracts.PolicyContext{Rules: []contracts.PolicyRule{{ID: "P_X"}}}

	sources := policySources(pc)
	require.Len(t, sources, 1)
	assert.Equal(t, "policy", sources[0].SourceType)
	assert.Equal(t, "P_X", sources[0].SourceID)
	assert.Equal(t, 1.0, sources[0].Confidence)
}
