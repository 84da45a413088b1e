package retrieval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Follow up with Investor X about the term sheet", contracts.IntentFollowUp},
		{"chase the contract signature", contracts.IntentFollowUp},
		{"Schedule a meeting with John Smith", contracts.IntentScheduleMeeting},
		{"book a call for tomorrow", contracts.IntentScheduleMeeting},
		{"Reply to the latest thread", contracts.IntentReplyEmail},
		{"get back to the recruiter", contracts.IntentReplyEmail},
		{"cold outreach to a new fund", contracts.IntentColdOutreach},
		{"reach out to Jane Doe", contracts.IntentColdOutreach},
		{"draft email to the team", contracts.IntentSendEmail},
		{"compose a short update", contracts.IntentSendEmail},
		{"summarize my week", contracts.IntentGeneral},
		{"", contracts.IntentGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyIntent(tt.raw), tt.raw)
	}
}

func TestClassifyIntentFirstMatchWins(t *testing.T) {
	// "follow up" outranks "schedule" when both appear.
	got := ClassifyIntent("follow up on the meeting schedule")
	assert.Equal(t, contracts.IntentFollowUp, got)
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"Follow up with Investor X about the term sheet", []string{"Investor X"}},
		{"Email Investor X and John Smith today", []string{"Investor X", "John Smith"}},
		{"Send Best Regards to everyone", []string{}},
		{"Follow Up with the team", []string{}},
		{"no capitalized names here", []string{}},
		{"Investor X and Investor X again", []string{"Investor X"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractEntities(tt.raw), tt.raw)
	}
}

func TestBuildQueryPlanContextsAndBudget(t *testing.T) {
	cfg := config.DefaultConfig().Retrieval

	plan := BuildQueryPlan(cfg, "Follow up with Investor X")
	assert.Equal(t, contracts.IntentFollowUp, plan.IntentType)
	assert.Equal(t, []string{"memory", "policies", "precedents", "scope", "tools"}, plan.RequiredContexts)
	assert.Equal(t, []string{"Investor X"}, plan.Entities)
	assert.Equal(t, 4, plan.Budget.MaxToolCalls)
	assert.Equal(t, 20, plan.Budget.MaxMemoryItems)
	assert.Equal(t, 4000, plan.Budget.MaxTokens)
	assert.Equal(t, 5, plan.Budget.MaxPrecedents)
	assert.Equal(t, 60, plan.TTLOverrides["mail"])
	assert.Equal(t, 120, plan.TTLOverrides["calendar"])
}

func TestBuildQueryPlanColdOutreachSkipsTools(t *testing.T) {
	cfg := config.DefaultConfig().Retrieval

	plan := BuildQueryPlan(cfg, "cold outreach to a seed fund")
	assert.Equal(t, contracts.IntentColdOutreach, plan.IntentType)
	assert.Equal(t, []string{"memory", "policies", "precedents", "scope"}, plan.RequiredContexts)
	assert.False(t, plan.Requires(contracts.ContextTools))
	// TTL overrides only apply when tools will be fetched.
	assert.Empty(t, plan.TTLOverrides)
}

func TestBuildQueryPlanGeneral(t *testing.T) {
	cfg := config.DefaultConfig().Retrieval

	plan := BuildQueryPlan(cfg, "what should I do next")
	want := contracts.QueryPlan{
		IntentType:       contracts.IntentGeneral,
		RawIntent:        "what should I do next",
		RequiredContexts: []string{"memory", "policies", "scope"},
		Entities:         []string{},
		Budget: contracts.RetrievalBudget{
			MaxToolCalls:   4,
			MaxMemoryItems: 20,
			MaxTokens:      4000,
			MaxPrecedents:  5,
		},
		TTLOverrides: map[string]int{},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}
