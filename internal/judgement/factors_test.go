package judgement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstem/internal/contracts"
)

func TestExtractFactorsRanksTopFive(t *testing.T) {
	factors := extractFactors(followUpBundle())

	require.Len(t, factors, 5)
	for i := 1; i < len(factors); i++ {
		assert.GreaterOrEqual(t, factors[i-1].Weight, factors[i].Weight)
	}
	assert.Equal(t, "entity_tier_Investor X", factors[0].Name)
	assert.Equal(t, 0.9, factors[0].Weight)
	assert.Equal(t, "actor_authority", factors[1].Name)
	assert.Equal(t, 0.8, factors[1].Weight)
	assert.Equal(t, "time_since_last_reply", factors[2].Name)
	assert.Equal(t, "10 days", factors[2].Value)
}

func TestExtractFactorsPrecedentSuccessRate(t *testing.T) {
	factors := extractFactors(followUpBundle())

	// 1 success out of 2 weighs 0.5, below the top-five cut here.
	for _, f := range factors {
		assert.NotEqual(t, "precedent_success_rate", f.Name)
	}

	bundle := followUpBundle()
	bundle.Memory.EntityData = map[string]map[string]any{}
	bundle.Tools.Snapshots = map[string]map[string]any{}
	bundle.Tools.StaleFlags = map[string]bool{}
	factors = extractFactors(bundle)
	found := false
	for _, f := range factors {
		if f.Name == "precedent_success_rate" {
			found = true
			assert.Equal(t, 0.5, f.Weight)
			assert.Equal(t, "1/2", f.Value)
			assert.Equal(t, "agent", f.Category)
		}
	}
	assert.True(t, found)
}

func TestCompileConstraints(t *testing.T) {
	verdict := contracts.PolicyVerdict{
		Status:      contracts.PolicyNeedsApproval,
		Constraints: []string{"Delay until next_monday"},
	}
	risk := contracts.RiskReport{
		Level:         contracts.RiskHigh,
		Reversibility: contracts.Irreversible,
	}
	factors := []contracts.RankedFactor{
		{Name: "preferred_tone", Value: "confident"},
		{Name: "entity_tier_Investor X", Value: "VIP"},
	}

	constraints := compileConstraints(verdict, risk, factors)
	assert.Equal(t, []string{
		"Delay until next_monday",
		"MUST: Do not send without approval",
		"SHOULD: Use conservative tone and template",
		"SHOULD: Double-check content before execution",
		"SHOULD: Use confident tone",
		"SHOULD: Use VIP communication template",
	}, constraints)
}

func TestBuildMultiFactorConfidence(t *testing.T) {
	report := buildMultiFactor(followUpBundle(), contracts.PolicyVerdict{}, contracts.RiskReport{})

	// Mean of the top five weights: 0.9, 0.8, 10/14, 0.7, 0.7.
	assert.InDelta(t, 0.763, report.Confidence, 1e-9)
	assert.Len(t, report.RankedFactors, 5)
}
