package judgement

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"brainstem/internal/contracts"
)

// intentUrgencyFactor weights time-sensitive intents in the factor table.
var intentUrgencyFactor = map[string]float64{
	contracts.IntentFollowUp:     0.7,
	contracts.IntentReplyEmail:   0.8,
	contracts.IntentColdOutreach: 0.4,
}

// extractFactors pulls weighted decision factors from every bundle layer:
// actor preferences and authority, entity tiers, situation signals,
// precedent track record and tool availability. The top five by weight
// survive.
func extractFactors(bundle contracts.ContextBundle) []contracts.RankedFactor {
	factors := []contracts.RankedFactor{}

	if tone, ok := bundle.Memory.Preferences["tone"].(string); ok && tone != "" {
		factors = append(factors, contracts.RankedFactor{
			Name: "preferred_tone", Category: "actor", Weight: 0.6,
			Value: tone, SourceRef: "memory.preferences.tone",
		})
	}

	authority := 0.5
	if bundle.Scope.Role == "founder" {
		authority = 0.8
	}
	factors = append(factors, contracts.RankedFactor{
		Name: "actor_authority", Category: "actor", Weight: authority,
		Value: bundle.Scope.Role, SourceRef: "scope.role",
	})

	names := make([]string, 0, len(bundle.Memory.EntityData))
	for name := range bundle.Memory.EntityData {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tier, _ := bundle.Memory.EntityData[name]["tier"].(string)
		weight := 0.4
		if tier == "VIP" {
			weight = 0.9
		}
		factors = append(factors, contracts.RankedFactor{
			Name:     fmt.Sprintf("entity_tier_%s", name),
			Category: "org", Weight: weight, Value: tier,
			SourceRef: fmt.Sprintf("memory.entity_data.%s", name),
		})
	}

	if mail, ok := bundle.Tools.Snapshots["mail"]; ok {
		if days, ok := toInt(mail["last_reply_days_ago"]); ok {
			factors = append(factors, contracts.RankedFactor{
				Name: "time_since_last_reply", Category: "situation",
				Weight: math.Min(1, float64(days)/14),
				Value:  fmt.Sprintf("%d days", days), SourceRef: "tools.mail",
			})
		}
	}

	if weight, ok := intentUrgencyFactor[bundle.QueryPlanRef.IntentType]; ok {
		factors = append(factors, contracts.RankedFactor{
			Name: "intent_urgency", Category: "situation", Weight: weight,
			Value: bundle.QueryPlanRef.IntentType, SourceRef: "query_plan.intent_type",
		})
	}

	if total := len(bundle.Precedents.PastDecisions); total > 0 {
		successes := 0
		for _, p := range bundle.Precedents.PastDecisions {
			if p.Outcome == "success" {
				successes++
			}
		}
		factors = append(factors, contracts.RankedFactor{
			Name: "precedent_success_rate", Category: "agent",
			Weight: float64(successes) / float64(total),
			Value:  fmt.Sprintf("%d/%d", successes, total), SourceRef: "precedents",
		})
	}

	tools := make([]string, 0, len(bundle.Tools.Snapshots))
	for tool := range bundle.Tools.Snapshots {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	for _, tool := range tools {
		weight, value := 0.7, "fresh"
		if bundle.Tools.StaleFlags[tool] {
			weight, value = 0.3, "stale"
		}
		factors = append(factors, contracts.RankedFactor{
			Name:     fmt.Sprintf("tool_%s_available", tool),
			Category: "tool", Weight: weight, Value: value,
			SourceRef: fmt.Sprintf("tools.%s", tool),
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Weight > factors[j].Weight
	})
	if len(factors) > 5 {
		factors = factors[:5]
	}
	return factors
}

// compileConstraints collects the hard and soft constraints the decision
// stage must honor, from the policy verdict and the extracted factors.
func compileConstraints(verdict contracts.PolicyVerdict, risk contracts.RiskReport, factors []contracts.RankedFactor) []string {
	constraints := []string{}
	constraints = append(constraints, verdict.Constraints...)

	if verdict.Status == contracts.PolicyNeedsApproval {
		constraints = append(constraints, "MUST: Do not send without approval")
	}
	if verdict.Status == contracts.PolicyDeny {
		constraints = append(constraints, "MUST NOT: Do not execute this action")
	}
	if risk.Level == contracts.RiskHigh {
		constraints = append(constraints, "SHOULD: Use conservative tone and template")
	}
	if risk.Reversibility == contracts.Irreversible {
		constraints = append(constraints, "SHOULD: Double-check content before execution")
	}
	vipSeen := false
	for _, f := range factors {
		if f.Name == "preferred_tone" {
			constraints = append(constraints, fmt.Sprintf("SHOULD: Use %s tone", f.Value))
		}
		if !vipSeen && strings.HasPrefix(f.Name, "entity_tier_") && f.Value == "VIP" {
			vipSeen = true
			constraints = append(constraints, "SHOULD: Use VIP communication template")
		}
	}
	return constraints
}

// buildMultiFactor ranks factors and compiles constraints into one report.
// Confidence is the mean weight of the surviving factors.
func buildMultiFactor(bundle contracts.ContextBundle, verdict contracts.PolicyVerdict, risk contracts.RiskReport) contracts.MultiFactorReport {
	factors := extractFactors(bundle)

	confidence := 0.0
	if len(factors) > 0 {
		sum := 0.0
		for _, f := range factors {
			sum += f.Weight
		}
		confidence = math.Min(1, round3(sum/float64(len(factors))))
	}

	return contracts.MultiFactorReport{
		RankedFactors: factors,
		Constraints:   compileConstraints(verdict, risk, factors),
		Confidence:    confidence,
	}
}
