package retrieval

import (
	"fmt"
	"strings"
	"time"

	"brainstem/internal/contracts"
)

// matchPolicies evaluates every workspace policy against the plan and the
// joined memory, producing the applicable rules plus a trace entry for each
// rule evaluated, matched or not. Rules arrive priority-sorted from the
// store and keep that order.
func matchPolicies(rules []contracts.PolicyRule, plan contracts.QueryPlan, entityData map[string]map[string]any, now time.Time) contracts.PolicyContext {
	pc := contracts.PolicyContext{
		Rules: []contracts.PolicyRule{},
		Trace: []contracts.PolicyMatchTrace{},
	}
	for _, rule := range rules {
		mismatches := []string{}

		if rule.Condition.IntentType != "" && rule.Condition.IntentType != plan.IntentType {
			mismatches = append(mismatches,
				fmt.Sprintf("intent_type is %s, policy wants %s", plan.IntentType, rule.Condition.IntentType))
		}
		if tier := rule.Condition.RecipientTier; tier != "" {
			found := false
			for _, attrs := range entityData {
				if attrs["tier"] == tier {
					found = true
					break
				}
			}
			if !found {
				mismatches = append(mismatches,
					fmt.Sprintf("no recipient with tier %s", tier))
			}
		}
		if days := rule.Condition.DaysOfWeek; len(days) > 0 {
			today := strings.ToLower(now.Weekday().String())
			found := false
			for _, d := range days {
				if strings.ToLower(d) == today {
					found = true
					break
				}
			}
			if !found {
				mismatches = append(mismatches,
					fmt.Sprintf("today is %s, policy wants %s", today, strings.Join(days, "|")))
			}
		}

		trace := contracts.PolicyMatchTrace{
			PolicyID:   rule.ID,
			PolicyType: rule.PolicyType,
			Matched:    len(mismatches) == 0,
			Reason:     "all conditions met",
		}
		if len(mismatches) > 0 {
			trace.Reason = strings.Join(mismatches, "; ")
		} else {
			pc.Rules = append(pc.Rules, rule)
		}
		pc.Trace = append(pc.Trace, trace)
	}
	return pc
}

// policySources cites each matched rule at full confidence.
func policySources(pc contracts.PolicyContext) []contracts.SourceRef {
	sources := []contracts.SourceRef{}
	for _, rule := range pc.Rules {
		sources = append(sources, contracts.SourceRef{
			SourceType: "policy",
			SourceID:   rule.ID,
			Confidence: 1.0,
		})
	}
	return sources
}
