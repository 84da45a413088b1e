package decision

import (
	"fmt"
	"strings"

	"brainstem/internal/contracts"
)

// staticRejections lists the alternatives each intent template considered
// and discarded.
var staticRejections = map[string][]contracts.RejectedOption{
	contracts.IntentFollowUp: {
		{Option: "Send immediately without approval",
			RejectionReason: "VIP recipients route through the approval workflow"},
		{Option: "Use aggressive tone",
			RejectionReason: "Past precedent shows negative response to aggressive follow-ups"},
	},
	contracts.IntentReplyEmail: {
		{Option: "Auto-send reply without preview",
			RejectionReason: "Thread context requires a user preview first"},
	},
	contracts.IntentColdOutreach: {
		{Option: "Send without personalization",
			RejectionReason: "Outreach policy requires a personalized draft"},
		{Option: "Batch outreach to multiple recipients",
			RejectionReason: "One recipient at a time keeps quality reviewable"},
	},
	contracts.IntentScheduleMeeting: {
		{Option: "Book over an existing slot",
			RejectionReason: "Calendar conflicts must be avoided"},
	},
}

// buildTrace assembles the audit trail: why the decision happened, which
// policies and factors shaped it, where the facts came from, and what was
// rejected along the way.
func buildTrace(bundle contracts.ContextBundle, report contracts.JudgementReport, execution contracts.ExecutionDetail) contracts.DecisionTrace {
	why := []string{}
	why = append(why, report.Risk.Reasons...)
	why = append(why, report.Policy.Reasons...)
	priorityReasons := report.Priority.Reasons
	if len(priorityReasons) > 3 {
		priorityReasons = priorityReasons[:3]
	}
	why = append(why, priorityReasons...)
	why = append(why, execution.Rationale...)

	policies := []string{}
	for _, rule := range bundle.Policy.Rules {
		policies = append(policies, fmt.Sprintf("%s: %s", rule.ID, effectSummary(rule.Effect)))
	}

	factors := []string{}
	for _, f := range report.MultiFactor.RankedFactors {
		factors = append(factors, fmt.Sprintf("%s (%s): %s [w=%g]", f.Name, f.Category, f.Value, f.Weight))
	}

	sources := []string{}
	refs := bundle.SourceMap
	if len(refs) > 10 {
		refs = refs[:10]
	}
	for _, ref := range refs {
		sources = append(sources, fmt.Sprintf("%s/%s (conf=%g)", ref.SourceType, ref.SourceID, ref.Confidence))
	}

	intent := bundle.QueryPlanRef.IntentType
	rejected := append([]contracts.RejectedOption{}, staticRejections[intent]...)
	if report.Risk.Level == contracts.RiskHigh && intent != contracts.IntentGeneral {
		rejected = append(rejected, contracts.RejectedOption{
			Option:          "Proceed with auto-execution",
			RejectionReason: "Risk level 'high' exceeds the auto-execution threshold",
		})
	}
	if len(rejected) > 3 {
		rejected = rejected[:3]
	}

	return contracts.DecisionTrace{
		Why:             why,
		Policies:        policies,
		Factors:         factors,
		Sources:         sources,
		RejectedOptions: rejected,
	}
}

// effectSummary renders a policy effect as a compact token list.
func effectSummary(e contracts.PolicyEffect) string {
	parts := []string{}
	if e.Deny {
		parts = append(parts, "deny")
	}
	if e.RequiresApproval {
		parts = append(parts, "requires_approval")
	}
	if e.RiskFlag != "" {
		parts = append(parts, "risk_flag="+e.RiskFlag)
	}
	if e.DelayUntil != "" {
		parts = append(parts, "delay_until="+e.DelayUntil)
	}
	if e.Template != "" {
		parts = append(parts, "template="+e.Template)
	}
	if len(parts) == 0 {
		return "no effect"
	}
	return strings.Join(parts, ", ")
}
