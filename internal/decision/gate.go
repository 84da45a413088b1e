package decision

import (
	"strings"

	"brainstem/internal/contracts"
)

// decideMode is the total mode gate: every judgement report maps to
// exactly one execution mode, in strict precedence order. Uncertainty
// always degrades toward a safer mode, never toward auto-execution.
func decideMode(report contracts.JudgementReport) contracts.ExecutionDetail {
	detail := contracts.ExecutionDetail{
		ApprovalsRequired: []string{},
		Questions:         []string{},
		Rationale:         []string{},
	}

	switch {
	case report.NeedMoreInfo.Value:
		detail.Mode = contracts.ModeAskClarifying
		for _, q := range report.NeedMoreInfo.Questions {
			detail.Questions = append(detail.Questions, q.Question)
		}
		detail.Rationale = append(detail.Rationale, "Blocked on missing information")

	case report.Policy.Status == contracts.PolicyDeny:
		detail.Mode = contracts.ModeProposeOnly
		detail.Rationale = append(detail.Rationale, "Policy denies execution")

	case report.NeedsApproval:
		detail.Mode = contracts.ModeNeedsApproval
		approvers := report.Policy.ApprovalsRequired
		if len(approvers) == 0 {
			approvers = []string{"founder"}
		}
		detail.ApprovalsRequired = approvers
		detail.Rationale = append(detail.Rationale,
			"Policy or risk level requires approval",
			"Approval chain: "+strings.Join(approvers, ", "))

	case report.Risk.Level == contracts.RiskHigh:
		detail.Mode = contracts.ModeProposeOnly
		detail.Rationale = append(detail.Rationale, "High risk requires human review")

	case report.OkToAct:
		detail.Mode = contracts.ModeAutoExecute
		detail.Rationale = append(detail.Rationale, "All checks passed for autonomous execution")

	default:
		detail.Mode = contracts.ModeProposeOnly
		detail.Rationale = append(detail.Rationale, "Defaulting to proposal for human review")
	}
	return detail
}
