package judgement

import (
	"fmt"

	"brainstem/internal/contracts"
)

// approverFor maps policy types to the role that signs off on them.
func approverFor(policyType string) string {
	switch policyType {
	case "org", "risk":
		return "founder"
	case "compliance":
		return "legal"
	case "finance":
		return "cfo"
	}
	return "founder"
}

// checkPolicy folds the matched rules into a single verdict. Severity is
// monotonic: deny beats needs_approval beats allow, and no rule can lower
// the status another rule raised.
func checkPolicy(bundle contracts.ContextBundle) contracts.PolicyVerdict {
	verdict := contracts.PolicyVerdict{
		Status:            contracts.PolicyAllow,
		Reasons:           []string{},
		Violations:        []string{},
		ApprovalsRequired: []string{},
		Constraints:       []string{},
	}

	approvers := []string{}
	seenApprover := map[string]bool{}
	for _, rule := range bundle.Policy.Rules {
		if rule.Effect.Deny {
			verdict.Status = contracts.PolicyDeny
			verdict.Violations = append(verdict.Violations,
				fmt.Sprintf("Policy %s (%s): hard deny", rule.ID, rule.PolicyType))
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("Blocked by policy %s", rule.ID))
		}
		if rule.Effect.RequiresApproval {
			if verdict.Status != contracts.PolicyDeny {
				verdict.Status = contracts.PolicyNeedsApproval
			}
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("Policy %s requires approval", rule.ID))
			approver := approverFor(rule.PolicyType)
			if !seenApprover[approver] {
				seenApprover[approver] = true
				approvers = append(approvers, approver)
			}
		}
		if flag := rule.Effect.RiskFlag; flag != "" {
			verdict.Violations = append(verdict.Violations,
				fmt.Sprintf("Risk flag: %s (policy %s)", flag, rule.ID))
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("Risk: %s", flag))
		}
		if until := rule.Effect.DelayUntil; until != "" {
			verdict.Constraints = append(verdict.Constraints,
				fmt.Sprintf("Delay until %s", until))
		}
		if tmpl := rule.Effect.Template; tmpl != "" {
			verdict.Constraints = append(verdict.Constraints,
				fmt.Sprintf("Must use template: %s", tmpl))
		}
	}
	if verdict.Status == contracts.PolicyNeedsApproval {
		verdict.ApprovalsRequired = approvers
	}
	return verdict
}
