package learning

import (
	"fmt"

	"brainstem/internal/contracts"
)

// proposePolicySuggestions turns outcome evidence into governance change
// proposals. Nothing here changes a policy; suggestions go to a human.
func proposePolicySuggestions(packet contracts.DecisionPacket, signal ExecutionSignal) []contracts.PolicySuggestion {
	suggestions := []contracts.PolicySuggestion{}
	intent := packet.IntentType

	if signal.Result == contracts.ResultApproved && packet.ExecutionMode == contracts.ModeNeedsApproval {
		suggestions = append(suggestions, contracts.PolicySuggestion{
			SuggestionType: "threshold_change",
			Description: fmt.Sprintf(
				"Approvals for '%s' keep passing unchanged; the approval threshold could be lowered", intent),
			Evidence: []string{fmt.Sprintf("outcome:%s", signal.Result)},
			Priority: "low",
			ProposedChange: map[string]any{
				"target":      "approval_threshold",
				"intent_type": intent,
				"direction":   "lower",
			},
		})
	}

	if signal.Feedback == contracts.FeedbackReject {
		suggestions = append(suggestions, contracts.PolicySuggestion{
			SuggestionType: "guardrail",
			Description: fmt.Sprintf(
				"User rejected a '%s' action; consider a guardrail for this pattern", intent),
			Evidence: []string{"feedback:reject", fmt.Sprintf("comment:%s", signal.Comment)},
			Priority: "medium",
			ProposedChange: map[string]any{
				"target":      "guardrail",
				"intent_type": intent,
			},
		})
	}

	if n := len(signal.ToolErrors); n > 0 {
		priority := "low"
		if n > 1 {
			priority = "medium"
		}
		evidence := make([]string, 0, n)
		for _, e := range signal.ToolErrors {
			evidence = append(evidence, fmt.Sprintf("tool_error:%s:%s", e.Tool, e.Message))
		}
		suggestions = append(suggestions, contracts.PolicySuggestion{
			SuggestionType: "new_policy",
			Description: fmt.Sprintf(
				"Tool errors during '%s'; a fallback policy would reduce failed executions", intent),
			Evidence: evidence,
			Priority: priority,
			ProposedChange: map[string]any{
				"target":      "fallback_policy",
				"intent_type": intent,
				"error_count": n,
			},
		})
	}

	return suggestions
}
