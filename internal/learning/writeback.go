package learning

import (
	"fmt"
	"strings"

	"brainstem/internal/contracts"
)

// autoWriteConfidence is the floor below which no memory write is ever
// auto-approved.
const autoWriteConfidence = 0.7

// safeFieldPrefixes are fields the pipeline may write without review when
// the remaining gate conditions hold.
var safeFieldPrefixes = []string{"last_successful_intent"}

// reviewFieldPrefixes are fields that always queue for human review:
// they shape future behavior directly.
var reviewFieldPrefixes = []string{"preference_", "template_success_"}

// proposeMemoryUpdates generates write candidates from an executed outcome:
// the run reinforces what worked, and an edit queues the user's correction
// for review. Callers must not invoke it for failed or rejected runs.
func proposeMemoryUpdates(packet contracts.DecisionPacket, signal ExecutionSignal) []contracts.MemoryUpdate {
	updates := []contracts.MemoryUpdate{}
	intent := packet.IntentType
	evidence := []string{fmt.Sprintf("outcome:%s", signal.Result)}

	updates = append(updates, contracts.MemoryUpdate{
		Field:        "last_successful_intent",
		NewValue:     intent,
		Confidence:   0.8,
		Operation:    "upsert",
		EvidenceRefs: evidence,
		Scope:        "actor",
		Reason:       fmt.Sprintf("Intent '%s' completed successfully", intent),
	})
	if who := packet.IntentSlots["who"]; who != "" {
		updates = append(updates, contracts.MemoryUpdate{
			Field: fmt.Sprintf("last_interaction_%s", who),
			NewValue: map[string]any{
				"action": packet.IntentSlots["what"],
				"mode":   packet.ExecutionMode,
			},
			Confidence:   0.7,
			Operation:    "upsert",
			EvidenceRefs: evidence,
			Scope:        "actor",
			Reason:       fmt.Sprintf("Interaction with %s completed", who),
		})
	}
	if template := packet.IntentSlots["template"]; template != "" {
		updates = append(updates, contracts.MemoryUpdate{
			Field: fmt.Sprintf("template_success_%s", template),
			NewValue: map[string]any{
				"intent_type": intent,
				"result":      signal.Result,
			},
			Confidence:   0.6,
			Operation:    "append",
			EvidenceRefs: evidence,
			Scope:        "workspace",
			Reason:       fmt.Sprintf("Template %s produced an accepted action", template),
		})
	}

	if signal.Feedback == contracts.FeedbackEdit {
		updates = append(updates, contracts.MemoryUpdate{
			Field:          "preference_edits",
			NewValue:       map[string]any{"comment": signal.Comment, "intent_type": intent},
			Confidence:     0.5,
			Operation:      "append",
			EvidenceRefs:   []string{"feedback:edit"},
			Scope:          "actor",
			ReviewRequired: true,
			Reason:         "User edited the drafted action",
		})
	}

	return updates
}

// resolveWritePolicy is the total write gate: every candidate leaves with
// exactly one of AutoApproved or ReviewRequired set. The default is review;
// auto-approval must be earned.
func resolveWritePolicy(updates []contracts.MemoryUpdate, result, riskLevel string) []contracts.MemoryUpdate {
	out := make([]contracts.MemoryUpdate, len(updates))
	for i, u := range updates {
		u.AutoApproved = false
		switch {
		case u.ReviewRequired:
			// Candidate arrived pre-flagged for review.
		case hasAnyPrefix(u.Field, reviewFieldPrefixes):
			u.ReviewRequired = true
		case hasAnyPrefix(u.Field, safeFieldPrefixes) &&
			u.Confidence >= autoWriteConfidence &&
			executed(result) && riskLevel != contracts.RiskHigh:
			u.AutoApproved = true
		case u.Confidence >= autoWriteConfidence && riskLevel == contracts.RiskLow:
			u.AutoApproved = true
		default:
			u.ReviewRequired = true
		}
		out[i] = u
	}
	return out
}

func hasAnyPrefix(field string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(field, p) {
			return true
		}
	}
	return false
}
