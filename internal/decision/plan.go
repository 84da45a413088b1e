package decision

import (
	"strings"

	"brainstem/internal/contracts"
)

// buildActionPlan produces the step template for an intent and drafts its
// tool calls. Nothing here executes; the plan is data handed outward.
func buildActionPlan(intentType string, slots map[string]string) contracts.ActionPlan {
	var plan contracts.ActionPlan
	switch intentType {
	case contracts.IntentFollowUp:
		plan = contracts.ActionPlan{
			Steps: []contracts.ActionStep{
				{Description: "Draft follow-up message", Tool: "email_drafter", DependsOn: -1, Order: 0},
				{Description: "Preview draft for user", DependsOn: 0, Order: 1},
				{Description: "Wait for approval", Tool: "approval_gate", DependsOn: 1, Order: 2},
				{Description: "Send follow-up via mail", Tool: "mail", DependsOn: 2, Order: 3},
			},
			ToolCalls: []contracts.ToolCallDraft{
				{ToolName: "mail", Method: "send_draft",
					Payload:  map[string]any{"template": "follow_up", "schedule": true},
					Fallback: "Save as draft and notify user"},
			},
			Fallbacks: []string{
				"If mail unavailable, save draft locally",
				"If approval times out, remind approver after 4h",
			},
		}
	case contracts.IntentReplyEmail:
		plan = contracts.ActionPlan{
			Steps: []contracts.ActionStep{
				{Description: "Summarize thread context", Tool: "mail", DependsOn: -1, Order: 0},
				{Description: "Draft reply", Tool: "email_drafter", DependsOn: 0, Order: 1},
				{Description: "Preview draft for user", DependsOn: 1, Order: 2},
				{Description: "Send reply via mail", Tool: "mail", DependsOn: 2, Order: 3},
			},
			ToolCalls: []contracts.ToolCallDraft{
				{ToolName: "mail", Method: "reply",
					Payload:  map[string]any{"in_reply_to": true},
					Fallback: "Save as draft and notify user"},
			},
			Fallbacks: []string{"If mail unavailable, save draft locally"},
		}
	case contracts.IntentColdOutreach:
		plan = contracts.ActionPlan{
			Steps: []contracts.ActionStep{
				{Description: "Research recipient background", DependsOn: -1, Order: 0},
				{Description: "Draft personalized intro", Tool: "email_drafter", DependsOn: 0, Order: 1},
				{Description: "Review against outreach policy", DependsOn: 1, Order: 2},
				{Description: "Wait for approval", Tool: "approval_gate", DependsOn: 2, Order: 3},
				{Description: "Send outreach via mail", Tool: "mail", DependsOn: 3, Order: 4},
			},
			ToolCalls: []contracts.ToolCallDraft{
				{ToolName: "mail", Method: "send_draft",
					Payload:  map[string]any{"template": "cold_outreach"},
					Fallback: "Save as draft and notify user"},
			},
			Fallbacks: []string{"If mail unavailable, save draft locally"},
		}
	case contracts.IntentScheduleMeeting:
		plan = contracts.ActionPlan{
			Steps: []contracts.ActionStep{
				{Description: "Check calendar availability", Tool: "calendar", DependsOn: -1, Order: 0},
				{Description: "Propose meeting slots", DependsOn: 0, Order: 1},
				{Description: "Create calendar event", Tool: "calendar", DependsOn: 1, Order: 2},
			},
			ToolCalls: []contracts.ToolCallDraft{
				{ToolName: "calendar", Method: "create_event",
					Payload:  map[string]any{"type": "meeting"},
					Fallback: "Propose times manually"},
			},
			Fallbacks: []string{"If calendar unavailable, ask user for availability"},
		}
	case contracts.IntentSendEmail:
		plan = contracts.ActionPlan{
			Steps: []contracts.ActionStep{
				{Description: "Draft email", Tool: "email_drafter", DependsOn: -1, Order: 0},
				{Description: "Preview draft for user", DependsOn: 0, Order: 1},
				{Description: "Send email via mail", Tool: "mail", DependsOn: 1, Order: 2},
			},
			ToolCalls: []contracts.ToolCallDraft{
				{ToolName: "mail", Method: "send_draft",
					Payload:  map[string]any{"template": "standard"},
					Fallback: "Save as draft and notify user"},
			},
			Fallbacks: []string{"If mail unavailable, save draft locally"},
		}
	default:
		plan = contracts.ActionPlan{
			Steps: []contracts.ActionStep{
				{Description: "Process request and summarize findings", DependsOn: -1, Order: 0},
			},
			ToolCalls: []contracts.ToolCallDraft{},
			Fallbacks: []string{},
		}
	}

	for i := range plan.ToolCalls {
		if who := slots["who"]; who != "" {
			plan.ToolCalls[i].Payload["recipient"] = who
		}
		plan.ToolCalls[i].Payload["template"] = slots["template"]
		plan.ToolCalls[i].Payload["schedule_time"] = slots["when"]
	}
	return plan
}

// applyConstraints enforces judgement constraints on a copy of the plan and
// reports how many constraints it applied. The input plan is not mutated.
func applyConstraints(plan contracts.ActionPlan, constraints []string) (contracts.ActionPlan, int) {
	out := clonePlan(plan)
	applied := 0
	for _, c := range constraints {
		lower := strings.ToLower(c)
		switch {
		case strings.HasPrefix(lower, "must not:"):
			out.Fallbacks = append([]string{"BLOCKED: " + c}, out.Fallbacks...)
		case strings.HasPrefix(lower, "must:") && strings.Contains(lower, "approval"):
			out.Steps = ensureApprovalGate(out.Steps)
		case strings.HasPrefix(lower, "should:") && strings.Contains(lower, "template"):
			parts := strings.Split(c, ":")
			name := strings.TrimSpace(parts[len(parts)-1])
			for i := range out.ToolCalls {
				out.ToolCalls[i].Payload["constraint_template"] = name
			}
		case strings.HasPrefix(lower, "should:") && strings.Contains(lower, "tone"):
			words := strings.Fields(c)
			if len(words) >= 2 {
				tone := words[len(words)-2]
				for i := range out.ToolCalls {
					out.ToolCalls[i].Payload["tone"] = tone
				}
			}
		default:
			out.Fallbacks = append(out.Fallbacks, "Constraint: "+c)
		}
		applied++
	}
	return out, applied
}

// ensureApprovalGate inserts an approval step before the final step when
// the plan has none.
func ensureApprovalGate(steps []contracts.ActionStep) []contracts.ActionStep {
	for _, s := range steps {
		if s.Tool == "approval_gate" {
			return steps
		}
	}
	if len(steps) == 0 {
		return []contracts.ActionStep{
			{Description: "Wait for approval", Tool: "approval_gate", DependsOn: -1, Order: 0},
		}
	}
	insertAt := len(steps) - 1
	gate := contracts.ActionStep{
		Description: "Wait for approval",
		Tool:        "approval_gate",
		DependsOn:   insertAt - 1,
	}
	out := append([]contracts.ActionStep{}, steps[:insertAt]...)
	out = append(out, gate)
	last := steps[insertAt]
	last.DependsOn = insertAt
	out = append(out, last)
	for i := range out {
		out[i].Order = i
	}
	return out
}

func clonePlan(plan contracts.ActionPlan) contracts.ActionPlan {
	out := contracts.ActionPlan{
		Steps:     append([]contracts.ActionStep{}, plan.Steps...),
		ToolCalls: make([]contracts.ToolCallDraft, len(plan.ToolCalls)),
		Fallbacks: append([]string{}, plan.Fallbacks...),
	}
	for i, tc := range plan.ToolCalls {
		payload := make(map[string]any, len(tc.Payload))
		for k, v := range tc.Payload {
			payload[k] = v
		}
		tc.Payload = payload
		out.ToolCalls[i] = tc
	}
	return out
}
