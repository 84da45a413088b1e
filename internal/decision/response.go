package decision

import (
	"fmt"
	"strings"

	"brainstem/internal/contracts"
)

// modeMessages is the user-facing headline per execution mode.
var modeMessages = map[string]string{
	contracts.ModeAutoExecute:   "I'll handle this right away.",
	contracts.ModeNeedsApproval: "I've prepared this for you. Please review and approve.",
	contracts.ModeProposeOnly:   "Here's what I'd suggest. Let me know if you'd like to proceed.",
	contracts.ModeAskClarifying: "I need a bit more information before I can act.",
}

// buildResponse packages the decision for the user: headline message,
// renderable blocks, the drafted tool calls and the save instructions.
func buildResponse(intentType string, mode string, plan contracts.ActionPlan, slots map[string]string, trace contracts.DecisionTrace, execution contracts.ExecutionDetail) contracts.BrainResponse {
	message := modeMessages[mode]
	if message == "" {
		message = modeMessages[contracts.ModeProposeOnly]
	}
	message += fmt.Sprintf("\n\n**Action**: %s", slots["what"])
	if who := slots["who"]; who != "" {
		message += fmt.Sprintf(" → %s", who)
	}

	blocks := []contracts.UIBlock{}
	if len(plan.Steps) > 0 {
		lines := make([]string, 0, len(plan.Steps))
		for i, s := range plan.Steps {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, s.Description))
		}
		blocks = append(blocks, contracts.UIBlock{
			BlockType: "draft",
			Title:     "Planned action",
			Content:   strings.Join(lines, "\n"),
		})
	}
	if len(trace.Why) > 0 {
		why := trace.Why
		if len(why) > 5 {
			why = why[:5]
		}
		lines := make([]string, 0, len(why))
		for _, r := range why {
			lines = append(lines, "• "+r)
		}
		blocks = append(blocks, contracts.UIBlock{
			BlockType: "reason",
			Title:     "Why",
			Content:   strings.Join(lines, "\n"),
		})
	}
	switch mode {
	case contracts.ModeNeedsApproval:
		blocks = append(blocks, contracts.UIBlock{
			BlockType: "action_button",
			Title:     "Approve & Send",
			Content:   fmt.Sprintf("approve_%s", intentType),
		})
	case contracts.ModeAskClarifying:
		blocks = append(blocks, contracts.UIBlock{
			BlockType: "info",
			Title:     "Questions",
			Content:   strings.Join(execution.Questions, "\n"),
		})
	}

	saves := []contracts.SaveInstruction{
		{Store: "decision_log", Key: fmt.Sprintf("decision_%s", intentType),
			Value: map[string]any{
				"intent_type":    intentType,
				"execution_mode": mode,
				"slots":          slots,
			}},
		{Store: "outcome", Key: fmt.Sprintf("outcome_%s", intentType),
			Value: map[string]any{"status": "pending"}},
	}
	if who := slots["who"]; who != "" {
		saves = append(saves, contracts.SaveInstruction{
			Store: "memory",
			Key:   fmt.Sprintf("last_interaction_%s", who),
			Value: map[string]any{"action": slots["what"], "mode": mode},
		})
	}

	return contracts.BrainResponse{
		UserMessage:      message,
		UIBlocks:         blocks,
		ToolInstructions: plan.ToolCalls,
		SaveInstructions: saves,
	}
}
