package learning

import (
	"fmt"

	"brainstem/internal/contracts"
)

// ExecutionSignal is what the caller observed after acting (or declining to
// act) on a decision packet.
type ExecutionSignal struct {
	// Result is one of approved | rejected | auto_executed | failed | pending.
	Result string
	// Feedback is the user's reaction: approve | edit | reject | "".
	Feedback string
	// Comment is free-form user commentary accompanying the feedback.
	Comment string
	// ToolErrors are the normalized tool failures seen during execution.
	ToolErrors []contracts.ToolError
	// LatencyMS is the end-to-end execution latency.
	LatencyMS float64
}

// executed reports whether the action actually ran.
func executed(result string) bool {
	return result == contracts.ResultApproved || result == contracts.ResultAutoExecuted
}

// tokensPerStep approximates the token cost of planning one step.
const tokensPerStep = 50

// buildOutcomeRecord normalizes the execution signal against the decision
// packet that produced it.
func buildOutcomeRecord(packet contracts.DecisionPacket, signal ExecutionSignal) contracts.OutcomeRecord {
	sideEffects := []string{}
	if executed(signal.Result) {
		for _, call := range packet.ActionPlan.ToolCalls {
			sideEffects = append(sideEffects, fmt.Sprintf("%s.%s", call.ToolName, call.Method))
		}
	}

	retries := 0
	for _, e := range signal.ToolErrors {
		if e.Retried {
			retries++
		}
	}

	toolErrors := signal.ToolErrors
	if toolErrors == nil {
		toolErrors = []contracts.ToolError{}
	}

	return contracts.OutcomeRecord{
		ExecutionResult: signal.Result,
		UserFeedback:    signal.Feedback,
		UserComment:     signal.Comment,
		ToolErrors:      toolErrors,
		Retries:         retries,
		SideEffects:     sideEffects,
		LatencyMS:       signal.LatencyMS,
		TokenUsage:      packet.Metrics.StepsPlanned * tokensPerStep,
		ToolCallCount:   packet.Metrics.ToolCallsDrafted,
	}
}
