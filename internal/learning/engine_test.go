package learning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstem/internal/contracts"
)

func approvedFollowUpPacket() contracts.DecisionPacket {
	return contracts.DecisionPacket{
		IntentType:    contracts.IntentFollowUp,
		ExecutionMode: contracts.ModeNeedsApproval,
		ActionPlan: contracts.ActionPlan{
			Steps: make([]contracts.ActionStep, 4),
			ToolCalls: []contracts.ToolCallDraft{
				{ToolName: "mail", Method: "send_draft"},
			},
		},
		Reasons: []string{"Risk level: medium", "Policy status: needs_approval"},
		IntentSlots: map[string]string{
			"who":      "Investor X",
			"what":     "Send follow-up message",
			"template": "vip_follow_up_template",
		},
		Metrics: contracts.DecisionMetrics{StepsPlanned: 4, ToolCallsDrafted: 1},
	}
}

func TestRunApprovedFollowUp(t *testing.T) {
	e := NewEngine(nil)
	report, err := e.Run(context.Background(), approvedFollowUpPacket(), ExecutionSignal{
		Result:    contracts.ResultApproved,
		Feedback:  contracts.FeedbackApprove,
		LatencyMS: 1200,
	})
	require.NoError(t, err)

	assert.Equal(t, contracts.ResultApproved, report.Outcome)

	byField := map[string]contracts.MemoryUpdate{}
	for _, u := range report.MemoryUpdates {
		byField[u.Field] = u
	}
	require.Len(t, report.MemoryUpdates, 3)

	// Safe field, high confidence, executed, risk below high: auto.
	lsi := byField["last_successful_intent"]
	assert.True(t, lsi.AutoApproved)
	assert.False(t, lsi.ReviewRequired)
	assert.Equal(t, contracts.IntentFollowUp, lsi.NewValue)
	assert.Equal(t, "upsert", lsi.Operation)
	assert.Equal(t, []string{"outcome:approved"}, lsi.EvidenceRefs)

	// Not a safe field and risk is medium: queued.
	interaction := byField["last_interaction_Investor X"]
	assert.False(t, interaction.AutoApproved)
	assert.True(t, interaction.ReviewRequired)

	// Template fields always queue for review.
	tmpl := byField["template_success_vip_follow_up_template"]
	assert.False(t, tmpl.AutoApproved)
	assert.True(t, tmpl.ReviewRequired)

	// Approved via the approval gate suggests loosening the threshold.
	require.Len(t, report.PolicySuggestions, 1)
	s := report.PolicySuggestions[0]
	assert.Equal(t, "threshold_change", s.SuggestionType)
	assert.Equal(t, "low", s.Priority)
	assert.Equal(t, "approval_threshold", s.ProposedChange["target"])
	assert.Equal(t, "lower", s.ProposedChange["direction"])

	assert.Equal(t, 0.8, report.EvalMetrics.QualityScore)
	assert.Equal(t, 1.0, report.EvalMetrics.SuccessRate)
	assert.Equal(t, []string{"mail.send_draft"}, report.OutcomeRecord.SideEffects)
	assert.Equal(t, 200, report.OutcomeRecord.TokenUsage)

	assert.Equal(t, 3, report.Metrics.UpdatesProposed)
	assert.Equal(t, 1, report.Metrics.UpdatesAutoApproved)
	assert.Equal(t, 2, report.Metrics.UpdatesQueuedReview)
	assert.Equal(t, LearningVersion, report.Version)
}

func TestWriteGateTotality(t *testing.T) {
	signals := []ExecutionSignal{
		{Result: contracts.ResultApproved, Feedback: contracts.FeedbackApprove},
		{Result: contracts.ResultAutoExecuted},
		{Result: contracts.ResultRejected, Feedback: contracts.FeedbackReject, Comment: "wrong tone"},
		{Result: contracts.ResultFailed, ToolErrors: []contracts.ToolError{{Tool: "mail", Message: "timeout", Retried: true}}},
		{Result: contracts.ResultApproved, Feedback: contracts.FeedbackEdit, Comment: "softer wording"},
		{Result: contracts.ResultPending},
	}
	for _, signal := range signals {
		report, err := NewEngine(nil).Run(context.Background(), approvedFollowUpPacket(), signal)
		require.NoError(t, err)
		if !executed(signal.Result) {
			assert.Empty(t, report.MemoryUpdates,
				"non-executed outcome must not write memory (signal %+v)", signal)
			continue
		}
		for _, u := range report.MemoryUpdates {
			assert.NotEqual(t, u.AutoApproved, u.ReviewRequired,
				"field %s must resolve to exactly one flag (signal %+v)", u.Field, signal)
		}
	}
}

func TestRunFailureWritesNoMemory(t *testing.T) {
	packet := approvedFollowUpPacket()
	report, err := NewEngine(nil).Run(context.Background(), packet, ExecutionSignal{
		Result: contracts.ResultFailed,
		ToolErrors: []contracts.ToolError{
			{Tool: "mail", Message: "smtp unavailable", Retried: true},
		},
		LatencyMS: 800,
	})
	require.NoError(t, err)

	// A failed run evaluates and suggests but never touches memory, even at
	// low risk where a candidate would auto-approve.
	assert.Empty(t, report.MemoryUpdates)
	assert.Equal(t, 0, report.Metrics.UpdatesProposed)
	assert.Equal(t, 0, report.Metrics.UpdatesAutoApproved)

	assert.Empty(t, report.OutcomeRecord.SideEffects)
	assert.Equal(t, 1, report.OutcomeRecord.Retries)
	// 0.5 - 0.4 failed - 0.1 for one tool error.
	assert.Equal(t, 0.0, report.EvalMetrics.QualityScore)
	assert.Contains(t, report.EvalMetrics.RedFlags, "Execution failed with tool errors")
	// Failure without reject feedback or approval generates no suggestions.
	assert.Empty(t, report.PolicySuggestions)
}

func TestRunFailureAtLowRiskStillWritesNoMemory(t *testing.T) {
	packet := approvedFollowUpPacket()
	packet.Reasons = []string{"Risk level: low", "Policy status: allow"}
	report, err := NewEngine(nil).Run(context.Background(), packet, ExecutionSignal{
		Result: contracts.ResultFailed,
	})
	require.NoError(t, err)
	assert.Empty(t, report.MemoryUpdates)
}

func TestRunRejectFeedbackSuggestsGuardrail(t *testing.T) {
	report, err := NewEngine(nil).Run(context.Background(), approvedFollowUpPacket(), ExecutionSignal{
		Result:   contracts.ResultRejected,
		Feedback: contracts.FeedbackReject,
		Comment:  "tone is off",
	})
	require.NoError(t, err)

	require.Len(t, report.PolicySuggestions, 1)
	assert.Equal(t, "guardrail", report.PolicySuggestions[0].SuggestionType)
	assert.Equal(t, "medium", report.PolicySuggestions[0].Priority)
	assert.Empty(t, report.MemoryUpdates)
	assert.Equal(t, 0.0, report.EvalMetrics.SuccessRate)
	// 0.5 - 0.3 rejected.
	assert.Equal(t, 0.2, report.EvalMetrics.QualityScore)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(nil).Run(ctx, approvedFollowUpPacket(), ExecutionSignal{
		Result: contracts.ResultApproved,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunEditFeedbackQueuesPreference(t *testing.T) {
	report, err := NewEngine(nil).Run(context.Background(), approvedFollowUpPacket(), ExecutionSignal{
		Result:   contracts.ResultApproved,
		Feedback: contracts.FeedbackEdit,
		Comment:  "shorter please",
	})
	require.NoError(t, err)

	found := false
	for _, u := range report.MemoryUpdates {
		if u.Field == "preference_edits" {
			found = true
			assert.True(t, u.ReviewRequired)
			assert.False(t, u.AutoApproved)
			assert.Equal(t, 0.5, u.Confidence)
		}
	}
	assert.True(t, found)
	// 0.5 + 0.3 approved - 0.1 edit.
	assert.Equal(t, 0.7, report.EvalMetrics.QualityScore)
}

func TestEvalRedFlags(t *testing.T) {
	packet := approvedFollowUpPacket()
	packet.Trace.RejectedOptions = []contracts.RejectedOption{
		{Option: "skip checks", RejectionReason: "policy violation risk"},
	}
	report, err := NewEngine(nil).Run(context.Background(), packet, ExecutionSignal{
		Result:    contracts.ResultApproved,
		LatencyMS: 9000,
		ToolErrors: []contracts.ToolError{
			{Tool: "mail", Message: "slow", Retried: true},
			{Tool: "mail", Message: "slow", Retried: true},
			{Tool: "mail", Message: "slow", Retried: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, report.EvalMetrics.RedFlagCount, len(report.EvalMetrics.RedFlags))
	assert.GreaterOrEqual(t, report.EvalMetrics.RedFlagCount, 3)
	assert.Contains(t, report.EvalMetrics.RedFlags, "Latency 9000ms exceeds 5000ms")
	assert.Contains(t, report.EvalMetrics.RedFlags, "3 retries exceed the retry budget")
}

func TestRiskLevelFromReasons(t *testing.T) {
	assert.Equal(t, contracts.RiskHigh, riskLevelFromReasons([]string{"Risk level: high"}))
	assert.Equal(t, contracts.RiskMedium, riskLevelFromReasons([]string{"Risk level: medium"}))
	assert.Equal(t, contracts.RiskLow, riskLevelFromReasons([]string{"Risk level: low"}))
	assert.Equal(t, contracts.RiskLow, riskLevelFromReasons(nil))
	assert.Equal(t, contracts.RiskLow, riskLevelFromReasons([]string{"nothing relevant"}))
}
