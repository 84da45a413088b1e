// Package contracts defines the typed records that flow between the four
// pipeline stages (retrieval, judgement, decision, learning).
// This package exists so every stage can share types without import cycles;
// it carries data only and has no dependencies beyond the standard library.
package contracts

// Clamp01 clamps a score to the [0,1] range. Every numeric score in a
// cross-stage record must pass through this after computation.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Context section names used in QueryPlan.RequiredContexts.
const (
	ContextScope      = "scope"
	ContextMemory     = "memory"
	ContextTools      = "tools"
	ContextPolicies   = "policies"
	ContextPrecedents = "precedents"
)

// Canonical intent types produced by the query builder.
const (
	IntentFollowUp        = "follow_up"
	IntentScheduleMeeting = "schedule_meeting"
	IntentReplyEmail      = "reply_email"
	IntentColdOutreach    = "cold_outreach"
	IntentSendEmail       = "send_email"
	IntentGeneral         = "general"
)

// Execution modes emitted by the decision mode gate.
const (
	ModeAutoExecute   = "auto_execute"
	ModeNeedsApproval = "needs_approval"
	ModeProposeOnly   = "propose_only"
	ModeAskClarifying = "ask_clarifying"
)

// Policy verdict statuses.
const (
	PolicyAllow         = "allow"
	PolicyDeny          = "deny"
	PolicyNeedsApproval = "needs_approval"
)

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Reversibility labels.
const (
	Reversible   = "reversible"
	Partial      = "partial"
	Irreversible = "irreversible"
)

// Execution results consumed by the learning engine.
const (
	ResultApproved     = "approved"
	ResultRejected     = "rejected"
	ResultAutoExecuted = "auto_executed"
	ResultFailed       = "failed"
	ResultPending      = "pending"
)

// User feedback values.
const (
	FeedbackApprove = "approve"
	FeedbackEdit    = "edit"
	FeedbackReject  = "reject"
)
