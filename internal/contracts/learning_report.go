package contracts

// ToolError is one normalized tool failure observed during execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Retried bool   `json:"retried"`
}

// OutcomeRecord is the normalized result of executing (or not executing)
// a decided action.
type OutcomeRecord struct {
	ExecutionResult string      `json:"execution_result"` // approved | rejected | auto_executed | failed | pending
	UserFeedback    string      `json:"user_feedback"`    // approve | edit | reject | ""
	UserComment     string      `json:"user_comment"`
	ToolErrors      []ToolError `json:"tool_errors"`
	Retries         int         `json:"retries"`
	SideEffects     []string    `json:"side_effects"`
	LatencyMS       float64     `json:"latency_ms"`
	TokenUsage      int         `json:"token_usage"`
	ToolCallCount   int         `json:"tool_call_count"`
}

// MemoryUpdate is one proposed memory write. The write-policy gate resolves
// every candidate to exactly one of AutoApproved or ReviewRequired.
type MemoryUpdate struct {
	Field          string   `json:"field"`
	NewValue       any      `json:"new_value"`
	Confidence     float64  `json:"confidence"`
	Operation      string   `json:"operation"` // upsert | append | delete
	PreviousValue  any      `json:"previous_value"`
	EvidenceRefs   []string `json:"evidence_refs"`
	Scope          string   `json:"scope"` // workspace | actor | global
	AutoApproved   bool     `json:"auto_approved"`
	ReviewRequired bool     `json:"review_required"`
	Reason         string   `json:"reason"`
}

// PolicySuggestion is a human-reviewable governance change proposal.
// Suggestions are never applied by the core.
type PolicySuggestion struct {
	SuggestionType string         `json:"suggestion_type"` // new_policy | threshold_change | guardrail
	Description    string         `json:"description"`
	Evidence       []string       `json:"evidence"`
	Priority       string         `json:"priority"` // low | medium | high
	ProposedChange map[string]any `json:"proposed_change"`
}

// EvalMetrics is the per-run evaluation outcome.
type EvalMetrics struct {
	QualityScore  float64  `json:"quality_score"`
	DriftDetected bool     `json:"drift_detected"`
	DriftDetails  []string `json:"drift_details"`
	RedFlagCount  int      `json:"red_flag_count"`
	RedFlags      []string `json:"red_flags"`
	SuccessRate   float64  `json:"success_rate"`
	AvgLatencyMS  float64  `json:"avg_latency_ms"`
}

// LearningMetrics summarizes the learning run.
type LearningMetrics struct {
	LearningTimeMS       float64 `json:"learning_time_ms"`
	UpdatesProposed      int     `json:"updates_proposed"`
	UpdatesAutoApproved  int     `json:"updates_auto_approved"`
	UpdatesQueuedReview  int     `json:"updates_queued_review"`
	SuggestionsGenerated int     `json:"suggestions_generated"`
}

// LearningReport is the complete learning stage output.
type LearningReport struct {
	Outcome           string             `json:"outcome"`
	MemoryUpdates     []MemoryUpdate     `json:"memory_updates"`
	OutcomeRecord     OutcomeRecord      `json:"outcome_record"`
	PolicySuggestions []PolicySuggestion `json:"policy_suggestions"`
	EvalMetrics       EvalMetrics        `json:"eval_metrics"`
	Metrics           LearningMetrics    `json:"learning_metrics"`
	Version           string             `json:"learning_version"`
}
