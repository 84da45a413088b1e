package contracts

// ActionStep is one ordered step in an action plan.
type ActionStep struct {
	Description string `json:"description"`
	Tool        string `json:"tool"`       // empty = no tool
	DependsOn   int    `json:"depends_on"` // index of prerequisite step, -1 = none
	Order       int    `json:"order"`
}

// ToolCallDraft is a planned tool invocation. Nothing is executed here.
type ToolCallDraft struct {
	ToolName string         `json:"tool_name"`
	Method   string         `json:"method"`
	Payload  map[string]any `json:"payload"`
	Fallback string         `json:"fallback"`
}

// ActionPlan is the ordered plan plus drafted tool calls and fallbacks.
type ActionPlan struct {
	Steps     []ActionStep    `json:"steps"`
	ToolCalls []ToolCallDraft `json:"tool_calls"`
	Fallbacks []string        `json:"fallbacks"`
}

// ExecutionDetail carries the resolved execution mode and its context.
type ExecutionDetail struct {
	Mode              string   `json:"mode"`
	ApprovalsRequired []string `json:"approvals_required"`
	Questions         []string `json:"questions"`
	Rationale         []string `json:"rationale"`
}

// RejectedOption records an alternative that was considered and not taken.
type RejectedOption struct {
	Option          string `json:"option"`
	RejectionReason string `json:"rejection_reason"`
}

// DecisionTrace is the audit trail for one decision.
type DecisionTrace struct {
	Why             []string         `json:"why"`
	Policies        []string         `json:"policies"`
	Factors         []string         `json:"factors"`
	Sources         []string         `json:"sources"`
	RejectedOptions []RejectedOption `json:"rejected_options"`
}

// UIBlock is one renderable block of the user-facing response.
type UIBlock struct {
	BlockType string `json:"block_type"` // draft | reason | action_button | info
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// SaveInstruction tells a collaborator what to persist after the decision.
// The core emits these as data; applying them is the collaborator's job.
type SaveInstruction struct {
	Store string `json:"store"` // decision_log | memory | outcome
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// BrainResponse is the packaged user-facing output.
type BrainResponse struct {
	UserMessage      string            `json:"user_message"`
	UIBlocks         []UIBlock         `json:"ui_blocks"`
	ToolInstructions []ToolCallDraft   `json:"tool_instructions"`
	SaveInstructions []SaveInstruction `json:"save_instructions"`
}

// DecisionMetrics summarizes the decision run.
type DecisionMetrics struct {
	DecisionTimeMS     float64 `json:"decision_time_ms"`
	StepsPlanned       int     `json:"steps_planned"`
	ToolCallsDrafted   int     `json:"tool_calls_drafted"`
	ConstraintsApplied int     `json:"constraints_applied"`
}

// DecisionPacket is the complete decision stage output.
type DecisionPacket struct {
	IntentType    string            `json:"intent_type"`
	ExecutionMode string            `json:"execution_mode"`
	ActionPlan    ActionPlan        `json:"action_plan"`
	Reasons       []string          `json:"reasons"`
	IntentSlots   map[string]string `json:"intent_slots"`
	Execution     ExecutionDetail   `json:"execution_detail"`
	Trace         DecisionTrace     `json:"decision_trace"`
	Response      BrainResponse     `json:"brain_response"`
	Metrics       DecisionMetrics   `json:"decision_metrics"`
	Version       string            `json:"decision_version"`
}
