package contracts

// ScopeContext identifies the tenant boundary a request runs in.
type ScopeContext struct {
	WorkspaceID string   `json:"workspace_id"`
	ActorID     string   `json:"actor_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the scope carries a permission.
func (s ScopeContext) HasPermission(perm string) bool {
	for _, p := range s.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// MemoryContext holds actor memory split by memory type.
type MemoryContext struct {
	// Preferences is the field-by-field merge of all preference items,
	// higher confidence winning per field.
	Preferences map[string]any `json:"preferences"`
	// EntityData maps entity name to its attributes (tier, email, ...).
	EntityData map[string]map[string]any `json:"entity_data"`
	Episodic   []map[string]any          `json:"episodic"`
	Outcomes   []map[string]any          `json:"outcomes"`
}

// NewMemoryContext returns a MemoryContext with all sections allocated.
func NewMemoryContext() MemoryContext {
	return MemoryContext{
		Preferences: map[string]any{},
		EntityData:  map[string]map[string]any{},
		Episodic:    []map[string]any{},
		Outcomes:    []map[string]any{},
	}
}

// PolicyCondition is the closed set of condition keys a policy may match on.
// A zero value means the key is not populated and does not constrain.
type PolicyCondition struct {
	IntentType    string   `json:"intent_type,omitempty"`
	RecipientTier string   `json:"recipient_tier,omitempty"`
	DaysOfWeek    []string `json:"day_of_week,omitempty"`
}

// PolicyEffect is the closed set of effect keys a policy may carry.
type PolicyEffect struct {
	RequiresApproval bool   `json:"requires_approval,omitempty"`
	Deny             bool   `json:"deny,omitempty"`
	RiskFlag         string `json:"risk_flag,omitempty"`
	DelayUntil       string `json:"delay_until,omitempty"`
	Template         string `json:"template,omitempty"`
}

// PolicyRule is one governance rule loaded for a workspace.
type PolicyRule struct {
	ID          string          `json:"id"`
	WorkspaceID string          `json:"workspace_id"`
	PolicyType  string          `json:"policy_type"`
	Condition   PolicyCondition `json:"condition"`
	Effect      PolicyEffect    `json:"effect"`
	Priority    int             `json:"priority"`
	Active      bool            `json:"active"`
}

// PolicyMatchTrace records the match outcome for one evaluated policy,
// matched or not.
type PolicyMatchTrace struct {
	PolicyID   string `json:"policy_id"`
	PolicyType string `json:"policy_type"`
	Matched    bool   `json:"matched"`
	Reason     string `json:"reason"`
}

// PolicyContext holds the intent-applicable rules plus the evaluation trace.
type PolicyContext struct {
	Rules []PolicyRule       `json:"rules"`
	Trace []PolicyMatchTrace `json:"trace"`
}

// ToolContext holds per-tool state snapshots and their staleness flags.
type ToolContext struct {
	Snapshots  map[string]map[string]any `json:"snapshots"`
	StaleFlags map[string]bool           `json:"stale_flags"`
}

// NewToolContext returns a ToolContext with maps allocated.
func NewToolContext() ToolContext {
	return ToolContext{
		Snapshots:  map[string]map[string]any{},
		StaleFlags: map[string]bool{},
	}
}

// RelevantChunk is one semantic search hit.
type RelevantChunk struct {
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata"`
}

// Precedent is one ranked past decision.
type Precedent struct {
	ID              string  `json:"id"`
	IntentType      string  `json:"intent_type"`
	DecisionSummary string  `json:"decision_summary"`
	Outcome         string  `json:"outcome"`
	OutcomeScore    float64 `json:"outcome_score"`
	RankScore       float64 `json:"rank_score"`
	CreatedAt       string  `json:"created_at"`
}

// PrecedentContext holds past decisions ranked by outcome quality.
type PrecedentContext struct {
	PastDecisions []Precedent `json:"past_decisions"`
}

// SourceRef cites where a retrieved fact came from.
type SourceRef struct {
	SourceType string  `json:"source_type"`
	SourceID   string  `json:"source_id"`
	Confidence float64 `json:"confidence"`
}

// RetrievalMetrics summarizes what retrieval fetched.
type RetrievalMetrics struct {
	TotalMemoryItems     int     `json:"total_memory_items"`
	TotalToolCalls       int     `json:"total_tool_calls"`
	TotalPrecedents      int     `json:"total_precedents"`
	TotalPoliciesMatched int     `json:"total_policies_matched"`
	RetrievalTimeMS      float64 `json:"retrieval_time_ms"`
	EstimatedTokens      int     `json:"estimated_tokens"`
}

// ContextBundle is the complete retrieved input for one decision.
// It is built once per request and never mutated after being handed to the
// judgement engine.
type ContextBundle struct {
	Scope          ScopeContext     `json:"scope"`
	Memory         MemoryContext    `json:"memory"`
	Policy         PolicyContext    `json:"policy"`
	Tools          ToolContext      `json:"tools"`
	RelevantChunks []RelevantChunk  `json:"relevant_chunks"`
	Precedents     PrecedentContext `json:"precedents"`
	SourceMap      []SourceRef      `json:"source_map"`
	Metrics        RetrievalMetrics `json:"metrics"`
	QueryPlanRef   QueryPlan        `json:"query_plan_ref"`
	Version        string           `json:"context_bundle_version"`
}
