package contracts

// RetrievalBudget caps how much the retrieval stage may fetch.
type RetrievalBudget struct {
	MaxToolCalls   int `json:"max_tool_calls"`
	MaxMemoryItems int `json:"max_memory_items"`
	MaxTokens      int `json:"max_tokens"`
	MaxPrecedents  int `json:"max_precedents"`
}

// QueryPlan is the structured retrieval plan produced by the query builder.
// It controls what to fetch, from where, and how deep.
type QueryPlan struct {
	IntentType       string         `json:"intent_type"`
	RawIntent        string         `json:"raw_intent"`
	RequiredContexts []string       `json:"required_contexts"`
	Entities         []string       `json:"entities"`
	Budget           RetrievalBudget `json:"budget"`
	// TTLOverrides maps tool name to TTL seconds, overriding the
	// provider-reported TTL.
	TTLOverrides map[string]int `json:"ttl_overrides"`
}

// Requires reports whether a context section is part of the plan.
func (p QueryPlan) Requires(section string) bool {
	for _, c := range p.RequiredContexts {
		if c == section {
			return true
		}
	}
	return false
}
