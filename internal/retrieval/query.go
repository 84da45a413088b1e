package retrieval

import (
	"regexp"
	"sort"
	"strings"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
)

// intentKeywords maps intent types to trigger phrases. Order matters:
// classification is first match wins, so more specific intents come first.
var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{contracts.IntentFollowUp, []string{"follow up", "follow-up", "followup", "chase", "nudge"}},
	{contracts.IntentScheduleMeeting, []string{"schedule", "meeting", "calendar", "book a call", "set up a call"}},
	{contracts.IntentReplyEmail, []string{"reply", "respond", "answer", "get back to"}},
	{contracts.IntentColdOutreach, []string{"cold", "outreach", "introduce myself", "reach out", "first email"}},
	{contracts.IntentSendEmail, []string{"send email", "send mail", "write email", "draft email", "compose"}},
}

// requiredContexts lists the bundle sections each intent type needs.
var requiredContexts = map[string][]string{
	contracts.IntentFollowUp:        {contracts.ContextScope, contracts.ContextMemory, contracts.ContextTools, contracts.ContextPolicies, contracts.ContextPrecedents},
	contracts.IntentScheduleMeeting: {contracts.ContextScope, contracts.ContextMemory, contracts.ContextTools, contracts.ContextPolicies},
	contracts.IntentReplyEmail:      {contracts.ContextScope, contracts.ContextMemory, contracts.ContextTools, contracts.ContextPolicies, contracts.ContextPrecedents},
	contracts.IntentColdOutreach:    {contracts.ContextScope, contracts.ContextMemory, contracts.ContextPolicies, contracts.ContextPrecedents},
	contracts.IntentSendEmail:       {contracts.ContextScope, contracts.ContextMemory, contracts.ContextTools, contracts.ContextPolicies},
	contracts.IntentGeneral:         {contracts.ContextScope, contracts.ContextMemory, contracts.ContextPolicies},
}

var entityPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]*)+)\b`)

// stopPhrases are capitalized word runs that are never entities.
var stopPhrases = map[string]bool{
	"Follow Up":    true,
	"Dear Sir":     true,
	"Dear Madam":   true,
	"Best Regards": true,
}

// actionVerbs are leading words stripped from entity candidates when the
// intent sentence starts mid-phrase ("Email Investor X" -> "Investor X").
var actionVerbs = map[string]bool{
	"Email": true, "Send": true, "Reply": true, "Draft": true,
	"Schedule": true, "Book": true, "Check": true, "Follow": true,
	"Get": true, "Set": true, "Make": true, "Write": true,
}

// ClassifyIntent maps a raw intent string to a canonical intent type.
// Unrecognized intents fall through to general.
func ClassifyIntent(rawIntent string) string {
	lower := strings.ToLower(rawIntent)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.intent
			}
		}
	}
	return contracts.IntentGeneral
}

// ExtractEntities pulls capitalized multi-word names out of a raw intent.
// Leading action verbs are stripped, known non-name phrases dropped, and
// first-seen order preserved.
func ExtractEntities(rawIntent string) []string {
	entities := []string{}
	seen := map[string]bool{}
	for _, m := range entityPattern.FindAllString(rawIntent, -1) {
		candidate := m
		if stopPhrases[candidate] {
			continue
		}
		words := strings.Fields(candidate)
		if len(words) > 1 && actionVerbs[words[0]] {
			rest := strings.Join(words[1:], " ")
			if rest == "" || rest[0] < 'A' || rest[0] > 'Z' {
				continue
			}
			candidate = rest
		}
		if stopPhrases[candidate] || seen[candidate] {
			continue
		}
		seen[candidate] = true
		entities = append(entities, candidate)
	}
	return entities
}

// BuildQueryPlan produces the retrieval plan for a raw intent: the intent
// classification, the context sections to fetch, extracted entities, depth
// budgets and tool TTL overrides.
func BuildQueryPlan(cfg config.RetrievalConfig, rawIntent string) contracts.QueryPlan {
	intentType := ClassifyIntent(rawIntent)

	contexts, ok := requiredContexts[intentType]
	if !ok {
		contexts = []string{contracts.ContextScope, contracts.ContextPolicies}
	}
	sorted := make([]string, len(contexts))
	copy(sorted, contexts)
	sort.Strings(sorted)

	plan := contracts.QueryPlan{
		IntentType:       intentType,
		RawIntent:        rawIntent,
		RequiredContexts: sorted,
		Entities:         ExtractEntities(rawIntent),
		Budget: contracts.RetrievalBudget{
			MaxToolCalls:   cfg.MaxToolCalls,
			MaxMemoryItems: cfg.MaxMemoryItems,
			MaxTokens:      cfg.MaxTokens,
			MaxPrecedents:  cfg.MaxPrecedents,
		},
		TTLOverrides: map[string]int{},
	}
	if plan.Requires(contracts.ContextTools) {
		for tool, ttl := range cfg.ToolTTLSeconds {
			plan.TTLOverrides[tool] = ttl
		}
	}
	return plan
}
