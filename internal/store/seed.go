package store

import (
	"fmt"

	"brainstem/internal/contracts"
)

// Seed loads the reference dataset: workspace w1, actor u1 memory, the
// default governance policies, demo precedents and a few knowledge chunks.
// embed, when non-nil, computes chunk embeddings at seed time.
func (s *Store) Seed(embed func(text string) []float32) error {
	memories := []MemoryItem{
		{
			ID: "m1", WorkspaceID: "w1", ActorID: "u1", MemoryType: "preference",
			Content:    map[string]any{"tone": "confident", "send_window": "09:00"},
			Confidence: 0.9,
		},
		{
			ID: "m2", WorkspaceID: "w1", ActorID: "u1", MemoryType: "entity",
			Content: map[string]any{
				"Investor X": map[string]any{"tier": "VIP", "email": "x@fund.example"},
			},
			Confidence: 0.95,
		},
		{
			ID: "m3", WorkspaceID: "w1", ActorID: "u1", MemoryType: "entity",
			Content: map[string]any{
				"John Smith": map[string]any{"tier": "standard", "email": "john@acme.example"},
			},
			Confidence: 0.8,
		},
		{
			ID: "m4", WorkspaceID: "w1", ActorID: "u1", MemoryType: "episodic",
			Content:    map[string]any{"event": "Sent intro deck to Investor X", "at": "2026-02-10T09:00:00Z"},
			Confidence: 0.7,
		},
		{
			ID: "m5", WorkspaceID: "w1", ActorID: "u1", MemoryType: "outcome",
			Content:    map[string]any{"intent": "follow_up", "result": "success"},
			Confidence: 0.8,
		},
	}
	for _, m := range memories {
		if err := s.PutMemoryItem(m); err != nil {
			return fmt.Errorf("seed memory: %w", err)
		}
	}

	policies := []contracts.PolicyRule{
		{
			ID: "P_VIP_APPROVAL", WorkspaceID: "w1", PolicyType: "org",
			Condition: contracts.PolicyCondition{RecipientTier: "VIP"},
			Effect:    contracts.PolicyEffect{RequiresApproval: true},
			Priority:  10, Active: true,
		},
		{
			ID: "P_COLD_OUTREACH_REVIEW", WorkspaceID: "w1", PolicyType: "risk",
			Condition: contracts.PolicyCondition{IntentType: contracts.IntentColdOutreach},
			Effect:    contracts.PolicyEffect{RequiresApproval: true, RiskFlag: "external_first_contact"},
			Priority:  8, Active: true,
		},
		{
			ID: "P_NO_WEEKENDS", WorkspaceID: "w1", PolicyType: "org",
			Condition: contracts.PolicyCondition{DaysOfWeek: []string{"saturday", "sunday"}},
			Effect:    contracts.PolicyEffect{DelayUntil: "next_monday"},
			Priority:  5, Active: true,
		},
	}
	for _, p := range policies {
		if err := s.PutPolicy(p); err != nil {
			return fmt.Errorf("seed policy: %w", err)
		}
	}

	precedents := []DecisionLog{
		{
			ID: "d1", WorkspaceID: "w1", ActorID: "u1", IntentType: contracts.IntentFollowUp,
			DecisionSummary: "Drafted follow-up email using warm template, scheduled for 9am.",
			Outcome:         "success", OutcomeScore: 0.9, CreatedAt: "2026-02-20T09:00:00Z",
		},
		{
			ID: "d2", WorkspaceID: "w1", ActorID: "u1", IntentType: contracts.IntentFollowUp,
			DecisionSummary: "Sent aggressive follow-up. Investor responded negatively.",
			Outcome:         "failure", OutcomeScore: 0.2, CreatedAt: "2026-02-15T14:00:00Z",
		},
		{
			ID: "d3", WorkspaceID: "w1", ActorID: "u1", IntentType: contracts.IntentScheduleMeeting,
			DecisionSummary: "Scheduled meeting at investor's preferred time slot.",
			Outcome:         "success", OutcomeScore: 0.95, CreatedAt: "2026-02-18T10:00:00Z",
		},
	}
	for _, d := range precedents {
		if err := s.PutDecisionLog(d); err != nil {
			return fmt.Errorf("seed precedent: %w", err)
		}
	}

	chunks := []Chunk{
		{
			WorkspaceID: "w1",
			Content:     "Investor X prefers concise updates with one clear ask per email.",
			Metadata:    map[string]any{"kind": "note", "entity": "Investor X"},
		},
		{
			WorkspaceID: "w1",
			Content:     "Follow-ups sent in the morning window get the highest reply rate.",
			Metadata:    map[string]any{"kind": "playbook"},
		},
		{
			WorkspaceID: "w1",
			Content:     "Cold outreach must reference a shared connection or recent event.",
			Metadata:    map[string]any{"kind": "playbook"},
		},
	}
	for _, c := range chunks {
		if embed != nil {
			c.Embedding = embed(c.Content)
		}
		if _, err := s.AddChunk(c); err != nil {
			return fmt.Errorf("seed chunk: %w", err)
		}
	}

	return nil
}
