package store

import (
	"fmt"
)

// DecisionLog is one persisted past decision.
type DecisionLog struct {
	ID              string
	WorkspaceID     string
	ActorID         string
	IntentType      string
	DecisionSummary string
	Outcome         string
	OutcomeScore    float64
	CreatedAt       string
}

// GetPrecedentsByIntent returns up to limit past decisions for an intent
// type in a workspace, newest first.
func (s *Store) GetPrecedentsByIntent(workspaceID, intentType string, limit int) ([]DecisionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return []DecisionLog{}, nil
	}
	rows, err := s.db.Query(
		`SELECT id, workspace_id, actor_id, intent_type, decision_summary, outcome, outcome_score, created_at
		 FROM decision_logs WHERE workspace_id = ? AND intent_type = ?
		 ORDER BY created_at DESC, id LIMIT ?`, workspaceID, intentType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision logs: %w", err)
	}
	defer rows.Close()

	logs := []DecisionLog{}
	for rows.Next() {
		var d DecisionLog
		if err := rows.Scan(&d.ID, &d.WorkspaceID, &d.ActorID, &d.IntentType, &d.DecisionSummary, &d.Outcome, &d.OutcomeScore, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision log: %w", err)
		}
		logs = append(logs, d)
	}
	return logs, rows.Err()
}

// PutDecisionLog inserts or replaces a past decision record.
func (s *Store) PutDecisionLog(d DecisionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO decision_logs (id, workspace_id, actor_id, intent_type, decision_summary, outcome, outcome_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.WorkspaceID, d.ActorID, d.IntentType, d.DecisionSummary, d.Outcome, d.OutcomeScore, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write decision log: %w", err)
	}
	return nil
}
