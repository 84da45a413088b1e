package store

import (
	"encoding/json"
	"fmt"

	"brainstem/internal/contracts"
)

// GetPoliciesByWorkspace returns all active policies for a workspace,
// ordered by descending priority.
func (s *Store) GetPoliciesByWorkspace(workspaceID string) ([]contracts.PolicyRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, workspace_id, policy_type, condition, effect, priority, active
		 FROM policies WHERE workspace_id = ? AND active = 1
		 ORDER BY priority DESC, id`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query policies: %w", err)
	}
	defer rows.Close()

	policies := []contracts.PolicyRule{}
	for rows.Next() {
		var p contracts.PolicyRule
		var condition, effect string
		var active int
		if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.PolicyType, &condition, &effect, &p.Priority, &active); err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		if err := json.Unmarshal([]byte(condition), &p.Condition); err != nil {
			return nil, fmt.Errorf("failed to decode policy condition %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(effect), &p.Effect); err != nil {
			return nil, fmt.Errorf("failed to decode policy effect %s: %w", p.ID, err)
		}
		p.Active = active != 0
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// PutPolicy inserts or replaces a policy rule.
func (s *Store) PutPolicy(p contracts.PolicyRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	condition, err := json.Marshal(p.Condition)
	if err != nil {
		return fmt.Errorf("failed to marshal policy condition: %w", err)
	}
	effect, err := json.Marshal(p.Effect)
	if err != nil {
		return fmt.Errorf("failed to marshal policy effect: %w", err)
	}
	active := 0
	if p.Active {
		active = 1
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO policies (id, workspace_id, policy_type, condition, effect, priority, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkspaceID, p.PolicyType, string(condition), string(effect), p.Priority, active)
	if err != nil {
		return fmt.Errorf("failed to write policy: %w", err)
	}
	return nil
}
