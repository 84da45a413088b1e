package store

import (
	"encoding/json"
	"fmt"
)

// MemoryItem is one stored memory record for an actor.
type MemoryItem struct {
	ID          string
	WorkspaceID string
	ActorID     string
	// MemoryType is one of preference | entity | episodic | outcome.
	MemoryType string
	Content    map[string]any
	Confidence float64
}

// GetMemoryByActor returns all memory items for an actor. An unknown actor
// yields an empty slice, not an error: absence of memory is represented,
// not signaled.
func (s *Store) GetMemoryByActor(actorID string) ([]MemoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, workspace_id, actor_id, memory_type, content, confidence
		 FROM memory_items WHERE actor_id = ? ORDER BY id`, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory items: %w", err)
	}
	defer rows.Close()

	items := []MemoryItem{}
	for rows.Next() {
		var it MemoryItem
		var content string
		if err := rows.Scan(&it.ID, &it.WorkspaceID, &it.ActorID, &it.MemoryType, &content, &it.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan memory item: %w", err)
		}
		if err := json.Unmarshal([]byte(content), &it.Content); err != nil {
			// Unparsable content is kept as an opaque value rather than
			// dropped, so dedupe and citations still see the item.
			it.Content = map[string]any{"_raw": content}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// PutMemoryItem inserts or replaces a memory item.
func (s *Store) PutMemoryItem(item MemoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(item.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal memory content: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO memory_items (id, workspace_id, actor_id, memory_type, content, confidence)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.WorkspaceID, item.ActorID, item.MemoryType, string(content), item.Confidence)
	if err != nil {
		return fmt.Errorf("failed to write memory item: %w", err)
	}
	return nil
}
