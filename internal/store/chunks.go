package store

import (
	"encoding/json"
	"fmt"
)

// Chunk is one stored knowledge chunk with its precomputed embedding.
type Chunk struct {
	ID          int64
	WorkspaceID string
	Content     string
	Metadata    map[string]any
	Embedding   []float32
}

// AddChunk stores a knowledge chunk and returns its id.
func (s *Store) AddChunk(c Chunk) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metadata, err := json.Marshal(c.Metadata)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal chunk metadata: %w", err)
	}
	embedding, err := json.Marshal(c.Embedding)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal chunk embedding: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO chunks (workspace_id, content, metadata, embedding) VALUES (?, ?, ?, ?)`,
		c.WorkspaceID, c.Content, string(metadata), string(embedding))
	if err != nil {
		return 0, fmt.Errorf("failed to write chunk: %w", err)
	}
	return res.LastInsertId()
}

// ListChunks returns all chunks for a workspace ordered by id.
func (s *Store) ListChunks(workspaceID string) ([]Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, workspace_id, content, metadata, embedding
		 FROM chunks WHERE workspace_id = ? ORDER BY id`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	chunks := []Chunk{}
	for rows.Next() {
		var c Chunk
		var metadata, embedding string
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.Content, &metadata, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &c.Metadata); err != nil {
			c.Metadata = map[string]any{}
		}
		if err := json.Unmarshal([]byte(embedding), &c.Embedding); err != nil {
			c.Embedding = nil
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
