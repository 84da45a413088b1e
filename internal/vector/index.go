package vector

import (
	"context"
	"fmt"
	"sort"

	"brainstem/internal/contracts"
	"brainstem/internal/store"
)

// ChunkStore is the store surface the index reads and writes.
type ChunkStore interface {
	ListChunks(workspaceID string) ([]store.Chunk, error)
	AddChunk(c store.Chunk) (int64, error)
}

// Index performs cosine-similarity search over stored chunks.
type Index struct {
	chunks   ChunkStore
	embedder Embedder
}

// NewIndex builds an index over the given chunk store.
func NewIndex(chunks ChunkStore, embedder Embedder) *Index {
	return &Index{chunks: chunks, embedder: embedder}
}

// Add embeds content and stores it as a searchable chunk, returning the
// chunk id.
func (ix *Index) Add(ctx context.Context, workspaceID, content string, metadata map[string]any) (int64, error) {
	vec, err := ix.embedder.Embed(ctx, content)
	if err != nil {
		return 0, fmt.Errorf("embed chunk: %w", err)
	}
	return ix.chunks.AddChunk(store.Chunk{
		WorkspaceID: workspaceID,
		Content:     content,
		Metadata:    metadata,
		Embedding:   vec,
	})
}

// Embedder exposes the index's embedder, used at seed time to precompute
// chunk embeddings with the same model the search queries will use.
func (ix *Index) Embedder() Embedder { return ix.embedder }

// Search returns up to topK chunks whose similarity to the query meets the
// threshold, ordered by descending similarity. Ties break on chunk id so
// results are deterministic.
func (ix *Index) Search(ctx context.Context, workspaceID, query string, topK int, threshold float64) ([]contracts.RelevantChunk, error) {
	if topK <= 0 {
		return []contracts.RelevantChunk{}, nil
	}
	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	stored, err := ix.chunks.ListChunks(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	type scored struct {
		chunk store.Chunk
		sim   float64
	}
	hits := []scored{}
	for _, c := range stored {
		sim := Cosine(queryVec, c.Embedding)
		if sim >= threshold {
			hits = append(hits, scored{chunk: c, sim: sim})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].sim != hits[j].sim {
			return hits[i].sim > hits[j].sim
		}
		return hits[i].chunk.ID < hits[j].chunk.ID
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	out := make([]contracts.RelevantChunk, 0, len(hits))
	for _, h := range hits {
		out = append(out, contracts.RelevantChunk{
			Content:    h.chunk.Content,
			Similarity: round3(h.sim),
			Metadata:   h.chunk.Metadata,
		})
	}
	return out, nil
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
