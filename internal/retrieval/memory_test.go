package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brainstem/internal/store"
)

func TestJoinMemoryDedupeKeepsHigherConfidence(t *testing.T) {
	items := []store.MemoryItem{
		{ID: "a", WorkspaceID: "w1", MemoryType: "preference",
			Content: map[string]any{"tone": "confident"}, Confidence: 0.6},
		{ID: "b", WorkspaceID: "w1", MemoryType: "preference",
			Content: map[string]any{"tone": "confident"}, Confidence: 0.9},
	}

	mc, sources := joinMemory(items, "w1", 20)
	assert.Len(t, sources, 1)
	assert.Equal(t, "b", sources[0].SourceID)
	assert.Equal(t, 0.9, sources[0].Confidence)
	assert.Equal(t, "confident", mc.Preferences["tone"])
}

func TestJoinMemoryPreferenceMergeByFieldConfidence(t *testing.T) {
	items := []store.MemoryItem{
		{ID: "a", WorkspaceID: "w1", MemoryType: "preference",
			Content: map[string]any{"tone": "formal", "signoff": "Best"}, Confidence: 0.9},
		{ID: "b", WorkspaceID: "w1", MemoryType: "preference",
			Content: map[string]any{"tone": "casual"}, Confidence: 0.5},
	}

	mc, _ := joinMemory(items, "w1", 20)
	// Lower-confidence value never overwrites.
	assert.Equal(t, "formal", mc.Preferences["tone"])
	assert.Equal(t, "Best", mc.Preferences["signoff"])
}

func TestJoinMemorySplitsTypes(t *testing.T) {
	items := []store.MemoryItem{
		{ID: "p", WorkspaceID: "w1", MemoryType: "preference",
			Content: map[string]any{"tone": "confident"}, Confidence: 0.9},
		{ID: "e", WorkspaceID: "w1", MemoryType: "entity",
			Content: map[string]any{"Investor X": map[string]any{"tier": "VIP"}}, Confidence: 0.95},
		{ID: "ep", WorkspaceID: "w1", MemoryType: "episodic",
			Content: map[string]any{"event": "sent deck"}, Confidence: 0.7},
		{ID: "o", WorkspaceID: "w1", MemoryType: "outcome",
			Content: map[string]any{"result": "success"}, Confidence: 0.8},
	}

	mc, sources := joinMemory(items, "w1", 20)
	assert.Len(t, sources, 4)
	assert.Equal(t, "VIP", mc.EntityData["Investor X"]["tier"])
	assert.Len(t, mc.Episodic, 1)
	assert.Len(t, mc.Outcomes, 1)
}

func TestJoinMemoryTruncatesToBudget(t *testing.T) {
	items := []store.MemoryItem{
		{ID: "a", WorkspaceID: "w1", MemoryType: "episodic",
			Content: map[string]any{"n": 1}, Confidence: 0.5},
		{ID: "b", WorkspaceID: "w1", MemoryType: "episodic",
			Content: map[string]any{"n": 2}, Confidence: 0.5},
		{ID: "c", WorkspaceID: "w1", MemoryType: "episodic",
			Content: map[string]any{"n": 3}, Confidence: 0.5},
	}

	_, sources := joinMemory(items, "w1", 2)
	assert.Len(t, sources, 2)
}

func TestJoinMemorySkipsOtherWorkspaces(t *testing.T) {
	items := []store.MemoryItem{
		{ID: "a", WorkspaceID: "w2", MemoryType: "preference",
			Content: map[string]any{"tone": "formal"}, Confidence: 0.9},
	}

	mc, sources := joinMemory(items, "w1", 20)
	assert.Empty(t, sources)
	assert.Empty(t, mc.Preferences)
}
