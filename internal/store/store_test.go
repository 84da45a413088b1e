package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstem/internal/contracts"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedAndMemoryRetrieval(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed(nil))

	items, err := s.GetMemoryByActor("u1")
	require.NoError(t, err)
	assert.Len(t, items, 5)

	types := map[string]int{}
	for _, it := range items {
		types[it.MemoryType]++
	}
	assert.Equal(t, 1, types["preference"])
	assert.Equal(t, 2, types["entity"])
	assert.Equal(t, 1, types["episodic"])
	assert.Equal(t, 1, types["outcome"])
}

func TestMemoryUnknownActorIsEmptyNotError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed(nil))

	items, err := s.GetMemoryByActor("u999")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPoliciesOrderedByPriority(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed(nil))

	policies, err := s.GetPoliciesByWorkspace("w1")
	require.NoError(t, err)
	require.Len(t, policies, 3)

	got := []string{policies[0].ID, policies[1].ID, policies[2].ID}
	want := []string{"P_VIP_APPROVAL", "P_COLD_OUTREACH_REVIEW", "P_NO_WEEKENDS"}
	assert.Equal(t, want, got)

	assert.Equal(t, "VIP", policies[0].Condition.RecipientTier)
	assert.True(t, policies[0].Effect.RequiresApproval)
	assert.Equal(t, "external_first_contact", policies[1].Effect.RiskFlag)
	assert.Equal(t, []string{"saturday", "sunday"}, policies[2].Condition.DaysOfWeek)
}

func TestInactivePoliciesAreSkipped(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed(nil))
	require.NoError(t, s.PutPolicy(contracts.PolicyRule{
		ID: "P_DISABLED", WorkspaceID: "w1", PolicyType: "org",
		Effect:   contracts.PolicyEffect{Deny: true},
		Priority: 99, Active: false,
	}))

	policies, err := s.GetPoliciesByWorkspace("w1")
	require.NoError(t, err)
	for _, p := range policies {
		if p.ID == "P_DISABLED" {
			t.Fatalf("inactive policy returned: %+v", p)
		}
	}
}

func TestPrecedentsNewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed(nil))

	logs, err := s.GetPrecedentsByIntent("w1", contracts.IntentFollowUp, 5)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "d1", logs[0].ID)
	assert.Equal(t, "d2", logs[1].ID)

	logs, err = s.GetPrecedentsByIntent("w1", contracts.IntentFollowUp, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "d1", logs[0].ID)

	logs, err = s.GetPrecedentsByIntent("w1", "unknown_intent", 5)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestChunkRoundtrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddChunk(Chunk{
		WorkspaceID: "w1",
		Content:     "quarterly update cadence",
		Metadata:    map[string]any{"kind": "note"},
		Embedding:   []float32{0.1, 0.2, 0.3},
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	chunks, err := s.ListChunks("w1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "quarterly update cadence", chunks[0].Content)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, chunks[0].Embedding)
	assert.Equal(t, "note", chunks[0].Metadata["kind"])
}

func TestScopeRegistryResolution(t *testing.T) {
	reg := DefaultScopeRegistry()

	w, err := reg.ResolveWorkspace("w1")
	require.NoError(t, err)
	assert.Equal(t, "Demo Workspace", w.Name)
	assert.Contains(t, w.ConnectedTools, "mail")

	a, err := reg.ResolveActor("u1")
	require.NoError(t, err)
	assert.Equal(t, "founder", a.Role)
	assert.Contains(t, a.Permissions, "approve")

	_, err = reg.ResolveWorkspace("w999")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = reg.ResolveActor("u999")
	assert.True(t, errors.Is(err, ErrNotFound))
}
