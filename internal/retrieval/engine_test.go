package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
	"brainstem/internal/provider"
	"brainstem/internal/store"
	"brainstem/internal/vector"
)

func newTestEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	embedder := vector.NewHashEmbedder(256)
	require.NoError(t, s.Seed(func(text string) []float32 {
		v, err := embedder.Embed(context.Background(), text)
		require.NoError(t, err)
		return v
	}))

	registry := provider.NewRegistry(
		&provider.MailProvider{Now: func() time.Time { return now }},
		&provider.CalendarProvider{Now: func() time.Time { return now }},
	)
	cfg := config.DefaultConfig().Retrieval
	engine := NewEngine(cfg, store.DefaultScopeRegistry(), s, s, s,
		vector.NewIndex(s, embedder), registry, nil)
	return engine.WithClock(func() time.Time { return now })
}

func TestRunFollowUpBundle(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	bundle, err := e.Run(context.Background(), "Follow up with Investor X about the term sheet", "w1", "u1")
	require.NoError(t, err)

	assert.Equal(t, "v1", bundle.Version)
	assert.Equal(t, contracts.IntentFollowUp, bundle.QueryPlanRef.IntentType)

	assert.Equal(t, "w1", bundle.Scope.WorkspaceID)
	assert.Equal(t, "founder", bundle.Scope.Role)
	assert.True(t, bundle.Scope.HasPermission("approve"))

	assert.Equal(t, "confident", bundle.Memory.Preferences["tone"])
	assert.Equal(t, "VIP", bundle.Memory.EntityData["Investor X"]["tier"])

	// VIP recipient matches the approval policy on a weekday.
	require.Len(t, bundle.Policy.Rules, 1)
	assert.Equal(t, "P_VIP_APPROVAL", bundle.Policy.Rules[0].ID)
	assert.Len(t, bundle.Policy.Trace, 3)

	// Mail snapshot fetched just now is fresh.
	require.Contains(t, bundle.Tools.Snapshots, "mail")
	assert.False(t, bundle.Tools.StaleFlags["mail"])
	assert.NotContains(t, bundle.Tools.Snapshots, "calendar")

	// Ranked precedents: the success outranks the failure.
	require.Len(t, bundle.Precedents.PastDecisions, 2)
	assert.Equal(t, "d1", bundle.Precedents.PastDecisions[0].ID)
	assert.Equal(t, 1.0, bundle.Precedents.PastDecisions[0].RankScore)
	assert.Equal(t, "d2", bundle.Precedents.PastDecisions[1].ID)
	assert.InDelta(t, 0.0, bundle.Precedents.PastDecisions[1].RankScore, 1e-9)

	assert.Equal(t, 5, bundle.Metrics.TotalMemoryItems)
	assert.Equal(t, 1, bundle.Metrics.TotalToolCalls)
	assert.Equal(t, 2, bundle.Metrics.TotalPrecedents)
	assert.Equal(t, 1, bundle.Metrics.TotalPoliciesMatched)
	assert.Greater(t, bundle.Metrics.EstimatedTokens, 0)
}

func TestRunCitationsAreDeduplicatedAndOrdered(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	bundle, err := e.Run(context.Background(), "Follow up with Investor X", "w1", "u1")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, ref := range bundle.SourceMap {
		key := ref.SourceType + ":" + ref.SourceID
		assert.False(t, seen[key], "duplicate citation %s", key)
		seen[key] = true
	}

	// Fixed layer precedence: all memory refs precede all tool refs, which
	// precede policy and precedent refs.
	rank := map[string]int{"memory": 0, "tool": 1, "policy": 2, "precedent": 3, "vector": 4}
	last := -1
	for _, ref := range bundle.SourceMap {
		r := rank[ref.SourceType]
		assert.GreaterOrEqual(t, r, last)
		if r > last {
			last = r
		}
	}
}

func TestRunStaleSnapshotLowersConfidence(t *testing.T) {
	fetched := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// Mail TTL is 60s; observe 10 minutes later.
	e := newTestEngine(t, fetched)
	e.WithClock(func() time.Time { return fetched.Add(10 * time.Minute) })

	bundle, err := e.Run(context.Background(), "Follow up with Investor X", "w1", "u1")
	require.NoError(t, err)

	assert.True(t, bundle.Tools.StaleFlags["mail"])
	found := false
	for _, ref := range bundle.SourceMap {
		if ref.SourceType == "tool" {
			found = true
			assert.Equal(t, 0.5, ref.Confidence)
		}
	}
	assert.True(t, found)
}

func TestRunColdOutreachSkipsTools(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	bundle, err := e.Run(context.Background(), "cold outreach to a new fund", "w1", "u1")
	require.NoError(t, err)

	assert.Empty(t, bundle.Tools.Snapshots)
	assert.Equal(t, 0, bundle.Metrics.TotalToolCalls)
	require.Len(t, bundle.Policy.Rules, 2)
	assert.Equal(t, "P_VIP_APPROVAL", bundle.Policy.Rules[0].ID)
	assert.Equal(t, "P_COLD_OUTREACH_REVIEW", bundle.Policy.Rules[1].ID)
}

func TestRunScheduleMeetingFetchesCalendarOnly(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	bundle, err := e.Run(context.Background(), "Schedule a meeting with John Smith next week", "w1", "u1")
	require.NoError(t, err)

	assert.Equal(t, contracts.IntentScheduleMeeting, bundle.QueryPlanRef.IntentType)
	assert.False(t, bundle.QueryPlanRef.Requires(contracts.ContextPrecedents))
	assert.Empty(t, bundle.Precedents.PastDecisions)

	require.Contains(t, bundle.Tools.Snapshots, "calendar")
	assert.NotContains(t, bundle.Tools.Snapshots, "mail")
	assert.Contains(t, bundle.Tools.Snapshots["calendar"], "next_free_slot")
	assert.False(t, bundle.Tools.StaleFlags["calendar"])
}

func TestRunUnknownScopeFails(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	_, err := e.Run(context.Background(), "Follow up with Investor X", "w999", "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = e.Run(context.Background(), "Follow up with Investor X", "w1", "u999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestRunGeneralIntentMinimalBundle(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	bundle, err := e.Run(context.Background(), "summarize my inbox state", "w1", "u1")
	require.NoError(t, err)

	assert.Equal(t, contracts.IntentGeneral, bundle.QueryPlanRef.IntentType)
	assert.Empty(t, bundle.Tools.Snapshots)
	assert.Empty(t, bundle.Precedents.PastDecisions)
	assert.NotNil(t, bundle.SourceMap)
}
