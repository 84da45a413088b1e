package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"brainstem/internal/contracts"
	"brainstem/internal/provider"
)

// defaultToolTTLSeconds applies when neither the plan nor the provider
// reports a TTL.
const defaultToolTTLSeconds = 120

// fetchToolSnapshots queries each connected provider that supports the
// intent, up to the tool-call budget, and flags every snapshot fresh or
// stale. A failing provider is skipped, not fatal: tool outage degrades
// the bundle instead of the request.
func (e *Engine) fetchToolSnapshots(ctx context.Context, plan contracts.QueryPlan, workspaceID string, providers []provider.ToolProvider) (contracts.ToolContext, []contracts.SourceRef, int) {
	tc := contracts.NewToolContext()
	sources := []contracts.SourceRef{}
	calls := 0
	for _, p := range providers {
		if calls >= plan.Budget.MaxToolCalls {
			break
		}
		if !p.Supports(plan.IntentType) {
			continue
		}
		calls++
		snap, err := p.Fetch(ctx, workspaceID, plan.Entities)
		if err != nil {
			e.log.Warn("tool fetch failed",
				zap.String("tool", p.Name()),
				zap.Error(err))
			continue
		}

		ttl := snap.TTLSeconds
		if override, ok := plan.TTLOverrides[p.Name()]; ok {
			ttl = override
		}
		if ttl <= 0 {
			ttl = defaultToolTTLSeconds
		}
		stale := e.isStale(snap.FetchedAt, ttl)

		tc.Snapshots[p.Name()] = snap.ResultSummary
		tc.StaleFlags[p.Name()] = stale

		confidence := 1.0
		if stale {
			confidence = 0.5
		}
		sources = append(sources, contracts.SourceRef{
			SourceType: "tool",
			SourceID:   fmt.Sprintf("%s:%s", p.Name(), snap.FetchedAt),
			Confidence: confidence,
		})
	}
	return tc, sources, calls
}

// isStale reports whether a snapshot timestamp has outlived its TTL.
// Missing or unparsable timestamps count as stale.
func (e *Engine) isStale(fetchedAt string, ttlSeconds int) bool {
	if fetchedAt == "" {
		return true
	}
	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return true
	}
	age := e.now().Sub(ts)
	return age > time.Duration(ttlSeconds)*time.Second
}
