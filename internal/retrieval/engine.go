// Package retrieval implements the first pipeline stage: it turns a raw
// intent into a typed, budgeted, fully-cited context bundle. The stage
// degrades instead of failing: missing memory, stale tools and absent
// precedents are represented in the bundle, and only an unknown workspace
// or actor aborts the request.
package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
	"brainstem/internal/provider"
	"brainstem/internal/store"
)

// ContextBundleVersion tags the bundle schema emitted by this engine.
const ContextBundleVersion = "v1"

// ScopeResolver resolves workspace and actor identity.
type ScopeResolver interface {
	ResolveWorkspace(id string) (store.Workspace, error)
	ResolveActor(id string) (store.Actor, error)
}

// MemoryStore reads actor memory.
type MemoryStore interface {
	GetMemoryByActor(actorID string) ([]store.MemoryItem, error)
}

// PolicyStore reads workspace policies.
type PolicyStore interface {
	GetPoliciesByWorkspace(workspaceID string) ([]contracts.PolicyRule, error)
}

// PrecedentStore reads past decisions.
type PrecedentStore interface {
	GetPrecedentsByIntent(workspaceID, intentType string, limit int) ([]store.DecisionLog, error)
}

// VectorSearch finds knowledge chunks semantically related to a query.
type VectorSearch interface {
	Search(ctx context.Context, workspaceID, query string, topK int, threshold float64) ([]contracts.RelevantChunk, error)
}

// Engine is the retrieval stage. All collaborators are injected; the
// engine itself holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg        config.RetrievalConfig
	scopes     ScopeResolver
	memory     MemoryStore
	policies   PolicyStore
	precedents PrecedentStore
	vectors    VectorSearch
	tools      *provider.Registry
	log        *zap.Logger
	now        func() time.Time
}

// NewEngine wires a retrieval engine. A nil logger falls back to a no-op
// logger and a nil clock to time.Now.
func NewEngine(cfg config.RetrievalConfig, scopes ScopeResolver, memory MemoryStore, policies PolicyStore, precedents PrecedentStore, vectors VectorSearch, tools *provider.Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:        cfg,
		scopes:     scopes,
		memory:     memory,
		policies:   policies,
		precedents: precedents,
		vectors:    vectors,
		tools:      tools,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the engine clock, used by tests to pin staleness.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Run executes the retrieval stage for one raw intent and returns the
// assembled context bundle.
func (e *Engine) Run(ctx context.Context, rawIntent, workspaceID, actorID string) (contracts.ContextBundle, error) {
	started := e.now()
	plan := BuildQueryPlan(e.cfg, rawIntent)

	workspace, err := e.scopes.ResolveWorkspace(workspaceID)
	if err != nil {
		return contracts.ContextBundle{}, fmt.Errorf("resolve workspace: %w", err)
	}
	actor, err := e.scopes.ResolveActor(actorID)
	if err != nil {
		return contracts.ContextBundle{}, fmt.Errorf("resolve actor: %w", err)
	}

	bundle := contracts.ContextBundle{
		Scope: contracts.ScopeContext{
			WorkspaceID: workspace.ID,
			ActorID:     actor.ID,
			Role:        actor.Role,
			Permissions: actor.Permissions,
		},
		Memory:         contracts.NewMemoryContext(),
		Policy:         contracts.PolicyContext{Rules: []contracts.PolicyRule{}, Trace: []contracts.PolicyMatchTrace{}},
		Tools:          contracts.NewToolContext(),
		RelevantChunks: []contracts.RelevantChunk{},
		Precedents:     contracts.PrecedentContext{PastDecisions: []contracts.Precedent{}},
		SourceMap:      []contracts.SourceRef{},
		QueryPlanRef:   plan,
		Version:        ContextBundleVersion,
	}

	var (
		memorySources    []contracts.SourceRef
		toolSources      []contracts.SourceRef
		policySrcs       []contracts.SourceRef
		precedentSources []contracts.SourceRef
		toolCalls        int
	)

	g, gctx := errgroup.WithContext(ctx)

	// Policy matching needs joined entity data, so memory and policies
	// share a goroutine and run sequentially within it.
	g.Go(func() error {
		if plan.Requires(contracts.ContextMemory) {
			items, err := e.memory.GetMemoryByActor(actorID)
			if err != nil {
				return fmt.Errorf("fetch memory: %w", err)
			}
			bundle.Memory, memorySources = joinMemory(items, workspaceID, plan.Budget.MaxMemoryItems)
		}
		if plan.Requires(contracts.ContextPolicies) {
			rules, err := e.policies.GetPoliciesByWorkspace(workspaceID)
			if err != nil {
				return fmt.Errorf("fetch policies: %w", err)
			}
			bundle.Policy = matchPolicies(rules, plan, bundle.Memory.EntityData, e.now())
			policySrcs = policySources(bundle.Policy)
		}
		return nil
	})

	g.Go(func() error {
		if !plan.Requires(contracts.ContextTools) || e.tools == nil {
			return nil
		}
		providers := e.tools.Resolve(workspace.ConnectedTools)
		bundle.Tools, toolSources, toolCalls = e.fetchToolSnapshots(gctx, plan, workspaceID, providers)
		return nil
	})

	g.Go(func() error {
		if !plan.Requires(contracts.ContextPrecedents) {
			return nil
		}
		logs, err := e.precedents.GetPrecedentsByIntent(workspaceID, plan.IntentType, plan.Budget.MaxPrecedents)
		if err != nil {
			return fmt.Errorf("fetch precedents: %w", err)
		}
		bundle.Precedents, precedentSources = rankPrecedents(logs)
		return nil
	})

	g.Go(func() error {
		if e.vectors == nil {
			return nil
		}
		chunks, err := e.vectors.Search(gctx, workspaceID, rawIntent, e.cfg.Vector.TopK, e.cfg.Vector.Threshold)
		if err != nil {
			// Semantic search is an enrichment; its failure degrades
			// the bundle rather than the request.
			e.log.Warn("vector search failed", zap.Error(err))
			return nil
		}
		bundle.RelevantChunks = chunks
		return nil
	})

	if err := g.Wait(); err != nil {
		return contracts.ContextBundle{}, err
	}

	bundle.SourceMap = mergeCitations(memorySources, toolSources, policySrcs, precedentSources, bundle.RelevantChunks)
	bundle.Metrics = contracts.RetrievalMetrics{
		TotalMemoryItems:     len(memorySources),
		TotalToolCalls:       toolCalls,
		TotalPrecedents:      len(bundle.Precedents.PastDecisions),
		TotalPoliciesMatched: len(bundle.Policy.Rules),
		RetrievalTimeMS:      float64(e.now().Sub(started).Microseconds()) / 1000,
		EstimatedTokens:      estimateTokens(bundle),
	}

	e.log.Debug("context bundle assembled",
		zap.String("intent_type", plan.IntentType),
		zap.Int("memory_items", len(memorySources)),
		zap.Int("tool_calls", toolCalls),
		zap.Int("policies_matched", len(bundle.Policy.Rules)),
		zap.Int("precedents", len(bundle.Precedents.PastDecisions)))
	return bundle, nil
}

// mergeCitations concatenates per-layer citations in fixed precedence
// (memory, tools, policy, precedents, vector) and drops duplicate
// (source_type, source_id) pairs, first occurrence winning.
func mergeCitations(memory, tools, policy, precedents []contracts.SourceRef, chunks []contracts.RelevantChunk) []contracts.SourceRef {
	merged := []contracts.SourceRef{}
	seen := map[string]bool{}
	add := func(refs []contracts.SourceRef) {
		for _, r := range refs {
			key := r.SourceType + ":" + r.SourceID
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
		}
	}
	add(memory)
	add(tools)
	add(policy)
	add(precedents)

	vectorRefs := make([]contracts.SourceRef, 0, len(chunks))
	for i, c := range chunks {
		vectorRefs = append(vectorRefs, contracts.SourceRef{
			SourceType: "vector",
			SourceID:   fmt.Sprintf("chunk_%d", i),
			Confidence: c.Similarity,
		})
	}
	add(vectorRefs)
	return merged
}

// estimateTokens approximates the bundle's prompt footprint as one token
// per four serialized bytes.
func estimateTokens(bundle contracts.ContextBundle) int {
	data, err := json.Marshal(bundle)
	if err != nil {
		return 0
	}
	return len(data) / 4
}
