// Package provider defines the tool surface the retrieval engine fans out
// to. Each provider wraps one connected tool (mail, calendar, crm) and
// returns a point-in-time snapshot with its own freshness metadata.
package provider

import (
	"context"
	"fmt"
)

// Snapshot is one tool's state at fetch time.
type Snapshot struct {
	// ResultSummary is the tool-specific state payload.
	ResultSummary map[string]any
	// FetchedAt is the RFC3339 timestamp the snapshot was taken.
	FetchedAt string
	// TTLSeconds is how long the snapshot stays fresh. A plan-level TTL
	// override takes precedence.
	TTLSeconds int
}

// ToolProvider is one connected tool the retrieval engine can query.
type ToolProvider interface {
	// Name returns the tool identifier ("mail", "calendar", ...).
	Name() string
	// Supports reports whether the tool is relevant for an intent type.
	Supports(intentType string) bool
	// Fetch returns the current tool snapshot for the given entities.
	Fetch(ctx context.Context, workspaceID string, entities []string) (Snapshot, error)
}

// Registry holds the available providers keyed by name. It is built once at
// startup and read-only afterwards.
type Registry struct {
	providers map[string]ToolProvider
	order     []string
}

// NewRegistry builds a registry; registration order is preserved for
// deterministic iteration.
func NewRegistry(providers ...ToolProvider) *Registry {
	r := &Registry{providers: make(map[string]ToolProvider, len(providers))}
	for _, p := range providers {
		if _, dup := r.providers[p.Name()]; dup {
			continue
		}
		r.providers[p.Name()] = p
		r.order = append(r.order, p.Name())
	}
	return r
}

// Get returns the named provider.
func (r *Registry) Get(name string) (ToolProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool provider %q", name)
	}
	return p, nil
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns providers for the given connected-tool names, skipping
// unknown names, sorted to registration order.
func (r *Registry) Resolve(connected []string) []ToolProvider {
	want := map[string]bool{}
	for _, name := range connected {
		want[name] = true
	}
	out := []ToolProvider{}
	for _, name := range r.order {
		if want[name] {
			out = append(out, r.providers[name])
		}
	}
	return out
}
