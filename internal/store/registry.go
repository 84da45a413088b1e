package store

import (
	"fmt"
)

// Workspace is the resolved workspace metadata.
type Workspace struct {
	ID             string
	Name           string
	Plan           string
	ConnectedTools []string
}

// Actor is the resolved actor identity.
type Actor struct {
	ID          string
	Role        string
	Permissions []string
}

// ScopeRegistry is an immutable workspace/actor lookup table, constructed
// once and safe for concurrent reads. It replaces any notion of mutable
// package-level registries.
type ScopeRegistry struct {
	workspaces map[string]Workspace
	actors     map[string]Actor
}

// NewScopeRegistry builds a registry from explicit workspace and actor lists.
func NewScopeRegistry(workspaces []Workspace, actors []Actor) *ScopeRegistry {
	r := &ScopeRegistry{
		workspaces: make(map[string]Workspace, len(workspaces)),
		actors:     make(map[string]Actor, len(actors)),
	}
	for _, w := range workspaces {
		r.workspaces[w.ID] = w
	}
	for _, a := range actors {
		r.actors[a.ID] = a
	}
	return r
}

// DefaultScopeRegistry returns the reference registry used by the CLI and
// the seed dataset.
func DefaultScopeRegistry() *ScopeRegistry {
	return NewScopeRegistry(
		[]Workspace{
			{
				ID:             "w1",
				Name:           "Demo Workspace",
				Plan:           "pro",
				ConnectedTools: []string{"mail", "calendar"},
			},
		},
		[]Actor{
			{
				ID:          "u1",
				Role:        "founder",
				Permissions: []string{"read", "write", "approve", "send_email", "schedule"},
			},
			{
				ID:          "u2",
				Role:        "employee",
				Permissions: []string{"read", "write"},
			},
		},
	)
}

// ResolveWorkspace looks up workspace metadata.
func (r *ScopeRegistry) ResolveWorkspace(id string) (Workspace, error) {
	w, ok := r.workspaces[id]
	if !ok {
		return Workspace{}, fmt.Errorf("unknown workspace %q: %w", id, ErrNotFound)
	}
	return w, nil
}

// ResolveActor looks up actor role and permissions.
func (r *ScopeRegistry) ResolveActor(id string) (Actor, error) {
	a, ok := r.actors[id]
	if !ok {
		return Actor{}, fmt.Errorf("unknown actor %q: %w", id, ErrNotFound)
	}
	return a, nil
}
