// Package didtest provides in-memory Resolver and Registry test doubles so
// orchestrator and role-package tests can exercise a full
// allocate/resolve/update cycle without a real DID network.
package didtest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/evannetwork/vade-evan-cl/pkg/orchestrator"
)

// Registry is an in-memory implementation of orchestrator.Resolver and
// orchestrator.Registry. Create allocates a fresh DID with no document
// attached; Update appends a new revision rather than overwriting, matching
// a real DID document's append-only history. Resolve returns every
// revision, newest last.
type Registry struct {
	mu   sync.RWMutex
	docs map[string][]map[string]any
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{docs: make(map[string][]map[string]any)}
}

// Resolve returns every published revision of did, newest last, or an
// empty slice if did has never been created.
func (r *Registry) Resolve(_ context.Context, did string) ([]map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	revisions := r.docs[did]
	out := make([]map[string]any, len(revisions))
	copy(out, revisions)
	return out, nil
}

// Create allocates a fresh DID under method, recording auth.Identity as the
// requester but attaching no document yet; the caller publishes the
// artifact with a subsequent Update.
func (r *Registry) Create(_ context.Context, method string, auth orchestrator.AuthenticationOptions) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	did := method + ":" + uuid.NewString()
	r.docs[did] = []map[string]any{}
	return did, nil
}

// Update appends a new revision of did. It errors if did has never been
// allocated with Create.
func (r *Registry) Update(_ context.Context, did string, document map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[did]; !ok {
		return &notFoundError{did: did}
	}
	r.docs[did] = append(r.docs[did], document)
	return nil
}

type notFoundError struct{ did string }

func (e *notFoundError) Error() string { return "didtest: " + e.did + " not found" }
