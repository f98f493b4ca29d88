package orchestrator

import "context"

// EvanMethodZKP is the DID method namespace new CL artifacts are allocated
// under. It is passed to Registry.Create, mirroring the method argument a
// real evan.network DID registry expects alongside the caller's
// authentication block.
const EvanMethodZKP = "did:evan:zkp"

// Resolver resolves a DID to its published documents. It is an external
// collaborator: this library never talks to a DID network directly.
// Resolve must return an empty slice (not an error) for an unknown DID;
// the orchestrator turns that into model.ErrUnresolved.
type Resolver interface {
	Resolve(ctx context.Context, did string) ([]map[string]any, error)
}

// Registry allocates and persists the DIDs this library's issuer-side
// operations publish under. Like Resolver, it is external: this library has
// no storage or DID network access of its own.
//
// Create allocates a fresh DID under method (EvanMethodZKP) on behalf of
// auth.Identity and returns it; no document exists under it yet. Update
// then writes the artifact under that DID. This mirrors a real DID
// registry's two-step allocate-then-write protocol: the DID is a network
// resource handed out by the registry, never one this library mints itself.
type Registry interface {
	Create(ctx context.Context, method string, auth AuthenticationOptions) (string, error)
	Update(ctx context.Context, did string, document map[string]any) error
}
