package model

import "fmt"

// Sentinel error kinds surfaced by the role components (C3-C5) and the
// orchestrator (C6). Role components never retry; the orchestrator returns
// these to the caller unchanged.
var (
	// ErrUnresolved is returned when the Resolver collaborator returns an
	// empty document list for a DID.
	ErrUnresolved = &Error{Kind: "ERR_UNRESOLVED"}

	// ErrMalformed is returned for payloads that fail to decode or whose
	// shape does not match the operation being dispatched.
	ErrMalformed = &Error{Kind: "ERR_MALFORMED"}

	// ErrMissingRequired is returned when a required schema property is
	// absent from a credential request.
	ErrMissingRequired = &Error{Kind: "ERR_MISSING_REQUIRED"}

	// ErrUnknownAttribute is returned when a credential request supplies a
	// value for a property the schema does not define and the schema does
	// not allow additional properties.
	ErrUnknownAttribute = &Error{Kind: "ERR_UNKNOWN_ATTRIBUTE"}

	// ErrRevocationIdReused is returned when the next unused revocation id
	// is already present in the used-id set, indicating a corrupted
	// RevocationIdInformation.
	ErrRevocationIdReused = &Error{Kind: "ERR_REVOCATION_ID_REUSED"}

	// ErrRegistryFull is returned when issuance would assign a revocation
	// id beyond the registry's maximum credential count.
	ErrRegistryFull = &Error{Kind: "ERR_REGISTRY_FULL"}

	// ErrAlreadyRevoked is returned when revoking a revocation id that is
	// already revoked.
	ErrAlreadyRevoked = &Error{Kind: "ERR_ALREADY_REVOKED"}

	// ErrSignatureInvalid is returned when a CL signature or correctness
	// proof fails to verify during post-processing.
	ErrSignatureInvalid = &Error{Kind: "ERR_SIGNATURE_INVALID"}

	// ErrBadProof is returned by the assertion-proof engine when a JWS
	// fails to verify.
	ErrBadProof = &Error{Kind: "ERR_BAD_PROOF"}

	// ErrCrypto wraps failures surfaced by the crypto adapter.
	ErrCrypto = &Error{Kind: "ERR_CRYPTO"}

	// ErrSigner wraps failures surfaced by the external Signer collaborator.
	ErrSigner = &Error{Kind: "ERR_SIGNER"}

	// ErrRegistry wraps failures surfaced by the external Registry
	// collaborator.
	ErrRegistry = &Error{Kind: "ERR_REGISTRY"}

	// ErrUnsupported marks a dispatch whose method/type does not match
	// "did:evan"/"cl"; callers should prefer checking for Ignored rather
	// than matching on this error.
	ErrUnsupported = &Error{Kind: "ERR_UNSUPPORTED"}
)

// Error is the uniform error envelope used across role components and the
// orchestrator. errors.Is against the sentinels above (matched on Kind, see
// Is) tells the caller the error kind; Detail carries the
// operation-specific context.
type Error struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// With returns a copy of the sentinel carrying a formatted detail message,
// leaving the sentinel itself untouched so callers can keep comparing
// against it with errors.Is.
func (e *Error) With(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Detail: fmt.Sprintf(format, args...)}
}

// Is implements errors.Is support keyed on Kind, so a detailed instance
// returned by With still matches its sentinel.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
