package model

import "math/big"

// Accumulator is the current value of a revocation registry's dynamic
// accumulator: the generator G raised to the product of a distinct prime per
// folded-in, not-yet-revoked revocation id, modulo N.
type Accumulator struct {
	N     *big.Int `json:"n"`
	Value *big.Int `json:"value"`
}

// RevocationRegistryDelta captures everything a holder needs to bring a
// stale Witness back up to date: the accumulator value after the change and
// every revocation id revoked from the registry so far (the previous
// delta's list plus the newly revoked id).
type RevocationRegistryDelta struct {
	Accumulator *Accumulator `json:"accumulator"`
	Revoked     []uint32     `json:"revoked"`
}

// DeltaHistoryEntry records one historical accumulator transition, keyed by
// a Unix-seconds timestamp (not ISO-8601, matching the wire format used by
// the rest of the delta history log).
type DeltaHistoryEntry struct {
	Created uint64                   `json:"created"`
	Delta   *RevocationRegistryDelta `json:"delta"`
}

// RevocationPublicKey carries the accumulator's generator G, the value of an
// empty accumulator.
type RevocationPublicKey struct {
	G *big.Int `json:"g"`
}

// RevocationKeyPrivate is the issuer's secret key for a revocation registry:
// the two safe primes whose product forms the registry Accumulator's N, plus
// their matching Sophie Germain halves. Removing an id from the accumulator
// (Revoke) requires inverting that id's prime modulo the order of the
// registry's quadratic-residue subgroup, P'*Q', which only the holder of
// this key can compute. It must never be logged, transmitted, or published
// alongside the RevocationRegistryDefinition.
type RevocationKeyPrivate struct {
	P      *big.Int `json:"p"`
	Q      *big.Int `json:"q"`
	PPrime *big.Int `json:"pPrime"`
	QPrime *big.Int `json:"qPrime"`
}

// RevocationRegistryDefinition is the published, signed document describing
// a revocation registry bound to one CredentialDefinition.
type RevocationRegistryDefinition struct {
	ID                     string                     `json:"id"`
	Type                   string                     `json:"type"`
	CredentialDefinition   string                     `json:"credentialDefinition"`
	Registry               *Accumulator               `json:"registry"`
	RegistryDelta          *RevocationRegistryDelta   `json:"registryDelta"`
	DeltaHistory           []DeltaHistoryEntry        `json:"deltaHistory"`
	MaximumCredentialCount uint32                     `json:"maximumCredentialCount"`
	RevocationPublicKey    *RevocationPublicKey       `json:"revocationPublicKey"`
	UpdatedAt              string                     `json:"updatedAt"`
	Proof                  *AssertionProof            `json:"proof,omitempty"`
}

const RevocationRegistryDefinitionType = "EvanZKPRevocationRegistryDefinition"

// RevocationIdInformation is the issuer-private bookkeeping tracking which
// revocation ids in a registry have already been assigned. next_unused_id
// starts at 1, matching the original allocator's convention of reserving 0.
type RevocationIdInformation struct {
	DefinitionID string    `json:"definitionId"`
	NextUnusedID uint32    `json:"nextUnusedId"`
	UsedIDs      Uint32Set `json:"usedIds"`
}

func NewRevocationIdInformation(definitionID string) *RevocationIdInformation {
	return &RevocationIdInformation{
		DefinitionID: definitionID,
		NextUnusedID: 1,
		UsedIDs:      NewUint32Set(),
	}
}

// Witness is the holder-held proof of membership in the revocation
// accumulator for one credential's revocation id. It must be refreshed
// (via RevocationRegistryDelta) whenever the registry changes, or
// non-revocation proofs built from it will fail to verify.
type Witness struct {
	RevocationID uint32   `json:"revocationId"`
	Value        *big.Int `json:"value"`
}

// RevocationState bundles everything a holder stores per-issued-credential
// to later produce a non-revocation proof.
type RevocationState struct {
	CredentialID string                   `json:"credentialId"`
	RevocationID uint32                   `json:"revocationId"`
	Delta        *RevocationRegistryDelta `json:"delta"`
	Updated      uint64                   `json:"updated"`
	Witness      *Witness                 `json:"witness"`
}
