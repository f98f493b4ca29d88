package model

import "math/big"

// CredentialPublicKey is the issuer's public CL key: an RSA-like modulus N
// together with a per-attribute base R_i, a randomization base S and an
// anchor Z used in the signature verification equation
// Z == R_0^m_0 * ... * R_k^m_k * S^v * A^e (mod N).
type CredentialPublicKey struct {
	N *big.Int         `json:"n"`
	S *big.Int         `json:"s"`
	Z *big.Int         `json:"z"`
	R map[int]*big.Int `json:"r"`

	// AttributeCount is len(R); kept alongside R since JSON object keys are
	// strings and ordering is not guaranteed on decode.
	AttributeCount int `json:"attributeCount"`

	// Bit lengths governing the blind-signature and disclosure-proof
	// interval proofs, mirroring the system parameters of a CL scheme.
	Params CredentialSystemParameters `json:"params"`
}

type CredentialSystemParameters struct {
	Le       uint `json:"le"`
	Lm       uint `json:"lm"`
	LeCommit uint `json:"leCommit"`
	LvCommit uint `json:"lvCommit"`
	LmCommit uint `json:"lmCommit"`
}

// DefaultCredentialSystemParameters mirrors the 1024-bit system parameter
// set conventionally used by Idemix/CL style schemes.
func DefaultCredentialSystemParameters() CredentialSystemParameters {
	return CredentialSystemParameters{
		Le:       597,
		Lm:       256,
		LeCommit: 593 + 80,
		LvCommit: 2724 + 80,
		LmCommit: 256 + 80,
	}
}

// CredentialPrivateKey is the issuer's secret CL key: the two safe primes
// whose product forms CredentialPublicKey.N, plus their halves PPrime and
// QPrime, whose product is the group order used to invert exponents during
// signing. It must never be logged or transmitted.
type CredentialPrivateKey struct {
	P *big.Int `json:"p"`
	Q *big.Int `json:"q"`
	// PPrime, QPrime are (P-1)/2 and (Q-1)/2, the safe-prime "prime factors".
	PPrime *big.Int `json:"pPrime"`
	QPrime *big.Int `json:"qPrime"`
}

// CredentialKeyCorrectnessProof lets a verifier check that Z and every R_i
// of a CredentialPublicKey are powers of the single base S, without learning
// the exponents. It does not prove anything about the factorization of N.
type CredentialKeyCorrectnessProof struct {
	C       *big.Int         `json:"c"`
	XZCap   *big.Int         `json:"xzCap"`
	XRCap   map[int]*big.Int `json:"xrCap"`
}

// CredentialDefinition binds a CredentialPublicKey to an issuer and schema.
type CredentialDefinition struct {
	ID                        string                        `json:"id"`
	Type                      string                        `json:"type"`
	Issuer                    string                        `json:"issuer"`
	Schema                    string                        `json:"schema"`
	CreatedAt                 string                        `json:"createdAt"`
	PublicKey                 *CredentialPublicKey          `json:"publicKey"`
	PublicKeyCorrectnessProof *CredentialKeyCorrectnessProof `json:"publicKeyCorrectnessProof"`
	Proof                     *AssertionProof               `json:"proof,omitempty"`
}

const CredentialDefinitionType = "EvanZKPCredentialDefinition"
