package model

// AssertionProof is the ES256K-R JWS wrapper attached to every document this
// library signs (schemas, credential definitions, revocation registry
// definitions). Credentials carry a CredentialSignature instead. See
// pkg/assertion for construction and verification.
type AssertionProof struct {
	Type                string `json:"type"`
	Created             string `json:"created"`
	ProofPurpose        string `json:"proofPurpose"`
	VerificationMethod  string `json:"verificationMethod"`
	Jws                 string `json:"jws"`
}

const (
	AssertionProofType    = "EcdsaPublicKeySecp256k1"
	AssertionProofPurpose = "assertionMethod"
)
