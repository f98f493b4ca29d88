package model

import "math/big"

// EncodedCredentialValue pairs a human-readable attribute value with its
// encoding into the field used by the CL signature equation. Raw is always
// a string on the wire (numbers and booleans are stringified by the
// prover's encoder); Encoded is the big-integer field element.
type EncodedCredentialValue struct {
	Raw     string   `json:"raw"`
	Encoded *big.Int `json:"encoded"`
}

// CredentialSubject holds the disclosed-or-full set of attribute values for
// a credential, keyed by schema property name.
type CredentialSubject struct {
	ID   string                            `json:"id"`
	Data map[string]EncodedCredentialValue `json:"data"`
}

type CredentialSchemaReference struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// SignatureCorrectnessProof lets a holder check, without the issuer's
// private key, that a just-received CL signature was produced with the key
// matching the credential definition's public key.
type SignatureCorrectnessProof struct {
	SE *big.Int `json:"se"`
	C  *big.Int `json:"c"`
}

// ClSignature is the CL signature itself: A^e * S^v * prod(R_i^m_i) == Z
// (mod N), where e, A, V are issuer-chosen and the m_i are the (blinded or
// plain) encoded attribute values.
type ClSignature struct {
	A *big.Int `json:"a"`
	E *big.Int `json:"e"`
	V *big.Int `json:"v"`
}

type CredentialSignature struct {
	Type                         string                     `json:"type"`
	CredentialDefinition         string                     `json:"credentialDefinition"`
	IssuanceNonce                *big.Int                   `json:"issuanceNonce"`
	Signature                    *ClSignature               `json:"signature"`
	SignatureCorrectnessProof    *SignatureCorrectnessProof `json:"signatureCorrectnessProof"`
	RevocationID                 uint32                     `json:"revocationId"`
	RevocationRegistryDefinition string                     `json:"revocationRegistryDefinition"`
}

const CredentialSignatureType = "CLSignature2019"

// Credential is the final verifiable credential handed to the holder.
type Credential struct {
	Context           []string                  `json:"@context"`
	ID                string                    `json:"id"`
	Type              []string                  `json:"type"`
	Issuer            string                    `json:"issuer"`
	IssuanceDate      string                    `json:"issuanceDate"`
	CredentialSubject CredentialSubject         `json:"credentialSubject"`
	CredentialSchema  CredentialSchemaReference `json:"credentialSchema"`
	Proof             CredentialSignature       `json:"proof"`
}

const (
	CredentialContext      = "https://www.w3.org/2018/credentials/v1"
	CredentialTypeVC       = "VerifiableCredential"
	CredentialSchemaRefType = "EvanZKPSchema"
)
