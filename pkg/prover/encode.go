package prover

import (
	"crypto/sha256"
	"math/big"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// EncodeValues turns a map of raw attribute strings into the field elements
// the CL signature equation operates on. Integers are encoded as
// themselves so range predicates over them remain meaningful; anything
// else, including the literal "null" used for omitted optional
// attributes, is encoded as its SHA-256 digest. Holders encode their
// plaintext attribute values this way before building a CredentialRequest;
// issuers use EncodeValue for the "null" placeholder.
func EncodeValues(values map[string]string) map[string]model.EncodedCredentialValue {
	encoded := make(map[string]model.EncodedCredentialValue, len(values))
	for name, raw := range values {
		encoded[name] = EncodeValue(raw)
	}
	return encoded
}

// EncodeValue encodes a single raw attribute value, including the literal
// "null" used by the issuer for attributes a credential request omitted.
func EncodeValue(raw string) model.EncodedCredentialValue {
	return model.EncodedCredentialValue{Raw: raw, Encoded: encodeOne(raw)}
}

func encodeOne(raw string) *big.Int {
	if n, ok := new(big.Int).SetString(raw, 10); ok {
		return n
	}
	digest := sha256.Sum256([]byte(raw))
	return new(big.Int).SetBytes(digest[:])
}
