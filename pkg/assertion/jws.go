// Package assertion implements the ES256K-R assertion-proof wrapper applied
// to every document this library signs: schemas, credential definitions and
// revocation registry definitions.
//
// The wire format and recovery procedure are carried over byte-for-byte
// from the original implementation's crypto_utils module: a fixed JWS
// header, a payload of exactly {iat, doc, iss} in that order, unpadded
// base64url everywhere, and Ethereum-style address recovery from a 65-byte
// r||s||v secp256k1 signature.
package assertion

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
	"github.com/evannetwork/vade-evan-cl/pkg/signing"
)

const jwsHeader = `{"typ":"JWT","alg":"ES256K-R"}`

// jwsPayload mirrors JwsData's field order (iat, doc, iss) exactly; Go's
// encoding/json serializes struct fields in declaration order, which is
// what makes that order reproducible across signer and verifier here.
type jwsPayload struct {
	Iat string          `json:"iat"`
	Doc json.RawMessage `json:"doc"`
	Iss string          `json:"iss"`
}

// Sign builds an AssertionProof over document by delegating the raw
// signature to signer, using privateKeyHex as the key material.
// verificationMethod is the DID URL identifying the key used; issuer is the
// DID the signature attests belongs to the signer.
func Sign(document any, verificationMethod string, issuer string, privateKeyHex string, signer signing.Signer) (*model.AssertionProof, error) {
	docBytes, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	headerB64 := base64URLNoPad([]byte(jwsHeader))

	now := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	payload := jwsPayload{Iat: now, Doc: docBytes, Iss: issuer}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	payloadB64 := base64URLNoPad(payloadBytes)

	headerAndPayload := headerB64 + "." + payloadB64
	digest := sha256.Sum256([]byte(headerAndPayload))
	messageHex := "0x" + hex.EncodeToString(digest[:])

	sig, err := signer.Sign(messageHex, privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	sigB64 := base64URLNoPad(sig[:])
	jws := headerAndPayload + "." + sigB64

	return &model.AssertionProof{
		Type:               model.AssertionProofType,
		Created:            now,
		ProofPurpose:       model.AssertionProofPurpose,
		VerificationMethod: verificationMethod,
		Jws:                jws,
	}, nil
}

// Verify checks documentWithProof's "proof.jws" field against
// expectedSignerAddress (a lowercase, 0x-prefixed Ethereum-style address).
// documentWithProof must be a JSON object containing a "proof" key whose
// value, once removed, reconstructs the exact document that was signed.
func Verify(documentWithProof map[string]any, expectedSignerAddress string) (bool, error) {
	proofValue, ok := documentWithProof["proof"]
	if !ok {
		return false, model.ErrMalformed.With("document has no proof field")
	}
	proofMap, ok := proofValue.(map[string]any)
	if !ok {
		return false, model.ErrMalformed.With("proof field is not an object")
	}
	jws, ok := proofMap["jws"].(string)
	if !ok {
		return false, model.ErrMalformed.With("proof.jws is missing or not a string")
	}

	withoutProof := make(map[string]any, len(documentWithProof)-1)
	for k, v := range documentWithProof {
		if k == "proof" {
			continue
		}
		withoutProof[k] = v
	}

	address, doc, err := RecoverAddressAndData(jws)
	if err != nil {
		return false, err
	}

	if !strings.EqualFold(address, expectedSignerAddress) {
		return false, model.ErrBadProof.With("signature does not recover to expected address")
	}

	var parsedDoc map[string]any
	if err := json.Unmarshal(doc, &parsedDoc); err != nil {
		return false, model.ErrMalformed.With("proof.doc is not valid JSON: %v", err)
	}

	if !jsonEqual(withoutProof, parsedDoc) {
		return false, model.ErrBadProof.With("signed document does not match the document being checked")
	}

	return true, nil
}

// RecoverAddressAndData splits a JWS into its three segments, tolerates
// missing base64url padding on each, recovers the signer's Ethereum-style
// address from the signature, and returns the raw "doc" bytes from the
// payload.
func RecoverAddressAndData(jws string) (address string, doc json.RawMessage, err error) {
	parts := strings.Split(jws, ".")
	if len(parts) != 3 {
		return "", nil, model.ErrMalformed.With("jws must have three segments, got %d", len(parts))
	}

	headerB64, payloadB64, sigB64 := parts[0], parts[1], parts[2]

	payloadBytes, err := base64URLTolerant(payloadB64)
	if err != nil {
		return "", nil, model.ErrMalformed.With("decode payload: %v", err)
	}
	var payload jwsPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return "", nil, model.ErrMalformed.With("unmarshal payload: %v", err)
	}

	sigBytes, err := base64URLTolerant(sigB64)
	if err != nil {
		return "", nil, model.ErrMalformed.With("decode signature: %v", err)
	}
	if len(sigBytes) != 65 {
		return "", nil, model.ErrMalformed.With("signature must be 65 bytes, got %d", len(sigBytes))
	}

	digest := sha256.Sum256([]byte(headerB64 + "." + payloadB64))

	recoveredAddress, err := recoverAddress(digest[:], sigBytes)
	if err != nil {
		return "", nil, model.ErrBadProof.With("recover signer: %v", err)
	}

	return recoveredAddress, payload.Doc, nil
}

// recoverAddress recovers the Ethereum-style address (lowercase hex,
// 0x-prefixed) of the secp256k1 key that produced sig (r||s||v, 65 bytes)
// over digest.
func recoverAddress(digest []byte, sig []byte) (string, error) {
	recoveryID := sig[64]
	if recoveryID >= 27 {
		recoveryID -= 27
	}

	// decred expects the compact-signature header byte first.
	compact := make([]byte, 65)
	compact[0] = recoveryID + 27
	copy(compact[1:], sig[:64])

	pubKey, _, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", err)
	}

	uncompressed := pubKey.SerializeUncompressed()
	if len(uncompressed) != 65 {
		return "", fmt.Errorf("unexpected uncompressed public key length %d", len(uncompressed))
	}

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(uncompressed[1:])
	hash := hasher.Sum(nil)

	return "0x" + hex.EncodeToString(hash[12:32]), nil
}

// base64URLNoPad is the RFC 4648 base64url encoding with '=' padding
// stripped, the encoding used for every JWS segment this engine produces.
func base64URLNoPad(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// base64URLTolerant decodes base64url data whose padding may be missing,
// trying 0 through 3 trailing '=' characters in turn, matching the
// original implementation's nested-match fallback decoder.
func base64URLTolerant(s string) ([]byte, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	var lastErr error
	for pad := 1; pad <= 3; pad++ {
		padded := s + strings.Repeat("=", pad)
		if decoded, err := base64.URLEncoding.DecodeString(padded); err == nil {
			return decoded, nil
		} else {
			lastErr = err
		}
	}
	return nil, lastErr
}

// jsonEqual compares two already-unmarshaled JSON structures for deep
// equality by re-marshaling them in a canonical form (map keys sorted by
// encoding/json) and comparing byte-for-byte.
func jsonEqual(a, b any) bool {
	aBytes, errA := json.Marshal(a)
	bBytes, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aBytes) == string(bBytes)
}
