// Package signing provides the Signer collaborator contract used by the
// assertion-proof engine (pkg/assertion) to produce ES256K-R signatures,
// plus a software-backed implementation for tests and local use.
package signing

// Signer is supplied by the caller of this library; it never holds key
// material itself beyond what is passed to it per call, matching how the
// orchestrator receives a raw hex-encoded private key in an operation's
// AuthenticationOptions and must not persist it.
type Signer interface {
	// Sign computes a 65-byte recoverable ECDSA signature (r || s || v,
	// v in {0,1}) over messageHex (a "0x"-prefixed hex string of the
	// SHA-256 digest to sign) using privateKeyHex (a "0x"-prefixed or bare
	// hex-encoded secp256k1 private key).
	Sign(messageHex string, privateKeyHex string) (signature [65]byte, err error)
}
