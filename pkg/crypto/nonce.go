package crypto

import "math/big"

// nonceBits is the bit length of freshly generated nonces used in offers
// and proof requests to bind a response to a single challenge round.
const nonceBits = 256

// GenerateNonce returns a fresh random nonce suitable for a
// CredentialOffer or ProofRequest.
func GenerateNonce() (*big.Int, error) {
	return randomBigInt(nonceBits)
}
