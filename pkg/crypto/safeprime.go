package crypto

import (
	"crypto/rand"
	"math/big"
)

// GenerateSafePrime returns a random prime p of the given bit length such
// that (p-1)/2 is also prime. Exposed standalone (mirroring the original
// implementation's generate_safe_prime helper) so callers can precompute
// P/Q pairs offline instead of paying the cost inline during
// CreateCredentialDefinition.
func GenerateSafePrime(bits int) (p *big.Int, pPrime *big.Int, err error) {
	for {
		candidate, err := rand.Prime(rand.Reader, bits)
		if err != nil {
			return nil, nil, err
		}
		half := new(big.Int).Rsh(candidate, 1)
		if half.ProbablyPrime(40) {
			return candidate, half, nil
		}
	}
}
