package crypto

import (
	"crypto/sha256"
	"math/big"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// accumulatorBits is the bit length of the registry's own RSA-style
// modulus. It is independent of any credential definition's modulus.
const accumulatorBits = 1024

// CreateRevocationRegistry generates a fresh, empty dynamic accumulator
// along with the private key (the factorization of N) that Revoke needs to
// remove ids from it.
func CreateRevocationRegistry() (*model.Accumulator, *model.RevocationPublicKey, *model.RevocationKeyPrivate, error) {
	p, pPrime, err := GenerateSafePrime(accumulatorBits)
	if err != nil {
		return nil, nil, nil, err
	}
	q, qPrime, err := GenerateSafePrime(accumulatorBits)
	if err != nil {
		return nil, nil, nil, err
	}
	n := new(big.Int).Mul(p, q)

	g, err := randomQuadraticResidue(n)
	if err != nil {
		return nil, nil, nil, err
	}

	// An empty accumulator's value is the generator itself (product over
	// the empty set of primes is 1, so G^1 = G).
	accumulator := &model.Accumulator{N: n, Value: new(big.Int).Set(g)}
	pubKey := &model.RevocationPublicKey{G: g}
	privKey := &model.RevocationKeyPrivate{P: p, Q: q, PPrime: pPrime, QPrime: qPrime}
	return accumulator, pubKey, privKey, nil
}

// idToPrime deterministically derives a distinct prime for a revocation id,
// so that accumulator membership can be tested/removed by raw arithmetic
// without maintaining a side table.
func idToPrime(id uint32) *big.Int {
	seed := make([]byte, 4)
	seed[0] = byte(id >> 24)
	seed[1] = byte(id >> 16)
	seed[2] = byte(id >> 8)
	seed[3] = byte(id)

	counter := uint64(0)
	for {
		h := sha256.New()
		h.Write(seed)
		for i := 0; i < 8; i++ {
			h.Write([]byte{byte(counter >> (8 * (7 - i)))})
		}
		digest := h.Sum(nil)
		// Force the candidate odd; primality testing handles the rest.
		digest[len(digest)-1] |= 1
		candidate := new(big.Int).SetBytes(digest)
		if candidate.ProbablyPrime(30) {
			return candidate
		}
		counter++
	}
}

// IssueWitness computes the initial witness for revocationID against the
// registry's value *before* this credential's own prime was folded in.
// Callers must fold the id's prime into the registry's accumulator value
// themselves (see FoldIn) once the witness has been captured.
func IssueWitness(registry *model.Accumulator, revocationID uint32) *model.Witness {
	return &model.Witness{RevocationID: revocationID, Value: new(big.Int).Set(registry.Value)}
}

// FoldIn updates the registry's accumulator value in place to include
// revocationID. Call this immediately after IssueWitness captured the
// pre-fold value for the same id.
func FoldIn(registry *model.Accumulator, revocationID uint32) {
	registry.Value = modPow(registry.Value, idToPrime(revocationID), registry.N)
}

// Revoke removes revocationID from the registry, returning the delta the
// issuer should publish so holders can refresh their witnesses. Only the
// holder of the registry's RevocationKeyPrivate can do this: undoing FoldIn
// requires raising the accumulator to the inverse of revocationID's prime
// modulo the order of the registry's quadratic-residue subgroup
// (priv.PPrime * priv.QPrime), not modulo N itself.
func Revoke(registry *model.Accumulator, priv *model.RevocationKeyPrivate, revocationID uint32, alreadyRevoked []uint32) (*model.RevocationRegistryDelta, error) {
	order := new(big.Int).Mul(priv.PPrime, priv.QPrime)
	p := idToPrime(revocationID)
	inv := new(big.Int).ModInverse(p, order)
	if inv == nil {
		return nil, model.ErrCrypto.With("revocation id %d prime is not invertible mod registry key order", revocationID)
	}
	registry.Value = modPow(registry.Value, inv, registry.N)

	revoked := append(append([]uint32{}, alreadyRevoked...), revocationID)
	return &model.RevocationRegistryDelta{
		Accumulator: &model.Accumulator{N: registry.N, Value: new(big.Int).Set(registry.Value)},
		Revoked:     revoked,
	}, nil
}

// UpdateWitness refreshes a holder's witness after a RevocationRegistryDelta
// removed one or more ids other than the witness's own, using only public
// values (no issuer secret is required).
func UpdateWitness(w *model.Witness, delta *model.RevocationRegistryDelta) (*model.Witness, error) {
	current := &model.Witness{RevocationID: w.RevocationID, Value: new(big.Int).Set(w.Value)}
	ownPrime := idToPrime(w.RevocationID)

	for _, revokedID := range delta.Revoked {
		if revokedID == w.RevocationID {
			return nil, model.ErrAlreadyRevoked.With("revocation id %d was revoked", w.RevocationID)
		}
		deletedPrime := idToPrime(revokedID)

		a := new(big.Int)
		b := new(big.Int)
		gcd := new(big.Int).GCD(a, b, ownPrime, deletedPrime)
		if gcd.Cmp(big.NewInt(1)) != 0 {
			return nil, model.ErrCrypto.With("revocation id primes are not coprime")
		}

		// new = V'^a * w^b mod n
		part1 := modPow(delta.Accumulator.Value, a, delta.Accumulator.N)
		part2 := modPow(current.Value, b, delta.Accumulator.N)
		current.Value = new(big.Int).Mod(new(big.Int).Mul(part1, part2), delta.Accumulator.N)
	}

	return current, nil
}

// VerifyWitness checks that witness satisfies witness^prime == accumulator.
func VerifyWitness(accumulator *model.Accumulator, w *model.Witness) bool {
	check := modPow(w.Value, idToPrime(w.RevocationID), accumulator.N)
	return check.Cmp(accumulator.Value) == 0
}
