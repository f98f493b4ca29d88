package crypto

import (
	"math/big"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// keyBits is the bit length of each safe prime factor of N, giving a
// 2048-bit modulus, conventional for CL-style schemes.
const keyBits = 1024

// CreateCredentialDefinition generates a fresh CL key pair for a schema with
// attributeCount attributes (attribute indices are 0..attributeCount-1).
// Index attributeCount itself is reserved for the holder's blinded master
// secret, so the returned public key carries attributeCount+1 bases.
func CreateCredentialDefinition(attributeCount int) (*model.CredentialPublicKey, *model.CredentialPrivateKey, *model.CredentialKeyCorrectnessProof, error) {
	p, pPrime, err := GenerateSafePrime(keyBits)
	if err != nil {
		return nil, nil, nil, err
	}
	q, qPrime, err := GenerateSafePrime(keyBits)
	if err != nil {
		return nil, nil, nil, err
	}

	n := new(big.Int).Mul(p, q)
	order := new(big.Int).Mul(pPrime, qPrime)

	s, err := randomQuadraticResidue(n)
	if err != nil {
		return nil, nil, nil, err
	}

	// xZ, xR_i are the discrete-log exponents tying Z and each R_i to S;
	// the correctness proof below lets a verifier confirm they were chosen
	// this way without learning them.
	xz, err := randomBigIntRange(order)
	if err != nil {
		return nil, nil, nil, err
	}
	z := modPow(s, xz, n)

	r := make(map[int]*big.Int, attributeCount+1)
	xr := make(map[int]*big.Int, attributeCount+1)
	for i := 0; i <= attributeCount; i++ {
		xi, err := randomBigIntRange(order)
		if err != nil {
			return nil, nil, nil, err
		}
		xr[i] = xi
		r[i] = modPow(s, xi, n)
	}

	pub := &model.CredentialPublicKey{
		N:              n,
		S:              s,
		Z:              z,
		R:              r,
		AttributeCount: attributeCount + 1,
		Params:         model.DefaultCredentialSystemParameters(),
	}
	priv := &model.CredentialPrivateKey{P: p, Q: q, PPrime: pPrime, QPrime: qPrime}

	proof, err := proveKeyCorrectness(pub, xz, xr, order)
	if err != nil {
		return nil, nil, nil, err
	}
	return pub, priv, proof, nil
}

// randomQuadraticResidue returns a random element of Z*_n that is a
// quadratic residue, by squaring a random unit.
func randomQuadraticResidue(n *big.Int) (*big.Int, error) {
	base, err := randomBigIntRange(n)
	if err != nil {
		return nil, err
	}
	if base.Sign() == 0 {
		base = big.NewInt(1)
	}
	return new(big.Int).Mod(new(big.Int).Mul(base, base), n), nil
}

// proveKeyCorrectness builds a Schnorr-style proof of knowledge of the
// discrete logs xz, xr[i] of Z and R[i] base S, binding all of them to the
// same challenge so they cannot be swapped independently.
func proveKeyCorrectness(pub *model.CredentialPublicKey, xz *big.Int, xr map[int]*big.Int, order *big.Int) (*model.CredentialKeyCorrectnessProof, error) {
	rZ, err := randomBigIntRange(order)
	if err != nil {
		return nil, err
	}
	tz := modPow(pub.S, rZ, pub.N)

	rR := make(map[int]*big.Int, len(xr))
	tr := make(map[int]*big.Int, len(xr))
	hashInputs := []*big.Int{pub.N, pub.S, pub.Z, tz}
	for i := 0; i < len(xr); i++ {
		ri, err := randomBigIntRange(order)
		if err != nil {
			return nil, err
		}
		rR[i] = ri
		tr[i] = modPow(pub.S, ri, pub.N)
		hashInputs = append(hashInputs, pub.R[i], tr[i])
	}

	c := hashToInt(hashInputs...)

	xzCap := new(big.Int).Add(rZ, new(big.Int).Mul(c, xz))
	xrCap := make(map[int]*big.Int, len(xr))
	for i, xi := range xr {
		xrCap[i] = new(big.Int).Add(rR[i], new(big.Int).Mul(c, xi))
	}

	return &model.CredentialKeyCorrectnessProof{C: c, XZCap: xzCap, XRCap: xrCap}, nil
}

// VerifyKeyCorrectness checks a CredentialKeyCorrectnessProof against the
// public key it was generated alongside.
func VerifyKeyCorrectness(pub *model.CredentialPublicKey, proof *model.CredentialKeyCorrectnessProof) bool {
	if proof == nil || pub == nil {
		return false
	}
	negC := new(big.Int).Neg(proof.C)
	tz := new(big.Int).Mod(new(big.Int).Mul(
		modPow(pub.S, proof.XZCap, pub.N),
		modPow(pub.Z, negC, pub.N),
	), pub.N)

	hashInputs := []*big.Int{pub.N, pub.S, pub.Z, tz}
	for i := 0; i < pub.AttributeCount; i++ {
		xrCap, ok := proof.XRCap[i]
		if !ok {
			return false
		}
		ti := new(big.Int).Mod(new(big.Int).Mul(
			modPow(pub.S, xrCap, pub.N),
			modPow(pub.R[i], negC, pub.N),
		), pub.N)
		hashInputs = append(hashInputs, pub.R[i], ti)
	}

	c := hashToInt(hashInputs...)
	return c.Cmp(proof.C) == 0
}
