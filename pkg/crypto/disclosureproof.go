package crypto

import (
	"math/big"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// respBits bounds the randomizers used in disclosure-proof responses. It
// must exceed the bit length of anything being hidden (signature exponents,
// attribute encodings) by a safety margin, mirroring Params.*Commit.
const respBits = 3200

// BuildSubProof produces a zero-knowledge proof that the holder possesses a
// validly-signed credential containing attributes (indexed exactly as they
// were signed, including the master secret at its reserved index) while
// revealing only the values named in disclosed.
func BuildSubProof(
	pub *model.CredentialPublicKey,
	sig *model.ClSignature,
	attributeValues map[int]*big.Int,
	attributeNames map[int]string,
	disclosed map[int]bool,
	nonce *big.Int,
	witness *model.Witness,
	registry *model.Accumulator,
) (*model.SubProof, error) {
	r, err := randomBigInt(respBits)
	if err != nil {
		return nil, err
	}
	aPrime := new(big.Int).Mod(new(big.Int).Mul(sig.A, modPow(pub.S, r, pub.N)), pub.N)
	vPrime := new(big.Int).Sub(sig.V, new(big.Int).Mul(sig.E, r))

	undisclosed := make([]int, 0, len(attributeValues))
	for idx := range attributeValues {
		if !disclosed[idx] {
			undisclosed = append(undisclosed, idx)
		}
	}

	rE, err := randomBigInt(respBits)
	if err != nil {
		return nil, err
	}
	rV, err := randomBigInt(respBits)
	if err != nil {
		return nil, err
	}
	rM := make(map[int]*big.Int, len(undisclosed))
	t := new(big.Int).Mod(new(big.Int).Mul(
		modPow(aPrime, rE, pub.N),
		modPow(pub.S, rV, pub.N),
	), pub.N)
	for _, idx := range undisclosed {
		ri, err := randomBigInt(respBits)
		if err != nil {
			return nil, err
		}
		rM[idx] = ri
		t.Mul(t, modPow(pub.R[idx], ri, pub.N))
		t.Mod(t, pub.N)
	}

	zPrime := restrictedZ(pub, attributeValues, disclosed)

	hashInputs := []*big.Int{pub.N, aPrime, zPrime, t, nonce}

	var nrpCommit *big.Int
	var nrpRandomizer *big.Int
	var nrp *model.NonRevocationProof
	if witness != nil && registry != nil {
		r, err := randomBigInt(respBits)
		if err != nil {
			return nil, err
		}
		nrpRandomizer = r
		nrpCommit = modPow(witness.Value, r, registry.N)
		nrp = &model.NonRevocationProof{WitnessValue: new(big.Int).Set(witness.Value)}
		hashInputs = append(hashInputs, witness.Value, nrpCommit)
	}

	c := hashToInt(hashInputs...)

	eCap := new(big.Int).Add(rE, new(big.Int).Mul(c, sig.E))
	vCap := new(big.Int).Add(rV, new(big.Int).Mul(c, vPrime))
	attrCaps := make(map[string]*big.Int, len(undisclosed))
	for _, idx := range undisclosed {
		name := attributeNames[idx]
		attrCaps[name] = new(big.Int).Add(rM[idx], new(big.Int).Mul(c, attributeValues[idx]))
	}

	if nrp != nil {
		nrp.Challenge = c
		nrp.Response = new(big.Int).Add(nrpRandomizer, new(big.Int).Mul(c, idToPrime(witness.RevocationID)))
	}

	return &model.SubProof{
		Type:                model.SubProofType,
		A:                   aPrime,
		Challenge:           c,
		EResponse:           eCap,
		VResponse:           vCap,
		AttributeResponses:  attrCaps,
		NonRevocationProof:  nrp,
	}, nil
}

// restrictedZ computes Z / prod(R_i^m_i) over only the disclosed attributes,
// the public quantity both prover and verifier must agree on.
func restrictedZ(pub *model.CredentialPublicKey, attributeValues map[int]*big.Int, disclosed map[int]bool) *big.Int {
	z := new(big.Int).Set(pub.Z)
	for idx, disc := range disclosed {
		if !disc {
			continue
		}
		val, ok := attributeValues[idx]
		if !ok {
			continue
		}
		inv := new(big.Int).ModInverse(modPow(pub.R[idx], val, pub.N), pub.N)
		if inv == nil {
			continue
		}
		z.Mul(z, inv)
		z.Mod(z, pub.N)
	}
	return z
}

// VerifySubProof checks a SubProof against the disclosed attribute values
// (indexed the same way they were signed) and, if present, the registry the
// non-revocation proof claims membership in.
func VerifySubProof(pub *model.CredentialPublicKey, proof *model.SubProof, attributeNamesByIndex map[int]string, disclosedValues map[int]*big.Int, disclosed map[int]bool, nonce *big.Int, registry *model.Accumulator) bool {
	zPrime := restrictedZ(pub, disclosedValues, disclosed)

	negC := new(big.Int).Neg(proof.Challenge)
	t := new(big.Int).Mod(new(big.Int).Mul(
		modPow(proof.A, proof.EResponse, pub.N),
		modPow(pub.S, proof.VResponse, pub.N),
	), pub.N)
	for idx, name := range attributeNamesByIndex {
		if disclosed[idx] {
			continue
		}
		attrCap, ok := proof.AttributeResponses[name]
		if !ok {
			return false
		}
		t.Mul(t, modPow(pub.R[idx], attrCap, pub.N))
		t.Mod(t, pub.N)
	}
	t.Mul(t, modPow(zPrime, negC, pub.N))
	t.Mod(t, pub.N)

	hashInputs := []*big.Int{pub.N, proof.A, zPrime, t, nonce}
	if proof.NonRevocationProof != nil {
		if registry == nil {
			return false
		}
		nrp := proof.NonRevocationProof
		negC := new(big.Int).Neg(nrp.Challenge)
		commit := new(big.Int).Mod(new(big.Int).Mul(
			modPow(nrp.WitnessValue, nrp.Response, registry.N),
			modPow(registry.Value, negC, registry.N),
		), registry.N)
		hashInputs = append(hashInputs, nrp.WitnessValue, commit)
	}

	c := hashToInt(hashInputs...)
	return c.Cmp(proof.Challenge) == 0
}
