package crypto

import (
	"math/big"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// masterSecretIndex returns the R-base index reserved for a credential
// definition's holder-blinded master secret: the last of AttributeCount
// bases.
func masterSecretIndex(pub *model.CredentialPublicKey) int {
	return pub.AttributeCount - 1
}

// BlindCredentialSecrets commits to a master secret under an issuer's
// public key, returning the commitment to send the issuer alongside a
// CredentialRequest and the blinding factors needed to unblind the
// resulting signature.
func BlindCredentialSecrets(pub *model.CredentialPublicKey, secret *model.MasterSecret) (*model.BlindedCredentialSecrets, *model.CredentialSecretsBlindingFactors, *model.BlindedCredentialSecretsCorrectnessProof, error) {
	vTilde, err := randomBigInt(pub.Params.LvCommit)
	if err != nil {
		return nil, nil, nil, err
	}

	msIdx := masterSecretIndex(pub)
	u := new(big.Int).Mod(new(big.Int).Mul(
		modPow(pub.S, vTilde, pub.N),
		modPow(pub.R[msIdx], secret.Value, pub.N),
	), pub.N)

	r1, err := randomBigInt(pub.Params.LmCommit)
	if err != nil {
		return nil, nil, nil, err
	}
	r2, err := randomBigInt(pub.Params.LvCommit)
	if err != nil {
		return nil, nil, nil, err
	}
	t := new(big.Int).Mod(new(big.Int).Mul(
		modPow(pub.R[msIdx], r1, pub.N),
		modPow(pub.S, r2, pub.N),
	), pub.N)
	c := hashToInt(pub.N, u, t)
	msCap := new(big.Int).Add(r1, new(big.Int).Mul(c, secret.Value))
	vCap := new(big.Int).Add(r2, new(big.Int).Mul(c, vTilde))

	return &model.BlindedCredentialSecrets{U: u},
		&model.CredentialSecretsBlindingFactors{V: vTilde},
		&model.BlindedCredentialSecretsCorrectnessProof{C: c, MsCap: msCap, VDashCap: vCap}, nil
}

// VerifyBlindedCredentialSecrets checks a holder-supplied commitment and
// its correctness proof without learning the master secret.
func VerifyBlindedCredentialSecrets(pub *model.CredentialPublicKey, blinded *model.BlindedCredentialSecrets, proof *model.BlindedCredentialSecretsCorrectnessProof) bool {
	if blinded == nil || proof == nil {
		return false
	}
	msIdx := masterSecretIndex(pub)
	negC := new(big.Int).Neg(proof.C)
	t := new(big.Int).Mod(new(big.Int).Mul(
		new(big.Int).Mod(new(big.Int).Mul(
			modPow(pub.R[msIdx], proof.MsCap, pub.N),
			modPow(pub.S, proof.VDashCap, pub.N),
		), pub.N),
		modPow(blinded.U, negC, pub.N),
	), pub.N)
	c := hashToInt(pub.N, blinded.U, t)
	return c.Cmp(proof.C) == 0
}

// eBits is the bit length issuer-chosen signature exponents are drawn from.
// Kept well under Params.Le so the interval proof used during disclosure
// (not yet exercised by the simplified prover in this package) has room.
const eBits = 60

// vPrimeBits is the bit length of the issuer-chosen portion of the blinded
// signature's V component.
const vPrimeBits = 2048

// SignCredentialWithRevocation issues a CL signature over a mix of
// plaintext attribute values and a holder-blinded master secret, folding in
// a freshly allocated revocation id. The returned Witness should be stored
// alongside the signature by the holder for later non-revocation proofs.
func SignCredentialWithRevocation(
	pub *model.CredentialPublicKey,
	priv *model.CredentialPrivateKey,
	blinded *model.BlindedCredentialSecrets,
	attributes map[int]*big.Int,
	registry *model.Accumulator,
	revocationID uint32,
) (*model.ClSignature, *model.SignatureCorrectnessProof, *big.Int, *model.Witness, error) {
	order := new(big.Int).Mul(priv.PPrime, priv.QPrime)

	numerator := new(big.Int).ModInverse(blinded.U, pub.N)
	if numerator == nil {
		return nil, nil, nil, nil, model.ErrCrypto.With("blinded secret is not invertible mod N")
	}
	numerator.Mod(numerator, pub.N)
	numerator.Mul(numerator, pub.Z)
	numerator.Mod(numerator, pub.N)
	for idx, val := range attributes {
		numerator.Mul(numerator, new(big.Int).ModInverse(modPow(pub.R[idx], val, pub.N), pub.N))
		numerator.Mod(numerator, pub.N)
	}

	e, err := randomPrime(eBits)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	vPrimePrime, err := randomBigInt(vPrimeBits)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	// numerator currently holds Z / (U * prod R_i^mi), which reconstructs
	// A^e * S^vPrimePrime since U already carries the holder's hidden
	// S^vTilde factor. Divide out S^vPrimePrime before taking the e-th root
	// so the holder's final V = vTilde + vPrimePrime (see UnblindSignature)
	// satisfies Z == A^E * S^V * prod(R_i^mi).
	numerator.Mul(numerator, modPow(pub.S, new(big.Int).Neg(vPrimePrime), pub.N))
	numerator.Mod(numerator, pub.N)

	eInv := new(big.Int).ModInverse(e, order)
	if eInv == nil {
		return nil, nil, nil, nil, model.ErrCrypto.With("signature exponent not invertible mod key order")
	}
	a := modPow(numerator, eInv, pub.N)

	sig := &model.ClSignature{A: a, E: e, V: vPrimePrime}

	r, err := randomBigInt(eBits + 80)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	t := modPow(a, r, pub.N)
	c := hashToInt(pub.N, a, numerator, t)
	se := new(big.Int).Add(r, new(big.Int).Mul(c, e))
	correctness := &model.SignatureCorrectnessProof{SE: se, C: c}

	nonce, err := randomBigInt(pub.Params.Lm)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	witness := IssueWitness(registry, revocationID)
	FoldIn(registry, revocationID)

	return sig, correctness, nonce, witness, nil
}

// VerifySignatureCorrectness checks a SignatureCorrectnessProof against the
// numerator Z/(U * S^V * prod R_i^m_i) the issuer claims A^E reconstructs,
// where V is the issuer's share sig.V of a not-yet-unblinded signature.
func VerifySignatureCorrectness(pub *model.CredentialPublicKey, blinded *model.BlindedCredentialSecrets, attributes map[int]*big.Int, sig *model.ClSignature, proof *model.SignatureCorrectnessProof) bool {
	numerator := new(big.Int).ModInverse(blinded.U, pub.N)
	if numerator == nil {
		return false
	}
	numerator.Mod(numerator, pub.N)
	numerator.Mul(numerator, pub.Z)
	numerator.Mod(numerator, pub.N)
	numerator.Mul(numerator, modPow(pub.S, new(big.Int).Neg(sig.V), pub.N))
	numerator.Mod(numerator, pub.N)
	for idx, val := range attributes {
		inv := new(big.Int).ModInverse(modPow(pub.R[idx], val, pub.N), pub.N)
		if inv == nil {
			return false
		}
		numerator.Mul(numerator, inv)
		numerator.Mod(numerator, pub.N)
	}

	negC := new(big.Int).Neg(proof.C)
	t := new(big.Int).Mod(new(big.Int).Mul(
		modPow(sig.A, proof.SE, pub.N),
		modPow(numerator, negC, pub.N),
	), pub.N)
	c := hashToInt(pub.N, sig.A, numerator, t)
	return c.Cmp(proof.C) == 0
}

// randomPrime returns a probable prime with the given bit length.
func randomPrime(bits uint) (*big.Int, error) {
	p, _, err := GenerateSafePrime(int(bits))
	if err != nil {
		return nil, err
	}
	return p, nil
}
