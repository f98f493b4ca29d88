package crypto

import (
	"math/big"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// UnblindSignature folds the holder's blinding factor into an
// issuer-returned signature, producing the final V component usable in
// disclosure proofs. It does not mutate sig.
func UnblindSignature(sig *model.ClSignature, factors *model.CredentialSecretsBlindingFactors) *model.ClSignature {
	return &model.ClSignature{
		A: new(big.Int).Set(sig.A),
		E: new(big.Int).Set(sig.E),
		V: new(big.Int).Add(sig.V, factors.V),
	}
}

// VerifyCredentialSignature checks the full CL signature equation
// Z == A^E * S^V * prod(R_i^m_i) (mod N) over every attribute including the
// holder's own master secret.
func VerifyCredentialSignature(pub *model.CredentialPublicKey, sig *model.ClSignature, attributes map[int]*big.Int) bool {
	acc := new(big.Int).Mod(new(big.Int).Mul(
		modPow(sig.A, sig.E, pub.N),
		modPow(pub.S, sig.V, pub.N),
	), pub.N)
	for idx, val := range attributes {
		acc.Mul(acc, modPow(pub.R[idx], val, pub.N))
		acc.Mod(acc, pub.N)
	}
	return acc.Cmp(pub.Z) == 0
}
