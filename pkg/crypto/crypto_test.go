package crypto_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoadapter "github.com/evannetwork/vade-evan-cl/pkg/crypto"
	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

func TestKeyCorrectnessProofVerifies(t *testing.T) {
	pub, _, proof, err := cryptoadapter.CreateCredentialDefinition(2)
	require.NoError(t, err)
	assert.True(t, cryptoadapter.VerifyKeyCorrectness(pub, proof))
}

func TestKeyCorrectnessProofRejectsTamperedKey(t *testing.T) {
	pub, _, proof, err := cryptoadapter.CreateCredentialDefinition(2)
	require.NoError(t, err)
	pub.Z = new(big.Int).Add(pub.Z, big.NewInt(1))
	assert.False(t, cryptoadapter.VerifyKeyCorrectness(pub, proof))
}

func TestBlindAndSignRoundTrip(t *testing.T) {
	pub, priv, _, err := cryptoadapter.CreateCredentialDefinition(1)
	require.NoError(t, err)

	secret := &model.MasterSecret{Value: big.NewInt(424242)}
	blinded, factors, correctness, err := cryptoadapter.BlindCredentialSecrets(pub, secret)
	require.NoError(t, err)
	assert.True(t, cryptoadapter.VerifyBlindedCredentialSecrets(pub, blinded, correctness))

	registry, _, _, err := cryptoadapter.CreateRevocationRegistry()
	require.NoError(t, err)

	attributes := map[int]*big.Int{0: big.NewInt(7)}
	sig, sigProof, _, witness, err := cryptoadapter.SignCredentialWithRevocation(pub, priv, blinded, attributes, registry, 1)
	require.NoError(t, err)
	assert.True(t, cryptoadapter.VerifySignatureCorrectness(pub, blinded, attributes, sig, sigProof))

	unblinded := cryptoadapter.UnblindSignature(sig, factors)
	msIdx := pub.AttributeCount - 1
	attributes[msIdx] = secret.Value
	assert.True(t, cryptoadapter.VerifyCredentialSignature(pub, unblinded, attributes))
	assert.True(t, cryptoadapter.VerifyWitness(registry, witness))
}

func TestRevokeAndUpdateWitness(t *testing.T) {
	registry, _, privKey, err := cryptoadapter.CreateRevocationRegistry()
	require.NoError(t, err)

	w1 := cryptoadapter.IssueWitness(registry, 1)
	cryptoadapter.FoldIn(registry, 1)
	w2 := cryptoadapter.IssueWitness(registry, 2)
	cryptoadapter.FoldIn(registry, 2)

	assert.True(t, cryptoadapter.VerifyWitness(registry, w1))
	assert.True(t, cryptoadapter.VerifyWitness(registry, w2))

	delta, err := cryptoadapter.Revoke(registry, privKey, 2, nil)
	require.NoError(t, err)

	updated, err := cryptoadapter.UpdateWitness(w1, delta)
	require.NoError(t, err)
	assert.True(t, cryptoadapter.VerifyWitness(registry, updated))

	_, err = cryptoadapter.UpdateWitness(w2, delta)
	assert.ErrorIs(t, err, model.ErrAlreadyRevoked)
}

func TestBuildAndVerifySubProof(t *testing.T) {
	pub, priv, _, err := cryptoadapter.CreateCredentialDefinition(2)
	require.NoError(t, err)

	secret := &model.MasterSecret{Value: big.NewInt(99)}
	blinded, factors, _, err := cryptoadapter.BlindCredentialSecrets(pub, secret)
	require.NoError(t, err)

	registry, _, _, err := cryptoadapter.CreateRevocationRegistry()
	require.NoError(t, err)

	attributes := map[int]*big.Int{0: big.NewInt(30), 1: big.NewInt(1)}
	sig, _, _, witness, err := cryptoadapter.SignCredentialWithRevocation(pub, priv, blinded, attributes, registry, 5)
	require.NoError(t, err)

	unblinded := cryptoadapter.UnblindSignature(sig, factors)
	msIdx := pub.AttributeCount - 1
	allAttrs := map[int]*big.Int{0: attributes[0], 1: attributes[1], msIdx: secret.Value}

	names := map[int]string{0: "age", 1: "country", msIdx: "__masterSecret"}
	disclosed := map[int]bool{0: true}
	nonce := big.NewInt(123456789)

	subProof, err := cryptoadapter.BuildSubProof(pub, unblinded, allAttrs, names, disclosed, nonce, witness, registry)
	require.NoError(t, err)

	disclosedValues := map[int]*big.Int{0: allAttrs[0]}
	assert.True(t, cryptoadapter.VerifySubProof(pub, subProof, names, disclosedValues, disclosed, nonce, registry))

	tampered := *subProof
	tampered.Challenge = new(big.Int).Add(subProof.Challenge, big.NewInt(1))
	assert.False(t, cryptoadapter.VerifySubProof(pub, &tampered, names, disclosedValues, disclosed, nonce, registry))
}
