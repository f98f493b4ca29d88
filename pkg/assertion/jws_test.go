package assertion_test

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evannetwork/vade-evan-cl/pkg/assertion"
	"github.com/evannetwork/vade-evan-cl/pkg/signing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	privHex := "0x" + hex.EncodeToString(priv.Serialize())

	signer := signing.NewSoftwareSigner()

	doc := map[string]any{
		"id":   "did:evan:test:1234",
		"type": "EvanVCSchema",
	}

	proof, err := assertion.Sign(doc, "did:evan:test#key-1", "did:evan:test", privHex, signer)
	require.NoError(t, err)
	assert.Equal(t, "EcdsaPublicKeySecp256k1", proof.Type)
	assert.NotEmpty(t, proof.Jws)

	address, rawDoc, err := assertion.RecoverAddressAndData(proof.Jws)
	require.NoError(t, err)
	assert.NotEmpty(t, address)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rawDoc, &decoded))
	assert.Equal(t, "did:evan:test:1234", decoded["id"])

	docWithProof := map[string]any{
		"id":    "did:evan:test:1234",
		"type":  "EvanVCSchema",
		"proof": proofToMap(t, proof),
	}
	ok, err := assertion.Verify(docWithProof, address)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsWrongAddress(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	privHex := "0x" + hex.EncodeToString(priv.Serialize())
	signer := signing.NewSoftwareSigner()

	doc := map[string]any{"id": "did:evan:test:5678"}
	proof, err := assertion.Sign(doc, "did:evan:test#key-1", "did:evan:test", privHex, signer)
	require.NoError(t, err)

	docWithProof := map[string]any{
		"id":    "did:evan:test:5678",
		"proof": proofToMap(t, proof),
	}
	ok, err := assertion.Verify(docWithProof, "0x0000000000000000000000000000000000000000")
	assert.Error(t, err)
	assert.False(t, ok)
}

func proofToMap(t *testing.T, proof any) map[string]any {
	t.Helper()
	b, err := json.Marshal(proof)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}
