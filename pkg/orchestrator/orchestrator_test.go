package orchestrator_test

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evannetwork/vade-evan-cl/pkg/didtest"
	"github.com/evannetwork/vade-evan-cl/pkg/model"
	"github.com/evannetwork/vade-evan-cl/pkg/orchestrator"
	"github.com/evannetwork/vade-evan-cl/pkg/prover"
	"github.com/evannetwork/vade-evan-cl/pkg/signing"
)

func newIdentity(t *testing.T) (did string, privateKeyHex string) {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return "did:evan:test:" + hex.EncodeToString(priv.PubKey().SerializeCompressed()[:8]), "0x" + hex.EncodeToString(priv.Serialize())
}

func clOpts() orchestrator.TypeOptions { return orchestrator.TypeOptions{Type: orchestrator.CredentialType} }

// TestFullCredentialLifecycle exercises schema and definition publication,
// proposal/offer/request/issuance, post-processing, a selective-disclosure
// presentation that verifies, and a revocation that makes a later
// presentation fail.
func TestFullCredentialLifecycle(t *testing.T) {
	ctx := context.Background()
	registry := didtest.New()
	signer := signing.NewSoftwareSigner()
	o := orchestrator.New(registry, registry, signer)

	issuerDID, issuerKey := newIdentity(t)
	holderDID, _ := newIdentity(t)
	verifierDID, _ := newIdentity(t)
	auth := orchestrator.AuthenticationOptions{PrivateKey: issuerKey, Identity: issuerDID + "#key-1"}

	schema, err := o.CreateCredentialSchema(ctx, clOpts(), auth, issuerDID, "Email Credential", "proves control of an email address",
		map[string]model.SchemaProperty{
			"email":     {Type: "string"},
			"marketing": {Type: "string"},
		},
		[]string{"email"}, false)
	require.NoError(t, err)
	assert.Equal(t, model.CredentialSchemaType, schema.Type)

	definition, definitionPrivateKey, err := o.CreateCredentialDefinition(ctx, clOpts(), auth, issuerDID, schema.ID)
	require.NoError(t, err)
	require.NotNil(t, definitionPrivateKey)

	regDef, regPrivateKey, revInfo, err := o.CreateRevocationRegistryDefinition(ctx, clOpts(), auth, issuerDID, definition.ID, 10)
	require.NoError(t, err)
	require.NotNil(t, regPrivateKey)
	assert.Equal(t, uint32(1), revInfo.NextUnusedID)

	proposal, err := o.ProposeCredential(clOpts(), issuerDID, holderDID, schema.ID)
	require.NoError(t, err)
	assert.Equal(t, holderDID, proposal.Subject)

	offer, err := o.OfferCredential(clOpts(), issuerDID, holderDID, schema.ID, definition.ID)
	require.NoError(t, err)

	secret, err := prover.CreateMasterSecret()
	require.NoError(t, err)

	values := map[string]model.EncodedCredentialValue{
		"email": prover.EncodeValue("alice@example.com"),
	}
	request, factors, err := o.RequestCredential(ctx, clOpts(), offer, holderDID, secret, values)
	require.NoError(t, err)

	cred, state, err := o.IssueCredential(ctx, clOpts(), issuerDID, schema.ID, definition.ID, definitionPrivateKey, request, regDef.ID, revInfo)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), state.RevocationID)
	assert.Equal(t, "alice@example.com", cred.CredentialSubject.Data["email"].Raw)
	assert.Equal(t, "null", cred.CredentialSubject.Data["marketing"].Raw)

	err = o.FinishCredential(ctx, clOpts(), cred, schema.ID, definition.ID, request.BlindedCredentialSecrets, factors, secret)
	require.NoError(t, err)

	proofRequest, err := o.RequestProof(clOpts(), verifierDID, []model.SubProofRequest{
		{Schema: schema.ID, RevealedAttributes: []string{"email"}},
	})
	require.NoError(t, err)

	presentation, err := o.PresentProof(ctx, clOpts(), proofRequest,
		[]*model.Credential{cred}, []string{schema.ID}, []string{definition.ID}, secret,
		[]*model.Witness{state.Witness}, []string{regDef.ID})
	require.NoError(t, err)
	require.Len(t, presentation.VerifiableCredential, 1)
	assert.Equal(t, "alice@example.com", presentation.VerifiableCredential[0].CredentialSubject.Data["email"].Raw)
	_, marketingDisclosed := presentation.VerifiableCredential[0].CredentialSubject.Data["marketing"]
	assert.False(t, marketingDisclosed)

	verification, err := o.VerifyProof(ctx, clOpts(), proofRequest, presentation)
	require.NoError(t, err)
	assert.Equal(t, model.ProofVerified, verification.Status)

	_, _, err = o.RevokeCredential(ctx, clOpts(), auth, issuerDID, regDef.ID, regPrivateKey, state.RevocationID)
	require.NoError(t, err)

	staleProofRequest, err := o.RequestProof(clOpts(), verifierDID, []model.SubProofRequest{
		{Schema: schema.ID, RevealedAttributes: []string{"email"}},
	})
	require.NoError(t, err)
	stalePresentation, err := o.PresentProof(ctx, clOpts(), staleProofRequest,
		[]*model.Credential{cred}, []string{schema.ID}, []string{definition.ID}, secret,
		[]*model.Witness{state.Witness}, []string{regDef.ID})
	require.NoError(t, err)

	staleVerification, err := o.VerifyProof(ctx, clOpts(), staleProofRequest, stalePresentation)
	require.NoError(t, err)
	assert.Equal(t, model.ProofRejected, staleVerification.Status)
}

func TestIgnoresUnrelatedType(t *testing.T) {
	ctx := context.Background()
	registry := didtest.New()
	o := orchestrator.New(registry, registry, signing.NewSoftwareSigner())

	_, err := o.CreateCredentialSchema(ctx, orchestrator.TypeOptions{Type: "jwt-vc"}, orchestrator.AuthenticationOptions{}, "did:evan:test:issuer", "n", "d", nil, nil, false)
	assert.ErrorIs(t, err, orchestrator.ErrIgnored)
}

func TestMissingRequiredAttributeRejected(t *testing.T) {
	ctx := context.Background()
	registry := didtest.New()
	signer := signing.NewSoftwareSigner()
	o := orchestrator.New(registry, registry, signer)

	issuerDID, issuerKey := newIdentity(t)
	holderDID, _ := newIdentity(t)
	auth := orchestrator.AuthenticationOptions{PrivateKey: issuerKey, Identity: issuerDID + "#key-1"}

	schema, err := o.CreateCredentialSchema(ctx, clOpts(), auth, issuerDID, "Email Credential", "", map[string]model.SchemaProperty{
		"email": {Type: "string"},
	}, []string{"email"}, false)
	require.NoError(t, err)

	definition, definitionPrivateKey, err := o.CreateCredentialDefinition(ctx, clOpts(), auth, issuerDID, schema.ID)
	require.NoError(t, err)

	regDef, _, revInfo, err := o.CreateRevocationRegistryDefinition(ctx, clOpts(), auth, issuerDID, definition.ID, 10)
	require.NoError(t, err)

	offer, err := o.OfferCredential(clOpts(), issuerDID, holderDID, schema.ID, definition.ID)
	require.NoError(t, err)

	secret, err := prover.CreateMasterSecret()
	require.NoError(t, err)

	request, _, err := o.RequestCredential(ctx, clOpts(), offer, holderDID, secret, map[string]model.EncodedCredentialValue{})
	require.NoError(t, err)

	_, _, err = o.IssueCredential(ctx, clOpts(), issuerDID, schema.ID, definition.ID, definitionPrivateKey, request, regDef.ID, revInfo)
	assert.ErrorIs(t, err, model.ErrMissingRequired)
}

func TestUnknownAttributeRejectedWhenAdditionalPropertiesDisallowed(t *testing.T) {
	ctx := context.Background()
	registry := didtest.New()
	signer := signing.NewSoftwareSigner()
	o := orchestrator.New(registry, registry, signer)

	issuerDID, issuerKey := newIdentity(t)
	holderDID, _ := newIdentity(t)
	auth := orchestrator.AuthenticationOptions{PrivateKey: issuerKey, Identity: issuerDID + "#key-1"}

	schema, err := o.CreateCredentialSchema(ctx, clOpts(), auth, issuerDID, "Email Credential", "", map[string]model.SchemaProperty{
		"email": {Type: "string"},
	}, nil, false)
	require.NoError(t, err)

	definition, definitionPrivateKey, err := o.CreateCredentialDefinition(ctx, clOpts(), auth, issuerDID, schema.ID)
	require.NoError(t, err)

	regDef, _, revInfo, err := o.CreateRevocationRegistryDefinition(ctx, clOpts(), auth, issuerDID, definition.ID, 10)
	require.NoError(t, err)

	offer, err := o.OfferCredential(clOpts(), issuerDID, holderDID, schema.ID, definition.ID)
	require.NoError(t, err)

	secret, err := prover.CreateMasterSecret()
	require.NoError(t, err)

	request, _, err := o.RequestCredential(ctx, clOpts(), offer, holderDID, secret, map[string]model.EncodedCredentialValue{
		"email":      prover.EncodeValue("alice@example.com"),
		"unexpected": prover.EncodeValue("x"),
	})
	require.NoError(t, err)

	_, _, err = o.IssueCredential(ctx, clOpts(), issuerDID, schema.ID, definition.ID, definitionPrivateKey, request, regDef.ID, revInfo)
	assert.ErrorIs(t, err, model.ErrUnknownAttribute)
}

func TestRegistryFullRejected(t *testing.T) {
	ctx := context.Background()
	registry := didtest.New()
	signer := signing.NewSoftwareSigner()
	o := orchestrator.New(registry, registry, signer)

	issuerDID, issuerKey := newIdentity(t)
	holderDID, _ := newIdentity(t)
	auth := orchestrator.AuthenticationOptions{PrivateKey: issuerKey, Identity: issuerDID + "#key-1"}

	schema, err := o.CreateCredentialSchema(ctx, clOpts(), auth, issuerDID, "Email Credential", "", map[string]model.SchemaProperty{
		"email": {Type: "string"},
	}, nil, true)
	require.NoError(t, err)

	definition, definitionPrivateKey, err := o.CreateCredentialDefinition(ctx, clOpts(), auth, issuerDID, schema.ID)
	require.NoError(t, err)

	regDef, _, revInfo, err := o.CreateRevocationRegistryDefinition(ctx, clOpts(), auth, issuerDID, definition.ID, 1)
	require.NoError(t, err)

	issueOnce := func() error {
		offer, err := o.OfferCredential(clOpts(), issuerDID, holderDID, schema.ID, definition.ID)
		require.NoError(t, err)
		secret, err := prover.CreateMasterSecret()
		require.NoError(t, err)
		request, _, err := o.RequestCredential(ctx, clOpts(), offer, holderDID, secret, map[string]model.EncodedCredentialValue{
			"email": prover.EncodeValue("alice@example.com"),
		})
		require.NoError(t, err)
		_, _, err = o.IssueCredential(ctx, clOpts(), issuerDID, schema.ID, definition.ID, definitionPrivateKey, request, regDef.ID, revInfo)
		return err
	}

	require.NoError(t, issueOnce())
	assert.ErrorIs(t, issueOnce(), model.ErrRegistryFull)
}

func TestRunCustomFunction(t *testing.T) {
	registry := didtest.New()
	o := orchestrator.New(registry, registry, signing.NewSoftwareSigner())

	secret, err := o.RunCustomFunction(clOpts(), orchestrator.FunctionCreateMasterSecret, 0)
	require.NoError(t, err)
	require.IsType(t, &model.MasterSecret{}, secret)

	prime, err := o.RunCustomFunction(clOpts(), orchestrator.FunctionGenerateSafePrime, 128)
	require.NoError(t, err)
	p, ok := prime.(*big.Int)
	require.True(t, ok)
	assert.True(t, p.ProbablyPrime(20))

	_, err = o.RunCustomFunction(clOpts(), "not_a_function", 0)
	assert.ErrorIs(t, err, model.ErrUnsupported)

	wrongType := orchestrator.TypeOptions{Type: "something-else"}
	_, err = o.RunCustomFunction(wrongType, orchestrator.FunctionCreateMasterSecret, 0)
	assert.ErrorIs(t, err, orchestrator.ErrIgnored)
}
