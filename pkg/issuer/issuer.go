// Package issuer implements the issuer role (C3): publishing schemas and
// credential definitions, standing up revocation registries, and issuing
// and revoking credentials against them.
package issuer

import (
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/evannetwork/vade-evan-cl/pkg/assertion"
	cryptoadapter "github.com/evannetwork/vade-evan-cl/pkg/crypto"
	"github.com/evannetwork/vade-evan-cl/pkg/model"
	"github.com/evannetwork/vade-evan-cl/pkg/prover"
	"github.com/evannetwork/vade-evan-cl/pkg/signing"
)

const isoLayout = "2006-01-02T15:04:05.000Z"

// CreateCredentialSchema builds a signed CredentialSchema under assignedDID,
// a DID the caller has already allocated from the DID registry.
func CreateCredentialSchema(
	assignedDID string,
	issuerDID string,
	name, description string,
	properties map[string]model.SchemaProperty,
	required []string,
	additionalProperties bool,
	verificationMethod, privateKeyHex string,
	signer signing.Signer,
) (*model.CredentialSchema, error) {
	schema := &model.CredentialSchema{
		ID:                    assignedDID,
		Type:                  model.CredentialSchemaType,
		Name:                  name,
		Author:                issuerDID,
		CreatedAt:             time.Now().UTC().Format(isoLayout),
		Description:           description,
		Properties:            properties,
		Required:              required,
		AdditionalProperties:  additionalProperties,
	}

	proof, err := assertion.Sign(schema, verificationMethod, issuerDID, privateKeyHex, signer)
	if err != nil {
		return nil, model.ErrSigner.With("sign credential schema: %v", err)
	}
	schema.Proof = proof
	return schema, nil
}

// CreateCredentialDefinition builds a signed CredentialDefinition under
// assignedDID, a DID the caller has already allocated from the DID
// registry, and generates its matching private key. attributeCount must
// equal len(schema.Properties).
func CreateCredentialDefinition(
	assignedDID string,
	issuerDID, schemaID string,
	attributeCount int,
	verificationMethod, privateKeyHex string,
	signer signing.Signer,
) (*model.CredentialDefinition, *model.CredentialPrivateKey, error) {
	pub, priv, correctness, err := cryptoadapter.CreateCredentialDefinition(attributeCount)
	if err != nil {
		return nil, nil, model.ErrCrypto.With("generate credential definition keys: %v", err)
	}

	def := &model.CredentialDefinition{
		ID:                        assignedDID,
		Type:                      model.CredentialDefinitionType,
		Issuer:                    issuerDID,
		Schema:                    schemaID,
		CreatedAt:                 time.Now().UTC().Format(isoLayout),
		PublicKey:                 pub,
		PublicKeyCorrectnessProof: correctness,
	}

	proof, err := assertion.Sign(def, verificationMethod, issuerDID, privateKeyHex, signer)
	if err != nil {
		return nil, nil, model.ErrSigner.With("sign credential definition: %v", err)
	}
	def.Proof = proof
	return def, priv, nil
}

// CreateRevocationRegistryDefinition stands up a new, empty revocation
// registry under assignedDID, a DID the caller has already allocated from
// the DID registry, bound to credentialDefinitionID. The returned
// RevocationKeyPrivate is never published; the caller must keep it to later
// call RevokeCredential against this registry.
func CreateRevocationRegistryDefinition(
	assignedDID string,
	credentialDefinitionID string,
	maximumCredentialCount uint32,
	issuerDID, verificationMethod, privateKeyHex string,
	signer signing.Signer,
) (*model.RevocationRegistryDefinition, *model.RevocationKeyPrivate, *model.RevocationIdInformation, error) {
	accumulator, pubKey, privKey, err := cryptoadapter.CreateRevocationRegistry()
	if err != nil {
		return nil, nil, nil, model.ErrCrypto.With("create revocation registry: %v", err)
	}

	now := time.Now().UTC()
	def := &model.RevocationRegistryDefinition{
		ID:                     assignedDID,
		Type:                   model.RevocationRegistryDefinitionType,
		CredentialDefinition:   credentialDefinitionID,
		Registry:               accumulator,
		RegistryDelta:          &model.RevocationRegistryDelta{Accumulator: accumulator, Revoked: nil},
		DeltaHistory:           []model.DeltaHistoryEntry{{Created: uint64(now.Unix()), Delta: &model.RevocationRegistryDelta{Accumulator: accumulator, Revoked: nil}}},
		MaximumCredentialCount: maximumCredentialCount,
		RevocationPublicKey:    pubKey,
		UpdatedAt:              now.Format(isoLayout),
	}

	proof, err := assertion.Sign(def, verificationMethod, issuerDID, privateKeyHex, signer)
	if err != nil {
		return nil, nil, nil, model.ErrSigner.With("sign revocation registry definition: %v", err)
	}
	def.Proof = proof

	return def, privKey, model.NewRevocationIdInformation(def.ID), nil
}

// OfferCredential builds a CredentialOffer carrying a fresh nonce.
func OfferCredential(issuerDID, subjectDID, schemaID, credentialDefinitionID string) (*model.CredentialOffer, error) {
	nonce, err := cryptoadapter.GenerateNonce()
	if err != nil {
		return nil, model.ErrCrypto.With("generate offer nonce: %v", err)
	}
	return &model.CredentialOffer{
		Type:                 model.CredentialOfferType,
		Issuer:               issuerDID,
		Subject:              subjectDID,
		Schema:               schemaID,
		CredentialDefinition: credentialDefinitionID,
		Nonce:                nonce,
	}, nil
}

// IssueCredential fills in missing optional attributes, allocates the next
// revocation id, signs the blinded attribute set and returns both the
// finished Credential and the RevocationState the holder must keep to
// produce later non-revocation proofs.
func IssueCredential(
	schema *model.CredentialSchema,
	definition *model.CredentialDefinition,
	definitionPrivateKey *model.CredentialPrivateKey,
	request *model.CredentialRequest,
	registryDef *model.RevocationRegistryDefinition,
	revocationInfo *model.RevocationIdInformation,
	issuerDID string,
) (*model.Credential, *model.RevocationState, error) {
	required := schema.RequiredSet()
	values := make(map[string]model.EncodedCredentialValue, len(schema.Properties))

	for name := range schema.Properties {
		if v, ok := request.CredentialValues[name]; ok {
			values[name] = v
			continue
		}
		if _, isRequired := required[name]; isRequired {
			return nil, nil, model.ErrMissingRequired.With("missing required schema property %q", name)
		}
		values[name] = prover.EncodeValue("null")
	}

	if !schema.AdditionalProperties {
		for name := range request.CredentialValues {
			if _, known := schema.Properties[name]; !known {
				return nil, nil, model.ErrUnknownAttribute.With("unknown schema property %q", name)
			}
		}
	}

	if revocationInfo.NextUnusedID > registryDef.MaximumCredentialCount {
		return nil, nil, model.ErrRegistryFull.With("revocation registry %q is full", registryDef.ID)
	}
	revID := revocationInfo.NextUnusedID
	if revocationInfo.UsedIDs.Has(revID) {
		return nil, nil, model.ErrRevocationIdReused.With("revocation id %d already used", revID)
	}
	revocationInfo.UsedIDs.Add(revID)
	revocationInfo.NextUnusedID++

	nameToIndex, _ := model.AttributeIndex(schema)
	attributes := make(map[int]*big.Int, len(values))
	for name, v := range values {
		attributes[nameToIndex[name]] = v.Encoded
	}

	sig, correctness, nonce, witness, err := cryptoadapter.SignCredentialWithRevocation(
		definition.PublicKey, definitionPrivateKey, request.BlindedCredentialSecrets, attributes, registryDef.Registry, revID,
	)
	if err != nil {
		return nil, nil, model.ErrCrypto.With("sign credential: %v", err)
	}

	credID := "did:evan:zkp:" + uuid.NewString()
	now := time.Now().UTC()

	cred := &model.Credential{
		Context:      []string{model.CredentialContext},
		ID:           credID,
		Type:         []string{model.CredentialTypeVC},
		Issuer:       issuerDID,
		IssuanceDate: now.Format(isoLayout),
		CredentialSubject: model.CredentialSubject{
			ID:   request.Subject,
			Data: values,
		},
		CredentialSchema: model.CredentialSchemaReference{ID: schema.ID, Type: model.CredentialSchemaRefType},
		Proof: model.CredentialSignature{
			Type:                         model.CredentialSignatureType,
			CredentialDefinition:         definition.ID,
			IssuanceNonce:                nonce,
			Signature:                    sig,
			SignatureCorrectnessProof:    correctness,
			RevocationID:                 revID,
			RevocationRegistryDefinition: registryDef.ID,
		},
	}

	state := &model.RevocationState{
		CredentialID: credID,
		RevocationID: revID,
		Delta:        &model.RevocationRegistryDelta{Accumulator: registryDef.Registry, Revoked: nil},
		Updated:      uint64(now.Unix()),
		Witness:      witness,
	}

	return cred, state, nil
}

// RevokeCredential marks revocationID as revoked in registryDef, updates and
// re-signs the registry definition, and returns the delta to distribute to
// holders of other, still-valid credentials from the same registry.
func RevokeCredential(
	registryDef *model.RevocationRegistryDefinition,
	registryPrivateKey *model.RevocationKeyPrivate,
	revocationID uint32,
	issuerDID, verificationMethod, privateKeyHex string,
	signer signing.Signer,
) (*model.RevocationRegistryDefinition, *model.RevocationRegistryDelta, error) {
	for _, entry := range registryDef.DeltaHistory {
		for _, id := range entry.Delta.Revoked {
			if id == revocationID {
				return nil, nil, model.ErrAlreadyRevoked.With("revocation id %d already revoked", revocationID)
			}
		}
	}

	var alreadyRevoked []uint32
	if len(registryDef.DeltaHistory) > 0 {
		alreadyRevoked = registryDef.DeltaHistory[len(registryDef.DeltaHistory)-1].Delta.Revoked
	}

	delta, err := cryptoadapter.Revoke(registryDef.Registry, registryPrivateKey, revocationID, alreadyRevoked)
	if err != nil {
		return nil, nil, model.ErrCrypto.With("revoke credential: %v", err)
	}

	registryDef.RegistryDelta = delta
	now := time.Now().UTC()
	registryDef.DeltaHistory = append(registryDef.DeltaHistory, model.DeltaHistoryEntry{Created: uint64(now.Unix()), Delta: delta})
	registryDef.UpdatedAt = now.Format(isoLayout)
	registryDef.Proof = nil

	proof, err := assertion.Sign(registryDef, verificationMethod, issuerDID, privateKeyHex, signer)
	if err != nil {
		return nil, nil, model.ErrSigner.With("sign revocation registry definition: %v", err)
	}
	registryDef.Proof = proof

	return registryDef, delta, nil
}
