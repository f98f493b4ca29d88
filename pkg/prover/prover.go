// Package prover implements the holder/prover role (C4): creating a master
// secret, proposing and requesting credentials, post-processing a signed
// credential, and producing selective-disclosure presentations.
package prover

import (
	"math/big"

	cryptoadapter "github.com/evannetwork/vade-evan-cl/pkg/crypto"
	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// CreateMasterSecret generates a fresh holder master secret. It must be
// generated once per holder identity and reused across every credential
// that holder requests, so that presentations from different credentials
// can be proven (in zero knowledge) to share an owner.
func CreateMasterSecret() (*model.MasterSecret, error) {
	v, err := cryptoadapter.GenerateNonce()
	if err != nil {
		return nil, model.ErrCrypto.With("generate master secret: %v", err)
	}
	return &model.MasterSecret{Value: v}, nil
}

// ProposeCredential builds a CredentialProposal a holder sends an issuer to
// request the issuance of a credential against schemaID.
func ProposeCredential(issuerDID, subjectDID, schemaID string) *model.CredentialProposal {
	return &model.CredentialProposal{
		Type:    model.CredentialProposalType,
		Issuer:  issuerDID,
		Subject: subjectDID,
		Schema:  schemaID,
	}
}

// RequestCredential blinds secret under definition's public key and folds
// in plaintext values, returning a CredentialRequest to send the issuer and
// the blinding factors needed later by PostProcessCredentialSignature.
func RequestCredential(
	definition *model.CredentialDefinition,
	offer *model.CredentialOffer,
	subjectDID string,
	secret *model.MasterSecret,
	values map[string]model.EncodedCredentialValue,
) (*model.CredentialRequest, *model.CredentialSecretsBlindingFactors, error) {
	blinded, factors, correctness, err := cryptoadapter.BlindCredentialSecrets(definition.PublicKey, secret)
	if err != nil {
		return nil, nil, model.ErrCrypto.With("blind credential secrets: %v", err)
	}

	req := &model.CredentialRequest{
		Subject:                                  subjectDID,
		Type:                                      model.CredentialRequestType,
		Schema:                                    offer.Schema,
		CredentialDefinition:                      definition.ID,
		CredentialValues:                          values,
		BlindedCredentialSecrets:                  blinded,
		BlindedCredentialSecretsCorrectnessProof:  correctness,
		Nonce:                                     offer.Nonce,
	}
	return req, factors, nil
}

// PostProcessCredentialSignature unblinds a just-issued credential's
// signature and verifies both the signature correctness proof the issuer
// attached and the full signature equation, returning ErrSignatureInvalid
// if either check fails. On success it replaces cred's signature in place
// with the unblinded one.
func PostProcessCredentialSignature(
	cred *model.Credential,
	schema *model.CredentialSchema,
	definition *model.CredentialDefinition,
	blindedSecrets *model.BlindedCredentialSecrets,
	factors *model.CredentialSecretsBlindingFactors,
	secret *model.MasterSecret,
) error {
	nameToIndex, _ := model.AttributeIndex(schema)
	attributes := make(map[int]*big.Int, len(cred.CredentialSubject.Data)+1)
	for name, v := range cred.CredentialSubject.Data {
		attributes[nameToIndex[name]] = v.Encoded
	}

	if !cryptoadapter.VerifySignatureCorrectness(definition.PublicKey, blindedSecrets, attributes, cred.Proof.Signature, cred.Proof.SignatureCorrectnessProof) {
		return model.ErrSignatureInvalid.With("signature correctness proof did not verify")
	}

	unblinded := cryptoadapter.UnblindSignature(cred.Proof.Signature, factors)

	msIdx := model.MasterSecretIndex(len(schema.Properties))
	attributes[msIdx] = secret.Value

	if !cryptoadapter.VerifyCredentialSignature(definition.PublicKey, unblinded, attributes) {
		return model.ErrSignatureInvalid.With("credential signature did not verify")
	}

	cred.Proof.Signature = unblinded
	return nil
}

// PresentProof builds a ProofPresentation satisfying request, disclosing
// exactly the attributes each sub proof request asks for from the matching
// entry of credentials and folding in a non-revocation proof wherever a
// witness and the registry's current state are supplied. credentials,
// schemas, definitions, witnesses and registries are parallel to
// request.SubProofRequests: index i of each answers request.SubProofRequests[i].
// witnesses[i]/registries[i] may be nil for a sub proof request whose
// credential carries no revocation registry. secret is the single holder
// master secret bound into every sub proof.
func PresentProof(
	request *model.ProofRequest,
	credentials []*model.Credential,
	schemas []*model.CredentialSchema,
	definitions []*model.CredentialDefinition,
	secret *model.MasterSecret,
	witnesses []*model.Witness,
	registries []*model.Accumulator,
) (*model.ProofPresentation, error) {
	count := len(request.SubProofRequests)
	if len(credentials) != count || len(schemas) != count || len(definitions) != count || len(witnesses) != count || len(registries) != count {
		return nil, model.ErrMalformed.With("expected %d credentials/schemas/definitions/witnesses/registries, one per sub proof request", count)
	}

	presentationCreds := make([]model.PresentationCredential, count)
	for i, subReq := range request.SubProofRequests {
		cred := credentials[i]
		schema := schemas[i]
		definition := definitions[i]

		nameToIndex, indexToName := model.AttributeIndex(schema)
		msIdx := model.MasterSecretIndex(len(schema.Properties))
		indexToName[msIdx] = "__masterSecret"

		attributeValues := make(map[int]*big.Int, len(cred.CredentialSubject.Data)+1)
		for name, v := range cred.CredentialSubject.Data {
			attributeValues[nameToIndex[name]] = v.Encoded
		}
		attributeValues[msIdx] = secret.Value

		disclosed := make(map[int]bool, len(subReq.RevealedAttributes))
		disclosedData := make(map[string]model.EncodedCredentialValue, len(subReq.RevealedAttributes))
		for _, name := range subReq.RevealedAttributes {
			idx, ok := nameToIndex[name]
			if !ok {
				return nil, model.ErrUnknownAttribute.With("schema has no property %q", name)
			}
			disclosed[idx] = true
			disclosedData[name] = cred.CredentialSubject.Data[name]
		}

		subProof, err := cryptoadapter.BuildSubProof(definition.PublicKey, cred.Proof.Signature, attributeValues, indexToName, disclosed, request.Nonce, witnesses[i], registries[i])
		if err != nil {
			return nil, model.ErrCrypto.With("build disclosure proof: %v", err)
		}
		subProof.CredentialDefinition = definition.ID
		subProof.RevocationRegistryDefinition = cred.Proof.RevocationRegistryDefinition

		presentationCreds[i] = model.PresentationCredential{
			Context:           []string{model.CredentialContext},
			ID:                cred.ID,
			Type:              cred.Type,
			Issuer:            cred.Issuer,
			CredentialSubject: model.CredentialSubject{ID: cred.CredentialSubject.ID, Data: disclosedData},
			CredentialSchema:  cred.CredentialSchema,
			Proof:             *subProof,
		}
	}

	return &model.ProofPresentation{
		Context:              []string{model.CredentialContext},
		Type:                 []string{"VerifiablePresentation"},
		VerifiableCredential: presentationCreds,
		Proof:                model.PresentationProof{Type: model.SubProofType, Nonce: request.Nonce},
	}, nil
}
