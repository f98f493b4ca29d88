// Package verifier implements the verifier role (C5): building proof
// requests and checking the presentations returned against them.
package verifier

import (
	"math/big"

	cryptoadapter "github.com/evannetwork/vade-evan-cl/pkg/crypto"
	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// RequestProof builds a ProofRequest with a fresh nonce.
func RequestProof(verifierDID string, subProofRequests []model.SubProofRequest) (*model.ProofRequest, error) {
	nonce, err := cryptoadapter.GenerateNonce()
	if err != nil {
		return nil, model.ErrCrypto.With("generate proof request nonce: %v", err)
	}
	return &model.ProofRequest{
		Verifier:         verifierDID,
		Nonce:            nonce,
		SubProofRequests: subProofRequests,
	}, nil
}

// VerifyProof checks a ProofPresentation against the ProofRequest that
// prompted it and the public material (schema, credential definition,
// revocation registry) needed to evaluate each sub proof.
func VerifyProof(
	request *model.ProofRequest,
	presentation *model.ProofPresentation,
	schemas map[string]*model.CredentialSchema,
	definitions map[string]*model.CredentialPublicKey,
	registries map[string]*model.Accumulator,
) *model.ProofVerification {
	if len(presentation.VerifiableCredential) != len(request.SubProofRequests) {
		return &model.ProofVerification{Status: model.ProofRejected, Reason: "sub proof count does not match request"}
	}

	for i, subReq := range request.SubProofRequests {
		pc := presentation.VerifiableCredential[i]

		schema, ok := schemas[subReq.Schema]
		if !ok {
			return &model.ProofVerification{Status: model.ProofRejected, Reason: "unknown schema " + subReq.Schema}
		}
		pub, ok := definitions[pc.Proof.CredentialDefinition]
		if !ok {
			return &model.ProofVerification{Status: model.ProofRejected, Reason: "unknown credential definition " + pc.Proof.CredentialDefinition}
		}

		nameToIndex, indexToName := model.AttributeIndex(schema)
		msIdx := model.MasterSecretIndex(len(schema.Properties))
		indexToName[msIdx] = "__masterSecret"

		revealedNames := make(map[string]bool, len(subReq.RevealedAttributes))
		for _, name := range subReq.RevealedAttributes {
			revealedNames[name] = true
		}
		for name := range pc.CredentialSubject.Data {
			if !revealedNames[name] {
				return &model.ProofVerification{Status: model.ProofRejected, Reason: "presentation discloses unrequested property " + name}
			}
		}

		disclosed := make(map[int]bool, len(subReq.RevealedAttributes))
		disclosedValues := make(map[int]*big.Int, len(subReq.RevealedAttributes))
		for _, name := range subReq.RevealedAttributes {
			idx, ok := nameToIndex[name]
			if !ok {
				return &model.ProofVerification{Status: model.ProofRejected, Reason: "schema has no property " + name}
			}
			val, ok := pc.CredentialSubject.Data[name]
			if !ok {
				return &model.ProofVerification{Status: model.ProofRejected, Reason: "presentation did not disclose " + name}
			}
			disclosed[idx] = true
			disclosedValues[idx] = val.Encoded
		}

		var registry *model.Accumulator
		if pc.Proof.RevocationRegistryDefinition != "" {
			registry = registries[pc.Proof.RevocationRegistryDefinition]
		}

		if !cryptoadapter.VerifySubProof(pub, &pc.Proof, indexToName, disclosedValues, disclosed, request.Nonce, registry) {
			return &model.ProofVerification{Status: model.ProofRejected, Reason: "sub proof did not verify for credential " + pc.ID}
		}
	}

	return &model.ProofVerification{Status: model.ProofVerified}
}
