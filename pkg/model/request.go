package model

import "math/big"

// CredentialSecretsBlindingFactors is the holder-private randomness used to
// blind its master secret before sending BlindedCredentialSecrets to the
// issuer, and to unblind the resulting signature afterwards.
type CredentialSecretsBlindingFactors struct {
	V *big.Int `json:"v"`
}

// BlindedCredentialSecrets is the commitment to the holder's master secret
// that the issuer folds into the signed attribute set without ever
// learning the master secret itself.
type BlindedCredentialSecrets struct {
	U *big.Int `json:"u"`
}

// BlindedCredentialSecretsCorrectnessProof lets the issuer check that U was
// formed correctly from a single hidden master secret and blinding factor
// before signing over it.
type BlindedCredentialSecretsCorrectnessProof struct {
	C        *big.Int `json:"c"`
	MsCap    *big.Int `json:"msCap"`
	VDashCap *big.Int `json:"vDashCap"`
}

// CredentialRequest is sent by the holder to the issuer in response to a
// CredentialOffer, carrying the blinded master secret commitment and the
// plaintext values for every other attribute.
type CredentialRequest struct {
	Subject                                  string                             `json:"subject"`
	Type                                      string                             `json:"type"`
	Schema                                    string                             `json:"schema"`
	CredentialDefinition                      string                             `json:"credentialDefinition"`
	CredentialValues                          map[string]EncodedCredentialValue `json:"credentialValues"`
	BlindedCredentialSecrets                  *BlindedCredentialSecrets                  `json:"blindedCredentialSecrets"`
	BlindedCredentialSecretsCorrectnessProof  *BlindedCredentialSecretsCorrectnessProof  `json:"blindedCredentialSecretsCorrectnessProof"`
	Nonce                                     *big.Int                           `json:"nonce"`
}

const CredentialRequestType = "EvanZKPCredentialRequest"
