package model

import "math/big"

// CredentialProposal is the holder's initial signal to an issuer that it
// would like a credential against a given schema.
type CredentialProposal struct {
	Type    string `json:"type"`
	Issuer  string `json:"issuer"`
	Subject string `json:"subject"`
	Schema  string `json:"schema"`
}

const CredentialProposalType = "EvanZKPCredentialProposal"

// CredentialOffer is the issuer's response to a proposal (or an
// issuer-initiated offer), carrying the nonce the holder must fold into its
// blinding proof.
type CredentialOffer struct {
	Type                 string   `json:"type"`
	Issuer               string   `json:"issuer"`
	Subject              string   `json:"subject"`
	Schema               string   `json:"schema"`
	CredentialDefinition string   `json:"credentialDefinition,omitempty"`
	Nonce                *big.Int `json:"nonce"`
}

const CredentialOfferType = "EvanZKPCredentialOffer"
