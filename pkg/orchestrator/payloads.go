package orchestrator

// TypeOptions carries the dispatch discriminator every operation's options
// must include; every Orchestrator operation returns ErrIgnored when Type is
// not "cl".
type TypeOptions struct {
	Type string `json:"type,omitempty"`
}

// AuthenticationOptions carries the signing key material for an operation
// that produces a signed document. PrivateKey is never retained beyond the
// call it's passed to.
type AuthenticationOptions struct {
	PrivateKey string `json:"privateKey"`
	Identity   string `json:"identity"`
}

// Method names of the vc_zkp_* operation family this orchestrator fronts.
// No function in this package dispatches on them; each operation is its own
// exported Orchestrator method.
const (
	MethodCreateCredentialSchema              = "vcZkpCreateCredentialSchema"
	MethodCreateCredentialDefinition          = "vcZkpCreateCredentialDefinition"
	MethodCreateRevocationRegistryDefinition  = "vcZkpCreateRevocationRegistryDefinition"
	MethodProposeCredential                   = "vcZkpProposeCredential"
	MethodOfferCredential                     = "vcZkpOfferCredential"
	MethodRequestCredential                   = "vcZkpRequestCredential"
	MethodIssueCredential                     = "vcZkpIssueCredential"
	MethodRevokeCredential                    = "vcZkpRevokeCredential"
	MethodRequestProof                        = "vcZkpRequestProof"
	MethodPresentProof                        = "vcZkpPresentProof"
	MethodVerifyProof                         = "vcZkpVerifyProof"
	MethodFinishCredential                    = "vcZkpFinishCredential"
)

// Custom function names dispatched by RunCustomFunction.
const (
	FunctionCreateMasterSecret = "create_master_secret"
	FunctionGenerateSafePrime  = "generate_safe_prime"
)

// LargePrimeBits is the default bit length RunCustomFunction uses for
// "generate_safe_prime" when the caller does not supply one.
const LargePrimeBits = 1024
