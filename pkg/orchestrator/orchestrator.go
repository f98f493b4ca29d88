// Package orchestrator implements the method-dispatched façade (C6) that
// wires the issuer, prover and verifier roles to an external DID resolver,
// an external DID registry and a signing backend. Every exported operation
// takes a TypeOptions first: callers share one orchestrator across several
// credential systems and Execute-style dispatchers route by Type, ignoring
// (rather than erroring on) calls meant for a different implementation.
package orchestrator

import (
	"context"
	"encoding/json"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/evannetwork/vade-evan-cl/pkg/crypto"
	"github.com/evannetwork/vade-evan-cl/pkg/issuer"
	"github.com/evannetwork/vade-evan-cl/pkg/logger"
	"github.com/evannetwork/vade-evan-cl/pkg/model"
	"github.com/evannetwork/vade-evan-cl/pkg/prover"
	"github.com/evannetwork/vade-evan-cl/pkg/signing"
	"github.com/evannetwork/vade-evan-cl/pkg/trace"
	"github.com/evannetwork/vade-evan-cl/pkg/verifier"
)

// CredentialType is the only TypeOptions.Type value this orchestrator
// handles; anything else makes every operation return ErrIgnored.
const CredentialType = "cl"

// ErrIgnored is returned by every operation when TypeOptions.Type does not
// select this implementation. Callers fronting several credential systems
// behind one dispatcher should treat it as "try the next one", not as a
// failure.
var ErrIgnored = model.ErrUnsupported.With("type does not select the cl credential system")

// Orchestrator wires the issuer, prover and verifier roles to the
// resolver, registry and signer an embedding application provides. Log and
// Tracer are optional; a zero-value Orchestrator from New runs without
// either.
type Orchestrator struct {
	Resolver Resolver
	Registry Registry
	Signer   signing.Signer
	Log      *logger.Log
	Tracer   *trace.Tracer
}

// New builds an Orchestrator over the given collaborators, without logging
// or tracing.
func New(resolver Resolver, registry Registry, signer signing.Signer) *Orchestrator {
	return &Orchestrator{Resolver: resolver, Registry: registry, Signer: signer}
}

// NewWithObservability builds an Orchestrator that logs and traces every
// operation it dispatches.
func NewWithObservability(resolver Resolver, registry Registry, signer signing.Signer, log *logger.Log, tracer *trace.Tracer) *Orchestrator {
	return &Orchestrator{Resolver: resolver, Registry: registry, Signer: signer, Log: log, Tracer: tracer}
}

func checkType(opts TypeOptions) error {
	if opts.Type != CredentialType {
		return ErrIgnored
	}
	return nil
}

// span starts a span for operation name if a Tracer is configured; the
// returned end func is always safe to defer.
func (o *Orchestrator) span(ctx context.Context, name string) (context.Context, func()) {
	if o.Tracer == nil {
		return ctx, func() {}
	}
	var span oteltrace.Span
	ctx, span = o.Tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

func (o *Orchestrator) info(msg string, args ...any) {
	if o.Log != nil {
		o.Log.Info(msg, args...)
	}
}

func (o *Orchestrator) error(err error, msg string, args ...any) {
	if o.Log != nil {
		o.Log.Error(err, msg, args...)
	}
}

func (o *Orchestrator) resolveDocument(ctx context.Context, did string) (map[string]any, error) {
	docs, err := o.Resolver.Resolve(ctx, did)
	if err != nil {
		return nil, model.ErrUnresolved.With("resolve %q: %v", did, err)
	}
	if len(docs) == 0 {
		return nil, model.ErrUnresolved.With("%q has no published document", did)
	}
	return docs[len(docs)-1], nil
}

func decodeDocument(doc map[string]any, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return model.ErrMalformed.With("re-marshal document: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return model.ErrMalformed.With("decode document: %v", err)
	}
	return nil
}

func toDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, model.ErrMalformed.With("marshal document: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, model.ErrMalformed.With("unmarshal document: %v", err)
	}
	return doc, nil
}

func (o *Orchestrator) resolveSchema(ctx context.Context, schemaID string) (*model.CredentialSchema, error) {
	doc, err := o.resolveDocument(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	var schema model.CredentialSchema
	if err := decodeDocument(doc, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

func (o *Orchestrator) resolveDefinition(ctx context.Context, definitionID string) (*model.CredentialDefinition, error) {
	doc, err := o.resolveDocument(ctx, definitionID)
	if err != nil {
		return nil, err
	}
	var def model.CredentialDefinition
	if err := decodeDocument(doc, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (o *Orchestrator) resolveRegistryDefinition(ctx context.Context, registryDefinitionID string) (*model.RevocationRegistryDefinition, error) {
	doc, err := o.resolveDocument(ctx, registryDefinitionID)
	if err != nil {
		return nil, err
	}
	var def model.RevocationRegistryDefinition
	if err := decodeDocument(doc, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// CreateCredentialSchema publishes a new CredentialSchema under a fresh DID.
func (o *Orchestrator) CreateCredentialSchema(
	ctx context.Context,
	opts TypeOptions,
	auth AuthenticationOptions,
	issuerDID, name, description string,
	properties map[string]model.SchemaProperty,
	required []string,
	additionalProperties bool,
) (*model.CredentialSchema, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.CreateCredentialSchema")
	defer end()

	assignedDID, err := o.Registry.Create(ctx, EvanMethodZKP, auth)
	if err != nil {
		return nil, model.ErrRegistry.With("allocate credential schema DID: %v", err)
	}
	schema, err := issuer.CreateCredentialSchema(assignedDID, issuerDID, name, description, properties, required, additionalProperties, auth.Identity, auth.PrivateKey, o.Signer)
	if err != nil {
		return nil, err
	}
	doc, err := toDocument(schema)
	if err != nil {
		return nil, err
	}
	if err := o.Registry.Update(ctx, schema.ID, doc); err != nil {
		return nil, model.ErrRegistry.With("publish credential schema: %v", err)
	}
	o.info("published credential schema", "id", schema.ID)
	return schema, nil
}

// CreateCredentialDefinition publishes a new CredentialDefinition for
// schemaID. The returned CredentialPrivateKey is never published; the
// caller is responsible for keeping it.
func (o *Orchestrator) CreateCredentialDefinition(
	ctx context.Context,
	opts TypeOptions,
	auth AuthenticationOptions,
	issuerDID, schemaID string,
) (*model.CredentialDefinition, *model.CredentialPrivateKey, error) {
	if err := checkType(opts); err != nil {
		return nil, nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.CreateCredentialDefinition")
	defer end()

	schema, err := o.resolveSchema(ctx, schemaID)
	if err != nil {
		return nil, nil, err
	}
	assignedDID, err := o.Registry.Create(ctx, EvanMethodZKP, auth)
	if err != nil {
		return nil, nil, model.ErrRegistry.With("allocate credential definition DID: %v", err)
	}
	def, priv, err := issuer.CreateCredentialDefinition(assignedDID, issuerDID, schemaID, len(schema.Properties), auth.Identity, auth.PrivateKey, o.Signer)
	if err != nil {
		return nil, nil, err
	}
	doc, err := toDocument(def)
	if err != nil {
		return nil, nil, err
	}
	if err := o.Registry.Update(ctx, def.ID, doc); err != nil {
		return nil, nil, model.ErrRegistry.With("publish credential definition: %v", err)
	}
	o.info("published credential definition", "id", def.ID, "schema", schemaID)
	return def, priv, nil
}

// CreateRevocationRegistryDefinition stands up a new revocation registry
// for credentialDefinitionID. The returned RevocationKeyPrivate and
// RevocationIdInformation are issuer-local bookkeeping and are never
// published; the caller must keep RevocationKeyPrivate to later call
// RevokeCredential against this registry.
func (o *Orchestrator) CreateRevocationRegistryDefinition(
	ctx context.Context,
	opts TypeOptions,
	auth AuthenticationOptions,
	issuerDID, credentialDefinitionID string,
	maximumCredentialCount uint32,
) (*model.RevocationRegistryDefinition, *model.RevocationKeyPrivate, *model.RevocationIdInformation, error) {
	if err := checkType(opts); err != nil {
		return nil, nil, nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.CreateRevocationRegistryDefinition")
	defer end()

	assignedDID, err := o.Registry.Create(ctx, EvanMethodZKP, auth)
	if err != nil {
		return nil, nil, nil, model.ErrRegistry.With("allocate revocation registry definition DID: %v", err)
	}
	def, privKey, idInfo, err := issuer.CreateRevocationRegistryDefinition(assignedDID, credentialDefinitionID, maximumCredentialCount, issuerDID, auth.Identity, auth.PrivateKey, o.Signer)
	if err != nil {
		return nil, nil, nil, err
	}
	doc, err := toDocument(def)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := o.Registry.Update(ctx, def.ID, doc); err != nil {
		return nil, nil, nil, model.ErrRegistry.With("publish revocation registry definition: %v", err)
	}
	o.info("published revocation registry definition", "id", def.ID, "maximumCredentialCount", maximumCredentialCount)
	return def, privKey, idInfo, nil
}

// ProposeCredential builds a CredentialProposal for a holder to send an issuer.
func (o *Orchestrator) ProposeCredential(opts TypeOptions, issuerDID, subjectDID, schemaID string) (*model.CredentialProposal, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	return prover.ProposeCredential(issuerDID, subjectDID, schemaID), nil
}

// OfferCredential builds a CredentialOffer for an issuer to send a holder in
// response to a CredentialProposal.
func (o *Orchestrator) OfferCredential(opts TypeOptions, issuerDID, subjectDID, schemaID, credentialDefinitionID string) (*model.CredentialOffer, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	return issuer.OfferCredential(issuerDID, subjectDID, schemaID, credentialDefinitionID)
}

// RequestCredential blinds secret under the offer's credential definition
// and returns the CredentialRequest to send the issuer plus the blinding
// factors the holder must keep for FinishCredential.
func (o *Orchestrator) RequestCredential(
	ctx context.Context,
	opts TypeOptions,
	offer *model.CredentialOffer,
	subjectDID string,
	secret *model.MasterSecret,
	values map[string]model.EncodedCredentialValue,
) (*model.CredentialRequest, *model.CredentialSecretsBlindingFactors, error) {
	if err := checkType(opts); err != nil {
		return nil, nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.RequestCredential")
	defer end()

	definition, err := o.resolveDefinition(ctx, offer.CredentialDefinition)
	if err != nil {
		return nil, nil, err
	}
	return prover.RequestCredential(definition, offer, subjectDID, secret, values)
}

// IssueCredential signs request's blinded attributes, allocates the next
// revocation id against registryDefinitionID, and returns the finished
// Credential plus the RevocationState the holder must keep.
func (o *Orchestrator) IssueCredential(
	ctx context.Context,
	opts TypeOptions,
	issuerDID, schemaID, definitionID string,
	definitionPrivateKey *model.CredentialPrivateKey,
	request *model.CredentialRequest,
	registryDefinitionID string,
	revocationInfo *model.RevocationIdInformation,
) (*model.Credential, *model.RevocationState, error) {
	if err := checkType(opts); err != nil {
		return nil, nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.IssueCredential")
	defer end()

	schema, err := o.resolveSchema(ctx, schemaID)
	if err != nil {
		return nil, nil, err
	}
	definition, err := o.resolveDefinition(ctx, definitionID)
	if err != nil {
		return nil, nil, err
	}
	registryDef, err := o.resolveRegistryDefinition(ctx, registryDefinitionID)
	if err != nil {
		return nil, nil, err
	}
	cred, state, err := issuer.IssueCredential(schema, definition, definitionPrivateKey, request, registryDef, revocationInfo, issuerDID)
	if err != nil {
		return nil, nil, err
	}
	// IssueCredential folds the new revocation id's prime into
	// registryDef.Registry in place; republish so later resolves (and other
	// holders' witness updates) see the new accumulator value.
	doc, err := toDocument(registryDef)
	if err != nil {
		return nil, nil, err
	}
	if err := o.Registry.Update(ctx, registryDef.ID, doc); err != nil {
		// The credential is already signed and revocationInfo has already
		// consumed its id at this point, but neither the credential nor its
		// RevocationState is returned; the published accumulator keeps its
		// pre-issuance value.
		o.error(err, "failed to publish updated revocation registry after issuance", "credential", cred.ID, "registry", registryDef.ID)
		return nil, nil, model.ErrRegistry.With("publish updated revocation registry: %v", err)
	}
	o.info("issued credential", "id", cred.ID, "revocationId", state.RevocationID)
	return cred, state, nil
}

// FinishCredential unblinds and verifies a just-issued credential's
// signature, mutating cred in place with the unblinded signature.
func (o *Orchestrator) FinishCredential(
	ctx context.Context,
	opts TypeOptions,
	cred *model.Credential,
	schemaID, definitionID string,
	blindedSecrets *model.BlindedCredentialSecrets,
	factors *model.CredentialSecretsBlindingFactors,
	secret *model.MasterSecret,
) error {
	if err := checkType(opts); err != nil {
		return err
	}
	ctx, end := o.span(ctx, "orchestrator.FinishCredential")
	defer end()

	schema, err := o.resolveSchema(ctx, schemaID)
	if err != nil {
		return err
	}
	definition, err := o.resolveDefinition(ctx, definitionID)
	if err != nil {
		return err
	}
	return prover.PostProcessCredentialSignature(cred, schema, definition, blindedSecrets, factors, secret)
}

// RevokeCredential marks revocationID as revoked in registryDefinitionID,
// re-signs and republishes the registry definition, and returns the delta
// to distribute to holders of other, still-valid credentials.
func (o *Orchestrator) RevokeCredential(
	ctx context.Context,
	opts TypeOptions,
	auth AuthenticationOptions,
	issuerDID, registryDefinitionID string,
	registryPrivateKey *model.RevocationKeyPrivate,
	revocationID uint32,
) (*model.RevocationRegistryDefinition, *model.RevocationRegistryDelta, error) {
	if err := checkType(opts); err != nil {
		return nil, nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.RevokeCredential")
	defer end()

	registryDef, err := o.resolveRegistryDefinition(ctx, registryDefinitionID)
	if err != nil {
		return nil, nil, err
	}
	registryDef, delta, err := issuer.RevokeCredential(registryDef, registryPrivateKey, revocationID, issuerDID, auth.Identity, auth.PrivateKey, o.Signer)
	if err != nil {
		return nil, nil, err
	}
	doc, err := toDocument(registryDef)
	if err != nil {
		return nil, nil, err
	}
	if err := o.Registry.Update(ctx, registryDef.ID, doc); err != nil {
		o.error(err, "failed to publish revocation registry delta", "revocationId", revocationID, "registry", registryDef.ID)
		return nil, nil, model.ErrRegistry.With("publish revocation registry delta: %v", err)
	}
	o.info("revoked credential", "revocationId", revocationID, "registry", registryDef.ID)
	return registryDef, delta, nil
}

// RequestProof builds a ProofRequest with a fresh nonce.
func (o *Orchestrator) RequestProof(opts TypeOptions, verifierDID string, subProofRequests []model.SubProofRequest) (*model.ProofRequest, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	return verifier.RequestProof(verifierDID, subProofRequests)
}

// PresentProof builds a ProofPresentation satisfying request from
// credentials, folding in a non-revocation proof wherever a witness and its
// matching revocation registry definition ID are supplied. credentials,
// schemaIDs, definitionIDs, witnesses and registryDefinitionIDs are
// parallel to request.SubProofRequests; registryDefinitionIDs[i] may be ""
// for a sub proof request whose credential carries no revocation registry.
func (o *Orchestrator) PresentProof(
	ctx context.Context,
	opts TypeOptions,
	request *model.ProofRequest,
	credentials []*model.Credential,
	schemaIDs, definitionIDs []string,
	secret *model.MasterSecret,
	witnesses []*model.Witness,
	registryDefinitionIDs []string,
) (*model.ProofPresentation, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.PresentProof")
	defer end()

	count := len(request.SubProofRequests)
	if len(credentials) != count || len(schemaIDs) != count || len(definitionIDs) != count || len(witnesses) != count || len(registryDefinitionIDs) != count {
		return nil, model.ErrMalformed.With("expected %d credentials/schemaIDs/definitionIDs/witnesses/registryDefinitionIDs, one per sub proof request", count)
	}

	schemas := make([]*model.CredentialSchema, count)
	definitions := make([]*model.CredentialDefinition, count)
	registries := make([]*model.Accumulator, count)
	for i := 0; i < count; i++ {
		schema, err := o.resolveSchema(ctx, schemaIDs[i])
		if err != nil {
			return nil, err
		}
		schemas[i] = schema

		definition, err := o.resolveDefinition(ctx, definitionIDs[i])
		if err != nil {
			return nil, err
		}
		definitions[i] = definition

		if registryDefinitionIDs[i] != "" {
			registryDef, err := o.resolveRegistryDefinition(ctx, registryDefinitionIDs[i])
			if err != nil {
				return nil, err
			}
			registries[i] = registryDef.Registry
		}
	}

	presentation, err := prover.PresentProof(request, credentials, schemas, definitions, secret, witnesses, registries)
	if err != nil {
		return nil, err
	}
	o.info("presented proof", "credentialCount", count)
	return presentation, nil
}

// VerifyProof checks presentation against request, resolving every schema,
// credential definition and revocation registry the sub proofs reference.
func (o *Orchestrator) VerifyProof(
	ctx context.Context,
	opts TypeOptions,
	request *model.ProofRequest,
	presentation *model.ProofPresentation,
) (*model.ProofVerification, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	ctx, end := o.span(ctx, "orchestrator.VerifyProof")
	defer end()

	schemas := make(map[string]*model.CredentialSchema, len(request.SubProofRequests))
	for _, subReq := range request.SubProofRequests {
		if _, ok := schemas[subReq.Schema]; ok {
			continue
		}
		schema, err := o.resolveSchema(ctx, subReq.Schema)
		if err != nil {
			return nil, err
		}
		schemas[subReq.Schema] = schema
	}

	definitions := make(map[string]*model.CredentialPublicKey)
	registries := make(map[string]*model.Accumulator)
	for _, pc := range presentation.VerifiableCredential {
		defID := pc.Proof.CredentialDefinition
		if _, ok := definitions[defID]; !ok {
			definition, err := o.resolveDefinition(ctx, defID)
			if err != nil {
				return nil, err
			}
			definitions[defID] = definition.PublicKey
		}
		regID := pc.Proof.RevocationRegistryDefinition
		if regID == "" {
			continue
		}
		if _, ok := registries[regID]; ok {
			continue
		}
		registryDef, err := o.resolveRegistryDefinition(ctx, regID)
		if err != nil {
			return nil, err
		}
		registries[regID] = registryDef.Registry
	}

	verification := verifier.VerifyProof(request, presentation, schemas, definitions, registries)
	o.info("verified proof", "status", verification.Status)
	return verification, nil
}

// RunCustomFunction dispatches side utilities that don't fit the
// schema/definition/registry/credential/proof lifecycle: "create_master_secret"
// generates a fresh holder master secret, and "generate_safe_prime" runs the
// same safe-prime search CreateCredentialDefinition uses internally, exposed
// standalone so a caller can precompute P/Q pairs offline. bits is only used
// by "generate_safe_prime"; a non-positive value defaults to LargePrimeBits.
func (o *Orchestrator) RunCustomFunction(opts TypeOptions, name string, bits int) (any, error) {
	if err := checkType(opts); err != nil {
		return nil, err
	}
	switch name {
	case FunctionCreateMasterSecret:
		return prover.CreateMasterSecret()
	case FunctionGenerateSafePrime:
		if bits <= 0 {
			bits = LargePrimeBits
		}
		p, _, err := crypto.GenerateSafePrime(bits)
		if err != nil {
			return nil, model.ErrCrypto.With("generate safe prime: %v", err)
		}
		return p, nil
	default:
		return nil, model.ErrUnsupported.With("unknown custom function %q", name)
	}
}
