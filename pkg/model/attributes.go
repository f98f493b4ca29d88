package model

import "sort"

// AttributeIndex returns a stable mapping between a schema's property names
// and the integer indices used as CL signature attribute positions. The
// mapping is derived purely from the sorted property names so that issuer,
// prover and verifier all compute it independently and agree without
// exchanging it explicitly. Index len(properties) is reserved for the
// holder's blinded master secret and is not present in nameToIndex.
func AttributeIndex(schema *CredentialSchema) (nameToIndex map[string]int, indexToName map[int]string) {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToIndex = make(map[string]int, len(names))
	indexToName = make(map[int]string, len(names))
	for i, name := range names {
		nameToIndex[name] = i
		indexToName[i] = name
	}
	return nameToIndex, indexToName
}

// MasterSecretIndex returns the attribute index reserved for the holder's
// blinded master secret for a schema with the given property count.
func MasterSecretIndex(propertyCount int) int {
	return propertyCount
}
