package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactScrubsSensitiveFields(t *testing.T) {
	args := redact([]interface{}{"registryDefinitionID", "did:evan:zkp:abc", "registryPrivateKey", "p=1234"})
	assert.Equal(t, "did:evan:zkp:abc", args[1])
	assert.Equal(t, redactedValue, args[3])
}

func TestRedactIsCaseInsensitiveOnSecret(t *testing.T) {
	args := redact([]interface{}{"masterSecret", "999"})
	assert.Equal(t, redactedValue, args[1])
}

func TestRedactLeavesUnmarkedFieldsAlone(t *testing.T) {
	args := redact([]interface{}{"credential", "did:evan:zkp:1", "revocationId", uint32(7)})
	assert.Equal(t, "did:evan:zkp:1", args[1])
	assert.Equal(t, uint32(7), args[3])
}
