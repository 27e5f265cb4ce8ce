package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifeclock/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	require.NoError(t, Verify("correct horse", hash))

	err = Verify("battery staple", hash)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashRejectsBadInput(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = Hash(strings.Repeat("x", 73))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestVerifyMalformedHash(t *testing.T) {
	err := Verify("pw", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.False(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
