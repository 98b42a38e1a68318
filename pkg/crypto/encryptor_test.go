package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewEncryptor("")
	require.NoError(t, err)

	plaintext := "XK3P9QA2MF7T"

	sealed, err := enc.EncryptString(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := enc.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncryptor_KeyReuse(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	first, err := NewEncryptor(key)
	require.NoError(t, err)

	sealed, err := first.EncryptString("credential")
	require.NoError(t, err)

	// A second encryptor built from the same identity must open it.
	second, err := NewEncryptor(key)
	require.NoError(t, err)

	opened, err := second.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "credential", opened)
}

func TestEncryptor_BadKey(t *testing.T) {
	_, err := NewEncryptor("not-an-age-identity")
	assert.Error(t, err)
}

func TestSecretIssuer(t *testing.T) {
	issuer := NewSecretIssuer()

	pw, err := issuer.TempPassword()
	require.NoError(t, err)
	assert.Len(t, pw, 12)

	other, err := issuer.TempPassword()
	require.NoError(t, err)
	assert.NotEqual(t, pw, other)

	ref, err := issuer.ReferenceToken()
	require.NoError(t, err)
	assert.Len(t, ref, 12)
}
