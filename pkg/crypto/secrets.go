package crypto

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"fmt"
)

// SecretIssuer generates temporary credentials and opaque correlation tokens.
// All output comes from crypto/rand; nothing here is guessable.
type SecretIssuer interface {
	TempPassword() (string, error)
	ReferenceToken() (string, error)
}

type issuer struct{}

func NewSecretIssuer() SecretIssuer {
	return issuer{}
}

// TempPassword returns a 12-character one-time credential. Base32 keeps it
// typeable over the phone, which is how the secretary dispatches it.
func (issuer) TempPassword() (string, error) {
	b, err := GenerateRandomBytes(8)
	if err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)[:12], nil
}

// ReferenceToken returns a short opaque token used to correlate audit entries.
func (issuer) ReferenceToken() (string, error) {
	b, err := GenerateRandomBytes(6)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return b, nil
}
