package utils

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier abstracts how passwords are stored and checked.
// The legacy data set holds plaintext passwords compared by equality;
// isolating that behind this interface lets deployments switch to
// bcrypt without touching the login flow.
type CredentialVerifier interface {
	// Hash converts a plaintext password into its stored form.
	Hash(plain string) (string, error)
	// Verify reports whether the plaintext matches the stored form.
	Verify(stored, plain string) bool
}

// PlainVerifier reproduces the legacy equality comparison.  It exists
// for compatibility with rows written before hashing was introduced;
// new deployments should configure BcryptVerifier.
type PlainVerifier struct{}

func (PlainVerifier) Hash(plain string) (string, error) { return plain, nil }

func (PlainVerifier) Verify(stored, plain string) bool { return stored == plain }

// BcryptVerifier stores bcrypt hashes using the configured cost.
type BcryptVerifier struct {
	Cost int
}

func (v BcryptVerifier) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), v.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (v BcryptVerifier) Verify(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// NewCredentialVerifier selects a verifier by scheme name.  Anything
// other than "bcrypt" falls back to the legacy plaintext comparison.
func NewCredentialVerifier(scheme string, bcryptCost int) CredentialVerifier {
	if scheme == "bcrypt" {
		return BcryptVerifier{Cost: bcryptCost}
	}
	return PlainVerifier{}
}
