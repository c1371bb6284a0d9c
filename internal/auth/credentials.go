package auth

import "github.com/utafrali/authcore/internal/domain"

// Credentials bundles password hashing and token issuance for the user
// service.
type Credentials struct {
	hasher *PasswordHasher
	tokens *TokenManager
}

func NewCredentials(hasher *PasswordHasher, tokens *TokenManager) *Credentials {
	return &Credentials{hasher: hasher, tokens: tokens}
}

func (c *Credentials) HashPassword(plaintext string) (string, error) {
	return c.hasher.Hash(plaintext)
}

func (c *Credentials) VerifyPassword(plaintext, digest string) bool {
	return c.hasher.Verify(plaintext, digest)
}

func (c *Credentials) IssueToken(userID int64) (*domain.AuthToken, error) {
	return c.tokens.IssueToken(userID)
}
