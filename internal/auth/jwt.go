package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/utafrali/authcore/internal/domain"
	apperrors "github.com/utafrali/authcore/pkg/errors"
)

// Token verification failures. Both wrap apperrors.ErrUnauthorized.
var (
	ErrTokenInvalid = fmt.Errorf("invalid token: %w", apperrors.ErrUnauthorized)
	ErrTokenExpired = fmt.Errorf("token expired: %w", apperrors.ErrUnauthorized)
)

// TokenManager issues and verifies HMAC-signed access tokens whose subject
// is the user id.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	expiry time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

// NewTokenManager accepts HS256, HS384 or HS512.
func NewTokenManager(secret, algorithm, issuer string, expiry time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("token expiry must be positive, got %s", expiry)
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	m := &TokenManager{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// IssueToken signs a token for userID valid for the configured expiry.
func (m *TokenManager) IssueToken(userID int64) (*domain.AuthToken, error) {
	issued := m.now().UTC().Truncate(time.Second)
	expires := issued.Add(m.expiry)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &domain.AuthToken{
		AccessToken: signed,
		TokenType:   domain.TokenTypeBearer,
		Subject:     userID,
		IssuedAt:    issued,
		ExpiresAt:   expires,
	}, nil
}

// VerifyToken checks signature, algorithm, issuer and expiry and returns the
// user id in the subject.
func (m *TokenManager) VerifyToken(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, claims.Subject)
	}
	return userID, nil
}
