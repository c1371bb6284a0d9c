package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/utafrali/authcore/pkg/errors"
	"github.com/utafrali/authcore/pkg/logger"
)

// Authorization header failures. Both wrap apperrors.ErrUnauthorized.
var (
	ErrMissingToken   = fmt.Errorf("missing bearer token: %w", apperrors.ErrUnauthorized)
	ErrMalformedToken = fmt.Errorf("malformed authorization header: %w", apperrors.ErrUnauthorized)
)

// Claims is what the auth middleware needs from a verified token.
type Claims struct {
	UserID int64
}

// TokenValidator verifies a raw bearer token.
type TokenValidator func(token string) (*Claims, error)

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Auth rejects requests without a valid bearer token. Failures, including the
// validator's own errors, are handed to onError unchanged. On success the
// user id is recorded in the context for logging.
func Auth(validate TokenValidator, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				onError(w, r, err)
				return
			}

			claims, err := validate(token)
			if err != nil {
				onError(w, r, err)
				return
			}

			id := strconv.FormatInt(claims.UserID, 10)
			ctx := logger.WithUserID(r.Context(), id)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("user_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", ErrMalformedToken
	}
	return token, nil
}
