package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/authcore/pkg/errors"
)

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	ProfileID *int64 `json:"profile_id" validate:"omitempty,gt=0"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(signupRequest{Email: "ada@example.com", Password: "correct horse"}))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	fields := fieldsOf(t, Validate(signupRequest{}))
	assert.Equal(t, "is required", fields["email"])
	assert.Equal(t, "is required", fields["password"])
	assert.NotContains(t, fields, "Email")
}

func TestValidate_Messages(t *testing.T) {
	zero := int64(0)
	fields := fieldsOf(t, Validate(signupRequest{Email: "nope", Password: "short", ProfileID: &zero}))
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 8 characters", fields["password"])
	assert.Equal(t, "must be greater than 0", fields["profile_id"])
}

func TestValidate_MaxLength(t *testing.T) {
	fields := fieldsOf(t, Validate(signupRequest{Email: "ada@example.com", Password: strings.Repeat("x", 73)}))
	assert.Equal(t, "must be at most 72 characters", fields["password"])
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(signupRequest{Email: "ada@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'password' is required")
}

func decode(body string) error {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dst signupRequest
	return DecodeAndValidate(httptest.NewRecorder(), req, &dst)
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, decode(`{"email":"ada@example.com","password":"correct horse"}`))
	})

	t.Run("malformed json", func(t *testing.T) {
		err := decode(`{"email":`)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("empty body", func(t *testing.T) {
		err := decode(``)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "request body is required", appErr.Message)
	})

	t.Run("unknown field", func(t *testing.T) {
		err := decode(`{"email":"ada@example.com","password":"correct horse","role":"admin"}`)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("too large", func(t *testing.T) {
		err := decode(`{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "request body too large", appErr.Message)
	})

	t.Run("fails validation", func(t *testing.T) {
		fields := fieldsOf(t, decode(`{"email":"ada@example.com"}`))
		assert.Contains(t, fields, "password")
	})
}
