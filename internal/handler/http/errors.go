package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/authcore/internal/auth"
	"github.com/utafrali/authcore/internal/domain"
	apperrors "github.com/utafrali/authcore/pkg/errors"
	"github.com/utafrali/authcore/pkg/httputil"
	"github.com/utafrali/authcore/pkg/logger"
	"github.com/utafrali/authcore/pkg/middleware"
	"github.com/utafrali/authcore/pkg/validator"
)

// ErrorPolicy holds the presentation choices of the error translator.
type ErrorPolicy struct {
	// MaskUnknownLogin reports a login for an unknown email as invalid
	// credentials, so responses do not reveal which emails are registered.
	MaskUnknownLogin bool
}

type errorClass uint8

const (
	classDomain errorClass = iota
	classAuth
	classClient
	classTimeout
	classInternal
)

// ErrorTranslator maps errors from any layer onto client responses.
type ErrorTranslator struct {
	policy    ErrorPolicy
	logger    *slog.Logger
	responses *prometheus.CounterVec
}

func NewErrorTranslator(policy ErrorPolicy, logger *slog.Logger, reg prometheus.Registerer) *ErrorTranslator {
	return &ErrorTranslator{
		policy: policy,
		logger: logger,
		responses: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "http_error_responses_total",
			Help: "Error responses written, by error code",
		}, []string{"code"}),
	}
}

// Translate returns the response shape for err.
func (t *ErrorTranslator) Translate(err error) *apperrors.AppError {
	appErr, _ := t.translate(err)
	return appErr
}

func (t *ErrorTranslator) translate(err error) (*apperrors.AppError, errorClass) {
	if de, ok := domain.AsError(err); ok {
		return t.fromDomain(de)
	}

	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.Unauthorized("TOKEN_EXPIRED", "access token has expired"), classAuth
	case errors.Is(err, auth.ErrTokenInvalid):
		return apperrors.Unauthorized("INVALID_TOKEN", "access token is invalid"), classAuth
	case errors.Is(err, middleware.ErrMissingToken), errors.Is(err, middleware.ErrMalformedToken):
		return apperrors.Unauthorized("", "a bearer token is required"), classAuth
	}

	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		return apperrors.Validation(ve.Fields()), classClient
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch {
		case appErr.Status >= http.StatusInternalServerError:
			return appErr, classInternal
		case appErr.Status == http.StatusUnauthorized:
			return appErr, classAuth
		default:
			return appErr, classClient
		}
	}

	switch {
	case apperrors.IsTimeout(err):
		return apperrors.Timeout(err), classTimeout
	case errors.Is(err, apperrors.ErrUnauthorized):
		return apperrors.Unauthorized("", "authentication required"), classAuth
	default:
		return apperrors.Internal(err), classInternal
	}
}

func (t *ErrorTranslator) fromDomain(de *domain.Error) (*apperrors.AppError, errorClass) {
	status := 0
	switch de.Kind {
	case domain.KindUserNotFound:
		if de.DuringLogin() && t.policy.MaskUnknownLogin {
			return t.fromDomain(domain.InvalidCredentials())
		}
		status = http.StatusNotFound
	case domain.KindDuplicateUser:
		status = http.StatusConflict
	case domain.KindProfileNotFound, domain.KindStatusNotFound:
		status = http.StatusBadRequest
	case domain.KindInvalidCredentials:
		status = http.StatusUnauthorized
	default:
		return apperrors.Internal(fmt.Errorf("unmapped domain error kind %d: %w", de.Kind, de)), classInternal
	}
	return &apperrors.AppError{
		Code:    de.Kind.String(),
		Message: de.Message,
		Status:  status,
		Err:     de,
	}, classDomain
}

// WriteError translates err, logs it according to its class and writes the
// error envelope.
func (t *ErrorTranslator) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	appErr, class := t.translate(err)
	l := logger.WithContext(ctx, t.logger)

	attrs := []any{
		slog.String("code", appErr.Code),
		slog.Int("status", appErr.Status),
		slog.String("path", r.URL.Path),
	}
	switch class {
	case classDomain, classClient:
		l.DebugContext(ctx, "request rejected", append(attrs, slog.String("reason", appErr.Message))...)
	case classAuth:
		l.InfoContext(ctx, "authentication failed", append(attrs, slog.String("reason", err.Error()))...)
	case classTimeout:
		l.WarnContext(ctx, "request timed out", append(attrs, slog.String("error", err.Error()))...)
	case classInternal:
		l.ErrorContext(ctx, "request failed", append(attrs, slog.String("error", err.Error()))...)
	}

	t.responses.WithLabelValues(appErr.Code).Inc()
	httputil.WriteAppError(w, appErr, logger.CorrelationIDFromContext(ctx))
}
