package http

import (
	"net/http"

	"github.com/utafrali/authcore/internal/domain"
	"github.com/utafrali/authcore/internal/service"
	apperrors "github.com/utafrali/authcore/pkg/errors"
	"github.com/utafrali/authcore/pkg/httputil"
	"github.com/utafrali/authcore/pkg/validator"
)

// AuthHandler handles HTTP requests for the /auth endpoints.
type AuthHandler struct {
	service *service.UserService
	errors  *ErrorTranslator
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.UserService, errs *ErrorTranslator) *AuthHandler {
	return &AuthHandler{service: svc, errors: errs}
}

// --- Request DTOs ---

// CreateUserRequest is the JSON request body for user registration.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	ProfileID *int64 `json:"profile_id" validate:"omitempty,gt=0"`
	StatusID  *int64 `json:"status_id" validate:"omitempty,gt=0"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GetUserRequest selects a user by exactly one of id or email.
type GetUserRequest struct {
	ID    *int64 `json:"id" validate:"omitempty,gt=0"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdateUserRequest is a partial update of the user with the given id.
// Empty email or password strings mean "not supplied".
type UpdateUserRequest struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	ProfileID *int64 `json:"profile_id" validate:"omitempty,gt=0"`
	StatusID  *int64 `json:"status_id" validate:"omitempty,gt=0"`
}

// --- Handlers ---

// CreateUser handles POST /auth/create-user
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		ProfileID: req.ProfileID,
		StatusID:  req.StatusID,
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	token, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, token)
}

// GetUser handles POST /auth/get-user
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	var req GetUserRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	var by domain.Identifier
	switch {
	case req.ID != nil && req.Email == "":
		by = domain.ByID(*req.ID)
	case req.ID == nil && req.Email != "":
		by = domain.ByEmail(req.Email)
	default:
		h.errors.WriteError(w, r, apperrors.InvalidInput("exactly one of id or email is required"))
		return
	}

	user, err := h.service.GetUser(r.Context(), by)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}

// UpdateUser handles POST /auth/update-user
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	input := service.UpdateUserInput{ProfileID: req.ProfileID, StatusID: req.StatusID}
	if req.Email != "" {
		input.Email = &req.Email
	}
	if req.Password != "" {
		input.Password = &req.Password
	}

	user, err := h.service.UpdateUser(r.Context(), req.ID, input)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, user)
}
