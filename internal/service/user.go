package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/authcore/internal/domain"
	"github.com/utafrali/authcore/internal/repository"
	apperrors "github.com/utafrali/authcore/pkg/errors"
)

// Credentials hashes and verifies passwords and issues access tokens.
type Credentials interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, digest string) bool
	IssueToken(userID int64) (*domain.AuthToken, error)
}

// EventPublisher announces user lifecycle changes. Publishing is best effort.
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, user *domain.User) error
	PublishUserUpdated(ctx context.Context, user *domain.User, fields []string) error
}

// UserService implements the account use cases: registration, login,
// lookup and partial update.
type UserService struct {
	users       repository.UserRepository
	credentials Credentials
	events      EventPublisher
	logger      *slog.Logger
	now         func() time.Time

	decoyOnce   sync.Once
	decoyDigest string
}

// Option customizes a UserService.
type Option func(*UserService)

// WithClock overrides the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

// NewUserService creates a new user service. events may be nil.
func NewUserService(
	users repository.UserRepository,
	credentials Credentials,
	events EventPublisher,
	logger *slog.Logger,
	opts ...Option,
) *UserService {
	s := &UserService{
		users:       users,
		credentials: credentials,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUserInput holds the parameters for registering a user.
type CreateUserInput struct {
	Email     string
	Password  string
	ProfileID *int64
	StatusID  *int64
}

// UpdateUserInput holds the parameters for a partial update. Nil fields are
// left unchanged.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	ProfileID *int64
	StatusID  *int64
}

// CreateUser hashes the password and stores a new user. Email uniqueness is
// enforced by the store alone.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	digest, err := s.credentials.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(email, digest, input.ProfileID, input.StatusID, s.now())
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, "user.created", created.ID, func() error {
		return s.events.PublishUserCreated(ctx, created.Sanitized())
	})

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", created.ID),
		slog.String("email", created.Email),
	)
	return created.Sanitized(), nil
}

// Authenticate checks an email and password and issues an access token.
// An unknown email yields a login-flagged UserNotFound; presenting it as
// invalid credentials is left to the transport's error policy.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.AuthToken, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if de, ok := domain.AsError(err); ok && de.Kind == domain.KindUserNotFound {
			// Same bcrypt work as a known email so timing does not reveal
			// which addresses are registered.
			s.credentials.VerifyPassword(password, s.decoy())
			return nil, domain.UnknownLogin(email)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.credentials.VerifyPassword(password, user.PasswordHash) {
		s.logger.InfoContext(ctx, "authentication failed", slog.Int64("user_id", user.ID))
		return nil, domain.InvalidCredentials()
	}

	token, err := s.credentials.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user authenticated", slog.Int64("user_id", user.ID))
	return token, nil
}

// GetUser looks a user up by id or by email.
func (s *UserService) GetUser(ctx context.Context, by domain.Identifier) (*domain.User, error) {
	if !by.Valid() {
		return nil, apperrors.InvalidInput("exactly one of id or email is required")
	}

	var (
		user *domain.User
		err  error
	)
	switch by.Kind() {
	case domain.IdentifierID:
		user, err = s.users.FindByID(ctx, by.ID())
	case domain.IdentifierEmail:
		user, err = s.users.FindByEmail(ctx, by.Email())
	}
	if err != nil {
		return nil, fmt.Errorf("get user by %s: %w", by, err)
	}
	return user.Sanitized(), nil
}

// UpdateUser applies a partial update. A new password is re-hashed and a
// new email normalized. With nothing to change, or only values equal to the
// stored ones, the current record is returned and no event is published.
func (s *UserService) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("user id must be positive")
	}

	changes := domain.UserChanges{ProfileID: input.ProfileID, StatusID: input.StatusID}
	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, apperrors.InvalidInput("email must not be blank")
		}
		changes.Email = &email
	}
	if input.Password != nil {
		digest, err := s.credentials.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &digest
	}

	if changes.IsEmpty() {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return user.Sanitized(), nil
	}

	updated, applied, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if applied.IsEmpty() {
		return updated.Sanitized(), nil
	}

	fields := applied.Fields()
	s.publish(ctx, "user.updated", updated.ID, func() error {
		return s.events.PublishUserUpdated(ctx, updated.Sanitized(), fields)
	})

	s.logger.InfoContext(ctx, "user updated",
		slog.Int64("user_id", updated.ID),
		slog.Any("fields", fields),
	)
	return updated.Sanitized(), nil
}

// decoy returns a digest at the configured cost that no password matches.
func (s *UserService) decoy() string {
	s.decoyOnce.Do(func() {
		digest, err := s.credentials.HashPassword("authcore-decoy-password")
		if err != nil {
			s.logger.Error("failed to derive decoy password digest", slog.String("error", err.Error()))
			return
		}
		s.decoyDigest = digest
	})
	return s.decoyDigest
}

func (s *UserService) publish(ctx context.Context, event string, userID int64, fn func() error) {
	if s.events == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish "+event+" event",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
