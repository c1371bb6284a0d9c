package repository

import (
	"context"

	"github.com/utafrali/authcore/internal/domain"
)

// UserRepository is the persistence port of the user service.
//
// Absent users are reported as domain.UserNotFound; constraint violations as
// domain.DuplicateUser, domain.ProfileNotFound or domain.StatusNotFound.
// Deadline failures wrap apperrors.ErrTimeout. Anything else is an opaque
// wrapped error.
type UserRepository interface {
	// Create stores a new user and returns it with its assigned id.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByID returns the user with the given id.
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// FindByEmail returns the user with the given normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update applies changes to the user with the given id and returns the
	// updated record along with the changes that actually differed from the
	// stored values. When none differ nothing is written.
	Update(ctx context.Context, id int64, changes domain.UserChanges) (*domain.User, domain.UserChanges, error)
}
