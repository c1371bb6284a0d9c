package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/authcore/internal/domain"
	"github.com/utafrali/authcore/pkg/database"
	apperrors "github.com/utafrali/authcore/pkg/errors"
)

// Constraint names from migrations/00001_create_users.sql.
const (
	constraintEmailUnique = "users_email_key"
	constraintProfileFK   = "users_profile_id_fkey"
	constraintStatusFK    = "users_status_id_fkey"
)

const userColumns = "id, email, password, creation_date, profile_id, status_id"

// legacyDateLayout matches creation dates written without a zone offset.
const legacyDateLayout = "2006-01-02T15:04:05.999999999"

// UserRepository implements repository.UserRepository on PostgreSQL. Each
// call runs in its own transaction under queryTimeout.
type UserRepository struct {
	db           database.TxBeginner
	queryTimeout time.Duration
}

// NewUserRepository creates a UserRepository. A zero queryTimeout leaves
// the caller's deadline as the only bound.
func NewUserRepository(db database.TxBeginner, queryTimeout time.Duration) *UserRepository {
	return &UserRepository{db: db, queryTimeout: queryTimeout}
}

// referenced holds the values a constraint violation may be reported about.
type referenced struct {
	email     string
	profileID *int64
	statusID  *int64
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (created *domain.User, err error) {
	const query = `INSERT INTO users (email, password, creation_date, profile_id, status_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	ctx, end := database.TraceQuery(ctx, "users.create", query)
	defer func() { end(infraError(err)) }()

	var id int64
	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			user.Email, user.PasswordHash, formatDate(user.CreatedAt), user.ProfileID, user.StatusID,
		).Scan(&id)
	})
	if err != nil {
		return nil, translate("insert user", err, referenced{user.Email, user.ProfileID, user.StatusID})
	}

	out := *user
	out.ID = id
	return &out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "users.find_by_id",
		"SELECT "+userColumns+" FROM users WHERE id = $1", domain.ByID(id), id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "users.find_by_email",
		"SELECT "+userColumns+" FROM users WHERE email = $1", domain.ByEmail(email), email)
}

func (r *UserRepository) findOne(ctx context.Context, op, query string, by domain.Identifier, arg any) (user *domain.User, err error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(infraError(err)) }()

	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		u, err := scanUser(tx.QueryRow(ctx, query, arg))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserNotFound(by)
		}
		user = u
		return err
	})
	if err != nil {
		return nil, translate(strings.ReplaceAll(op, "_", " "), err, referenced{})
	}
	return user, nil
}

// Update locks the row, applies the columns that differ and commits.
func (r *UserRepository) Update(ctx context.Context, id int64, changes domain.UserChanges) (user *domain.User, applied domain.UserChanges, err error) {
	const lockQuery = "SELECT " + userColumns + " FROM users WHERE id = $1 FOR UPDATE"

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	ctx, end := database.TraceQuery(ctx, "users.update", lockQuery)
	defer func() { end(infraError(err)) }()

	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		current, err := scanUser(tx.QueryRow(ctx, lockQuery, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserNotFound(domain.ByID(id))
		}
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		applied = changes.Against(current)
		if !applied.IsEmpty() {
			query, args := buildUpdate(id, applied)
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return err
			}
			current.Apply(applied)
		}
		user = current
		return nil
	})
	if err != nil {
		ref := referenced{profileID: changes.ProfileID, statusID: changes.StatusID}
		if changes.Email != nil {
			ref.email = *changes.Email
		}
		return nil, domain.UserChanges{}, translate("update user", err, ref)
	}
	return user, applied, nil
}

// buildUpdate renders an UPDATE touching only the changed columns.
func buildUpdate(id int64, changes domain.UserChanges) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if changes.Email != nil {
		add("email", *changes.Email)
	}
	if changes.PasswordHash != nil {
		add("password", *changes.PasswordHash)
	}
	if changes.ProfileID != nil {
		add("profile_id", *changes.ProfileID)
	}
	if changes.StatusID != nil {
		add("status_id", *changes.StatusID)
	}
	args = append(args, id)
	return "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args)), args
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u       domain.User
		created string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &created, &u.ProfileID, &u.StatusID); err != nil {
		return nil, err
	}
	t, err := parseDate(created)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", u.ID, err)
	}
	u.CreatedAt = t
	return &u, nil
}

// translate maps a failed statement onto the port's error contract.
func translate(op string, err error, ref referenced) error {
	if _, ok := domain.AsError(err); ok {
		return err
	}
	if pgErr, ok := database.ConstraintViolation(err, database.CodeUniqueViolation, database.CodeForeignKeyViolation); ok {
		switch {
		case pgErr.ConstraintName == constraintEmailUnique:
			return domain.DuplicateUser(ref.email)
		case pgErr.ConstraintName == constraintProfileFK && ref.profileID != nil:
			return domain.ProfileNotFound(*ref.profileID)
		case pgErr.ConstraintName == constraintStatusFK && ref.statusID != nil:
			return domain.StatusNotFound(*ref.statusID)
		}
	}
	if database.IsTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// infraError hides expected domain outcomes from span error status.
func infraError(err error) error {
	if _, ok := domain.AsError(err); ok {
		return nil
	}
	return err
}

func (r *UserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(legacyDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse creation_date %q: %w", s, err)
	}
	return t, nil
}
