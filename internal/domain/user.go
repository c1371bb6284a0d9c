package domain

import (
	"strings"
	"time"
)

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"creation_date"`
	ProfileID    *int64    `json:"profile_id"`
	StatusID     *int64    `json:"status_id"`
}

// NewUser builds a not-yet-persisted user. The email is normalized.
func NewUser(email, passwordHash string, profileID, statusID *int64, now time.Time) *User {
	return &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
		ProfileID:    profileID,
		StatusID:     statusID,
	}
}

// Sanitized returns a copy without the password digest.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}

// Apply overwrites the fields present in changes.
func (u *User) Apply(changes UserChanges) {
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	if changes.ProfileID != nil {
		u.ProfileID = changes.ProfileID
	}
	if changes.StatusID != nil {
		u.StatusID = changes.StatusID
	}
}

// UserChanges is a partial update; nil fields are left untouched.
type UserChanges struct {
	Email        *string
	PasswordHash *string
	ProfileID    *int64
	StatusID     *int64
}

func (c UserChanges) IsEmpty() bool {
	return c.Email == nil && c.PasswordHash == nil && c.ProfileID == nil && c.StatusID == nil
}

// Against drops the entries that would leave u as it is. A password digest
// is always kept: salted digests of the same password differ.
func (c UserChanges) Against(u *User) UserChanges {
	out := c
	if c.Email != nil && *c.Email == u.Email {
		out.Email = nil
	}
	if c.ProfileID != nil && u.ProfileID != nil && *c.ProfileID == *u.ProfileID {
		out.ProfileID = nil
	}
	if c.StatusID != nil && u.StatusID != nil && *c.StatusID == *u.StatusID {
		out.StatusID = nil
	}
	return out
}

// Fields lists the column names being changed, in a stable order.
func (c UserChanges) Fields() []string {
	var fields []string
	if c.Email != nil {
		fields = append(fields, "email")
	}
	if c.PasswordHash != nil {
		fields = append(fields, "password")
	}
	if c.ProfileID != nil {
		fields = append(fields, "profile_id")
	}
	if c.StatusID != nil {
		fields = append(fields, "status_id")
	}
	return fields
}

// NormalizeEmail trims surrounding space and lower-cases the address so that
// uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
