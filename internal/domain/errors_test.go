package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_MatchSentinelsByKind(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
	}{
		{UserNotFound(ByID(3)), ErrUserNotFound},
		{UnknownLogin("ada@example.com"), ErrUserNotFound},
		{DuplicateUser("ada@example.com"), ErrDuplicateUser},
		{ProfileNotFound(9), ErrProfileNotFound},
		{StatusNotFound(4), ErrStatusNotFound},
		{InvalidCredentials(), ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.sentinel.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("create user: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			for _, other := range []error{ErrUserNotFound, ErrDuplicateUser, ErrProfileNotFound, ErrStatusNotFound, ErrInvalidCredentials} {
				if other != tt.sentinel {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestErrors_CarryIdentifier(t *testing.T) {
	assert.Equal(t, "3", UserNotFound(ByID(3)).Identifier)
	assert.Equal(t, "ada@example.com", UserNotFound(ByEmail("ADA@example.com")).Identifier)
	assert.Equal(t, "ada@example.com", DuplicateUser("ada@example.com").Identifier)
	assert.Equal(t, "9", ProfileNotFound(9).Identifier)
	assert.Equal(t, "4", StatusNotFound(4).Identifier)
	assert.Empty(t, InvalidCredentials().Identifier)
}

func TestErrors_Messages(t *testing.T) {
	assert.Equal(t, "user with id 3 not found", UserNotFound(ByID(3)).Error())
	assert.Equal(t, "user with email ada@example.com already exists", DuplicateUser("ada@example.com").Error())
	assert.Equal(t, "profile 9 does not exist", ProfileNotFound(9).Error())
	assert.Equal(t, "invalid email or password", InvalidCredentials().Error())
}

func TestUnknownLogin_IsFlagged(t *testing.T) {
	assert.True(t, UnknownLogin("ada@example.com").DuringLogin())
	assert.False(t, UserNotFound(ByEmail("ada@example.com")).DuringLogin())
}

func TestAsError(t *testing.T) {
	de, ok := AsError(fmt.Errorf("outer: %w", DuplicateUser("x@y.z")))
	require.True(t, ok)
	assert.Equal(t, KindDuplicateUser, de.Kind)

	_, ok = AsError(errors.New("driver failure"))
	assert.False(t, ok)
}

func TestKinds_AllNamed(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range Kinds() {
		name := k.String()
		assert.NotEqual(t, "UNKNOWN", name, "kind %d has no name", k)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "UNKNOWN", Kind(0).String())
}
