package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind classifies a domain failure. Every kind must have an arm in the HTTP
// error translator; Kinds lists them for that check.
type Kind uint8

const (
	KindUserNotFound Kind = iota + 1
	KindDuplicateUser
	KindProfileNotFound
	KindStatusNotFound
	KindInvalidCredentials
)

// Kinds returns every defined kind.
func Kinds() []Kind {
	return []Kind{
		KindUserNotFound,
		KindDuplicateUser,
		KindProfileNotFound,
		KindStatusNotFound,
		KindInvalidCredentials,
	}
}

func (k Kind) String() string {
	switch k {
	case KindUserNotFound:
		return "USER_NOT_FOUND"
	case KindDuplicateUser:
		return "DUPLICATE_USER"
	case KindProfileNotFound:
		return "PROFILE_NOT_FOUND"
	case KindStatusNotFound:
		return "STATUS_NOT_FOUND"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	default:
		return "UNKNOWN"
	}
}

// Error is an expected business outcome. Identifier holds the value that
// caused it (an id or an email), empty for invalid credentials.
type Error struct {
	Kind       Kind
	Message    string
	Identifier string

	login bool
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// DuringLogin reports whether a not-found error came from authentication.
func (e *Error) DuringLogin() bool { return e.login }

// Sentinels for errors.Is.
var (
	ErrUserNotFound       = &Error{Kind: KindUserNotFound, Message: "user not found"}
	ErrDuplicateUser      = &Error{Kind: KindDuplicateUser, Message: "user already exists"}
	ErrProfileNotFound    = &Error{Kind: KindProfileNotFound, Message: "profile not found"}
	ErrStatusNotFound     = &Error{Kind: KindStatusNotFound, Message: "status not found"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
)

func UserNotFound(by Identifier) *Error {
	return &Error{
		Kind:       KindUserNotFound,
		Message:    fmt.Sprintf("user with %s not found", by),
		Identifier: identifierValue(by),
	}
}

// UnknownLogin is the not-found error raised when authenticating an email
// that has no account.
func UnknownLogin(email string) *Error {
	e := UserNotFound(ByEmail(email))
	e.login = true
	return e
}

func DuplicateUser(email string) *Error {
	return &Error{
		Kind:       KindDuplicateUser,
		Message:    fmt.Sprintf("user with email %s already exists", email),
		Identifier: email,
	}
}

func ProfileNotFound(profileID int64) *Error {
	id := strconv.FormatInt(profileID, 10)
	return &Error{Kind: KindProfileNotFound, Message: "profile " + id + " does not exist", Identifier: id}
}

func StatusNotFound(statusID int64) *Error {
	id := strconv.FormatInt(statusID, 10)
	return &Error{Kind: KindStatusNotFound, Message: "status " + id + " does not exist", Identifier: id}
}

func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
}

// AsError extracts a domain error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func identifierValue(by Identifier) string {
	switch by.Kind() {
	case IdentifierID:
		return strconv.FormatInt(by.ID(), 10)
	case IdentifierEmail:
		return by.Email()
	default:
		return ""
	}
}
