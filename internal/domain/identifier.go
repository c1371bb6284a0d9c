package domain

import "strconv"

type IdentifierKind uint8

const (
	IdentifierInvalid IdentifierKind = iota
	IdentifierID
	IdentifierEmail
)

// Identifier selects a user either by id or by email. Build it with ByID or
// ByEmail; the zero value is invalid.
type Identifier struct {
	kind  IdentifierKind
	id    int64
	email string
}

func ByID(id int64) Identifier {
	return Identifier{kind: IdentifierID, id: id}
}

// ByEmail normalizes email before storing it.
func ByEmail(email string) Identifier {
	return Identifier{kind: IdentifierEmail, email: NormalizeEmail(email)}
}

func (i Identifier) Kind() IdentifierKind { return i.kind }
func (i Identifier) ID() int64            { return i.id }
func (i Identifier) Email() string        { return i.email }

func (i Identifier) Valid() bool {
	switch i.kind {
	case IdentifierID:
		return i.id > 0
	case IdentifierEmail:
		return i.email != ""
	default:
		return false
	}
}

func (i Identifier) String() string {
	switch i.kind {
	case IdentifierID:
		return "id " + strconv.FormatInt(i.id, 10)
	case IdentifierEmail:
		return "email " + i.email
	default:
		return "invalid identifier"
	}
}
