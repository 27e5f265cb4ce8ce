// Package domain holds typed identifiers shared across modules.
//
// Each ID wraps a uuid.UUID so a PersonID can never be passed where a UserID is
// expected. Parse functions are the trust boundary: they reject empty, malformed
// and nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "lifeclock/pkg/domain-errors"
)

type (
	UserID   uuid.UUID
	PersonID uuid.UUID
)

func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id PersonID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id PersonID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PersonID) UnmarshalText(b []byte) error {
	parsed, err := ParsePersonID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewUserID returns a random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewPersonID returns a random person ID.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// ParseUserID parses and validates a user ID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

// ParsePersonID parses and validates a person ID.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person ID")
	return PersonID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}
