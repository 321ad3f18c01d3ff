package crouton

import (
	"errors"
	"fmt"
)

// Standard sentinel errors raised by generated handlers at runtime.
var (
	// ErrTeamNotFound is returned when the team referenced by a request
	// does not exist.
	ErrTeamNotFound = errors.New("crouton: team not found")

	// ErrNotMember is returned when the caller is not a member of the
	// team that owns the requested rows.
	ErrNotMember = errors.New("crouton: caller is not a team member")

	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("crouton: not found")

	// ErrMissingField is returned when a required field is absent from
	// a request body.
	ErrMissingField = errors.New("crouton: missing required field")

	// ErrCycle is returned when a move would make a node a descendant
	// of itself.
	ErrCycle = errors.New("crouton: move would create a cycle")
)

// TeamNotFoundError reports a request against a team that does not exist.
type TeamNotFoundError struct {
	Team string
}

// Error returns the error string.
func (e *TeamNotFoundError) Error() string {
	return fmt.Sprintf("crouton: team %q not found", e.Team)
}

// Is reports whether the target matches the sentinel error.
func (e *TeamNotFoundError) Is(target error) bool {
	return target == ErrTeamNotFound
}

// NewTeamNotFoundError returns a new TeamNotFoundError.
func NewTeamNotFoundError(team string) *TeamNotFoundError {
	return &TeamNotFoundError{Team: team}
}

// NotMemberError reports a caller that is not a member of the acting team.
type NotMemberError struct {
	Team string
	User string
}

// Error returns the error string.
func (e *NotMemberError) Error() string {
	return fmt.Sprintf("crouton: user %q is not a member of team %q", e.User, e.Team)
}

// Is reports whether the target matches the sentinel error.
func (e *NotMemberError) Is(target error) bool {
	return target == ErrNotMember
}

// NewNotMemberError returns a new NotMemberError.
func NewNotMemberError(team, user string) *NotMemberError {
	return &NotMemberError{Team: team, User: user}
}

// NotFoundError reports a missing row for a collection.
type NotFoundError struct {
	Collection string
	ID         any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("crouton: %s not found (id=%v)", e.Collection, e.ID)
	}
	return fmt.Sprintf("crouton: %s not found", e.Collection)
}

// Is reports whether the target matches the sentinel error.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError returns a new NotFoundError.
func NewNotFoundError(collection string, id any) *NotFoundError {
	return &NotFoundError{Collection: collection, ID: id}
}

// MissingFieldError reports a required field absent from a request body.
type MissingFieldError struct {
	Collection string
	Field      string
}

// Error returns the error string.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("crouton: %s: missing required field %q", e.Collection, e.Field)
}

// Is reports whether the target matches the sentinel error.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// NewMissingFieldError returns a new MissingFieldError.
func NewMissingFieldError(collection, field string) *MissingFieldError {
	return &MissingFieldError{Collection: collection, Field: field}
}

// IsTeamNotFound reports whether err is a TeamNotFoundError.
func IsTeamNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *TeamNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrTeamNotFound)
}

// IsNotMember reports whether err is a NotMemberError.
func IsNotMember(err error) bool {
	if err == nil {
		return false
	}
	var e *NotMemberError
	return errors.As(err, &e) || errors.Is(err, ErrNotMember)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// IsMissingField reports whether err is a MissingFieldError.
func IsMissingField(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingFieldError
	return errors.As(err, &e) || errors.Is(err, ErrMissingField)
}
