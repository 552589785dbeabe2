package services

import (
	"errors"
	"fmt"

	"github.com/dimitrije/projectboard/internal/store"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrDuplicateMember       = errors.New("user is already a member of this project")
	ErrForbidden             = errors.New("only the project owner can do this")
	ErrCannotRemoveOwner     = errors.New("cannot remove the project owner")
	ErrCannotChangeOwnerRole = errors.New("cannot change the project owner's role")
	ErrProfileCreation       = errors.New("failed to create user profile")
	ErrRemoteOperation       = errors.New("remote operation failed")
	ErrEmailTaken            = errors.New("email is already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)

// ValidationError describes a rejected input field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func remote(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteOperation, op, err)
}

// lookup turns a missing row into ErrNotFound and anything else into a
// failed remote operation.
func lookup(op string, err error) error {
	if store.IsNotFound(err) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return remote(op, err)
}

var domainErrors = []error{
	ErrValidation,
	ErrNotFound,
	ErrMemberNotFound,
	ErrDuplicateMember,
	ErrForbidden,
	ErrCannotRemoveOwner,
	ErrCannotChangeOwnerRole,
	ErrProfileCreation,
	ErrRemoteOperation,
	ErrEmailTaken,
	ErrInvalidCredentials,
}

// txErr passes domain errors returned from inside a transaction through and
// reports everything else (begin, commit) as a failed remote operation.
func txErr(op string, err error) error {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return remote(op, err)
}
