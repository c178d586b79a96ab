// Package service implements the case-management core: identity and
// credentials, the role-change policy, and the case and client registries.
// Handlers call into it with validated input and map the sentinel errors
// below onto HTTP status codes.
package service

import (
	"errors"
	"fmt"
)

// Error taxonomy.  Every error returned by this package wraps exactly one of
// these, so callers can switch with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrAuthFailure    = errors.New("invalid email or password")
	ErrInvalidRole    = errors.New("invalid role")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
)

func validation(msg string) error { return fmt.Errorf("%w: %s", ErrValidation, msg) }

// internal wraps an unexpected store or hashing fault, keeping its message.
func internal(op string, err error) error { return fmt.Errorf("%w: %s: %v", ErrInternal, op, err) }
