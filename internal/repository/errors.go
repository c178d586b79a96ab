// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// service package to distinguish between different failure scenarios
// without inspecting driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id or email matches no row.
// Deletes never return it; deleting an absent record is a no-op.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email
// index, whether that index is a map in memory or a database constraint.
var ErrEmailExists = errors.New("email already exists")
