// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current user
// is not authorized to operate on a resource owned by someone else,
// while ErrConflict signals a duplicate that the data model forbids
// (a second review for the same user and festival, or a signup with an
// email that is already registered).
package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or are not eligible for. Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert would violate a uniqueness
// rule, such as a duplicate review for a (user, festival) pair.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
