// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrSlotTaken signals that the storage-level uniqueness
// backstop fired during an accept and the attempt must be reported as a
// conflict, never as a raw database error.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as deleting a sale
// item that confirmed reservations still reference. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by user creation when the email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyDecided is returned when an accept or decline targets an
// appointment that is no longer PENDING. The transition is a no-op;
// handlers report the current status instead of failing loudly.
var ErrAlreadyDecided = errors.New("appointment already decided")

// ErrSlotTaken is returned when the unique indexes guarding accepted
// appointments reject a status transition that passed its
// in-transaction pre-check. It maps a lost race to the same
// auto-decline outcome as a planned conflict.
var ErrSlotTaken = errors.New("slot already taken")

// ErrNotDraft is returned when a reservation mutation requires DRAFT
// status but the row has already been confirmed, cancelled or
// fulfilled.
var ErrNotDraft = errors.New("reservation is not a draft")

// ErrItemGone is returned when a selected sale item disappeared
// between the handler's listing check and the line insert, for
// example because the owner deleted it concurrently. The selection is
// rolled back rather than silently dropping the line.
var ErrItemGone = errors.New("sale item no longer exists")
