// Package repository implements MySQL persistence for the occupancy
// engine.  Sentinel errors defined here let the domain layer
// distinguish failure scenarios without inspecting SQL details: a
// missing row, a lost check-in race, or a close attempt on a session
// that already left the CHECKED_IN state.
package repository

import "errors"

// ErrReservationNotFound is returned when a reservation identifier
// does not resolve.  The engine reads reservations from the booking
// subsystem and never creates them.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSessionNotFound is returned when a session identifier does not
// resolve.
var ErrSessionNotFound = errors.New("session not found")

// ErrSpaceNotFound is returned when a space identifier does not
// resolve in the catalog.
var ErrSpaceNotFound = errors.New("space not found")

// ErrOpenSessionExists is returned by CreateCheckedIn when the guarded
// insert finds an open session for the same reservation.  The caller
// lost a check-in race; at most one winner is guaranteed.
var ErrOpenSessionExists = errors.New("open session already exists")

// ErrStaleState is returned by Close when the conditional update
// matched no row because the session is no longer CHECKED_IN.  Covers
// double check-out attempts racing each other.
var ErrStaleState = errors.New("session state changed concurrently")
