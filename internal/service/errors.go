package service

import "errors"

// Sentinel errors for the booking workflow. The API layer translates
// these into HTTP statuses; everything else maps to 500.
var (
	// ErrInvalidRequest: client input is missing required fields (400).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTicketNotFound: the inventory service has no such ticket, or
	// could not be reached before any reservation was attempted (404).
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrInsufficientInventory: requested quantity exceeds available
	// seats; no reservation was attempted (400).
	ErrInsufficientInventory = errors.New("insufficient seats available")

	// ErrReservationFailed: the inventory reserve call failed; no
	// booking was persisted (500).
	ErrReservationFailed = errors.New("seat reservation failed")

	// ErrAlreadyCancelled: the booking is already cancelled; the record
	// is left unchanged (400).
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrNotFound: no booking exists for the given ID or reference (404).
	ErrNotFound = errors.New("booking not found")

	// ErrPersistence: the store rejected a write. On create this can
	// leave inventory decremented with no matching booking, a
	// documented inconsistency window (500).
	ErrPersistence = errors.New("failed to persist booking")

	// ErrStatsUnavailable: the stats aggregate could not be computed (500).
	ErrStatsUnavailable = errors.New("booking stats unavailable")
)
