package core

import "errors"

var (
	// ErrUnauthorized is returned when no trusted owner identity is present.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a referenced account does not exist or
	// belongs to a different owner.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidAmount is returned for unparseable or negative monetary input.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountOverflow is returned when a monetary value exceeds the
	// representable range.
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrInvariantViolation is returned when the store cannot guarantee the
	// single-default-account invariant. It must never be silently ignored.
	ErrInvariantViolation = errors.New("default account invariant violation")
)
