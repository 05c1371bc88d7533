// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrNonPositiveAmount is returned when a ledger operation is attempted
	// with a zero or negative amount. Both credits and debits require a
	// strictly positive amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
)
