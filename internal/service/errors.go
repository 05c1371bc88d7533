// Package service provides application-level services for accounts, the
// ledger, the article catalog, and the purchase orchestrator.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions that callers check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped with context via fmt.Errorf and %w
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrSelfPurchase indicates a buyer attempted to purchase an article
	// they already own. API layer should map this to HTTP 400 Bad Request.
	ErrSelfPurchase = errors.New("cannot buy your own article")

	// ErrNotOwned indicates an article is owned by a different account than
	// the one making the request. Returned when a caller tries to remove an
	// article they do not own. API layer should map this to HTTP 403.
	ErrNotOwned = errors.New("article is owned by another account")

	// ErrTransactionFailed indicates a purchase failed after the buyer was
	// already debited, and the compensation path ran. The triggering error
	// is wrapped alongside this sentinel.
	ErrTransactionFailed = errors.New("purchase transaction failed")
)
