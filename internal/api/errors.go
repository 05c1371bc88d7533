package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/service"
	"github.com/phrazzld/marketplace-api/internal/service/auth"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrBadCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Conflict errors. ErrOwnershipConflict is checked before the generic
	// transaction failure so a losing concurrent purchase reports 409, not
	// 500 — the wrapped chain carries both sentinels.
	case errors.Is(err, store.ErrOwnershipConflict):
		return http.StatusConflict

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, service.ErrSelfPurchase),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Compensated mid-purchase failure with an unexpected trigger
	case errors.Is(err, service.ErrTransactionFailed):
		return http.StatusInternalServerError

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrBadCredentials):
		return "Invalid credentials"

	// Authorization errors
	case errors.Is(err, auth.ErrForbidden):
		return "You may only act on your own account"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this article"

	// Conflicts
	case errors.Is(err, store.ErrOwnershipConflict):
		return "Article was sold to someone else"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Not found errors
	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"

	case errors.Is(err, store.ErrArticleNotFound):
		return "Article not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	// Bad requests
	case errors.Is(err, store.ErrInsufficientFunds):
		return "Insufficient funds"

	case errors.Is(err, service.ErrSelfPurchase):
		return "Cannot buy your own article"

	case errors.Is(err, domain.ErrNonPositiveAmount):
		return "Amount must be a positive integer"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrTransactionFailed):
		return "Purchase failed and was rolled back"

	default:
		return "An unexpected error occurred"
	}
}

// HandleServiceError maps a service error to a status code and safe message
// and writes the response, logging the underlying error.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	RespondWithErrorAndLog(w, r, status, message, err)
}
