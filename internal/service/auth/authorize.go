package auth

import (
	"errors"

	"github.com/google/uuid"
)

// ErrForbidden indicates the caller tried to act on an account other than
// their own.
var ErrForbidden = errors.New("callers may only act on their own account")

// AuthorizeSelf checks that the caller is operating on their own account.
// It is used to restrict balance and profile mutation to the account owner.
// The purchase flow does not consume it: there the buyer identity comes from
// the authenticated caller and the seller is derived from article state.
func AuthorizeSelf(requestedAccountID, callerAccountID uuid.UUID) error {
	if requestedAccountID != callerAccountID {
		return ErrForbidden
	}
	return nil
}
