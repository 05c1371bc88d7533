package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/marketplace-api/internal/domain"
)

// AccountStore defines the interface for account data persistence.
//
// Balance mutations go through Credit and Debit exclusively. Implementations
// must serialize them per account — either with an atomic conditional update
// at the storage layer or with a lock — so that two racing debits can never
// both observe a sufficient balance and drive it negative. A bare
// read-modify-write across an I/O boundary is not an acceptable
// implementation.
type AccountStore interface {
	// Create saves a new account to the store.
	// It hashes the plaintext password before persisting and clears it from
	// the entity. Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Account if data is invalid.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByEmail retrieves an account by its email address.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Credit atomically increases the account balance by amount and returns
	// the new balance. The amount must be positive; callers validate it.
	// Returns ErrAccountNotFound if the account does not exist.
	Credit(ctx context.Context, id uuid.UUID, amount int64) (int64, error)

	// Debit atomically decreases the account balance by amount and returns
	// the new balance. Returns ErrInsufficientFunds without mutating anything
	// when the balance would go negative, and ErrAccountNotFound if the
	// account does not exist.
	Debit(ctx context.Context, id uuid.UUID, amount int64) (int64, error)
}
