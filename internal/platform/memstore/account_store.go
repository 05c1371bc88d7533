package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// AccountStore is an in-memory implementation of store.AccountStore.
// A single mutex serializes all balance mutations, which gives the same
// guarantee the PostgreSQL implementation gets from conditional UPDATEs:
// a debit checks the floor and writes the new balance as one atomic step.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account
	byEmail  map[string]uuid.UUID
}

// Ensure AccountStore implements store.AccountStore.
var _ store.AccountStore = (*AccountStore)(nil)

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[uuid.UUID]*domain.Account),
		byEmail:  make(map[string]uuid.UUID),
	}
}

// Create implements store.AccountStore.Create.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.MinCost)
	if err != nil {
		return store.NewStoreError("account", "create", "failed to hash password", err)
	}
	account.HashedPassword = string(hashed)
	account.Password = ""

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[account.Email]; exists {
		return store.ErrEmailExists
	}

	stored := *account
	s.accounts[account.ID] = &stored
	s.byEmail[account.Email] = account.ID
	return nil
}

// GetByID implements store.AccountStore.GetByID.
func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}

	copied := *account
	return &copied, nil
}

// GetByEmail implements store.AccountStore.GetByEmail.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrAccountNotFound
	}

	copied := *s.accounts[id]
	return &copied, nil
}

// Credit implements store.AccountStore.Credit.
func (s *AccountStore) Credit(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return 0, store.ErrAccountNotFound
	}

	account.Balance += amount
	return account.Balance, nil
}

// Debit implements store.AccountStore.Debit.
// The floor check and the write happen under the same lock acquisition, so
// racing debits never both pass the check.
func (s *AccountStore) Debit(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return 0, store.ErrAccountNotFound
	}

	if account.Balance < amount {
		return 0, store.ErrInsufficientFunds
	}

	account.Balance -= amount
	return account.Balance, nil
}
