package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// UserService provides account-related operations outside the ledger:
// signup, lookups, and the add-funds entry point.
type UserService interface {
	// CreateAccount creates a new account with the given details.
	// Returns store.ErrEmailExists when the email is already registered.
	CreateAccount(
		ctx context.Context,
		displayName, email, password string,
	) (*domain.Account, error)

	// GetAccount retrieves an account by its ID.
	GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)

	// GetAccountByEmail retrieves an account by its email address.
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// AddFunds credits the account wallet and returns the new balance.
	// Funds must be positive.
	AddFunds(ctx context.Context, accountID uuid.UUID, funds int64) (int64, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	accounts store.AccountStore
	ledger   LedgerService
	logger   *slog.Logger
}

// Ensure UserServiceImpl implements UserService.
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	accounts store.AccountStore,
	ledger LedgerService,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		accounts: accounts,
		ledger:   ledger,
		logger:   logger.With("component", "user_service"),
	}
}

// CreateAccount implements UserService.CreateAccount.
func (s *UserServiceImpl) CreateAccount(
	ctx context.Context,
	displayName, email, password string,
) (*domain.Account, error) {
	account, err := domain.NewAccount(displayName, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("signup rejected: email in use", "email", email)
		} else {
			s.logger.Error("failed to create account", "error", err)
		}
		return nil, err
	}

	s.logger.Info("account created",
		"account_id", account.ID,
		"email", account.Email)

	return account, nil
}

// GetAccount implements UserService.GetAccount.
func (s *UserServiceImpl) GetAccount(
	ctx context.Context,
	accountID uuid.UUID,
) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// GetAccountByEmail implements UserService.GetAccountByEmail.
func (s *UserServiceImpl) GetAccountByEmail(
	ctx context.Context,
	email string,
) (*domain.Account, error) {
	return s.accounts.GetByEmail(ctx, email)
}

// AddFunds implements UserService.AddFunds.
// It is a thin front over the ledger so the balance invariants live in one
// place.
func (s *UserServiceImpl) AddFunds(
	ctx context.Context,
	accountID uuid.UUID,
	funds int64,
) (int64, error) {
	balance, err := s.ledger.Credit(ctx, accountID, funds)
	if err != nil {
		return 0, err
	}

	s.logger.Info("funds added",
		"account_id", accountID,
		"amount", funds,
		"new_balance", balance)

	return balance, nil
}
