package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// LedgerService owns the balance invariants: amounts are positive integers,
// balances never go negative, and every mutation is a single atomic
// debit or credit. All balance changes in the application go through here.
type LedgerService interface {
	// Credit increases the account balance by amount and returns the new
	// balance. Amount must be positive. Fails with store.ErrAccountNotFound
	// if the account is missing; cannot fail otherwise.
	Credit(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error)

	// Debit decreases the account balance by amount and returns the new
	// balance. Amount must be positive. Fails with store.ErrInsufficientFunds
	// when the balance would go negative, leaving the balance untouched.
	Debit(ctx context.Context, accountID uuid.UUID, amount int64) (int64, error)

	// GetBalance returns the current balance. Fails with
	// store.ErrAccountNotFound if the account is missing.
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// LedgerServiceImpl implements the LedgerService interface on top of an
// AccountStore. Serialization of concurrent mutations is the store's
// responsibility; this layer validates inputs and adds logging.
type LedgerServiceImpl struct {
	accounts store.AccountStore
	logger   *slog.Logger
}

// Ensure LedgerServiceImpl implements LedgerService.
var _ LedgerService = (*LedgerServiceImpl)(nil)

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accounts store.AccountStore, logger *slog.Logger) *LedgerServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerServiceImpl{
		accounts: accounts,
		logger:   logger.With("component", "ledger_service"),
	}
}

// Credit implements LedgerService.Credit.
func (s *LedgerServiceImpl) Credit(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit of %d", domain.ErrNonPositiveAmount, amount)
	}

	balance, err := s.accounts.Credit(ctx, accountID, amount)
	if err != nil {
		s.logger.Error("credit failed",
			"error", err,
			"account_id", accountID,
			"amount", amount)
		return 0, err
	}

	s.logger.Debug("credited account",
		"account_id", accountID,
		"amount", amount,
		"new_balance", balance)

	return balance, nil
}

// Debit implements LedgerService.Debit.
func (s *LedgerServiceImpl) Debit(
	ctx context.Context,
	accountID uuid.UUID,
	amount int64,
) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit of %d", domain.ErrNonPositiveAmount, amount)
	}

	balance, err := s.accounts.Debit(ctx, accountID, amount)
	if err != nil {
		// Insufficient funds is an expected outcome, not an operational error.
		s.logger.Debug("debit rejected",
			"error", err,
			"account_id", accountID,
			"amount", amount)
		return 0, err
	}

	s.logger.Debug("debited account",
		"account_id", accountID,
		"amount", amount,
		"new_balance", balance)

	return balance, nil
}

// GetBalance implements LedgerService.GetBalance.
func (s *LedgerServiceImpl) GetBalance(
	ctx context.Context,
	accountID uuid.UUID,
) (int64, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}
