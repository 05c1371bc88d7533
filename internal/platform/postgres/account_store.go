package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db         store.DBTX
	bcryptCost int
}

// Ensure PostgresAccountStore implements store.AccountStore.
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// NewPostgresAccountStore creates a new PostgreSQL implementation of the
// AccountStore interface. It accepts a database connection that should be
// initialized and managed by the caller, and a bcrypt cost (pass 0 to use
// bcrypt.DefaultCost).
func NewPostgresAccountStore(db store.DBTX, bcryptCost int) *PostgresAccountStore {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PostgresAccountStore{
		db:         db,
		bcryptCost: bcryptCost,
	}
}

// Create implements store.AccountStore.Create.
// It validates the account, hashes the plaintext password, and inserts the
// row. The plaintext password is cleared from the entity afterwards.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), s.bcryptCost)
	if err != nil {
		return store.NewStoreError("account", "create", "failed to hash password", err)
	}
	account.HashedPassword = string(hashed)
	account.Password = ""

	query := `
		INSERT INTO accounts (id, display_name, email, hashed_password, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		account.ID,
		account.DisplayName,
		account.Email,
		account.HashedPassword,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return store.NewStoreError("account", "create", "failed to insert account", err)
	}

	return nil
}

// GetByID implements store.AccountStore.GetByID.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, display_name, email, hashed_password, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.AccountStore.GetByEmail.
func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, display_name, email, hashed_password, balance, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, email))
}

// Credit implements store.AccountStore.Credit.
// The increment happens inside a single UPDATE, so concurrent credits on the
// same account serialize at the database row.
func (s *PostgresAccountStore) Credit(
	ctx context.Context,
	id uuid.UUID,
	amount int64,
) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance
	`
	var balance int64
	err := s.db.QueryRowContext(ctx, query, amount, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrAccountNotFound
	}
	if err != nil {
		return 0, store.NewStoreError("account", "credit", "failed to update balance", err)
	}
	return balance, nil
}

// Debit implements store.AccountStore.Debit.
// The balance floor check is part of the UPDATE predicate: when the balance
// is too low the statement matches no row and nothing is written. Two racing
// debits therefore cannot both succeed against the same funds.
func (s *PostgresAccountStore) Debit(
	ctx context.Context,
	id uuid.UUID,
	amount int64,
) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = now()
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`
	var balance int64
	err := s.db.QueryRowContext(ctx, query, amount, id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the account is missing or the funds are. Disambiguate with
		// a follow-up read; the debit itself already failed safely.
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, store.ErrInsufficientFunds
	}
	if err != nil {
		return 0, store.NewStoreError("account", "debit", "failed to update balance", err)
	}
	return balance, nil
}

// scanAccount maps a single account row, translating sql.ErrNoRows into the
// store's not-found sentinel.
func (s *PostgresAccountStore) scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.DisplayName,
		&account.Email,
		&account.HashedPassword,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("account", "get", "failed to scan account", err)
	}
	return &account, nil
}
