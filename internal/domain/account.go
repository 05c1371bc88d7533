package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account validation errors.
var (
	ErrEmptyAccountID      = errors.New("account ID cannot be empty")
	ErrEmptyDisplayName    = errors.New("display name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrNegativeBalance     = errors.New("balance cannot be negative")
)

// Account represents a registered user of the marketplace. It carries the
// authentication material and the wallet balance.
//
// Balance is an integer amount in the smallest currency unit. It is mutated
// only through the ledger's credit and debit operations and must never go
// negative; the store layer enforces that invariant atomically.
type Account struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only set during signup; hashed before storage
	HashedPassword string    `json:"-"` // Never exposed in JSON
	Balance        int64     `json:"balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAccount creates an Account with a fresh ID, zero balance and current
// timestamps. The plaintext password is kept on the struct so the store can
// hash it; it is never persisted as-is.
func NewAccount(displayName, email, password string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:          uuid.New(),
		DisplayName: displayName,
		Email:       email,
		Password:    password,
		Balance:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks the Account fields and returns the first violation found.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if strings.TrimSpace(a.DisplayName) == "" {
		return ErrEmptyDisplayName
	}

	if a.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(a.Email) {
		return ErrInvalidEmail
	}

	if a.Password != "" {
		if len(a.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(a.Password) > 72 { // bcrypt input limit
			return ErrPasswordTooLong
		}
	} else if a.HashedPassword == "" {
		// Existing accounts loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	if a.Balance < 0 {
		return ErrNegativeBalance
	}

	return nil
}

// validEmailFormat performs a basic structural check: a single @ with a
// dotted domain part. Request-level validation does the heavier lifting via
// the validator library; this is a last line of defense for entities built
// programmatically.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
