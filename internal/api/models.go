package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// SignupRequest defines the payload for the account signup endpoint.
type SignupRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// AccountID is the unique identifier for the authenticated account
	AccountID uuid.UUID `json:"account_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint. Both tokens are rotated.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AddFundsRequest defines the payload for the add-funds endpoint.
type AddFundsRequest struct {
	Funds int64 `json:"funds" validate:"required,gt=0"`
}

// BalanceResponse reports an account's wallet balance.
type BalanceResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Balance   int64     `json:"balance"`
}

// CreateArticleRequest defines the payload for listing a new article.
type CreateArticleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Price int64  `json:"price" validate:"required,gt=0"`
}

// ArticleResponse is the JSON shape of an article.
type ArticleResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
