package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article validation errors.
var (
	ErrEmptyArticleID   = errors.New("article ID cannot be empty")
	ErrEmptyTitle       = errors.New("article title cannot be empty")
	ErrNonPositivePrice = errors.New("article price must be positive")
	ErrEmptyOwnerID     = errors.New("article owner ID cannot be empty")
)

// Article is a single item listed for sale. OwnerID always references an
// existing account; it changes only when a purchase completes, via the
// catalog's compare-and-set ownership transfer. There is no ownership
// history, only the current owner.
type Article struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewArticle creates an Article owned by the given account.
func NewArticle(title string, price int64, ownerID uuid.UUID) (*Article, error) {
	now := time.Now().UTC()
	article := &Article{
		ID:        uuid.New(),
		Title:     title,
		Price:     price,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := article.Validate(); err != nil {
		return nil, err
	}

	return article, nil
}

// Validate checks the Article fields and returns the first violation found.
func (a *Article) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyArticleID
	}

	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}

	if a.Price <= 0 {
		return ErrNonPositivePrice
	}

	if a.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}

	return nil
}
