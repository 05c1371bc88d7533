package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/marketplace-api/internal/domain"
)

// ArticleStore defines the interface for article data persistence.
type ArticleStore interface {
	// Create saves a new article to the store.
	// Returns validation errors from the domain Article if data is invalid.
	Create(ctx context.Context, article *domain.Article) error

	// GetByID retrieves an article by its unique ID.
	// Returns ErrArticleNotFound if the article does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)

	// ListByOwner returns the articles currently owned by the given account.
	// An owner with no articles yields an empty slice, never an error.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Article, error)

	// TransferOwner reassigns the article to newOwnerID, but only if the
	// article is still owned by expectedOwnerID. This compare-and-set is what
	// serializes concurrent purchases of the same article: a blind overwrite
	// would let two buyers both "win". Returns the updated article on
	// success, ErrOwnershipConflict when the owner no longer matches, and
	// ErrArticleNotFound when the article is gone.
	TransferOwner(
		ctx context.Context,
		id uuid.UUID,
		expectedOwnerID, newOwnerID uuid.UUID,
	) (*domain.Article, error)

	// Delete removes an article from the store by its ID.
	// Returns ErrArticleNotFound if the article does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
