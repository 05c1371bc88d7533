package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// ArticleStore is an in-memory implementation of store.ArticleStore.
// TransferOwner performs the owner comparison and the reassignment under one
// lock acquisition, mirroring the compare-and-set UPDATE of the PostgreSQL
// implementation.
type ArticleStore struct {
	mu       sync.Mutex
	articles map[uuid.UUID]*domain.Article
}

// Ensure ArticleStore implements store.ArticleStore.
var _ store.ArticleStore = (*ArticleStore)(nil)

// NewArticleStore creates an empty in-memory article store.
func NewArticleStore() *ArticleStore {
	return &ArticleStore{
		articles: make(map[uuid.UUID]*domain.Article),
	}
}

// Create implements store.ArticleStore.Create.
func (s *ArticleStore) Create(ctx context.Context, article *domain.Article) error {
	if err := article.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *article
	s.articles[article.ID] = &stored
	return nil
}

// GetByID implements store.ArticleStore.GetByID.
func (s *ArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, store.ErrArticleNotFound
	}

	copied := *article
	return &copied, nil
}

// ListByOwner implements store.ArticleStore.ListByOwner.
func (s *ArticleStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles := make([]*domain.Article, 0)
	for _, article := range s.articles {
		if article.OwnerID == ownerID {
			copied := *article
			articles = append(articles, &copied)
		}
	}
	return articles, nil
}

// TransferOwner implements store.ArticleStore.TransferOwner.
func (s *ArticleStore) TransferOwner(
	ctx context.Context,
	id uuid.UUID,
	expectedOwnerID, newOwnerID uuid.UUID,
) (*domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, store.ErrArticleNotFound
	}

	if article.OwnerID != expectedOwnerID {
		return nil, store.ErrOwnershipConflict
	}

	article.OwnerID = newOwnerID
	copied := *article
	return &copied, nil
}

// Delete implements store.ArticleStore.Delete.
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return store.ErrArticleNotFound
	}

	delete(s.articles, id)
	return nil
}
