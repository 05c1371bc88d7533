package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// CatalogService owns article existence and the single-owner invariant.
type CatalogService interface {
	// CreateArticle lists a new article for sale under the given owner.
	// Fails with store.ErrAccountNotFound if the owner does not exist.
	CreateArticle(
		ctx context.Context,
		title string,
		price int64,
		ownerID uuid.UUID,
	) (*domain.Article, error)

	// GetArticle retrieves an article by ID. Fails with
	// store.ErrArticleNotFound if absent.
	GetArticle(ctx context.Context, articleID uuid.UUID) (*domain.Article, error)

	// ListByOwner returns the articles currently owned by the account.
	// Empty slice if none, never an error for an unknown owner.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Article, error)

	// TransferOwnership reassigns the article to newOwnerID if and only if
	// it is still owned by expectedOwnerID. Validating that the new owner
	// exists is the caller's job; the orchestrator has already done it by
	// the time this runs. Fails with store.ErrOwnershipConflict when the
	// owner changed, store.ErrArticleNotFound when the article is gone.
	TransferOwnership(
		ctx context.Context,
		articleID uuid.UUID,
		expectedOwnerID, newOwnerID uuid.UUID,
	) (*domain.Article, error)

	// RemoveArticle deletes an article outside the purchase flow. Only the
	// current owner may remove it; fails with ErrNotOwned otherwise.
	RemoveArticle(ctx context.Context, articleID, callerID uuid.UUID) error
}

// CatalogServiceImpl implements the CatalogService interface.
type CatalogServiceImpl struct {
	articles store.ArticleStore
	accounts store.AccountStore
	logger   *slog.Logger
}

// Ensure CatalogServiceImpl implements CatalogService.
var _ CatalogService = (*CatalogServiceImpl)(nil)

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	articles store.ArticleStore,
	accounts store.AccountStore,
	logger *slog.Logger,
) *CatalogServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogServiceImpl{
		articles: articles,
		accounts: accounts,
		logger:   logger.With("component", "catalog_service"),
	}
}

// CreateArticle implements CatalogService.CreateArticle.
func (s *CatalogServiceImpl) CreateArticle(
	ctx context.Context,
	title string,
	price int64,
	ownerID uuid.UUID,
) (*domain.Article, error) {
	// The owner must exist before we hang an article off them; the article
	// table has no authoritative check for this.
	if _, err := s.accounts.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	article, err := domain.NewArticle(title, price, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if err := s.articles.Create(ctx, article); err != nil {
		s.logger.Error("failed to create article",
			"error", err,
			"owner_id", ownerID)
		return nil, err
	}

	s.logger.Debug("article created",
		"article_id", article.ID,
		"owner_id", ownerID,
		"price", price)

	return article, nil
}

// GetArticle implements CatalogService.GetArticle.
func (s *CatalogServiceImpl) GetArticle(
	ctx context.Context,
	articleID uuid.UUID,
) (*domain.Article, error) {
	return s.articles.GetByID(ctx, articleID)
}

// ListByOwner implements CatalogService.ListByOwner.
func (s *CatalogServiceImpl) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Article, error) {
	return s.articles.ListByOwner(ctx, ownerID)
}

// TransferOwnership implements CatalogService.TransferOwnership.
func (s *CatalogServiceImpl) TransferOwnership(
	ctx context.Context,
	articleID uuid.UUID,
	expectedOwnerID, newOwnerID uuid.UUID,
) (*domain.Article, error) {
	article, err := s.articles.TransferOwner(ctx, articleID, expectedOwnerID, newOwnerID)
	if err != nil {
		s.logger.Debug("ownership transfer rejected",
			"error", err,
			"article_id", articleID,
			"expected_owner_id", expectedOwnerID,
			"new_owner_id", newOwnerID)
		return nil, err
	}

	s.logger.Info("article ownership transferred",
		"article_id", articleID,
		"from_owner_id", expectedOwnerID,
		"to_owner_id", newOwnerID)

	return article, nil
}

// RemoveArticle implements CatalogService.RemoveArticle.
func (s *CatalogServiceImpl) RemoveArticle(
	ctx context.Context,
	articleID, callerID uuid.UUID,
) error {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return err
	}

	if article.OwnerID != callerID {
		return ErrNotOwned
	}

	if err := s.articles.Delete(ctx, articleID); err != nil {
		return err
	}

	s.logger.Info("article removed",
		"article_id", articleID,
		"owner_id", callerID)

	return nil
}
