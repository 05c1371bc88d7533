package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// PostgresArticleStore implements the store.ArticleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresArticleStore struct {
	db store.DBTX
}

// Ensure PostgresArticleStore implements store.ArticleStore.
var _ store.ArticleStore = (*PostgresArticleStore)(nil)

// NewPostgresArticleStore creates a new PostgreSQL implementation of the
// ArticleStore interface.
func NewPostgresArticleStore(db store.DBTX) *PostgresArticleStore {
	return &PostgresArticleStore{db: db}
}

// Create implements store.ArticleStore.Create.
func (s *PostgresArticleStore) Create(ctx context.Context, article *domain.Article) error {
	if err := article.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO articles (id, title, price, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Price,
		article.OwnerID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("article", "create", "failed to insert article", err)
	}

	return nil
}

// GetByID implements store.ArticleStore.GetByID.
func (s *PostgresArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	query := `
		SELECT id, title, price, owner_id, created_at, updated_at
		FROM articles
		WHERE id = $1
	`
	var article domain.Article
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Price,
		&article.OwnerID,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrArticleNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("article", "get", "failed to scan article", err)
	}
	return &article, nil
}

// ListByOwner implements store.ArticleStore.ListByOwner.
func (s *PostgresArticleStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Article, error) {
	query := `
		SELECT id, title, price, owner_id, created_at, updated_at
		FROM articles
		WHERE owner_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, store.NewStoreError("article", "list", "failed to query articles", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*domain.Article, 0)
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Price,
			&article.OwnerID,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, store.NewStoreError("article", "list", "failed to scan article", err)
		}
		articles = append(articles, &article)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("article", "list", "failed to iterate articles", err)
	}

	return articles, nil
}

// TransferOwner implements store.ArticleStore.TransferOwner.
// The expected owner is part of the UPDATE predicate, making the transfer a
// compare-and-set: if a concurrent purchase already moved the article, the
// statement matches no row and the caller gets ErrOwnershipConflict instead
// of silently double-selling.
func (s *PostgresArticleStore) TransferOwner(
	ctx context.Context,
	id uuid.UUID,
	expectedOwnerID, newOwnerID uuid.UUID,
) (*domain.Article, error) {
	query := `
		UPDATE articles
		SET owner_id = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, title, price, owner_id, created_at, updated_at
	`
	var article domain.Article
	err := s.db.QueryRowContext(ctx, query, id, expectedOwnerID, newOwnerID).Scan(
		&article.ID,
		&article.Title,
		&article.Price,
		&article.OwnerID,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		// No row matched: the article is either gone or owned by someone
		// else now. Tell the caller which, so the orchestrator can report
		// a conflict rather than a generic failure.
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, store.ErrOwnershipConflict
	}
	if err != nil {
		return nil, store.NewStoreError("article", "transfer", "failed to update owner", err)
	}
	return &article, nil
}

// Delete implements store.ArticleStore.Delete.
func (s *PostgresArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("article", "delete", "failed to delete article", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("article", "delete", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrArticleNotFound
	}

	return nil
}
