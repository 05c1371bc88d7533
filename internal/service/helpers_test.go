package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/platform/memstore"
	"github.com/phrazzld/marketplace-api/internal/service"
)

// fixture bundles the in-memory stores and services most tests need.
type fixture struct {
	accounts *memstore.AccountStore
	articles *memstore.ArticleStore
	ledger   service.LedgerService
	catalog  service.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	accounts := memstore.NewAccountStore()
	articles := memstore.NewArticleStore()

	return &fixture{
		accounts: accounts,
		articles: articles,
		ledger:   service.NewLedgerService(accounts, nil),
		catalog:  service.NewCatalogService(articles, accounts, nil),
	}
}

func (f *fixture) purchases(t *testing.T) service.PurchaseService {
	t.Helper()

	purchases, err := service.NewPurchaseService(f.ledger, f.catalog, nil)
	require.NoError(t, err)
	return purchases
}

// newAccount creates an account with the given starting balance.
func (f *fixture) newAccount(t *testing.T, balance int64) *domain.Account {
	t.Helper()

	email := fmt.Sprintf("%s@example.com", uuid.NewString()[:8])
	account, err := domain.NewAccount("Test Account", email, "a decent password")
	require.NoError(t, err)
	require.NoError(t, f.accounts.Create(context.Background(), account))

	if balance > 0 {
		_, err := f.ledger.Credit(context.Background(), account.ID, balance)
		require.NoError(t, err)
	}

	return account
}

// newArticle lists an article owned by the given account.
func (f *fixture) newArticle(t *testing.T, ownerID uuid.UUID, price int64) *domain.Article {
	t.Helper()

	article, err := f.catalog.CreateArticle(context.Background(), "test article", price, ownerID)
	require.NoError(t, err)
	return article
}

// balanceOf reads an account's current balance.
func (f *fixture) balanceOf(t *testing.T, accountID uuid.UUID) int64 {
	t.Helper()

	balance, err := f.ledger.GetBalance(context.Background(), accountID)
	require.NoError(t, err)
	return balance
}
