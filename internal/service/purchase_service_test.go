package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/service"
	"github.com/phrazzld/marketplace-api/internal/store"
)

func TestNewPurchaseServiceValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := service.NewPurchaseService(nil, f.catalog, nil)
	assert.Error(t, err)

	_, err = service.NewPurchaseService(f.ledger, nil, nil)
	assert.Error(t, err)

	purchases, err := service.NewPurchaseService(f.ledger, f.catalog, nil)
	require.NoError(t, err)
	assert.NotNil(t, purchases)
}

// TestPurchaseConservation checks the end-to-end invariant: buyer down by
// the price, seller up by the price, article owned by the buyer.
func TestPurchaseConservation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	seller := f.newAccount(t, 100)
	buyer := f.newAccount(t, 80)
	article := f.newArticle(t, seller.ID, 30)
	purchases := f.purchases(t)

	updated, err := purchases.Purchase(context.Background(), article.ID, buyer.ID)
	require.NoError(t, err)

	assert.Equal(t, buyer.ID, updated.OwnerID)
	assert.Equal(t, int64(50), f.balanceOf(t, buyer.ID))
	assert.Equal(t, int64(130), f.balanceOf(t, seller.ID))
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	seller := f.newAccount(t, 0)
	buyer := f.newAccount(t, 29)
	article := f.newArticle(t, seller.ID, 30)
	purchases := f.purchases(t)

	_, err := purchases.Purchase(context.Background(), article.ID, buyer.ID)
	assert.ErrorIs(t, err, store.ErrInsufficientFunds)

	// Nothing moved: balances and ownership are untouched.
	assert.Equal(t, int64(29), f.balanceOf(t, buyer.ID))
	assert.Equal(t, int64(0), f.balanceOf(t, seller.ID))

	got, getErr := f.catalog.GetArticle(context.Background(), article.ID)
	require.NoError(t, getErr)
	assert.Equal(t, seller.ID, got.OwnerID)
}

func TestPurchaseSelfPurchaseRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := f.newAccount(t, 100)
	article := f.newArticle(t, owner.ID, 30)
	purchases := f.purchases(t)

	_, err := purchases.Purchase(context.Background(), article.ID, owner.ID)
	assert.ErrorIs(t, err, service.ErrSelfPurchase)
	assert.Equal(t, int64(100), f.balanceOf(t, owner.ID))
}

func TestPurchaseArticleNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buyer := f.newAccount(t, 100)
	purchases := f.purchases(t)

	_, err := purchases.Purchase(context.Background(), uuid.New(), buyer.ID)
	assert.ErrorIs(t, err, store.ErrArticleNotFound)
}

// TestPurchaseRetryAfterSuccess replays a successful purchase. The article
// is under its new owner, so the retry fails fast instead of transferring
// twice — this is the mechanism that makes timed-out-and-retried requests
// safe.
func TestPurchaseRetryAfterSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	seller := f.newAccount(t, 0)
	buyer := f.newAccount(t, 100)
	article := f.newArticle(t, seller.ID, 30)
	purchases := f.purchases(t)
	ctx := context.Background()

	_, err := purchases.Purchase(ctx, article.ID, buyer.ID)
	require.NoError(t, err)

	_, err = purchases.Purchase(ctx, article.ID, buyer.ID)
	assert.ErrorIs(t, err, service.ErrSelfPurchase)

	// Exactly one transfer happened.
	assert.Equal(t, int64(70), f.balanceOf(t, buyer.ID))
	assert.Equal(t, int64(30), f.balanceOf(t, seller.ID))
}

// TestPurchaseDoubleSale races two funded buyers for the same article.
// Exactly one may win; the loser's money must come back via compensation.
func TestPurchaseDoubleSale(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	seller := f.newAccount(t, 0)
	buyerA := f.newAccount(t, 100)
	buyerB := f.newAccount(t, 100)
	article := f.newArticle(t, seller.ID, 30)
	purchases := f.purchases(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, buyer := range []uuid.UUID{buyerA.ID, buyerB.ID} {
		wg.Add(1)
		go func(i int, buyerID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = purchases.Purchase(ctx, article.ID, buyerID)
		}(i, buyer)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, service.ErrTransactionFailed)
			assert.ErrorIs(t, err, store.ErrOwnershipConflict)
		}
	}
	require.Equal(t, 1, winners, "exactly one purchase must win")

	// The seller was paid once, the loser was made whole, and the winner
	// paid exactly the price.
	assert.Equal(t, int64(30), f.balanceOf(t, seller.ID))

	total := f.balanceOf(t, buyerA.ID) + f.balanceOf(t, buyerB.ID)
	assert.Equal(t, int64(170), total)

	got, err := f.catalog.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Contains(t, []uuid.UUID{buyerA.ID, buyerB.ID}, got.OwnerID)
}

// failingCatalog wraps a CatalogService and fails ownership transfers with
// the injected error.
type failingCatalog struct {
	service.CatalogService
	transferErr error
}

func (c *failingCatalog) TransferOwnership(
	ctx context.Context,
	articleID uuid.UUID,
	expectedOwnerID, newOwnerID uuid.UUID,
) (*domain.Article, error) {
	return nil, c.transferErr
}

// TestPurchaseCompensatesFailedTransfer forces the ownership transfer to
// fail after both ledger legs committed, and checks the compensation
// restores both balances.
func TestPurchaseCompensatesFailedTransfer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	seller := f.newAccount(t, 10)
	buyer := f.newAccount(t, 50)
	article := f.newArticle(t, seller.ID, 30)

	boom := errors.New("storage exploded")
	catalog := &failingCatalog{CatalogService: f.catalog, transferErr: boom}

	purchases, err := service.NewPurchaseService(f.ledger, catalog, nil)
	require.NoError(t, err)

	_, err = purchases.Purchase(context.Background(), article.ID, buyer.ID)
	assert.ErrorIs(t, err, service.ErrTransactionFailed)
	assert.ErrorIs(t, err, boom)

	// Both ledger legs were reversed.
	assert.Equal(t, int64(50), f.balanceOf(t, buyer.ID))
	assert.Equal(t, int64(10), f.balanceOf(t, seller.ID))

	// Ownership never moved.
	got, getErr := f.catalog.GetArticle(context.Background(), article.ID)
	require.NoError(t, getErr)
	assert.Equal(t, seller.ID, got.OwnerID)
}

// TestPurchaseScenario walks the canonical end-to-end scenario: top up,
// fail on insufficient funds, top up again, succeed.
func TestPurchaseScenario(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	buyer := f.newAccount(t, 0)
	seller := f.newAccount(t, 0)
	purchases := f.purchases(t)
	ctx := context.Background()

	balance, err := f.ledger.Credit(ctx, buyer.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	article := f.newArticle(t, seller.ID, 30)

	_, err = purchases.Purchase(ctx, article.ID, buyer.ID)
	assert.ErrorIs(t, err, store.ErrInsufficientFunds)
	assert.Equal(t, int64(20), f.balanceOf(t, buyer.ID))

	balance, err = f.ledger.Credit(ctx, buyer.ID, 35)
	require.NoError(t, err)
	assert.Equal(t, int64(55), balance)

	updated, err := purchases.Purchase(ctx, article.ID, buyer.ID)
	require.NoError(t, err)

	assert.Equal(t, buyer.ID, updated.OwnerID)
	assert.Equal(t, int64(25), f.balanceOf(t, buyer.ID))
	assert.Equal(t, int64(30), f.balanceOf(t, seller.ID))
}
