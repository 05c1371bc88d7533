package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/marketplace-api/internal/domain"
)

// PurchaseService coordinates the ledger and the catalog to execute a
// purchase as one logical transaction. The surrounding storage offers no
// cross-entity transactions, so the orchestrator applies the steps in a
// fixed order and compensates already-committed steps when a later one
// fails:
//
//  1. Load the article; the seller is whoever owns it right now.
//  2. Reject self-purchase.
//  3. Debit the buyer. An InsufficientFunds failure aborts with no state
//     touched.
//  4. Credit the seller.
//  5. Transfer ownership, compare-and-set on the seller observed in step 1.
//     If the article was concurrently sold or deleted, reverse steps 3 and 4
//     and fail with ErrTransactionFailed.
//
// A reader between steps 3 and 5 can observe the seller credited before
// ownership moves. That window is accepted: across the whole operation money
// is conserved and the article ends with exactly one owner. The CAS in step 5
// is also what makes a retry after success fail fast — the seller no longer
// matches — so a timed-out caller re-running Purchase cannot buy twice.
type PurchaseService interface {
	// Purchase executes the buyer's purchase of the article and returns the
	// updated article record on success.
	Purchase(ctx context.Context, articleID, buyerID uuid.UUID) (*domain.Article, error)
}

// PurchaseServiceImpl implements the PurchaseService interface.
// It holds no request-scoped state; every invocation is a pure function of
// its parameters and the stores.
type PurchaseServiceImpl struct {
	ledger  LedgerService
	catalog CatalogService
	logger  *slog.Logger
}

// Ensure PurchaseServiceImpl implements PurchaseService.
var _ PurchaseService = (*PurchaseServiceImpl)(nil)

// NewPurchaseService creates a new PurchaseService.
// Returns an error if any dependency is nil.
func NewPurchaseService(
	ledger LedgerService,
	catalog CatalogService,
	logger *slog.Logger,
) (*PurchaseServiceImpl, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger service cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseServiceImpl{
		ledger:  ledger,
		catalog: catalog,
		logger:  logger.With("component", "purchase_service"),
	}, nil
}

// Purchase implements PurchaseService.Purchase.
func (s *PurchaseServiceImpl) Purchase(
	ctx context.Context,
	articleID, buyerID uuid.UUID,
) (*domain.Article, error) {
	article, err := s.catalog.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	sellerID := article.OwnerID
	price := article.Price

	if sellerID == buyerID {
		return nil, ErrSelfPurchase
	}

	// Debit the buyer first. If this fails nothing has been touched yet and
	// the error (typically InsufficientFunds) propagates verbatim.
	if _, err := s.ledger.Debit(ctx, buyerID, price); err != nil {
		return nil, err
	}

	// Credit the seller. The seller account exists by the article ownership
	// invariant, so a failure here is unexpected; refund the buyer.
	if _, err := s.ledger.Credit(ctx, sellerID, price); err != nil {
		s.refund(ctx, buyerID, price, "seller credit failed")
		return nil, fmt.Errorf("%w: crediting seller: %w", ErrTransactionFailed, err)
	}

	// Transfer ownership, keyed on the seller we read above. A concurrent
	// purchase or removal makes this fail, in which case the money already
	// moved has to move back.
	updated, err := s.catalog.TransferOwnership(ctx, articleID, sellerID, buyerID)
	if err != nil {
		s.compensate(ctx, buyerID, sellerID, price)
		return nil, fmt.Errorf("%w: transferring ownership: %w", ErrTransactionFailed, err)
	}

	s.logger.Info("purchase completed",
		"article_id", articleID,
		"buyer_id", buyerID,
		"seller_id", sellerID,
		"price", price)

	return updated, nil
}

// refund credits the buyer back after a failed purchase where only the
// buyer's debit had committed.
func (s *PurchaseServiceImpl) refund(
	ctx context.Context,
	buyerID uuid.UUID,
	price int64,
	reason string,
) {
	if _, err := s.ledger.Credit(ctx, buyerID, price); err != nil {
		// Compensation itself failed: money is stuck in limbo. Log loudly;
		// this needs manual reconciliation.
		s.logger.Error("compensation failed: could not refund buyer",
			"error", err,
			"buyer_id", buyerID,
			"amount", price,
			"reason", reason)
	}
}

// compensate reverses both ledger legs after a failed ownership transfer:
// the buyer gets the price back and the seller gives it up again.
func (s *PurchaseServiceImpl) compensate(
	ctx context.Context,
	buyerID, sellerID uuid.UUID,
	price int64,
) {
	s.refund(ctx, buyerID, price, "ownership transfer failed")

	if _, err := s.ledger.Debit(ctx, sellerID, price); err != nil {
		// The seller may have spent the funds already. Nothing safe to do
		// automatically beyond surfacing it.
		s.logger.Error("compensation failed: could not debit seller back",
			"error", err,
			"seller_id", sellerID,
			"amount", price)
	}
}
