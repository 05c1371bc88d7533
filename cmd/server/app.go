package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/marketplace-api/internal/config"
	"github.com/phrazzld/marketplace-api/internal/platform/postgres"
	"github.com/phrazzld/marketplace-api/internal/service"
	"github.com/phrazzld/marketplace-api/internal/service/auth"
	"github.com/phrazzld/marketplace-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accountStore store.AccountStore
	articleStore store.ArticleStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	ledgerService   service.LedgerService
	catalogService  service.CatalogService
	purchaseService service.PurchaseService
	userService     service.UserService
}

// newApplication connects to the database, runs migrations, and builds the
// service graph bottom-up: stores, then auth, then services.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	accountStore := postgres.NewPostgresAccountStore(db, 0)
	articleStore := postgres.NewPostgresArticleStore(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	ledgerService := service.NewLedgerService(accountStore, logger)
	catalogService := service.NewCatalogService(articleStore, accountStore, logger)
	purchaseService, err := service.NewPurchaseService(ledgerService, catalogService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase service: %w", err)
	}
	userService := service.NewUserService(accountStore, ledgerService, logger)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		accountStore:     accountStore,
		articleStore:     articleStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		ledgerService:    ledgerService,
		catalogService:   catalogService,
		purchaseService:  purchaseService,
		userService:      userService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
