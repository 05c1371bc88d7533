package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/marketplace-api/internal/api"
	apiMiddleware "github.com/phrazzld/marketplace-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
	)
	userHandler := api.NewUserHandler(app.userService, app.ledgerService)
	articleHandler := api.NewArticleHandler(app.catalogService, app.purchaseService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/user/signup", authHandler.Signup)
		r.Post("/user/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Wallet endpoints
			r.Post("/user/funds/{id}", userHandler.AddFunds)
			r.Get("/user/balance/{id}", userHandler.GetBalance)

			// Article endpoints
			r.Post("/article/create", articleHandler.Create)
			r.Get("/article/mine", articleHandler.ListMine)
			r.Get("/article/{articleId}", articleHandler.Get)
			r.Post("/article/{articleId}", articleHandler.Purchase)
			r.Delete("/article/{articleId}", articleHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
