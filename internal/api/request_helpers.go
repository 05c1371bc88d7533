package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/marketplace-api/internal/api/shared"
)

// Thin aliases so handlers in this package read naturally without importing
// shared everywhere.
var (
	RespondWithJSON        = shared.RespondWithJSON
	RespondWithError       = shared.RespondWithError
	RespondWithErrorAndLog = shared.RespondWithErrorAndLog
	DecodeJSON             = shared.DecodeJSON
)

// getAccountIDFromContext extracts the authenticated account's UUID from the
// request context. The ID is placed there by the authentication middleware.
func getAccountIDFromContext(r *http.Request) (uuid.UUID, bool) {
	accountID, ok := r.Context().Value(shared.AccountIDContextKey).(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		return uuid.Nil, false
	}
	return accountID, true
}

// getPathUUID extracts and parses a UUID path parameter. It writes a 400
// response and returns false when the parameter is missing or malformed.
func getPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		RespondWithError(w, r, http.StatusBadRequest, "Missing "+paramName+" parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName+" format")
		return uuid.Nil, false
	}

	return id, true
}

// requireAccountID extracts the authenticated account ID or writes a 401
// response. Returns false when the request is not authenticated.
func requireAccountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	accountID, ok := getAccountIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return accountID, true
}
