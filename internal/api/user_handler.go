package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/marketplace-api/internal/service"
	"github.com/phrazzld/marketplace-api/internal/service/auth"
)

// UserHandler handles wallet and profile API requests for authenticated
// accounts. Balance mutation is restricted to the account owner via
// auth.AuthorizeSelf.
type UserHandler struct {
	userService service.UserService
	ledger      service.LedgerService
	validator   *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService, ledger service.LedgerService) *UserHandler {
	return &UserHandler{
		userService: userService,
		ledger:      ledger,
		validator:   validator.New(),
	}
}

// AddFunds handles POST /user/funds/{id}. Only the account owner may top up
// their own wallet.
func (h *UserHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	accountID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := auth.AuthorizeSelf(accountID, callerID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req AddFundsRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	balance, err := h.userService.AddFunds(r.Context(), accountID, req.Funds)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		AccountID: accountID,
		Balance:   balance,
	})
}

// GetBalance handles GET /user/balance/{id}. Only the account owner may read
// their own balance.
func (h *UserHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	accountID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := auth.AuthorizeSelf(accountID, callerID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	balance, err := h.ledger.GetBalance(r.Context(), accountID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		AccountID: accountID,
		Balance:   balance,
	})
}
