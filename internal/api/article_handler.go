package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/marketplace-api/internal/domain"
	"github.com/phrazzld/marketplace-api/internal/service"
)

// ArticleHandler handles article catalog and purchase API requests.
type ArticleHandler struct {
	catalog   service.CatalogService
	purchases service.PurchaseService
	validator *validator.Validate
}

// NewArticleHandler creates a new ArticleHandler with the given dependencies.
func NewArticleHandler(
	catalog service.CatalogService,
	purchases service.PurchaseService,
) *ArticleHandler {
	return &ArticleHandler{
		catalog:   catalog,
		purchases: purchases,
		validator: validator.New(),
	}
}

// Create handles POST /article/create. The authenticated caller becomes the
// owner of the new article.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	var req CreateArticleRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	article, err := h.catalog.CreateArticle(r.Context(), req.Title, req.Price, callerID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, toArticleResponse(article))
}

// ListMine handles GET /article/mine, returning the caller's articles.
func (h *ArticleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	articles, err := h.catalog.ListByOwner(r.Context(), callerID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	responses := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, toArticleResponse(article))
	}

	RespondWithJSON(w, r, http.StatusOK, responses)
}

// Get handles GET /article/{articleId}.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccountID(w, r); !ok {
		return
	}

	articleID, ok := getPathUUID(w, r, "articleId")
	if !ok {
		return
	}

	article, err := h.catalog.GetArticle(r.Context(), articleID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, toArticleResponse(article))
}

// Purchase handles POST /article/{articleId}. The authenticated caller is
// the buyer; the seller is derived from the article's current owner, never
// from the request.
func (h *ArticleHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	articleID, ok := getPathUUID(w, r, "articleId")
	if !ok {
		return
	}

	article, err := h.purchases.Purchase(r.Context(), articleID, buyerID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, toArticleResponse(article))
}

// Delete handles DELETE /article/{articleId}. Owner-only removal outside the
// purchase flow.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	articleID, ok := getPathUUID(w, r, "articleId")
	if !ok {
		return
	}

	if err := h.catalog.RemoveArticle(r.Context(), articleID, callerID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// toArticleResponse maps a domain article to its JSON shape.
func toArticleResponse(article *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Price:     article.Price,
		OwnerID:   article.OwnerID,
		CreatedAt: article.CreatedAt,
	}
}
