package handlers

import (
	"net/http"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg"
	"github.com/akinalp/kbbsite/services"
)

// reviewsMaxAge, liste yanıtının tarayıcı/CDN önbellek süresi (saniye).
// Katalog önbelleğiyle aynı tutulur.
const reviewsMaxAge = "60"

// ReviewsResponse, /api/google-reviews yanıtı. Standart zarf kullanılmaz.
type ReviewsResponse struct {
	Reviews []models.Review `json:"reviews"`
}

// ReviewsHandler, yorum kataloğunu dışarı açar.
type ReviewsHandler struct {
	catalog services.ReviewCatalog
}

// NewReviewsHandler, constructor.
func NewReviewsHandler(catalog services.ReviewCatalog) *ReviewsHandler {
	return &ReviewsHandler{catalog: catalog}
}

// List godoc
// GET /api/google-reviews
// Response: { "reviews": [ { "author_name": "...", "rating": 5, ... } ] }
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.catalog.List(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	w.Header().Set("Cache-Control", "public, max-age="+reviewsMaxAge)
	pkg.WriteJSON(w, http.StatusOK, ReviewsResponse{Reviews: reviews})
}
