package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"streamhub/models"
	"streamhub/services/catalog"
	"streamhub/utils/filter"
)

type catalogLoader interface {
	LoadCategory(ctx context.Context, category models.Category, page int, filters models.Filters) []models.MediaItem
	Search(ctx context.Context, query string) ([]models.MediaItem, bool)
}

var _ catalogLoader = (*catalog.Loader)(nil)

// CatalogHandler exposes the content loader as JSON.
type CatalogHandler struct {
	Loader catalogLoader
}

func NewCatalogHandler(loader catalogLoader) *CatalogHandler {
	return &CatalogHandler{Loader: loader}
}

type catalogResponse struct {
	Category models.Category    `json:"category"`
	Page     int                `json:"page"`
	Results  []models.MediaItem `json:"results"`
}

// List returns one page of a category. Provider failures are already masked
// by the loader, so this endpoint only fails on bad input.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	category := models.Category(mux.Vars(r)["category"])
	if !category.Valid() {
		http.Error(w, "unknown category", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		page = max(n, 1)
	}

	var items []models.MediaItem
	if category == models.CategorySearch {
		items, _ = h.Loader.Search(r.Context(), q.Get("query"))
	} else {
		filters := filter.Discover(models.Filters{Genre: q.Get("genre"), Year: q.Get("year")})
		items = h.Loader.LoadCategory(r.Context(), category, page, filters)
	}
	if items == nil {
		items = []models.MediaItem{}
	}

	writeJSON(w, http.StatusOK, catalogResponse{Category: category, Page: page, Results: items})
}
