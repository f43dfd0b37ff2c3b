package httpadapter

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mcommerce/internal/core/domain"
)

const maxPageSize = 100

// handleListProducts accepts category, search, active, limit and offset
// query parameters. Invalid numbers respond 400.
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ProductFilter{
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
		ActiveOnly: q.Get("active") == "true",
		Limit:      maxPageSize,
	}
	var err error
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil || f.Limit < 1 || f.Limit > maxPageSize {
			h.fail(w, r, domain.ValidationFailed("invalid input",
				domain.FieldError{Field: "limit", Message: "must be between 1 and 100"}))
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if f.Offset, err = strconv.Atoi(v); err != nil || f.Offset < 0 {
			h.fail(w, r, domain.ValidationFailed("invalid input",
				domain.FieldError{Field: "offset", Message: "must be a non-negative integer"}))
			return
		}
	}
	items, err := h.svc.Catalog.Products(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, p)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}
