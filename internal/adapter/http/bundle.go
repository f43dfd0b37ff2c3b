package httpadapter

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

type stockRequest struct {
	Delta int `json:"delta"`
}

// handleQuoteBundle prices a bundle from current catalog prices without
// storing it.
func (h *Handler) handleQuoteBundle(w http.ResponseWriter, r *http.Request) {
	in, err := decode[port.QuoteBundleInput](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.Bundles.QuoteBundle(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, p)
}

func (h *Handler) handleCreateBundle(w http.ResponseWriter, r *http.Request) {
	in, err := decode[port.CreateBundleInput](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.svc.Bundles.CreateBundle(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, b)
}

// handleListBundles lists every bundle, or only active ones with ?active=true.
func (h *Handler) handleListBundles(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(w, r, domain.ValidationFailed("invalid input",
				domain.FieldError{Field: "active", Message: "must be a boolean"}))
			return
		}
		activeOnly = b
	}
	items, err := h.svc.Bundles.ListBundles(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}

func (h *Handler) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Bundles.GetBundle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, b)
}

func (h *Handler) handleBundleByAlias(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Bundles.FindBundleByAlias(r.Context(), chi.URLParam(r, "alias"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, b)
}

// handleAdjustStock applies a signed delta. Over-draw responds 409.
func (h *Handler) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	in, err := decode[stockRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.svc.Bundles.AdjustStock(r.Context(), chi.URLParam(r, "id"), in.Delta)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, b)
}

func (h *Handler) handleCloneBundle(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Bundles.CloneBundle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, b)
}
