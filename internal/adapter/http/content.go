package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

type transitionRequest struct {
	State domain.WorkflowState `json:"state"`
}

type unpublishRequest struct {
	Reason string `json:"reason"`
}

// handleCreateContent creates a draft. Responds 201 with the stored item.
func (h *Handler) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	in, err := decode[port.CreateContentInput](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Contents.CreateContent(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, c)
}

// handleListContent accepts optional state, type and author query filters.
func (h *Handler) handleListContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.Contents.ListContent(r.Context(), port.ContentFilter{
		State:  domain.WorkflowState(q.Get("state")),
		Type:   domain.ContentType(q.Get("type")),
		Author: q.Get("author"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}

func (h *Handler) handleGetContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Contents.GetContent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	in, err := decode[port.UpdateContentInput](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Contents.UpdateContent(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

// handleTransitionContent moves content along one workflow edge. An edge
// outside the table responds 409.
func (h *Handler) handleTransitionContent(w http.ResponseWriter, r *http.Request) {
	in, err := decode[transitionRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Contents.TransitionContent(r.Context(), chi.URLParam(r, "id"), in.State)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handleApproval(w http.ResponseWriter, r *http.Request) {
	in, err := decode[domain.ApprovalDecision](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Contents.RequestApproval(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handlePublishContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Contents.PublishContent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	in, err := decode[unpublishRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Contents.EmergencyUnpublish(r.Context(), chi.URLParam(r, "id"), in.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}
