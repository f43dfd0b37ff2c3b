package httpadapter

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
	"mcommerce/internal/core/validate"
)

type addContentRequest struct {
	ContentIDs []string `json:"contentIds"`
}

type attachBundleRequest struct {
	BundleID string `json:"bundleId"`
}

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	in, err := decode[port.CreateCampaignInput](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.CreateCampaign(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, c)
}

// handleListCampaigns accepts optional status and type query filters.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.Campaigns.ListCampaigns(r.Context(), port.CampaignFilter{
		Status: domain.CampaignStatus(q.Get("status")),
		Type:   domain.CampaignType(q.Get("type")),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}

// handleTargetedCampaigns lists running campaigns for a shopper described by
// the region, segment (repeatable) and age query parameters.
func (h *Handler) handleTargetedCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shopper := domain.ShopperContext{
		UserID:   q.Get("userId"),
		Region:   q.Get("region"),
		Segments: q["segment"],
	}
	if a := q.Get("age"); a != "" {
		age, err := strconv.Atoi(a)
		if err != nil || age < 0 {
			h.fail(w, r, domain.ValidationFailed("invalid input",
				domain.FieldError{Field: "age", Message: "must be a non-negative integer"}))
			return
		}
		shopper.Age = age
	}
	items, err := h.svc.Campaigns.CampaignsForShopper(r.Context(), shopper)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Campaigns.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	in, err := decode[port.UpdateCampaignInput](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.UpdateCampaign(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handleActivateCampaign(w http.ResponseWriter, r *http.Request) {
	h.campaignStatus(w, r, h.svc.Campaigns.ActivateCampaign)
}

func (h *Handler) handlePauseCampaign(w http.ResponseWriter, r *http.Request) {
	h.campaignStatus(w, r, h.svc.Campaigns.PauseCampaign)
}

func (h *Handler) handleCompleteCampaign(w http.ResponseWriter, r *http.Request) {
	h.campaignStatus(w, r, h.svc.Campaigns.CompleteCampaign)
}

func (h *Handler) campaignStatus(w http.ResponseWriter, r *http.Request,
	move func(ctx context.Context, id string) (*domain.MarketingCampaign, error)) {
	c, err := move(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handleAddCampaignContent(w http.ResponseWriter, r *http.Request) {
	in, err := decode[addContentRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Campaigns.AddContent(r.Context(), chi.URLParam(r, "id"), in.ContentIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, c)
}

func (h *Handler) handleCampaignBundles(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Campaigns.CampaignBundles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}

func (h *Handler) handleAttachBundle(w http.ResponseWriter, r *http.Request) {
	in, err := decode[attachBundleRequest](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err = h.svc.Campaigns.AttachBundle(r.Context(), id, in.BundleID); err != nil {
		h.fail(w, r, err)
		return
	}
	items, err := h.svc.Campaigns.CampaignBundles(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, items)
}

// handleLaunch runs the launch orchestrator. Without a body the campaign's
// own content is launched. The result is returned as data on success and on
// failure; a failure responds with the status of its error kind.
func (h *Handler) handleLaunch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, domain.ValidationFailed("malformed JSON", domain.FieldError{Field: "body", Message: err.Error()}))
		return
	}

	var res port.CampaignLaunchResult
	if len(strings.TrimSpace(string(raw))) == 0 {
		res = h.svc.Launch.LaunchCampaign(r.Context(), id)
	} else {
		req, err := validate.Decode[port.LaunchRequest](raw)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		req.CampaignID = id
		res = h.svc.Launch.LaunchCampaignWithContent(r.Context(), req)
	}

	if res.Success {
		h.ok(w, http.StatusOK, res)
		return
	}
	msg := "launch failed"
	if len(res.Errors) > 0 {
		msg = res.Errors[0]
	}
	launchErr := &domain.Error{Kind: res.FailureKind, Message: msg}
	h.writeJSON(w, statusFor(launchErr), envelope{
		Data:  res,
		Error: &errorBody{Kind: res.FailureKind, Message: msg},
	})
}

// handleCampaignSummary accepts optional from and to bounds as RFC3339
// timestamps or YYYY-MM-DD dates.
func (h *Handler) handleCampaignSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseBound("from", q.Get("from"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	to, err := parseBound("to", q.Get("to"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.svc.Analytics.CampaignSummary(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, s)
}

func parseBound(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, domain.ValidationFailed("invalid input",
		domain.FieldError{Field: field, Message: "must be an RFC3339 timestamp or a YYYY-MM-DD date"})
}

func (h *Handler) handleRecordMetric(w http.ResponseWriter, r *http.Request) {
	in, err := decode[port.RecordMetricInput](w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in.CampaignID = chi.URLParam(r, "id")
	m, err := h.svc.Analytics.RecordMetric(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, m)
}

func (h *Handler) handleStartTracking(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Analytics.StartTracking(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
