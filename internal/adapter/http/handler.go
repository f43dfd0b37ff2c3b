package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcommerce/internal/core/port"
	"mcommerce/internal/metrics"
)

// Services groups the use cases served over HTTP.
type Services struct {
	Contents  port.ContentUseCase
	Campaigns port.CampaignUseCase
	Bundles   port.BundleUseCase
	Analytics port.AnalyticsUseCase
	Catalog   port.CatalogUseCase
	Launch    port.LaunchUseCase
}

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// Every /api/v1 response is wrapped in the {success, data, error} envelope.
type Handler struct {
	svc     Services
	logger  *slog.Logger
	metrics *metrics.Metrics
	router  chi.Router
}

// NewHandler creates a handler with all routes configured. m may be nil, in
// which case /metrics is not mounted.
func NewHandler(svc Services, logger *slog.Logger, m *metrics.Metrics) *Handler {
	h := &Handler{svc: svc, logger: logger, metrics: m}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestID)
	r.Use(h.observe)

	r.Get("/healthz", h.handleHealth)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(actor)

		r.Route("/contents", func(r chi.Router) {
			r.Post("/", h.handleCreateContent)
			r.Get("/", h.handleListContent)
			r.Get("/{id}", h.handleGetContent)
			r.Patch("/{id}", h.handleUpdateContent)
			r.Post("/{id}/transition", h.handleTransitionContent)
			r.Post("/{id}/approval", h.handleApproval)
			r.Post("/{id}/publish", h.handlePublishContent)
			r.Post("/{id}/unpublish", h.handleUnpublish)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.handleCreateCampaign)
			r.Get("/", h.handleListCampaigns)
			r.Get("/targeted", h.handleTargetedCampaigns)
			r.Get("/{id}", h.handleGetCampaign)
			r.Patch("/{id}", h.handleUpdateCampaign)
			r.Post("/{id}/activate", h.handleActivateCampaign)
			r.Post("/{id}/pause", h.handlePauseCampaign)
			r.Post("/{id}/complete", h.handleCompleteCampaign)
			r.Post("/{id}/content", h.handleAddCampaignContent)
			r.Get("/{id}/bundles", h.handleCampaignBundles)
			r.Post("/{id}/bundles", h.handleAttachBundle)
			r.Post("/{id}/launch", h.handleLaunch)
			r.Get("/{id}/metrics", h.handleCampaignSummary)
			r.Post("/{id}/metrics", h.handleRecordMetric)
			r.Post("/{id}/tracking", h.handleStartTracking)
		})

		r.Route("/bundles", func(r chi.Router) {
			r.Post("/", h.handleCreateBundle)
			r.Get("/", h.handleListBundles)
			r.Post("/quote", h.handleQuoteBundle)
			r.Get("/alias/{alias}", h.handleBundleByAlias)
			r.Get("/{id}", h.handleGetBundle)
			r.Post("/{id}/stock", h.handleAdjustStock)
			r.Post("/{id}/clone", h.handleCloneBundle)
		})

		r.Get("/products", h.handleListProducts)
		r.Get("/products/{id}", h.handleGetProduct)
		r.Get("/categories", h.handleListCategories)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
