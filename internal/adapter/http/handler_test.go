package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/adapter/memory"
	"mcommerce/internal/adapter/usecase"
	"mcommerce/internal/core/domain"
	"mcommerce/internal/metrics"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    string `json:"kind"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	require.NoError(t, store.AssignRole(context.Background(), "manager", domain.RoleMarketingManager))
	name := "Headphones"
	store.PutProduct(domain.RawProduct{ID: "p1", Name: &name, Price: decimal.NewNullDecimal(decimal.RequireFromString("99.99"))})

	m := metrics.New()
	svc := usecase.NewServices(store, usecase.WithLogger(logger), usecase.WithMetrics(m))
	h := NewHandler(Services{
		Contents:  svc.Contents,
		Campaigns: svc.Campaigns,
		Bundles:   svc.Bundles,
		Analytics: svc.Analytics,
		Catalog:   svc.Catalog,
		Launch:    svc.Launch,
	}, logger, m)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, user string, body any) (int, apiResponse) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set(headerUserID, user)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func dataID(t *testing.T, r apiResponse) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func TestLaunchOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	status, resp := call(t, srv, http.MethodPost, "/api/v1/contents", "manager", map[string]any{
		"title": "T", "type": "email", "body": "Summer is here",
	})
	require.Equal(t, http.StatusCreated, status)
	contentID := dataID(t, resp)

	for _, state := range []string{"review", "approved"} {
		status, _ = call(t, srv, http.MethodPost, "/api/v1/contents/"+contentID+"/transition", "manager",
			map[string]string{"state": state})
		require.Equal(t, http.StatusOK, status)
	}

	status, resp = call(t, srv, http.MethodPost, "/api/v1/campaigns", "manager", map[string]any{
		"name":               "Summer",
		"campaignType":       "seasonal",
		"startDate":          "2025-06-01T00:00:00Z",
		"endDate":            "2025-07-01T00:00:00Z",
		"discountPercentage": 15,
		"contentIds":         []string{contentID},
	})
	require.Equal(t, http.StatusCreated, status)
	campaignID := dataID(t, resp)

	status, resp = call(t, srv, http.MethodPost, "/api/v1/campaigns/"+campaignID+"/launch", "manager", nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.Success)

	var result struct {
		Success          bool `json:"success"`
		PublishedContent []struct {
			State string `json:"workflowState"`
		} `json:"publishedContent"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.True(t, result.Success)
	require.Len(t, result.PublishedContent, 1)
	assert.Equal(t, "published", result.PublishedContent[0].State)

	status, resp = call(t, srv, http.MethodPost, "/api/v1/campaigns/"+campaignID+"/launch", "manager", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "Cannot activate")
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	status, resp := call(t, srv, http.MethodPost, "/api/v1/contents", "", map[string]any{"title": "T", "type": "email"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, string(domain.KindPermission), resp.Error.Kind)

	status, _ = call(t, srv, http.MethodPost, "/api/v1/contents", "stranger", map[string]any{"title": "T", "type": "email"})
	assert.Equal(t, http.StatusForbidden, status)

	status, resp = call(t, srv, http.MethodPost, "/api/v1/contents", "manager", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(domain.CodeValidationFailed), resp.Error.Code)

	status, resp = call(t, srv, http.MethodGet, "/api/v1/contents/ghost", "manager", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "content ghost not found", resp.Error.Message)

	status, resp = call(t, srv, http.MethodPost, "/api/v1/contents", "manager", map[string]any{"title": "T", "type": "email", "body": "b"})
	require.Equal(t, http.StatusCreated, status)
	id := dataID(t, resp)
	status, resp = call(t, srv, http.MethodPost, "/api/v1/contents/"+id+"/transition", "manager", map[string]string{"state": "published"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, string(domain.CodeInvalidTransition), resp.Error.Code)
}

func TestProductsAndHealth(t *testing.T) {
	srv := newTestServer(t)

	status, resp := call(t, srv, http.MethodGet, "/api/v1/products/p1", "", nil)
	require.Equal(t, http.StatusOK, status)
	var p struct {
		Name     string `json:"name"`
		IsActive bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	assert.Equal(t, "Headphones", p.Name)
	assert.True(t, p.IsActive)

	status, _ = call(t, srv, http.MethodGet, "/api/v1/products?limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	res, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}
