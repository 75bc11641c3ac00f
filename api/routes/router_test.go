package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/internal/app"
	"github.com/angelmondragon/marketplace-backend/internal/seed"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: "test", Port: "0"},
		JWT:      config.JWTConfig{Secret: "router-secret", Issuer: "marketplace-test", ExpirationMinutes: 60},
		Password: config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Session:  config.SessionConfig{Backend: config.SessionBackendMemory, TTL: time.Hour},
		Catalog:  config.CatalogConfig{SeedProductCount: 12, LowStockThreshold: 100},
	}
}

type harness struct {
	t       *testing.T
	handler http.Handler
	reg     *prometheus.Registry
}

func newHarness(t *testing.T, pingers map[string]controllers.Pinger) *harness {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	svcs, err := app.Build(app.Params{Config: cfg, Logger: logger.Nop(), Registerer: reg})
	require.NoError(t, err)
	return &harness{
		t:       t,
		handler: NewRouter(cfg, logger.Nop(), Dependencies{Services: svcs, Gatherer: reg, Pingers: pingers}),
		reg:     reg,
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (h *harness) do(method, path, token string, body any) (int, envelope) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)

	var env envelope
	if resp.Body.Len() > 0 && strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(resp.Body.Bytes(), &env))
	}
	return resp.Code, env
}

func (h *harness) login(email, token, from string) (string, string) {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/v1/auth/login", token, map[string]string{
		"email": email, "password": seed.DefaultPassword, "from": from,
	})
	require.Equal(h.t, http.StatusOK, status, "login failed: %+v", env.Error)
	var res struct {
		Token    string `json:"token"`
		Redirect string `json:"redirect"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &res))
	return res.Token, res.Redirect
}

func TestHealthRoutes(t *testing.T) {
	h := newHarness(t, map[string]controllers.Pinger{"redis": stubPinger{}})
	status, _ := h.do(http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)

	down := newHarness(t, map[string]controllers.Pinger{"redis": stubPinger{err: errors.New("down")}})
	status, env := down.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Error.Code)
}

func TestProtectedRouteRedirectsBackAfterLogin(t *testing.T) {
	h := newHarness(t, nil)

	status, env := h.do(http.MethodPost, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusCreated, status)
	var anon struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &anon))

	status, env = h.do(http.MethodGet, "/api/v1/navigation?path=/orders", anon.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var decision struct {
		Outcome  string `json:"outcome"`
		Redirect string `json:"redirect"`
		From     string `json:"from"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &decision))
	assert.Equal(t, "unauthenticated", decision.Outcome)
	assert.Equal(t, "/login", decision.Redirect)
	assert.Equal(t, "/orders", decision.From)

	token, redirect := h.login("buyer@example.com", anon.Token, "")
	assert.Equal(t, "/orders", redirect)

	status, _ = h.do(http.MethodGet, "/api/v1/navigation?path=/orders", anon.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "pre-login token no longer resolves")

	status, env = h.do(http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, status)
	var summary struct {
		Orders []struct {
			ID string `json:"id"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Len(t, summary.Orders, 3)
}

func TestLoginFailureUsesFixedMessage(t *testing.T) {
	h := newHarness(t, nil)
	status, env := h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "buyer@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid email or password.", env.Error.Message)
}

func TestBuyerCannotAddProduct(t *testing.T) {
	h := newHarness(t, nil)
	token, _ := h.login("buyer@example.com", "", "")

	status, env := h.do(http.MethodPost, "/api/v1/products", token, map[string]any{})
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.JSONEq(t, `{"outcome":"forbidden","redirect":"/dashboard"}`, string(env.Error.Details))

	status, env = h.do(http.MethodGet, "/api/v1/navigation?path=/add-product", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"redirect":"/dashboard"`)
}

func TestVendorEditNotifiesSubscribedBuyer(t *testing.T) {
	h := newHarness(t, nil)
	vendor, _ := h.login("vendor@example.com", "", "")
	buyer, _ := h.login("buyer@example.com", "", "")

	status, env := h.do(http.MethodGet, "/api/v1/products/2", vendor, nil)
	require.Equal(t, http.StatusOK, status)
	var product struct {
		Price    string `json:"price"`
		StockQty int    `json:"stockQty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	status, env = h.do(http.MethodPatch, "/api/v1/products/2/price-stock", vendor, map[string]any{
		"price": "1.00", "stockQty": product.StockQty,
	})
	require.Equal(t, http.StatusOK, status, "edit failed: %+v", env.Error)

	status, env = h.do(http.MethodPatch, "/api/v1/products/2/price-stock", vendor, map[string]any{
		"price": "1.00", "stockQty": product.StockQty,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, string(env.Error.Details), "no_changes")

	status, env = h.do(http.MethodGet, "/api/v1/notifications/alerts", buyer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"count":1,"unread":1}`, string(env.Meta))
}

func TestVendorEditRequiresPositivePrice(t *testing.T) {
	h := newHarness(t, nil)
	vendor, _ := h.login("vendor@example.com", "", "")

	status, env := h.do(http.MethodPatch, "/api/v1/products/1/price-stock", vendor, map[string]any{"stockQty": 600})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, string(env.Error.Details), `"price"`)

	status, env = h.do(http.MethodPatch, "/api/v1/products/2/price-stock", vendor, map[string]any{"price": "0", "stockQty": 10000})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, string(env.Error.Details), "price must be greater than 0")

	status, env = h.do(http.MethodGet, "/api/v1/products/1", vendor, nil)
	require.Equal(t, http.StatusOK, status)
	var product struct {
		Price    string `json:"price"`
		StockQty int    `json:"stockQty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.NotEqual(t, "0", product.Price)
	assert.NotEqual(t, 600, product.StockQty)
}

func TestCartFlow(t *testing.T) {
	h := newHarness(t, nil)
	buyer, _ := h.login("buyer@example.com", "", "")

	status, _ := h.do(http.MethodPost, "/api/v1/cart/items", buyer, map[string]any{"productId": "1"})
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodPost, "/api/v1/cart/items", buyer, map[string]any{"productId": "1"})
	require.Equal(t, http.StatusOK, status)

	status, env := h.do(http.MethodPatch, "/api/v1/cart/items/1", buyer, map[string]any{"quantity": 5})
	assert.Equal(t, http.StatusBadRequest, status, "below minimum order quantity")
	require.NotNil(t, env.Error)

	status, env = h.do(http.MethodPatch, "/api/v1/cart/items/1", buyer, map[string]any{"quantity": 20})
	require.Equal(t, http.StatusOK, status)
	var snapshot struct {
		ItemCount int    `json:"itemCount"`
		Subtotal  string `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Equal(t, 1, snapshot.ItemCount)
	assert.Equal(t, "2000", snapshot.Subtotal)

	vendor, _ := h.login("vendor@example.com", "", "")
	status, _ = h.do(http.MethodGet, "/api/v1/cart", vendor, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, nil)
	h.do(http.MethodGet, "/health/live", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `http_requests_total{method="GET",route="/health/live",status="200"}`)
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	h := newHarness(t, nil)
	status, env := h.do(http.MethodGet, "/api/v1/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
