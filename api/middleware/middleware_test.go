package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/types"
)

type stubResolver struct {
	state session.State
	err   error
}

func (s stubResolver) Resolve(context.Context, string) (session.State, error) {
	return s.state, s.err
}

func authedState(role enums.Role) session.State {
	return session.State{
		ID:            "sess-1",
		Authenticated: true,
		User:          &users.Profile{ID: "1", Role: role},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionPassesThroughWithoutToken(t *testing.T) {
	var sawSession bool
	handler := Session(stubResolver{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "nope")}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawSession = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if sawSession {
		t.Fatal("did not expect a session in context")
	}
}

func TestSessionRejectsInvalidToken(t *testing.T) {
	handler := Session(stubResolver{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session token")}, logger.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSessionSeedsContext(t *testing.T) {
	var captured struct {
		session string
		user    string
		role    enums.Role
	}
	handler := Session(stubResolver{state: authedState(enums.RoleVendor)}, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.session = SessionIDFromContext(r.Context())
		captured.user = UserIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.session != "sess-1" || captured.user != "1" || captured.role != enums.RoleVendor {
		t.Fatalf("unexpected context values %+v", captured)
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSession(req.Context(), session.State{ID: "anon"}))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous session got %d", resp.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name     string
		state    *session.State
		status   int
		outcome  string
		redirect string
	}{
		{name: "no session", status: http.StatusUnauthorized, outcome: "unauthenticated", redirect: "/login"},
		{name: "loading", state: &session.State{ID: "s", Loading: true}, status: http.StatusServiceUnavailable, outcome: "loading"},
		{name: "wrong role", state: ptrState(authedState(enums.RoleBuyer)), status: http.StatusForbidden, outcome: "forbidden", redirect: "/dashboard"},
		{name: "allowed", state: ptrState(authedState(enums.RoleVendor)), status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireRoles(logger.Nop(), enums.RoleVendor)(okHandler())
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
			if tc.state != nil {
				req = req.WithContext(WithSession(req.Context(), *tc.state))
			}
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, resp.Code)
			}
			if tc.outcome == "" {
				return
			}
			var env struct {
				Error struct {
					Code    string            `json:"code"`
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Details["outcome"] != tc.outcome {
				t.Fatalf("expected outcome %s got %+v", tc.outcome, env.Error.Details)
			}
			if env.Error.Details["redirect"] != tc.redirect {
				t.Fatalf("expected redirect %q got %q", tc.redirect, env.Error.Details["redirect"])
			}
		})
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	var env types.ErrorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("expected internal code got %s", env.Error.Code)
	}
}

func TestRequestIDPropagatesHeader(t *testing.T) {
	handler := RequestID(logger.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-7")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get(requestIDHeader); got != "req-7" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}

func ptrState(s session.State) *session.State {
	return &s
}
