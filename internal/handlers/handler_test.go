package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/models"
	"bomberquiz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func adminSession() *models.Session {
	return &models.Session{UserID: "admin-1", Role: models.RoleAdmin, TokenID: "jti-admin"}
}

func userSession() *models.Session {
	return &models.Session{UserID: "user-1", Role: models.RoleUser, TokenID: "jti-user"}
}

func newTestHandler(s *service.Service) *Handler {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil, Options{})
}

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestHandler(s).InitRoutes()
}

// do performs a request with an optional JSON body and bearer token.
func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	s, _ := m["error"].(string)
	return s
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := do(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestErrorResponse_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"missing", apperrors.NewMissingParamError("name"), http.StatusBadRequest, "missing param: name"},
		{"invalid", apperrors.NewInvalidParamError("email", "must be a valid email address"), http.StatusBadRequest, "invalid param: email: must be a valid email address"},
		{"unauthorized", service.ErrInvalidCredentials, http.StatusUnauthorized, service.ErrInvalidCredentials.Error()},
		{"forbidden", fmt.Errorf("nope: %w", apperrors.ErrForbidden), http.StatusForbidden, "nope: forbidden"},
		{"not registered", apperrors.NewNotRegisteredError("user"), http.StatusNotFound, "user not registered"},
		{"duplicated", fmt.Errorf("wrapped: %w", apperrors.NewDuplicatedKeyError("email")), http.StatusConflict, "wrapped: duplicated key: email"},
		{"unknown", errors.New("sql: connection refused"), http.StatusInternalServerError, msgInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := errorResponse(tc.err)
			if resp.StatusCode != tc.wantCode {
				t.Fatalf("status: got %d want %d", resp.StatusCode, tc.wantCode)
			}
			body, _ := resp.Body.(gin.H)
			if body["error"] != tc.wantMsg {
				t.Fatalf("message: got %v want %q", body["error"], tc.wantMsg)
			}
		})
	}
}

func TestRequestID_PropagatedOrGenerated(t *testing.T) {
	r := newTestRouter(&service.Service{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated id, got %q", got)
	}

	w = do(r, http.MethodGet, "/health", "", "")
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestMetrics_CountsByRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	ranks := &mockRanks{rank: &models.MilitaryRank{ID: "r-1"}}
	s := &service.Service{Authorization: &mockAuth{session: userSession()}, MilitaryRanks: ranks}
	h := NewHandler(s, nil, Options{Registry: reg})
	r := h.InitRoutes()

	do(r, http.MethodGet, "/api/military-ranks/r-1", "", "tok")
	do(r, http.MethodGet, "/api/military-ranks/r-2", "", "tok")
	do(r, http.MethodGet, "/nowhere", "", "")

	if got := testutil.ToFloat64(h.metrics.requestCount.WithLabelValues("GET", "/api/military-ranks/:id", "200")); got != 2 {
		t.Fatalf("expected 2 requests on route pattern, got %v", got)
	}
	if got := testutil.ToFloat64(h.metrics.requestCount.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}

	w := do(r, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("metrics endpoint status=%d body=%s", w.Code, w.Body.String())
	}
	if got := testutil.ToFloat64(h.metrics.requestCount.WithLabelValues("GET", "/metrics", "200")); got != 0 {
		t.Fatalf("/metrics should not count itself, got %v", got)
	}
}
