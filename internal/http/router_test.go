package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tendant/channel-keeper/internal/config"
	"github.com/tendant/channel-keeper/internal/domain"
)

type noopReconciler struct{}

func (noopReconciler) Handle(context.Context, domain.MembershipEvent) {}

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Reconciler:         noopReconciler{},
		SigningSecret:      "test-secret",
		RateLimit:          config.RateLimitConfig{Enabled: false},
		MaxRequestBodySize: 1 << 20,
	})
}

func TestRouter_Liveness(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "ok" {
		t.Errorf("body = %q, want %q", got, "ok")
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", rec.Body.String())
	}
}

func TestRouter_EventsRequireSignature(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(`{"type":"url_verification"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d (unsigned requests rejected)", rec.Code, http.StatusUnauthorized)
	}
}
