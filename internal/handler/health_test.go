package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/taskflow/internal/handler"
)

// stubPinger simulates the persistence backend connectivity probe.
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestHandleHealth_Connected(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "OK" {
		t.Fatalf("expected status OK, got %v", body["status"])
	}
	if body["database"] != "connected" {
		t.Fatalf("expected database connected, got %v", body["database"])
	}
	if body["timestamp"] == "" || body["timestamp"] == nil {
		t.Fatal("expected a timestamp")
	}
}

func TestHandleHealth_Disconnected(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{err: errors.New("server selection timeout")})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health must be 200 even when the backend is down, got %d", w.Code)
	}
	if decodeBody(t, w)["database"] != "disconnected" {
		t.Fatalf("expected database disconnected, got %s", w.Body.String())
	}
}

func TestHandleHealth_NoBackendConfigured(t *testing.T) {
	env := newTestEnv(t) // routes registered with a nil pinger

	w := env.doJSON(t, http.MethodGet, "/api/health", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["database"] != "disconnected" {
		t.Fatalf("expected database disconnected, got %s", w.Body.String())
	}
}
