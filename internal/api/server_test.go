package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pristinarr/pristinarr/internal/config"
	"github.com/pristinarr/pristinarr/internal/history"
	"github.com/pristinarr/pristinarr/internal/logger"
	"github.com/pristinarr/pristinarr/internal/notification"
	"github.com/pristinarr/pristinarr/internal/runner"
	"github.com/pristinarr/pristinarr/internal/scheduler"
	"github.com/pristinarr/pristinarr/internal/settings"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	store := settings.NewStore(filepath.Join(t.TempDir(), "pristinarr.toml"), log.Logger)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	hist := history.NewService(log.Logger)
	dispatcher := notification.NewDispatcher(store, log.Logger)
	run := runner.NewService(store, hist, dispatcher, log.Logger)

	sched, err := scheduler.New(func(ctx context.Context) error { return nil }, log.Logger)
	if err != nil {
		t.Fatalf("scheduler.New: %v", err)
	}
	t.Cleanup(func() { sched.Stop() })

	return NewServer(cfg, log, store, run, hist, sched)
}

func request(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	rec := request(t, srv, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := request(t, srv, http.MethodGet, "/api/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["version"] != config.Version {
		t.Errorf("version = %v", body["version"])
	}
	if _, ok := body["scheduler"]; !ok {
		t.Error("status missing scheduler block")
	}
}

func TestHistoryEndpointEmpty(t *testing.T) {
	srv := newTestServer(t)

	rec := request(t, srv, http.MethodGet, "/api/v1/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var records []history.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %v", records)
	}
}

func TestSchedulerStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := request(t, srv, http.MethodGet, "/api/v1/scheduler/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var status scheduler.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Enabled {
		t.Error("scheduler should start disabled")
	}
}

func TestConfigEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := request(t, srv, http.MethodGet, "/api/v1/config")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLogsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := request(t, srv, http.MethodGet, "/api/v1/logs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var entries []logger.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRunUnknownApplication(t *testing.T) {
	srv := newTestServer(t)

	rec := request(t, srv, http.MethodPost, "/api/v1/run/Radarr")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Errorf("body = %v", body)
	}
}
