package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubChecker — тестовый двойник ReadinessChecker с фиксированным ответом.
type stubChecker struct {
	status  string
	message string
}

func (s *stubChecker) CheckReady() (string, string) {
	return s.status, s.message
}

// TestHealthLive проверяет liveness probe.
func TestHealthLive(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()

	handler.HealthLive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, ожидался 200", rec.Code)
	}

	var resp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, ожидался ok", resp.Status)
	}
	if resp.Service != "filestore" {
		t.Errorf("service = %q, ожидался filestore", resp.Service)
	}
}

// readyResponse — разбор ответа readiness probe в тестах.
type readyResponse struct {
	Status string `json:"status"`
	Checks struct {
		PostgreSQL  struct{ Status string } `json:"postgresql"`
		ObjectStore struct{ Status string } `json:"object_store"`
	} `json:"checks"`
}

// TestHealthReady_AllOk проверяет 200 при доступных зависимостях.
func TestHealthReady_AllOk(t *testing.T) {
	handler := NewHealthHandler(
		&stubChecker{status: "ok"},
		&stubChecker{status: "ok"},
	)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	handler.HealthReady(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, ожидался 200", rec.Code)
	}

	var resp readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, ожидался ok", resp.Status)
	}
}

// TestHealthReady_StoreFails проверяет 503 при недоступном хранилище.
func TestHealthReady_StoreFails(t *testing.T) {
	handler := NewHealthHandler(
		&stubChecker{status: "ok"},
		&stubChecker{status: "fail", message: "bucket недоступен"},
	)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	handler.HealthReady(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, ожидался 503", rec.Code)
	}

	var resp readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ошибка разбора ответа: %v", err)
	}
	if resp.Status != "fail" {
		t.Errorf("status = %q, ожидался fail", resp.Status)
	}
	if resp.Checks.PostgreSQL.Status != "ok" {
		t.Errorf("postgresql = %q, ожидался ok", resp.Checks.PostgreSQL.Status)
	}
	if resp.Checks.ObjectStore.Status != "fail" {
		t.Errorf("object_store = %q, ожидался fail", resp.Checks.ObjectStore.Status)
	}
}

// TestHealthReady_NilCheckers проверяет fail при неинициализированных checker'ах.
func TestHealthReady_NilCheckers(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	handler.HealthReady(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, ожидался 503", rec.Code)
	}
}

// TestOverallStatus проверяет агрегацию статусов зависимостей.
func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"все ok", []string{"ok", "ok"}, "ok"},
		{"один fail", []string{"ok", "fail"}, "fail"},
		{"один degraded", []string{"degraded", "ok"}, "degraded"},
		{"fail важнее degraded", []string{"degraded", "fail"}, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overallStatus(tt.statuses...); got != tt.want {
				t.Errorf("overallStatus(%v) = %q, ожидался %q", tt.statuses, got, tt.want)
			}
		})
	}
}
