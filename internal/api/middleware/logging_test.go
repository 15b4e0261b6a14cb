package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestRequestLogger проверяет, что middleware пропускает ответ без изменений
// и пишет в лог статус, объём ответа и метод запроса.
func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/99", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, ожидался 404", rec.Code)
	}
	if rec.Body.String() != "not found" {
		t.Errorf("тело = %q, ожидалось not found", rec.Body.String())
	}

	var entry struct {
		Level         string `json:"level"`
		Method        string `json:"method"`
		Path          string `json:"path"`
		Status        int    `json:"status"`
		ResponseBytes int64  `json:"response_bytes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("ошибка разбора лог-записи: %v", err)
	}
	// 4xx логируется уровнем WARN
	if entry.Level != "WARN" {
		t.Errorf("level = %q, ожидался WARN", entry.Level)
	}
	if entry.Method != http.MethodGet {
		t.Errorf("method = %q, ожидался GET", entry.Method)
	}
	if entry.Path != "/api/v1/files/99" {
		t.Errorf("path = %q", entry.Path)
	}
	if entry.Status != http.StatusNotFound {
		t.Errorf("status = %d, ожидался 404", entry.Status)
	}
	if entry.ResponseBytes != int64(len("not found")) {
		t.Errorf("response_bytes = %d, ожидалось %d", entry.ResponseBytes, len("not found"))
	}
}
