package middleware

import "testing"

// TestNormalizePath проверяет нормализацию путей для лейблов метрик:
// числовой id схлопывается в {id}, остальные пути не меняются.
func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health/live", "/health/live"},
		{"/health/ready", "/health/ready"},
		{"/metrics", "/metrics"},
		{"/api/v1/files", "/api/v1/files"},
		{"/api/v1/files/probe", "/api/v1/files/probe"},
		{"/api/v1/files/1", "/api/v1/files/{id}"},
		{"/api/v1/files/4221337", "/api/v1/files/{id}"},
		{"/api/v1/files/abc", "/api/v1/files/abc"},
		{"/api/v1/files/12abc", "/api/v1/files/12abc"},
		{"/api/v1/files/", "/api/v1/files/"},
		{"/unknown", "/unknown"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, ожидался %q", tt.path, got, tt.want)
		}
	}
}
