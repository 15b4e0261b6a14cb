// handler.go — основной обработчик API File Store.
// Объединяет health и файловые обработчики, монтирует маршруты chi.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/filestore/internal/domain/model"
	"github.com/bigkaa/filestore/internal/service"
)

// FileCoordinator — контракт координатора файловых записей,
// используемый обработчиками. Реализуется service.FileService;
// в тестах подставляется двойник.
type FileCoordinator interface {
	Upload(ctx context.Context, originalFilename string, content io.Reader, size int64, contentType string) (*model.FileRecord, error)
	Download(ctx context.Context, id int64) (*service.DownloadResult, error)
	Update(ctx context.Context, id int64, originalFilename string, content io.Reader, size int64, contentType string) (*model.FileRecord, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*model.FileRecord, error)
	Probe(ctx context.Context) error
}

// APIHandler — основной обработчик API File Store.
type APIHandler struct {
	files  FileCoordinator
	health *HealthHandler
	logger *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	files FileCoordinator,
	health *HealthHandler,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		files:  files,
		health: health,
		logger: logger.With(slog.String("component", "api_handler")),
	}
}

// RegisterRoutes монтирует все маршруты API на переданный роутер.
func (h *APIHandler) RegisterRoutes(router chi.Router) {
	router.Get("/health/live", h.health.HealthLive)
	router.Get("/health/ready", h.health.HealthReady)
	router.Get("/metrics", h.health.GetMetrics)

	router.Route("/api/v1/files", func(r chi.Router) {
		r.Post("/", h.UploadFile)
		r.Get("/", h.ListFiles)
		// probe до {id}: chi матчит литеральный сегмент раньше параметра
		r.Get("/probe", h.Probe)
		r.Get("/{id}", h.DownloadFile)
		r.Put("/{id}", h.UpdateFile)
		r.Delete("/{id}", h.DeleteFile)
	})
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
