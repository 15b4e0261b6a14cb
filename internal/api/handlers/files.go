// files.go — обработчики файловых операций /api/v1/files.
// Загрузка — multipart/form-data с полем file; скачивание — бинарный
// поток с Content-Disposition: attachment.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/filestore/internal/api/errors"
	"github.com/bigkaa/filestore/internal/domain/model"
	"github.com/bigkaa/filestore/internal/service"
)

// uploadResponse — тело ответа Upload/Update.
type uploadResponse struct {
	ID          int64  `json:"id"`
	LocationURL string `json:"location_url"`
}

// probeResponse — тело ответа connectivity probe.
type probeResponse struct {
	Status string `json:"status"`
}

// UploadFile — POST /api/v1/files.
// Принимает multipart-форму с полем file, возвращает id и URL объекта.
func (h *APIHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "Файл не передан")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	record, err := h.files.Upload(r.Context(), header.Filename, file, header.Size, contentType)
	if err != nil {
		h.writeFileError(w, err, "загрузки файла", slog.String("filename", header.Filename))
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		ID:          record.ID,
		LocationURL: record.LocationURL,
	})
}

// DownloadFile — GET /api/v1/files/{id}.
// Отдаёт содержимое объекта с сохранённым content-type и заголовком
// attachment (имя — storage key записи).
func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	result, err := h.files.Download(r.Context(), id)
	if err != nil {
		h.writeFileError(w, err, "скачивания файла", slog.Int64("id", id))
		return
	}
	defer result.Content.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, result.Content); err != nil {
		// Заголовки уже отправлены — ошибку клиенту не вернуть, только лог.
		h.logger.Error("Ошибка streaming download",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
	}
}

// UpdateFile — PUT /api/v1/files/{id}.
// Заменяет содержимое файла новым объектом из multipart-формы.
func (h *APIHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "Файл не передан")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	record, err := h.files.Update(r.Context(), id, header.Filename, file, header.Size, contentType)
	if err != nil {
		h.writeFileError(w, err, "обновления файла", slog.Int64("id", id))
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		ID:          record.ID,
		LocationURL: record.LocationURL,
	})
}

// DeleteFile — DELETE /api/v1/files/{id}.
func (h *APIHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.files.Delete(r.Context(), id); err != nil {
		h.writeFileError(w, err, "удаления файла", slog.Int64("id", id))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Файл удалён"})
}

// ListFiles — GET /api/v1/files.
// Возвращает все записи метаданных без фильтрации, в порядке вставки.
func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	records, err := h.files.ListAll(r.Context())
	if err != nil {
		h.writeFileError(w, err, "получения списка файлов")
		return
	}
	if records == nil {
		records = []*model.FileRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

// Probe — GET /api/v1/files/probe.
// Лёгкая проверка доступности репозитория метаданных.
func (h *APIHandler) Probe(w http.ResponseWriter, r *http.Request) {
	if err := h.files.Probe(r.Context()); err != nil {
		h.logger.Error("Connectivity probe: БД недоступна",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Репозиторий метаданных недоступен")
		return
	}

	writeJSON(w, http.StatusOK, probeResponse{Status: "reachable"})
}

// parseID извлекает числовой id из пути. При некорректном значении
// пишет 400 и возвращает ok=false.
func (h *APIHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		apierrors.ValidationError(w, "Некорректный идентификатор файла")
		return 0, false
	}
	return id, true
}

// writeFileError конвертирует ошибки координатора в HTTP-ответы.
// Ошибки клиента — 4xx с человекочитаемым сообщением; ошибки backend'ов —
// общий 5xx без деталей подключения.
func (h *APIHandler) writeFileError(w http.ResponseWriter, err error, action string, attrs ...slog.Attr) {
	switch {
	case errors.Is(err, service.ErrEmptyFile):
		apierrors.ValidationError(w, "Файл не передан или пуст")
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Файл не найден")
	case errors.Is(err, service.ErrObjectMissing):
		apierrors.ObjectMissing(w, "Объект файла отсутствует в хранилище")
	default:
		logAttrs := append([]slog.Attr{slog.String("error", err.Error())}, attrs...)
		h.logger.LogAttrs(context.Background(), slog.LevelError, "Ошибка "+action, logAttrs...)
		apierrors.InternalError(w, "Внутренняя ошибка сервера")
	}
}
