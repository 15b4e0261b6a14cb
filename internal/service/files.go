// files.go — координатор файловых записей: compound-операции поверх
// объектного хранилища и репозитория метаданных.
//
// Общей транзакции у двух хранилищ нет, поэтому каждая операция — явный
// двухфазный протокол с фиксированным порядком шагов и best-effort
// очисткой при частичном сбое:
//   - Upload: put объекта, затем insert метаданных; при сбое insert —
//     best-effort удаление только что записанного объекта.
//   - Update: put нового объекта, best-effort удаление старого, затем
//     update метаданных. Сбой update после удаления старого объекта —
//     единственное невосстановимое окно; поднимается как есть.
//   - Delete: сначала объект, затем метаданные — после сбоя между шагами
//     остаётся висячая запись (её поймает Download через ErrObjectMissing),
//     а не навсегда потерянный объект.
//
// Межзапросных блокировок нет: гонка двух Update по одному id оставляет
// объект проигравшего сиротой. Принятое ограничение дизайна.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/filestore/internal/domain/model"
	"github.com/bigkaa/filestore/internal/repository"
	"github.com/bigkaa/filestore/internal/storage"
)

// Prometheus-метрики compound-операций.
var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fs_operations_total",
		Help: "Общее количество compound-операций координатора (по операции и статусу).",
	}, []string{"operation", "status"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fs_operation_duration_seconds",
		Help:    "Длительность compound-операций координатора.",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"operation"})

	orphanCleanupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fs_orphan_cleanup_total",
		Help: "Количество best-effort удалений объектов (по результату).",
	}, []string{"result"})
)

// FileService — координатор файловых записей.
type FileService struct {
	repo   repository.FileRepository
	store  storage.ObjectStore
	cache  *CacheService
	logger *slog.Logger
}

// NewFileService создаёт координатор.
// cache может быть nil — тогда каждый запрос идёт в БД.
func NewFileService(
	repo repository.FileRepository,
	store storage.ObjectStore,
	cache *CacheService,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		repo:   repo,
		store:  store,
		cache:  cache,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// DownloadResult — результат операции Download.
type DownloadResult struct {
	// Content — поток содержимого объекта. Закрыть обязан вызывающий.
	Content io.ReadCloser
	// ContentType — MIME-тип из записи метаданных.
	ContentType string
	// Filename — предлагаемое имя файла для скачивания (storage key записи).
	Filename string
}

// Upload сохраняет новый файл: объект в хранилище, затем запись метаданных.
//
// Порядок шагов фиксирован: insert метаданных строго после put объекта,
// поэтому сбой put не оставляет частичного состояния. Сбой insert оставляет
// осиротевший объект — он зачищается best-effort удалением, ошибка очистки
// логируется и не перекрывает первичную ошибку.
func (s *FileService) Upload(ctx context.Context, originalFilename string, content io.Reader, size int64, contentType string) (*model.FileRecord, error) {
	start := time.Now()

	if content == nil || size == 0 {
		operationsTotal.WithLabelValues("upload", "invalid_input").Inc()
		return nil, ErrEmptyFile
	}

	key := storage.NewStorageKey(originalFilename)

	locationURL, err := s.store.Put(ctx, key, content, size, contentType)
	if err != nil {
		operationsTotal.WithLabelValues("upload", "storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	record := &model.FileRecord{
		StorageKey:  key,
		LocationURL: locationURL,
		ContentType: contentType,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		// Объект уже записан, а метаданных нет — сирота.
		// Best-effort очистка перед возвратом первичной ошибки.
		s.cleanupObject(ctx, key)
		operationsTotal.WithLabelValues("upload", "metadata_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrMetadataWrite, err)
	}

	if s.cache != nil {
		s.cache.Set(record.ID, record)
	}

	operationsTotal.WithLabelValues("upload", "success").Inc()
	operationDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())

	s.logger.Info("Файл загружен",
		slog.Int64("id", record.ID),
		slog.String("storage_key", record.StorageKey),
		slog.String("content_type", record.ContentType),
	)

	return record, nil
}

// Download возвращает поток содержимого файла по id записи.
//
// Существование объекта проверяется до чтения: отсутствие объекта при живых
// метаданных — нарушение консистентности, поднимается как ErrObjectMissing,
// без автоматической зачистки метаданных (видимость для оператора важнее).
func (s *FileService) Download(ctx context.Context, id int64) (*DownloadResult, error) {
	start := time.Now()

	record, err := s.getRecord(ctx, id)
	if err != nil {
		operationsTotal.WithLabelValues("download", "not_found").Inc()
		return nil, err
	}

	exists, err := s.store.Exists(ctx, record.StorageKey)
	if err != nil {
		operationsTotal.WithLabelValues("download", "storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if !exists {
		s.logger.Warn("Метаданные ссылаются на отсутствующий объект",
			slog.Int64("id", id),
			slog.String("storage_key", record.StorageKey),
		)
		operationsTotal.WithLabelValues("download", "object_missing").Inc()
		return nil, ErrObjectMissing
	}

	content, err := s.store.Get(ctx, record.StorageKey)
	if err != nil {
		operationsTotal.WithLabelValues("download", "storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	operationsTotal.WithLabelValues("download", "success").Inc()
	operationDuration.WithLabelValues("download").Observe(time.Since(start).Seconds())

	return &DownloadResult{
		Content:     content,
		ContentType: record.ContentType,
		Filename:    record.StorageKey,
	}, nil
}

// Update заменяет содержимое файла: новый объект записывается под новым
// ключом, старый удаляется best-effort, затем обновляются метаданные.
//
// Новый ключ генерируется всегда — переиспользование старого открыло бы окно,
// в котором частично записанный объект адресуем по ключу, который параллельный
// читатель уже может опрашивать. Сбой put не трогает исходное состояние.
// Сбой обновления метаданных после удаления старого объекта — признанное
// невосстановимое окно: новый объект остаётся сиротой, откат шага удаления
// не гарантирован, дальнейшая очистка не предпринимается.
func (s *FileService) Update(ctx context.Context, id int64, originalFilename string, content io.Reader, size int64, contentType string) (*model.FileRecord, error) {
	start := time.Now()

	if content == nil || size == 0 {
		operationsTotal.WithLabelValues("update", "invalid_input").Inc()
		return nil, ErrEmptyFile
	}

	record, err := s.getRecord(ctx, id)
	if err != nil {
		operationsTotal.WithLabelValues("update", "not_found").Inc()
		return nil, err
	}
	oldKey := record.StorageKey

	newKey := storage.NewStorageKey(originalFilename)

	locationURL, err := s.store.Put(ctx, newKey, content, size, contentType)
	if err != nil {
		// Исходная запись и объект не тронуты — безопасный no-op.
		operationsTotal.WithLabelValues("update", "storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	// Best-effort удаление старого объекта. Неудача не прерывает операцию:
	// старый объект становится принятым сиротой, а не блокером обновления.
	if oldKey != "" {
		s.cleanupObject(ctx, oldKey)
	}

	// Изменения применяются к копии: запись из getRecord могла прийти
	// из кэша и одновременно читаться параллельными запросами.
	updated := *record
	updated.StorageKey = newKey
	updated.LocationURL = locationURL
	updated.ContentType = contentType
	updated.UploadedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		if s.cache != nil {
			s.cache.Delete(id)
		}
		operationsTotal.WithLabelValues("update", "metadata_error").Inc()
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrMetadataWrite, err)
	}

	if s.cache != nil {
		s.cache.Set(id, &updated)
	}

	operationsTotal.WithLabelValues("update", "success").Inc()
	operationDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())

	s.logger.Info("Файл обновлён",
		slog.Int64("id", id),
		slog.String("old_storage_key", oldKey),
		slog.String("new_storage_key", newKey),
	)

	return &updated, nil
}

// Delete удаляет файл: сначала объект (best-effort), затем запись метаданных.
//
// Удаление строки БД авторитетно: сбой удаления объекта логируется, объект
// остаётся сиротой для внеполосной реконсиляции, но операция продолжается.
// Порядок объект-прежде-метаданных выбран осознанно: сбой между шагами
// оставляет висячую запись (её обнаружит Download), а не объект,
// который больше никто никогда не найдёт.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	record, err := s.getRecord(ctx, id)
	if err != nil {
		operationsTotal.WithLabelValues("delete", "not_found").Inc()
		return err
	}

	s.cleanupObject(ctx, record.StorageKey)

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			operationsTotal.WithLabelValues("delete", "not_found").Inc()
			return ErrNotFound
		}
		operationsTotal.WithLabelValues("delete", "metadata_error").Inc()
		return fmt.Errorf("%w: %v", ErrMetadataWrite, err)
	}

	if s.cache != nil {
		s.cache.Delete(id)
	}

	operationsTotal.WithLabelValues("delete", "success").Inc()
	operationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())

	s.logger.Info("Файл удалён",
		slog.Int64("id", id),
		slog.String("storage_key", record.StorageKey),
	)

	return nil
}

// ListAll возвращает все записи метаданных в порядке вставки.
// Объектное хранилище не опрашивается — существование объектов
// по каждой записи не проверяется, листинг намеренно дешёвый.
func (s *FileService) ListAll(ctx context.Context) ([]*model.FileRecord, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		operationsTotal.WithLabelValues("list", "metadata_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrMetadataRead, err)
	}
	operationsTotal.WithLabelValues("list", "success").Inc()
	return records, nil
}

// Probe — лёгкая проверка доступности репозитория метаданных.
func (s *FileService) Probe(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataRead, err)
	}
	return nil
}

// getRecord возвращает запись из кэша или БД.
// Ошибки чтения БД классифицируются как ErrNotFound / ErrMetadataRead.
func (s *FileService) getRecord(ctx context.Context, id int64) (*model.FileRecord, error) {
	if s.cache != nil {
		if record, ok := s.cache.Get(id); ok {
			return record, nil
		}
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrMetadataRead, err)
	}

	if s.cache != nil {
		s.cache.Set(id, record)
	}

	return record, nil
}

// cleanupObject — best-effort удаление объекта из хранилища.
// Ошибка логируется и проглатывается: первичная ошибка операции
// (или её успешный итог) не должна маскироваться ошибкой очистки.
func (s *FileService) cleanupObject(ctx context.Context, key string) {
	deleted, err := s.store.Delete(ctx, key)
	if err != nil {
		orphanCleanupTotal.WithLabelValues("error").Inc()
		s.logger.Error("Ошибка best-effort удаления объекта",
			slog.String("storage_key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	if deleted {
		orphanCleanupTotal.WithLabelValues("deleted").Inc()
	} else {
		orphanCleanupTotal.WithLabelValues("absent").Inc()
	}
}
