// minio.go — реализация ObjectStore поверх MinIO (S3-совместимый API).
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bigkaa/filestore/internal/config"
)

// MinioStore — шлюз к MinIO/S3. Реализует ObjectStore.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioStore создаёт клиента MinIO и гарантирует существование bucket.
func NewMinioStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки bucket %q: %w", cfg.S3Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("ошибка создания bucket %q: %w", cfg.S3Bucket, err)
		}
		logger.Info("Bucket создан", slog.String("bucket", cfg.S3Bucket))
	}

	return &MinioStore{
		client: client,
		bucket: cfg.S3Bucket,
		logger: logger.With(slog.String("component", "minio_store")),
	}, nil
}

// HealthURL возвращает базовый URL хранилища (для dephealth HTTP checker).
func (s *MinioStore) HealthURL() string {
	return s.client.EndpointURL().String()
}

// CheckReady проверяет доступность хранилища через BucketExists.
// Реализует интерфейс handlers.ReadinessChecker.
func (s *MinioStore) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return "fail", fmt.Sprintf("объектное хранилище недоступно: %v", err)
	}
	return "ok", "подключение активно"
}

// Put сохраняет поток под ключом (после санитизации) и возвращает URL объекта.
// size может быть -1 — тогда MinIO загружает поток по частям.
func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	clean := SanitizeKey(key)

	_, err := s.client.PutObject(ctx, s.bucket, clean, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка записи объекта %q: %w", clean, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, clean), nil
}

// Get возвращает поток содержимого объекта или ErrObjectNotFound.
// StatObject выполняется первым: GetObject у MinIO ленивый и отдал бы
// ошибку только при первом чтении.
func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	clean := SanitizeKey(key)

	if _, err := s.client.StatObject(ctx, s.bucket, clean, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("ошибка проверки объекта %q: %w", clean, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, clean, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения объекта %q: %w", clean, err)
	}
	return obj, nil
}

// Delete удаляет объект, если он существует. Отсутствие ключа — не ошибка.
func (s *MinioStore) Delete(ctx context.Context, key string) (bool, error) {
	clean := SanitizeKey(key)

	// Наличие объекта проверяется заранее: RemoveObject у S3 молчаливо
	// успешен и для несуществующих ключей.
	if _, err := s.client.StatObject(ctx, s.bucket, clean, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки объекта %q: %w", clean, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, clean, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("ошибка удаления объекта %q: %w", clean, err)
	}
	return true, nil
}

// Exists сообщает, существует ли объект с указанным ключом.
func (s *MinioStore) Exists(ctx context.Context, key string) (bool, error) {
	clean := SanitizeKey(key)

	_, err := s.client.StatObject(ctx, s.bucket, clean, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки объекта %q: %w", clean, err)
	}
	return true, nil
}

// isNoSuchKey распознаёт ответ S3 «объект не найден».
func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}
