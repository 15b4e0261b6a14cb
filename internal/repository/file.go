package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/filestore/internal/domain/model"
)

// fileColumns — список столбцов таблицы files для SELECT-запросов.
// DRY: одно место для всех SELECT'ов.
const fileColumns = `id, storage_key, location_url, content_type, uploaded_at`

// FileRepository — интерфейс доступа к записям файлов в таблице files.
// Ничего не знает о байтах объектов — только метаданные.
type FileRepository interface {
	// Insert создаёт запись и заполняет f.ID назначенным идентификатором.
	Insert(ctx context.Context, f *model.FileRecord) error
	// GetByID возвращает запись по идентификатору или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.FileRecord, error)
	// Update перезаписывает все изменяемые поля записи с f.ID.
	Update(ctx context.Context, f *model.FileRecord) error
	// Delete удаляет запись по идентификатору или возвращает ErrNotFound.
	Delete(ctx context.Context, id int64) error
	// ListAll возвращает все записи в порядке вставки (id по возрастанию).
	ListAll(ctx context.Context) ([]*model.FileRecord, error)
	// Ping — лёгкая проверка доступности БД, не зависящая от таблицы files.
	Ping(ctx context.Context) error
}

// fileRepo — реализация FileRepository через pgx.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файлов.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

// Insert создаёт запись файла. Идентификатор назначает БД (BIGSERIAL),
// он возвращается через RETURNING и записывается в f.ID.
func (r *fileRepo) Insert(ctx context.Context, f *model.FileRecord) error {
	query := `
		INSERT INTO files (storage_key, location_url, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		f.StorageKey, f.LocationURL, f.ContentType, f.UploadedAt,
	).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("ошибка вставки записи файла: %w", err)
	}
	return nil
}

// GetByID возвращает запись файла по идентификатору или ErrNotFound.
func (r *fileRepo) GetByID(ctx context.Context, id int64) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f := &model.FileRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.StorageKey, &f.LocationURL, &f.ContentType, &f.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи файла: %w", err)
	}
	return f, nil
}

// Update перезаписывает изменяемые поля записи. Запись должна существовать.
func (r *fileRepo) Update(ctx context.Context, f *model.FileRecord) error {
	query := `
		UPDATE files
		SET storage_key = $2, location_url = $3, content_type = $4, uploaded_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		f.ID, f.StorageKey, f.LocationURL, f.ContentType, f.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи файла: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет запись файла. Идентификаторы не переиспользуются:
// последовательность BIGSERIAL после DELETE не откатывается.
func (r *fileRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM files WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления записи файла: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll возвращает все записи файлов в порядке вставки.
// Объектное хранилище не опрашивается — листинг только по метаданным.
func (r *fileRepo) ListAll(ctx context.Context) ([]*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files ORDER BY id ASC`, fileColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки записей файлов: %w", err)
	}
	defer rows.Close()

	var result []*model.FileRecord
	for rows.Next() {
		f := &model.FileRecord{}
		if err := rows.Scan(
			&f.ID, &f.StorageKey, &f.LocationURL, &f.ContentType, &f.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи файла: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}

	return result, nil
}

// Ping выполняет SELECT 1 — проверка соединения без обращения к таблице.
func (r *fileRepo) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("БД недоступна: %w", err)
	}
	return nil
}
