// Пакет model — доменные модели File Store.
// FileRecord — маппинг таблицы files (единственная персистентная сущность).
package model

import "time"

// FileRecord — запись файла: метаданные в PostgreSQL + ссылка на объект
// в объектном хранилище. ID и StorageKey — разные пространства имён:
// ID — внешняя ссылка для клиентов, StorageKey — ключ объекта в хранилище.
type FileRecord struct {
	// ID — числовой идентификатор, назначается БД при вставке.
	// Неизменяем, после удаления не переиспользуется.
	ID int64 `json:"id"`
	// StorageKey — уникальный ключ объекта в хранилище
	// (случайный UUID + расширение исходного файла, после санитизации)
	StorageKey string `json:"storage_key"`
	// LocationURL — полный URL объекта, возвращённый хранилищем после Put.
	// Хранится для удобства клиентов, для lookup используется StorageKey.
	LocationURL string `json:"location_url"`
	// ContentType — MIME-тип, переданный при загрузке (хранится как есть)
	ContentType string `json:"content_type"`
	// UploadedAt — время последней успешной операции store-then-record (UTC)
	UploadedAt time.Time `json:"uploaded_at"`
}
