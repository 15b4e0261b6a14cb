// errors.go — виды ошибок координатора файловых записей.
// Ошибки адаптеров хранилищ поднимаются наверх без изменений, координатор
// лишь классифицирует их по виду; повторов и автоматического восстановления нет.
package service

import "errors"

var (
	// ErrEmptyFile — содержимое загрузки отсутствует или пусто (ошибка клиента).
	ErrEmptyFile = errors.New("файл не передан или пуст")
	// ErrNotFound — метаданные с указанным id не найдены.
	ErrNotFound = errors.New("запись файла не найдена")
	// ErrObjectMissing — метаданные есть, а объект в хранилище отсутствует.
	// Нарушение консистентности (dangling metadata): поднимается как отдельная
	// видимая ошибка, а не как обычный not found — сигнал для оператора.
	ErrObjectMissing = errors.New("объект отсутствует в хранилище при существующих метаданных")
	// ErrStorageWrite — ошибка записи в объектное хранилище.
	ErrStorageWrite = errors.New("ошибка записи в объектное хранилище")
	// ErrStorageRead — ошибка чтения из объектного хранилища.
	ErrStorageRead = errors.New("ошибка чтения из объектного хранилища")
	// ErrMetadataWrite — ошибка записи в репозиторий метаданных.
	ErrMetadataWrite = errors.New("ошибка записи метаданных")
	// ErrMetadataRead — ошибка чтения из репозитория метаданных.
	ErrMetadataRead = errors.New("ошибка чтения метаданных")
)
