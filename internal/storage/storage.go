// Пакет storage — узкий шлюз к объектному хранилищу File Store.
// Операции адресуются непрозрачным строковым ключом; о метаданных
// (таблице files) шлюз ничего не знает.
package storage

import (
	"context"
	"errors"
	"io"
)

// Ошибки шлюза объектного хранилища.
var (
	// ErrObjectNotFound — объект с указанным ключом отсутствует.
	ErrObjectNotFound = errors.New("объект не найден в хранилище")
)

// ObjectStore — контракт объектного хранилища.
// Любой конформный backend (MinIO, S3, тестовый двойник) подставляется
// как drop-in реализация.
type ObjectStore interface {
	// Put сохраняет поток под ключом key (перезаписывая существующий
	// объект), выставляет content-type и возвращает URL объекта.
	// Идемпотентен по ключу: повторный Put заменяет содержимое.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (locationURL string, err error)
	// Get возвращает поток содержимого объекта или ErrObjectNotFound.
	// Закрыть поток обязан вызывающий.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete удаляет объект, если он есть. Возвращает true, если объект
	// существовал. Отсутствие объекта — не ошибка (false, nil).
	Delete(ctx context.Context, key string) (bool, error)
	// Exists сообщает, существует ли объект с указанным ключом.
	Exists(ctx context.Context, key string) (bool, error)
}
