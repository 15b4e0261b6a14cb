// keys.go — генерация и санитизация ключей объектов.
package storage

import (
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// invalidKeyChars — символы, недопустимые в ключах объектов:
// разделители путей, управляющие символы и спецсимволы файловых имён.
const invalidKeyChars = `<>:"/\\|?*` + "\x00-\x1f"

// keySanitizeRe — каждая максимальная последовательность недопустимых
// символов, а также завершающая последовательность «недопустимые + точки»
// в конце ключа, заменяется одним символом подчёркивания.
var keySanitizeRe = regexp.MustCompile(`([` + invalidKeyChars + `]*\.+$)|([` + invalidKeyChars + `]+)`)

// SanitizeKey приводит ключ к форме, допустимой для хранилища.
// Применяется перед каждой операцией, принимающей ключ от вызывающего.
func SanitizeKey(key string) string {
	return keySanitizeRe.ReplaceAllString(key, "_")
}

// NewStorageKey генерирует уникальный ключ объекта: случайный UUID плюс
// расширение исходного имени файла (пустое, если расширения нет).
// Старые ключи никогда не переиспользуются — каждая запись получает новый.
func NewStorageKey(originalFilename string) string {
	return SanitizeKey(uuid.New().String() + filepath.Ext(originalFilename))
}
