package service

import (
	"testing"
	"time"

	"github.com/bigkaa/filestore/internal/domain/model"
)

// TestCacheService_GetSet проверяет базовые операции Get/Set.
func TestCacheService_GetSet(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	record := &model.FileRecord{
		ID:          1,
		StorageKey:  "abc.txt",
		ContentType: "text/plain",
	}

	// Cache miss
	_, ok := cache.Get(1)
	if ok {
		t.Fatal("ожидался cache miss для нового ключа")
	}

	// Set + cache hit
	cache.Set(1, record)
	got, ok := cache.Get(1)
	if !ok {
		t.Fatal("ожидался cache hit после Set")
	}
	if got.ID != 1 {
		t.Errorf("ID = %d, ожидался 1", got.ID)
	}
	if got.StorageKey != "abc.txt" {
		t.Errorf("StorageKey = %q, ожидался %q", got.StorageKey, "abc.txt")
	}
}

// TestCacheService_Delete проверяет удаление из кэша (инвалидация).
func TestCacheService_Delete(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	cache.Set(7, &model.FileRecord{ID: 7})

	// Проверяем что запись есть
	if _, ok := cache.Get(7); !ok {
		t.Fatal("ожидался cache hit перед удалением")
	}

	// Удаляем
	cache.Delete(7)

	// Проверяем что записи больше нет
	if _, ok := cache.Get(7); ok {
		t.Fatal("ожидался cache miss после Delete")
	}
}

// TestCacheService_TTLExpiration проверяет автоматическое истечение TTL.
func TestCacheService_TTLExpiration(t *testing.T) {
	// Короткий TTL = 50ms для теста
	cache := NewCacheService(100, 50*time.Millisecond)

	cache.Set(3, &model.FileRecord{ID: 3})

	// Сразу после Set — должен быть hit
	if _, ok := cache.Get(3); !ok {
		t.Fatal("ожидался cache hit сразу после Set")
	}

	// Ждём истечения TTL
	time.Sleep(100 * time.Millisecond)

	// После истечения TTL — должен быть miss
	if _, ok := cache.Get(3); ok {
		t.Fatal("ожидался cache miss после истечения TTL")
	}
}

// TestCacheService_CopyIsolation проверяет, что кэш хранит и отдаёт копии:
// изменение записи у вызывающего не просачивается в кэш и обратно.
func TestCacheService_CopyIsolation(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	original := &model.FileRecord{ID: 9, StorageKey: "orig.bin"}
	cache.Set(9, original)

	// Изменение оригинала после Set не влияет на кэш
	original.StorageKey = "mutated-after-set.bin"
	got, ok := cache.Get(9)
	if !ok {
		t.Fatal("ожидался cache hit")
	}
	if got.StorageKey != "orig.bin" {
		t.Errorf("StorageKey = %q, ожидался orig.bin", got.StorageKey)
	}

	// Изменение полученной записи не влияет на следующую выдачу
	got.StorageKey = "mutated-after-get.bin"
	again, ok := cache.Get(9)
	if !ok {
		t.Fatal("ожидался cache hit")
	}
	if again.StorageKey != "orig.bin" {
		t.Errorf("StorageKey = %q, ожидался orig.bin", again.StorageKey)
	}
	if again == got {
		t.Error("повторный Get вернул тот же указатель, ожидалась копия")
	}
}

// TestCacheService_Update проверяет обновление записи в кэше.
func TestCacheService_Update(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	cache.Set(5, &model.FileRecord{ID: 5, StorageKey: "old.bin"})
	cache.Set(5, &model.FileRecord{ID: 5, StorageKey: "new.bin"})

	got, ok := cache.Get(5)
	if !ok {
		t.Fatal("ожидался cache hit после обновления")
	}
	if got.StorageKey != "new.bin" {
		t.Errorf("StorageKey = %q, ожидался %q", got.StorageKey, "new.bin")
	}
}
