// Package jsonstore реализует хранилище записей на JSON-файлах.
//
// Каждая коллекция (users, properties, bookings, subscriptions) хранится
// в отдельном файле как JSON-массив записей. Чтение загружает файл целиком,
// любое изменение переписывает файл целиком и атомарно (временный файл + rename).
// Отсутствующий файл читается как пустая коллекция, нечитаемый файл —
// это ошибка, а не тихая потеря данных.
//
// Мьютекс на коллекцию сериализует циклы "прочитать-изменить-записать"
// внутри методов; межметодные последовательности сериализуют сервисы.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

// Storage инкапсулирует каталог с файлами коллекций.
type Storage struct {
	dir string
	mu  map[string]*sync.Mutex
}

// New создает каталог данных (если его нет) и возвращает хранилище.
func New(dir string) (*Storage, error) {
	const op = "jsonstore.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	mu := make(map[string]*sync.Mutex)
	for _, collection := range []string{
		storage.CollectionUsers,
		storage.CollectionProperties,
		storage.CollectionBookings,
		storage.CollectionSubscriptions,
	} {
		mu[collection] = &sync.Mutex{}
	}
	return &Storage{dir: dir, mu: mu}, nil
}

// lock захватывает мьютекс коллекции и возвращает функцию освобождения.
func (s *Storage) lock(collection string) func() {
	m := s.mu[collection]
	m.Lock()
	return m.Unlock
}

func (s *Storage) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// readCollection читает коллекцию целиком в dest (указатель на срез).
// Отсутствующий или пустой файл оставляет dest пустым без ошибки;
// повреждённый файл — ошибка.
func (s *Storage) readCollection(collection string, dest any) error {
	const op = "jsonstore.readCollection"
	data, err := os.ReadFile(s.path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, collection, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%s: corrupt collection %s: %w", op, collection, err)
	}
	return nil
}

// writeCollection атомарно заменяет файл коллекции полным набором записей.
func (s *Storage) writeCollection(collection string, records any) error {
	const op = "jsonstore.writeCollection"
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, collection, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: %s: %w", op, collection, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: %s: %w", op, collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: %s: %w", op, collection, err)
	}
	return nil
}
