// Package postgres реализует хранилище записей на PostgreSQL.
//
// Реализация повторяет контракт файлового хранилища: те же четыре коллекции
// и те же методы, но каждая коллекция хранится документной таблицей
// (id + JSONB) с индексами по ключам выборки. JSON-представление записей
// совпадает с файловым, поэтому реализации взаимозаменяемы через конфиг.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(connectionString string) (*Storage, error) {
	const op = "postgres.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет, что схема коллекций развернута.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'bookings'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table bookings missing or query error: %w", err)
	}
	return nil
}
