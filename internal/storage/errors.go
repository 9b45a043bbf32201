// Package storage содержит общий контракт хранилища записей:
// имена коллекций и сигнальные ошибки, единые для всех реализаций
// (JSON-файлы и PostgreSQL).
package storage

import "errors"

// Имена коллекций хранилища записей.
const (
	CollectionUsers         = "users"
	CollectionProperties    = "properties"
	CollectionBookings      = "bookings"
	CollectionSubscriptions = "subscriptions"
)

var (
	// ErrNotFound запись с указанным идентификатором отсутствует в коллекции.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken пользователь с такой электронной почтой уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
)
