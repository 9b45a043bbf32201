// Package models содержит доменные структуры маркетплейса аренды:
// пользователей, подписки, объекты недвижимости и бронирования,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// JSON-теги задают формат записи в коллекции хранилища "users";
// наружу обработчики отдают только отдельные поля, не всю структуру.
type User struct {
	ID           string    `json:"id"`           // Уникальный идентификатор пользователя
	Email        string    `json:"email"`        // Электронная почта (уникальная)
	PasswordHash string    `json:"passwordHash"` // Хэш пароля пользователя
	Name         string    `json:"name"`         // Отображаемое имя
	Role         string    `json:"role"`         // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"createdAt"`    // Дата регистрации
}
