package models

import "time"

// Статусы подписки. Переход active -> expired происходит лениво
// при проверке доступа, фоновой очистки нет.
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// Subscription представляет оплаченную подписку пользователя.
// Инвариант: у пользователя в любой момент не больше одной записи
// со статусом active; повторная подписка обновляет существующую запись,
// а не создает новую.
type Subscription struct {
	ID        string    `json:"id"`        // Уникальный идентификатор записи
	UserID    string    `json:"userId"`    // Владелец подписки
	PlanID    string    `json:"planId"`    // Идентификатор тарифа из каталога
	Price     float64   `json:"price"`     // Цена тарифа на момент подписки
	Status    string    `json:"status"`    // active или expired
	CreatedAt time.Time `json:"createdAt"` // Дата первой подписки
	ExpiresAt time.Time `json:"expiresAt"` // Дата окончания оплаченного периода
	UpdatedAt time.Time `json:"updatedAt"` // Дата последнего продления или смены тарифа
}

// DummySubscribe используется для приёма данных запроса на подписку.
type DummySubscribe struct {
	PlanID string `json:"plan_id" validate:"required"` // Идентификатор тарифа
}
