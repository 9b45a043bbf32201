package models

import "time"

// Типы объектов недвижимости.
const (
	PropertyTypeApartment = "apartment"
	PropertyTypeHouse     = "house"
	PropertyTypeStudio    = "studio"
	PropertyTypeVilla     = "villa"
)

// Property представляет объявление об аренде.
// Объект принадлежит ровно одному пользователю и изменяется только владельцем.
// Поле Premium фиксируется по тарифу владельца в момент создания
// и при последующей смене тарифа не пересчитывается.
type Property struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	Price     float64   `json:"price"` // Цена за ночь
	Type      string    `json:"type"`
	Bedrooms  int       `json:"bedrooms"`
	Bathrooms int       `json:"bathrooms"`
	Guests    int       `json:"guests"`
	Amenities []string  `json:"amenities"`
	Images    []string  `json:"images"`
	Rating    float64   `json:"rating"`
	Reviews   int       `json:"reviews"`
	Instant   bool      `json:"instant"` // Автоподтверждение бронирований
	Premium   bool      `json:"premium"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DummyProperty используется для приёма данных из JSON-запроса на создание объявления.
// Числовые поля без значения получают значения по умолчанию: спальни и ванные — 1, гости — 2.
// Нечисловая или отрицательная цена отклоняется валидацией, а не превращается в NaN.
type DummyProperty struct {
	Title     string   `json:"title" validate:"required"`
	Location  string   `json:"location" validate:"required"`
	Price     *float64 `json:"price" validate:"required,gte=0"`
	Type      string   `json:"type" validate:"omitempty,oneof=apartment house studio villa"`
	Bedrooms  int      `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms int      `json:"bathrooms" validate:"omitempty,gte=0"`
	Guests    int      `json:"guests" validate:"omitempty,gte=0"`
	Amenities []string `json:"amenities"`
	Images    []string `json:"images"`
	Instant   bool     `json:"instant"`
}

// PropertyPatch описывает частичное обновление объявления.
// Поля id и ownerId не изменяются патчем, даже если присутствуют в запросе.
type PropertyPatch struct {
	Title     *string   `json:"title" validate:"omitempty,min=1"`
	Location  *string   `json:"location" validate:"omitempty,min=1"`
	Price     *float64  `json:"price" validate:"omitempty,gte=0"`
	Type      *string   `json:"type" validate:"omitempty,oneof=apartment house studio villa"`
	Bedrooms  *int      `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms *int      `json:"bathrooms" validate:"omitempty,gte=0"`
	Guests    *int      `json:"guests" validate:"omitempty,gte=0"`
	Amenities *[]string `json:"amenities"`
	Images    *[]string `json:"images"`
	Instant   *bool     `json:"instant"`
}
