package models

import "time"

// Статусы бронирования. Набор закрытый: произвольные строки не принимаются.
// Единственный путь к статусу confirmed при создании — объявление с instant;
// pending-бронирования сами по себе не подтверждаются.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingRejected  = "rejected"
)

// BookingStatuses допустимые значения статуса бронирования.
var BookingStatuses = map[string]struct{}{
	BookingPending:   {},
	BookingConfirmed: {},
	BookingCancelled: {},
	BookingRejected:  {},
}

// Booking представляет бронирование объекта на полуинтервал дат [CheckIn, CheckOut).
// Инвариант: у одного объекта не бывает двух confirmed-бронирований
// с пересекающимися интервалами.
type Booking struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	UserID     string    `json:"userId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"totalPrice"` // Вычисляется при создании, далее неизменна
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DummyBooking используется для приёма данных из JSON-запроса на бронирование.
// Даты приходят строками в формате 2006-01-02 и парсятся в сервисе.
type DummyBooking struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests     int    `json:"guests" validate:"omitempty,gt=0"`
}

// DummyBookingStatus используется для приёма запроса на смену статуса бронирования.
type DummyBookingStatus struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled rejected"`
}
