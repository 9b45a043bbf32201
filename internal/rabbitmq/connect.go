// Package rabbitmq содержит подключение к RabbitMQ и публикацию событий
// бронирований. События booking.created и booking.status_changed публикуются
// в topic-обменник, чтобы потребитель уведомлений владельцев мог подписаться
// на них независимо от сервиса.
package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Connect устанавливает соединение с RabbitMQ, открывает канал
// и объявляет durable topic-обменник для событий.
func Connect(address, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	const op = "rabbitmq.Connect"
	conn, err := amqp.Dial(address)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return conn, ch, nil
}
