package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TodoEvent describes a todo lifecycle change. Events are observational only;
// request handling never depends on them being delivered.
type TodoEvent struct {
	TodoID int    `json:"todo_id"`
	UserID int    `json:"user_id"`
	Action string `json:"action"` // created, updated, deleted
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Publishing happens on the request path, so a slow broker must not hold up
// the response longer than other best-effort I/O does.
const publishTimeout = 2 * time.Second

// EventPublisherInterface lets services swap the AMQP publisher for a fake in
// unit tests.
type EventPublisherInterface interface {
	PublishTodoEvent(ctx context.Context, event TodoEvent) error
}

type EventPublisher struct {
	conn *amqp.Connection
}

func NewEventPublisher(conn *amqp.Connection) EventPublisherInterface {
	return &EventPublisher{conn: conn}
}

func (p *EventPublisher) PublishTodoEvent(ctx context.Context, event TodoEvent) error {
	ch, err := CreateChannel(p.conn)
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(
		ctx,
		"",              // exchange
		TodoEventsQueue, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
