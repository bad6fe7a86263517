package worker

import (
	"encoding/json"

	"todo_api/internal/observability"
	"todo_api/internal/queue"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// StartWorker consumes todo lifecycle events and records them. Events are
// observational: an unparseable message is dropped, never requeued.
func StartWorker(conn *amqp.Connection, id int) {
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Worker %d failed to open channel: %v", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logrus.Fatalf("Worker %d failed to set QoS: %v", id, err)
	}

	msgs, err := ch.Consume(
		queue.TodoEventsQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Fatalf("Worker %d failed to start consuming messages: %v", id, err)
	}

	logrus.Infof("Worker %d started", id)

	for msg := range msgs {
		observability.GlobalMetrics.QueueEventsConsumed.WithLabelValues(queue.TodoEventsQueue).Inc()

		var event queue.TodoEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logrus.WithError(err).Error("invalid event payload")
			msg.Nack(false, false)
			continue
		}

		logrus.WithFields(logrus.Fields{
			"worker":  id,
			"todo_id": event.TodoID,
			"user_id": event.UserID,
			"action":  event.Action,
		}).Info("todo event")

		msg.Ack(false)
	}
}
