// Package queue carries booking notifications over RabbitMQ: a
// publisher used by the services as their notification sink and a
// background consumer that writes the messages to a log file.
package queue

import "time"

// notificationQueueName is the durable queue all lifecycle
// notifications flow through.
const notificationQueueName = "booking.notifications"

// NotificationEvent is the payload published for every lifecycle
// notification.  The message is already human-readable; downstream
// consumers can deliver it as-is (log file, chat bot, email) without
// querying the primary database.
type NotificationEvent struct {
	Message   string    `json:"message"`
	EmittedAt time.Time `json:"emitted_at"`
}
