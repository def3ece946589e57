package notifications

import (
	"context"

	"vinbook/pkg/kafka"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"
)

const (
	TopicBookingRequested     = "booking.requested"
	TopicBookingStatusChanged = "booking.status-changed"
	TopicDLQ                  = "booking.events.dlq"

	EventTypeBookingRequested     = "booking.requested"
	EventTypeBookingStatusChanged = "booking.status-changed"

	eventSource = "bookings"
)

// BookingEvent is the payload published on booking lifecycle topics.
type BookingEvent struct {
	BookingID       string              `json:"booking_id"`
	Date            string              `json:"date"`
	Status          model.BookingStatus `json:"status"`
	PreviousStatus  model.BookingStatus `json:"previous_status,omitempty"`
	ProducerCompany string              `json:"producer_company"`
	ProducerEmail   string              `json:"producer_email"`
	ProviderCompany string              `json:"provider_company"`
	Service         model.ServiceType   `json:"service"`
	WorkOrderCount  int                 `json:"work_order_count"`
}

// Notifier announces booking lifecycle changes. Implementations are
// best-effort: a failed notification must never fail the write that
// triggered it.
type Notifier interface {
	BookingRequested(ctx context.Context, booking *model.Booking)
	BookingStatusChanged(ctx context.Context, booking *model.Booking, previous model.BookingStatus)
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes booking events to Kafka. Publish failures are
// logged and swallowed.
type KafkaNotifier struct {
	requested     publisher
	statusChanged publisher
	log           *logger.Logger
}

func NewKafkaNotifier(requested publisher, statusChanged publisher, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		requested:     requested,
		statusChanged: statusChanged,
		log:           log,
	}
}

func (n *KafkaNotifier) BookingRequested(ctx context.Context, booking *model.Booking) {
	event := newBookingEvent(booking)

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(EventTypeBookingRequested).
		WithSource(eventSource).
		Build()

	if err := n.requested.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish booking requested event",
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	n.log.Info("Booking requested event published", "booking_id", booking.ID)
}

func (n *KafkaNotifier) BookingStatusChanged(ctx context.Context, booking *model.Booking, previous model.BookingStatus) {
	event := newBookingEvent(booking)
	event.PreviousStatus = previous

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(EventTypeBookingStatusChanged).
		WithSource(eventSource).
		Build()

	if err := n.statusChanged.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish booking status changed event",
			"booking_id", booking.ID,
			"status", booking.Status,
			"error", err,
		)
		return
	}

	n.log.Info("Booking status changed event published",
		"booking_id", booking.ID,
		"status", booking.Status,
	)
}

func newBookingEvent(booking *model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:       booking.ID,
		Date:            booking.Day(),
		Status:          booking.Status,
		ProducerCompany: booking.ProducerCompany,
		ProducerEmail:   booking.ProducerEmail,
		ProviderCompany: booking.ProviderCompany,
		Service:         booking.Service(),
		WorkOrderCount:  len(booking.WorkOrders),
	}
}

// NopNotifier discards all events. Used where no broker is configured.
type NopNotifier struct{}

func (NopNotifier) BookingRequested(ctx context.Context, booking *model.Booking)                {}
func (NopNotifier) BookingStatusChanged(ctx context.Context, b *model.Booking, p model.BookingStatus) {}
