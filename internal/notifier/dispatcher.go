package notifier

import (
	"context"

	"vinbook/internal/notifications"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"
)

// Dispatcher delivers booking lifecycle events to their audience. The worker
// does not care how delivery happens; swapping in an email or SMS gateway is
// a matter of providing another implementation.
type Dispatcher interface {
	DispatchRequested(ctx context.Context, event notifications.BookingEvent) error
	DispatchStatusChanged(ctx context.Context, event notifications.BookingEvent) error
}

// LogDispatcher writes notifications to the structured log. It is the default
// sink until a real delivery channel is wired up.
type LogDispatcher struct {
	log *logger.Logger
}

func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) DispatchRequested(ctx context.Context, event notifications.BookingEvent) error {
	d.log.Info("Booking requested",
		"booking_id", event.BookingID,
		"date", event.Date,
		"producer_company", event.ProducerCompany,
		"provider_company", event.ProviderCompany,
		"service", event.Service,
		"work_orders", event.WorkOrderCount,
	)
	return nil
}

func (d *LogDispatcher) DispatchStatusChanged(ctx context.Context, event notifications.BookingEvent) error {
	// Manually logged bookings carry the sentinel producer email; there is
	// nobody to notify on that side.
	recipient := event.ProducerEmail
	if recipient == model.ManualProducerEmail {
		recipient = ""
	}

	d.log.Info("Booking status changed",
		"booking_id", event.BookingID,
		"date", event.Date,
		"status", event.Status,
		"previous_status", event.PreviousStatus,
		"recipient", recipient,
		"provider_company", event.ProviderCompany,
	)
	return nil
}
