package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"vinbook/pkg/kafka"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"
)

type mockPublisher struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	published   []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: "text"})
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:              "68a1f2e4b3c9d0a1b2c3d4e5",
		Date:            time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Status:          model.StatusPending,
		ProducerCompany: "Riverside Wines",
		ProducerEmail:   "jan@riverside.co.za",
		ProviderCompany: "Acme Bottling",
		WorkOrders: []model.WorkOrder{
			{Service: model.ServiceMobileBottling, Cultivar: "Chenin Blanc", Vintage: "2025", VolumeLiters: 4500},
		},
	}
}

func TestBookingRequested_PublishesEvent(t *testing.T) {
	requested := &mockPublisher{}
	statusChanged := &mockPublisher{}
	n := NewKafkaNotifier(requested, statusChanged, testLogger())

	booking := testBooking()
	n.BookingRequested(context.Background(), booking)

	if len(requested.published) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(requested.published))
	}
	if len(statusChanged.published) != 0 {
		t.Fatalf("expected no status changed messages, got %d", len(statusChanged.published))
	}

	msg := requested.published[0]
	if msg.Key != booking.ID {
		t.Errorf("expected message key %q, got %q", booking.ID, msg.Key)
	}
	if msg.GetEventType() != EventTypeBookingRequested {
		t.Errorf("expected event type %q, got %q", EventTypeBookingRequested, msg.GetEventType())
	}

	var event BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if event.BookingID != booking.ID {
		t.Errorf("expected booking id %q, got %q", booking.ID, event.BookingID)
	}
	if event.Service != model.ServiceMobileBottling {
		t.Errorf("expected service %q, got %q", model.ServiceMobileBottling, event.Service)
	}
	if event.Date != "2026-09-14" {
		t.Errorf("expected date 2026-09-14, got %q", event.Date)
	}
}

func TestBookingStatusChanged_CarriesPreviousStatus(t *testing.T) {
	requested := &mockPublisher{}
	statusChanged := &mockPublisher{}
	n := NewKafkaNotifier(requested, statusChanged, testLogger())

	booking := testBooking()
	booking.Status = model.StatusConfirmed
	n.BookingStatusChanged(context.Background(), booking, model.StatusPending)

	if len(statusChanged.published) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(statusChanged.published))
	}

	var event BookingEvent
	if err := statusChanged.published[0].DecodeValue(&event); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if event.Status != model.StatusConfirmed {
		t.Errorf("expected status confirmed, got %q", event.Status)
	}
	if event.PreviousStatus != model.StatusPending {
		t.Errorf("expected previous status pending, got %q", event.PreviousStatus)
	}
}

func TestNotifier_SwallowsPublishFailures(t *testing.T) {
	failing := &mockPublisher{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("broker unreachable")
		},
	}
	n := NewKafkaNotifier(failing, failing, testLogger())

	// Neither call may panic or surface the error to the caller.
	n.BookingRequested(context.Background(), testBooking())
	n.BookingStatusChanged(context.Background(), testBooking(), model.StatusPending)
}
