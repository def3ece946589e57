package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"vinbook/internal/notifications"
	"vinbook/pkg/kafka"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"
)

type mockDispatcher struct {
	requestedFunc     func(ctx context.Context, event notifications.BookingEvent) error
	statusChangedFunc func(ctx context.Context, event notifications.BookingEvent) error
}

func (m *mockDispatcher) DispatchRequested(ctx context.Context, event notifications.BookingEvent) error {
	if m.requestedFunc != nil {
		return m.requestedFunc(ctx, event)
	}
	return nil
}

func (m *mockDispatcher) DispatchStatusChanged(ctx context.Context, event notifications.BookingEvent) error {
	if m.statusChangedFunc != nil {
		return m.statusChangedFunc(ctx, event)
	}
	return nil
}

func testWorker(dispatcher Dispatcher) *Worker {
	return &Worker{
		dispatcher: dispatcher,
		log:        logger.New(logger.Config{Level: logger.ERROR, Format: "text"}),
	}
}

func eventMessage(t *testing.T, event notifications.BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.NewMessage().
		WithKey(event.BookingID).
		WithRawValue(value).
		WithEventType(notifications.EventTypeBookingRequested).
		Build()
}

func TestWorker_HandleRequested_DispatchesEvent(t *testing.T) {
	var got notifications.BookingEvent
	worker := testWorker(&mockDispatcher{
		requestedFunc: func(ctx context.Context, event notifications.BookingEvent) error {
			got = event
			return nil
		},
	})

	event := notifications.BookingEvent{
		BookingID:       "booking-1",
		Date:            "2026-09-15",
		Status:          model.StatusPending,
		ProducerCompany: "Riverside Wines",
		ProviderCompany: "Acme Bottling",
		Service:         model.ServiceMobileBottling,
		WorkOrderCount:  2,
	}

	if err := worker.handleRequested(context.Background(), eventMessage(t, event)); err != nil {
		t.Fatalf("handleRequested returned error: %v", err)
	}

	if got.BookingID != "booking-1" {
		t.Errorf("expected booking-1, got %q", got.BookingID)
	}
	if got.WorkOrderCount != 2 {
		t.Errorf("expected 2 work orders, got %d", got.WorkOrderCount)
	}
}

func TestWorker_HandleStatusChanged_DispatchesEvent(t *testing.T) {
	var got notifications.BookingEvent
	worker := testWorker(&mockDispatcher{
		statusChangedFunc: func(ctx context.Context, event notifications.BookingEvent) error {
			got = event
			return nil
		},
	})

	event := notifications.BookingEvent{
		BookingID:      "booking-2",
		Status:         model.StatusConfirmed,
		PreviousStatus: model.StatusPending,
	}

	if err := worker.handleStatusChanged(context.Background(), eventMessage(t, event)); err != nil {
		t.Fatalf("handleStatusChanged returned error: %v", err)
	}

	if got.Status != model.StatusConfirmed || got.PreviousStatus != model.StatusPending {
		t.Errorf("unexpected event statuses: %+v", got)
	}
}

func TestWorker_HandleRequested_BadPayloadIsPermanent(t *testing.T) {
	worker := testWorker(&mockDispatcher{
		requestedFunc: func(ctx context.Context, event notifications.BookingEvent) error {
			t.Fatal("dispatcher should not be called for undecodable payloads")
			return nil
		},
	})

	msg := kafka.NewMessage().WithKey("booking-3").WithRawValue([]byte("{not json")).Build()

	err := worker.handleRequested(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for undecodable payload")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("expected permanent classification, got %v", kafka.ClassifyError(err))
	}
}

func TestWorker_HandleRequested_DispatcherErrorPropagates(t *testing.T) {
	dispatchErr := errors.New("gateway unavailable")
	worker := testWorker(&mockDispatcher{
		requestedFunc: func(ctx context.Context, event notifications.BookingEvent) error {
			return dispatchErr
		},
	})

	err := worker.handleRequested(context.Background(), eventMessage(t, notifications.BookingEvent{BookingID: "booking-4"}))
	if !errors.Is(err, dispatchErr) {
		t.Errorf("expected dispatcher error to propagate, got %v", err)
	}
}

func TestLogDispatcher_NeverFails(t *testing.T) {
	dispatcher := NewLogDispatcher(logger.New(logger.Config{Level: logger.ERROR, Format: "text"}))

	event := notifications.BookingEvent{
		BookingID:     "booking-5",
		ProducerEmail: model.ManualProducerEmail,
		Status:        model.StatusConfirmed,
	}

	if err := dispatcher.DispatchRequested(context.Background(), event); err != nil {
		t.Errorf("DispatchRequested returned error: %v", err)
	}
	if err := dispatcher.DispatchStatusChanged(context.Background(), event); err != nil {
		t.Errorf("DispatchStatusChanged returned error: %v", err)
	}
}
