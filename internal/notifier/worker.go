package notifier

import (
	"context"
	"fmt"
	"sync"

	"vinbook/internal/notifications"
	"vinbook/pkg/kafka"
	kafka_config "vinbook/pkg/kafka/config"
	kafka_middleware "vinbook/pkg/kafka/middleware"
	"vinbook/pkg/logger"
)

const consumerGroupID = "notifier"

// Worker consumes booking lifecycle topics and hands each event to the
// dispatcher. Undeliverable events end up on the DLQ topic.
type Worker struct {
	requested     *kafka.Consumer
	statusChanged *kafka.Consumer
	dispatcher    Dispatcher
	log           *logger.Logger
}

func NewWorker(cfg *kafka_config.Config, dispatcher Dispatcher, log *logger.Logger) (*Worker, error) {
	w := &Worker{
		dispatcher: dispatcher,
		log:        log,
	}

	requested, err := kafka.NewConsumer(cfg, notifications.TopicBookingRequested, consumerGroupID, notifications.TopicDLQ, w.handleRequested)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking requested consumer: %w", err)
	}

	statusChanged, err := kafka.NewConsumer(cfg, notifications.TopicBookingStatusChanged, consumerGroupID, notifications.TopicDLQ, w.handleStatusChanged)
	if err != nil {
		requested.Close()
		return nil, fmt.Errorf("failed to create booking status changed consumer: %w", err)
	}

	if cfg.EnableMiddleware {
		for _, c := range []*kafka.Consumer{requested, statusChanged} {
			c.Use(kafka_middleware.LoggingConsumerMiddleware())
			c.Use(kafka_middleware.MetricsConsumerMiddleware())
		}
	}

	w.requested = requested
	w.statusChanged = statusChanged
	return w, nil
}

// Run blocks until the context is cancelled and both consumers have stopped.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := w.requested.Start(ctx); err != nil && err != context.Canceled {
			w.log.Error("Booking requested consumer stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := w.statusChanged.Start(ctx); err != nil && err != context.Canceled {
			w.log.Error("Booking status changed consumer stopped", "error", err)
		}
	}()

	wg.Wait()
}

func (w *Worker) Close() error {
	err := w.requested.Close()
	if closeErr := w.statusChanged.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (w *Worker) handleRequested(ctx context.Context, msg kafka.Message) error {
	var event notifications.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking requested event", err)
	}

	return w.dispatcher.DispatchRequested(ctx, event)
}

func (w *Worker) handleStatusChanged(ctx context.Context, msg kafka.Message) error {
	var event notifications.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking status changed event", err)
	}

	return w.dispatcher.DispatchStatusChanged(ctx, event)
}
