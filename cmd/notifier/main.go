package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vinbook/internal/notifier"
	kafka_config "vinbook/pkg/kafka/config"
	"vinbook/pkg/logger"
)

const ServiceName = "notifier"

func main() {
	log := logger.New(logger.Config{
		Level:     os.Getenv("LOG_LEVEL"),
		Format:    logger.JSON,
		AddSource: true,
		Service:   ServiceName,
	})

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(log.Info)

	log.Info("Starting Notifier service")

	worker, err := notifier.NewWorker(kafkaCfg, notifier.NewLogDispatcher(log), log)
	if err != nil {
		log.Fatal("Failed to create notification worker", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	worker.Run(ctx)

	if err := worker.Close(); err != nil {
		log.Error("Failed to close notification worker", "error", err)
	}
	log.Info("Notifier stopped gracefully")
}
