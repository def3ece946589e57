package main

import (
	availabilityhandler "vinbook/internal/availability/handler"
	availabilityservice "vinbook/internal/availability/service"
	"vinbook/internal/bookings/handler"
	"vinbook/internal/bookings/repository"
	"vinbook/internal/bookings/service"
	"vinbook/internal/bookings/validator"
	machinehandler "vinbook/internal/machines/handler"
	machinerepository "vinbook/internal/machines/repository"
	machineservice "vinbook/internal/machines/service"
	"vinbook/internal/notifications"
	providerhandler "vinbook/internal/providers/handler"
	providerrepository "vinbook/internal/providers/repository"
	"vinbook/pkg/app"
	"vinbook/pkg/config"
	"vinbook/pkg/kafka"
	kafka_config "vinbook/pkg/kafka/config"
	kafka_middleware "vinbook/pkg/kafka/middleware"

	"github.com/julienschmidt/httprouter"
)

const ServiceName = "bookings"

// apiHandler aggregates the route groups served by this process.
type apiHandler struct {
	bookings     *handler.BookingHandler
	machines     *machinehandler.MachineHandler
	availability *availabilityhandler.AvailabilityHandler
	offerings    *providerhandler.OfferingHandler
}

func (h *apiHandler) RegisterRoutes(router *httprouter.Router) {
	h.bookings.RegisterRoutes(router)
	h.machines.RegisterRoutes(router)
	h.availability.RegisterRoutes(router)
	h.offerings.RegisterRoutes(router)
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	notifier, closeProducers := initNotifier(cfg)
	defer closeProducers()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg, notifier))
	serverApp.Run()
}

func initHandlers(cfg *config.Config, notifier notifications.Notifier) *apiHandler {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewCapacityLockRepository(cfg)
	machineRepo := machinerepository.NewMongoMachineRepository(cfg)
	offeringRepo := providerrepository.NewMongoOfferingRepository(cfg)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		machineRepo,
		bookingValidator,
		notifier,
		cfg,
	)
	machineService := machineservice.NewMachineService(machineRepo, cfg)
	availabilityService := availabilityservice.NewAvailabilityService(bookingRepo, machineRepo, offeringRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return &apiHandler{
		bookings:     handler.NewBookingHandler(bookingService, cfg.Log),
		machines:     machinehandler.NewMachineHandler(machineService, cfg.Log),
		availability: availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		offerings:    providerhandler.NewOfferingHandler(offeringRepo, cfg.Log),
	}
}

// initNotifier wires the Kafka producers for booking lifecycle events. If the
// producers cannot be created the service still starts; bookings then flow
// without notifications.
func initNotifier(cfg *config.Config) (notifications.Notifier, func()) {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	requested, err := kafka.NewProducer(kafkaCfg, notifications.TopicBookingRequested, notifications.TopicDLQ)
	if err != nil {
		cfg.Log.Error("Failed to create booking requested producer, notifications disabled", "error", err)
		return notifications.NopNotifier{}, func() {}
	}

	statusChanged, err := kafka.NewProducer(kafkaCfg, notifications.TopicBookingStatusChanged, notifications.TopicDLQ)
	if err != nil {
		cfg.Log.Error("Failed to create booking status changed producer, notifications disabled", "error", err)
		requested.Close()
		return notifications.NopNotifier{}, func() {}
	}

	if kafkaCfg.EnableMiddleware {
		for _, p := range []*kafka.Producer{requested, statusChanged} {
			p.Use(kafka_middleware.LoggingProducerMiddleware())
			p.Use(kafka_middleware.MetricsProducerMiddleware())
		}
	}

	closeProducers := func() {
		if err := requested.Close(); err != nil {
			cfg.Log.Error("Failed to close booking requested producer", "error", err)
		}
		if err := statusChanged.Close(); err != nil {
			cfg.Log.Error("Failed to close booking status changed producer", "error", err)
		}
	}

	return notifications.NewKafkaNotifier(requested, statusChanged, cfg.Log), closeProducers
}
