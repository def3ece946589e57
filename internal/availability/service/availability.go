package service

import (
	"context"
	"errors"
	"time"

	"vinbook/internal/availability"
	providerserrors "vinbook/internal/providers/errors"
	"vinbook/pkg/config"
	apperrors "vinbook/pkg/errors"
	"vinbook/pkg/model"
)

// machineListLimit bounds the fleet fetch. No provider in this industry owns
// anywhere near this many machines.
const machineListLimit = 500

// BookingSource is the slice of the booking store availability reads.
type BookingSource interface {
	FindByProviderInRange(ctx context.Context, provider string, from, to time.Time) ([]*model.Booking, error)
}

// MachineSource is the slice of the machine registry availability reads.
type MachineSource interface {
	FindByProvider(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, error)
}

// OfferingSource resolves whether a provider offers a service at all.
type OfferingSource interface {
	FindByCompany(ctx context.Context, company string) (*model.ProviderOffering, error)
}

type AvailabilityService interface {
	Availability(ctx context.Context, provider string, service model.ServiceType, producerEmail string, from, to time.Time) ([]availability.DayClassification, error)
}

type availabilityService struct {
	bookings  BookingSource
	machines  MachineSource
	offerings OfferingSource
	cfg       *config.Config
	now       func() time.Time
}

func NewAvailabilityService(bookings BookingSource, machines MachineSource, offerings OfferingSource, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		bookings:  bookings,
		machines:  machines,
		offerings: offerings,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Availability builds a producer's day-by-day view of one provider/service.
// The classification is advisory: it reflects the store at read time and no
// lock prevents the picture from changing before the producer submits.
func (s *availabilityService) Availability(ctx context.Context, provider string, service model.ServiceType, producerEmail string, from, to time.Time) ([]availability.DayClassification, error) {
	if provider == "" {
		return nil, apperrors.InvalidInput("Provider is required")
	}
	if !service.Valid() {
		return nil, apperrors.InvalidInput("Unknown service type")
	}
	if to.Before(from) {
		return nil, apperrors.InvalidInput("Range end must not precede range start")
	}

	// Fetch the full window plus a day so bookings on the last day land
	// inside the half-open range.
	bookings, err := s.bookings.FindByProviderInRange(ctx, provider, from, to.Add(24*time.Hour))
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability",
			"provider", provider,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	var machines []*model.Machine
	meetingRoomOffered := false

	if _, machineBacked := service.MachineType(); machineBacked {
		machines, err = s.machines.FindByProvider(ctx, provider, machineListLimit, 0)
		if err != nil {
			s.cfg.Log.Error("Failed to load machines for availability",
				"provider", provider,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to load machines", err)
		}
	} else {
		offering, err := s.offerings.FindByCompany(ctx, provider)
		if err != nil && !errors.Is(err, providerserrors.ErrNotFound) {
			s.cfg.Log.Error("Failed to load provider offering",
				"provider", provider,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to load provider offering", err)
		}
		if offering != nil {
			meetingRoomOffered = offering.Offers(service)
		}
	}

	capacity := availability.ResolveCapacity(service, bookings, machines, meetingRoomOffered)

	var own []*model.Booking
	if producerEmail != "" {
		for _, b := range bookings {
			if b.ProducerEmail == producerEmail && b.HasService(service) {
				own = append(own, b)
			}
		}
	}

	days := availability.Classify(s.now(), from, to, capacity, own)

	s.cfg.Log.Debug("Availability computed",
		"provider", provider,
		"service", service,
		"days", len(days),
	)
	return days, nil
}
