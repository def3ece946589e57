package service

import (
	"context"
	"testing"
	"time"

	"vinbook/internal/availability"
	providerserrors "vinbook/internal/providers/errors"
	"vinbook/pkg/config"
	apperrors "vinbook/pkg/errors"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"
)

type mockBookingSource struct {
	findFunc func(ctx context.Context, provider string, from, to time.Time) ([]*model.Booking, error)
}

func (m *mockBookingSource) FindByProviderInRange(ctx context.Context, provider string, from, to time.Time) ([]*model.Booking, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, provider, from, to)
	}
	return nil, nil
}

type mockMachineSource struct {
	machines []*model.Machine
}

func (m *mockMachineSource) FindByProvider(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, error) {
	return m.machines, nil
}

type mockOfferingSource struct {
	offering *model.ProviderOffering
}

func (m *mockOfferingSource) FindByCompany(ctx context.Context, company string) (*model.ProviderOffering, error) {
	if m.offering == nil {
		return nil, providerserrors.ErrNotFound
	}
	return m.offering, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: "text"}),
	}
}

func day(s string) time.Time {
	t, err := time.Parse(model.DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newService(bookings *mockBookingSource, machines *mockMachineSource, offerings *mockOfferingSource, now time.Time) AvailabilityService {
	svc := NewAvailabilityService(bookings, machines, offerings, testConfig()).(*availabilityService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestAvailability_FullFleetDayUnavailable(t *testing.T) {
	bookings := &mockBookingSource{
		findFunc: func(ctx context.Context, provider string, from, to time.Time) ([]*model.Booking, error) {
			return []*model.Booking{
				{Date: day("2026-09-14"), Status: model.StatusConfirmed, ProviderCompany: provider,
					WorkOrders: []model.WorkOrder{{Service: model.ServiceMobileBottling}}},
				{Date: day("2026-09-14"), Status: model.StatusConfirmed, ProviderCompany: provider,
					WorkOrders: []model.WorkOrder{{Service: model.ServiceMobileBottling}}},
			}, nil
		},
	}
	machines := &mockMachineSource{machines: []*model.Machine{
		{Type: model.MachineBottling}, {Type: model.MachineBottling},
	}}

	svc := newService(bookings, machines, &mockOfferingSource{}, day("2026-09-01"))

	days, err := svc.Availability(context.Background(), "Acme Bottling", model.ServiceMobileBottling, "", day("2026-09-13"), day("2026-09-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	byDay := map[string]availability.DayState{}
	for _, d := range days {
		byDay[d.Day] = d.State
	}
	if byDay["2026-09-14"] != availability.DayUnavailable {
		t.Errorf("expected 2026-09-14 unavailable, got %s", byDay["2026-09-14"])
	}
	if byDay["2026-09-13"] != availability.DayOpen || byDay["2026-09-15"] != availability.DayOpen {
		t.Errorf("expected neighbouring days open: %v", byDay)
	}
}

func TestAvailability_OwnBookingsMarked(t *testing.T) {
	producer := "jan@riverside.co.za"
	bookings := &mockBookingSource{
		findFunc: func(ctx context.Context, provider string, from, to time.Time) ([]*model.Booking, error) {
			return []*model.Booking{
				{Date: day("2026-09-14"), Status: model.StatusPending, ProducerEmail: producer,
					ProviderCompany: provider, WorkOrders: []model.WorkOrder{{Service: model.ServiceMobileBottling}}},
				{Date: day("2026-09-15"), Status: model.StatusPending, ProducerEmail: "other@cellar.co.za",
					ProviderCompany: provider, WorkOrders: []model.WorkOrder{{Service: model.ServiceMobileBottling}}},
			}, nil
		},
	}
	machines := &mockMachineSource{machines: []*model.Machine{{Type: model.MachineBottling}}}

	svc := newService(bookings, machines, &mockOfferingSource{}, day("2026-09-01"))

	days, err := svc.Availability(context.Background(), "Acme Bottling", model.ServiceMobileBottling, producer, day("2026-09-14"), day("2026-09-15"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !days[0].OwnPending {
		t.Error("expected own pending marker on 2026-09-14")
	}
	if days[1].OwnPending {
		t.Error("another producer's booking must not set the own marker")
	}
}

func TestAvailability_MeetingRoomUsesOffering(t *testing.T) {
	bookings := &mockBookingSource{
		findFunc: func(ctx context.Context, provider string, from, to time.Time) ([]*model.Booking, error) {
			return []*model.Booking{
				{Date: day("2026-09-14"), Status: model.StatusConfirmed, ProviderCompany: provider,
					WorkOrders: []model.WorkOrder{{Service: model.ServiceMeetingRoom}}},
			}, nil
		},
	}

	offered := &mockOfferingSource{offering: &model.ProviderOffering{
		Company:  "Acme Bottling",
		Services: []model.ServiceType{model.ServiceMobileBottling, model.ServiceMeetingRoom},
	}}

	svc := newService(bookings, &mockMachineSource{}, offered, day("2026-09-01"))
	days, err := svc.Availability(context.Background(), "Acme Bottling", model.ServiceMeetingRoom, "", day("2026-09-14"), day("2026-09-14"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days[0].State != availability.DayUnavailable {
		t.Errorf("one confirmed meeting room booking must exhaust the single room, got %s", days[0].State)
	}

	// Provider without the offering: no room to run out of, day stays open.
	svc = newService(bookings, &mockMachineSource{}, &mockOfferingSource{}, day("2026-09-01"))
	days, err = svc.Availability(context.Background(), "Acme Bottling", model.ServiceMeetingRoom, "", day("2026-09-14"), day("2026-09-14"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days[0].State != availability.DayOpen {
		t.Errorf("provider not offering meeting rooms must never be unavailable, got %s", days[0].State)
	}
}

func TestAvailability_InputValidation(t *testing.T) {
	svc := newService(&mockBookingSource{}, &mockMachineSource{}, &mockOfferingSource{}, day("2026-09-01"))

	tests := []struct {
		name     string
		provider string
		service  model.ServiceType
		from, to time.Time
	}{
		{"missing provider", "", model.ServiceMobileBottling, day("2026-09-14"), day("2026-09-15")},
		{"unknown service", "Acme Bottling", "dry_cleaning", day("2026-09-14"), day("2026-09-15")},
		{"inverted range", "Acme Bottling", model.ServiceMobileBottling, day("2026-09-15"), day("2026-09-14")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Availability(context.Background(), tt.provider, tt.service, "", tt.from, tt.to)
			if err == nil {
				t.Fatal("expected invalid input error, got nil")
			}
			if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
				t.Errorf("expected invalid input code, got %q", apperrors.AsAppError(err).Code)
			}
		})
	}
}
