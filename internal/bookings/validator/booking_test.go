package validator

import (
	"testing"
	"time"

	"vinbook/pkg/logger"
	"vinbook/pkg/model"
)

func testValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Level: logger.ERROR, Format: "text"}))
}

func completeWorkOrder() model.WorkOrder {
	return model.WorkOrder{
		Service:       model.ServiceMobileBottling,
		ContactPerson: "Jan Smit",
		ContactNumber: "+27215551234",
		Location:      "Farm 12, Stellenbosch",
		VolumeLiters:  4500,
		BottleType:    "burgundy 750ml",
		ClosureType:   "screw cap",
		Cultivar:      "Chenin Blanc",
		Vintage:       "2025",
	}
}

func validBooking() *model.Booking {
	return &model.Booking{
		Date:            time.Now().UTC().Add(14 * 24 * time.Hour),
		Status:          model.StatusPending,
		ProducerCompany: "Riverside Wines",
		ProducerEmail:   "jan@riverside.co.za",
		ProviderCompany: "Acme Bottling",
		WorkOrders:      []model.WorkOrder{completeWorkOrder()},
	}
}

func TestValidateCreate_ProducerMode(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
		wantMsg string
	}{
		{
			name:    "complete booking passes",
			mutate:  func(b *model.Booking) {},
			wantErr: false,
		},
		{
			name: "incomplete work order rejected with exact message",
			mutate: func(b *model.Booking) {
				b.WorkOrders[0].Location = ""
			},
			wantErr: true,
			wantMsg: RequiredFieldsMessage,
		},
		{
			name: "second incomplete work order also rejected",
			mutate: func(b *model.Booking) {
				w := completeWorkOrder()
				w.ContactNumber = ""
				b.WorkOrders = append(b.WorkOrders, w)
			},
			wantErr: true,
			wantMsg: RequiredFieldsMessage,
		},
		{
			name: "past date rejected",
			mutate: func(b *model.Booking) {
				b.Date = time.Now().UTC().Add(-48 * time.Hour)
			},
			wantErr: true,
			wantMsg: "date cannot be in the past",
		},
		{
			name: "mixed services rejected",
			mutate: func(b *model.Booking) {
				w := completeWorkOrder()
				w.Service = model.ServiceMobileLabelling
				b.WorkOrders = append(b.WorkOrders, w)
			},
			wantErr: true,
			wantMsg: "all work orders in a booking must target the same service",
		},
		{
			name: "no work orders rejected",
			mutate: func(b *model.Booking) {
				b.WorkOrders = nil
			},
			wantErr: true,
		},
		{
			name: "missing provider rejected",
			mutate: func(b *model.Booking) {
				b.ProviderCompany = ""
			},
			wantErr: true,
		},
		{
			name: "unknown service rejected",
			mutate: func(b *model.Booking) {
				b.WorkOrders[0].Service = "dry_cleaning"
			},
			wantErr: true,
		},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)

			err := v.ValidateCreate(booking, EntryModeProducer)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantMsg != "" {
				verrs, ok := err.(ValidationErrors)
				if !ok {
					t.Fatalf("expected ValidationErrors, got %T", err)
				}
				if verrs[0].Message != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, verrs[0].Message)
				}
			}
		})
	}
}

func TestValidateCreate_ManualModeIsLenient(t *testing.T) {
	v := testValidator()

	// Everything the strict path requires per work order is absent.
	booking := &model.Booking{
		Date:            time.Now().UTC().Add(7 * 24 * time.Hour),
		Status:          model.StatusConfirmed,
		ProducerCompany: "Walk-in: Oude Kelder",
		ProducerEmail:   model.ManualProducerEmail,
		ProviderCompany: "Acme Bottling",
		WorkOrders:      []model.WorkOrder{{Service: model.ServiceMobileBottling}},
	}

	if err := v.ValidateCreate(booking, EntryModeManual); err != nil {
		t.Fatalf("manual mode must accept bare work orders, got: %v", err)
	}
}

func TestValidateCreate_ManualModeAllowsPastDates(t *testing.T) {
	v := testValidator()

	// Providers back-fill bookings taken over the phone days earlier.
	booking := &model.Booking{
		Date:            time.Now().UTC().Add(-72 * time.Hour),
		Status:          model.StatusConfirmed,
		ProducerCompany: "Phone booking: Mooiberge",
		ProducerEmail:   model.ManualProducerEmail,
		ProviderCompany: "Acme Bottling",
		WorkOrders:      []model.WorkOrder{{Service: model.ServiceMeetingRoom}},
	}

	if err := v.ValidateCreate(booking, EntryModeManual); err != nil {
		t.Fatalf("manual mode must accept past dates, got: %v", err)
	}
}

func TestValidateCreate_ManualModeStillNeedsCore(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{"missing client label", func(b *model.Booking) { b.ProducerCompany = "" }},
		{"no work orders", func(b *model.Booking) { b.WorkOrders = nil }},
		{"missing date", func(b *model.Booking) { b.Date = time.Time{} }},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &model.Booking{
				Date:            time.Now().UTC().Add(7 * 24 * time.Hour),
				Status:          model.StatusConfirmed,
				ProducerCompany: "Walk-in: Oude Kelder",
				ProducerEmail:   model.ManualProducerEmail,
				ProviderCompany: "Acme Bottling",
				WorkOrders:      []model.WorkOrder{{Service: model.ServiceMobileBottling}},
			}
			tt.mutate(booking)

			if err := v.ValidateCreate(booking, EntryModeManual); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestValidateEdit(t *testing.T) {
	newDate := time.Now().UTC().Add(21 * 24 * time.Hour)

	tests := []struct {
		name    string
		edit    *model.BookingEdit
		wantErr bool
	}{
		{
			name:    "date only",
			edit:    &model.BookingEdit{Date: &newDate},
			wantErr: false,
		},
		{
			name:    "replacement work orders",
			edit:    &model.BookingEdit{WorkOrders: []model.WorkOrder{completeWorkOrder()}},
			wantErr: false,
		},
		{
			name:    "empty work order slice rejected",
			edit:    &model.BookingEdit{WorkOrders: []model.WorkOrder{}},
			wantErr: true,
		},
		{
			name: "mixed services rejected",
			edit: func() *model.BookingEdit {
				w1 := completeWorkOrder()
				w2 := completeWorkOrder()
				w2.Service = model.ServiceMeetingRoom
				return &model.BookingEdit{WorkOrders: []model.WorkOrder{w1, w2}}
			}(),
			wantErr: true,
		},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateEdit(tt.edit)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
