package model

import (
	"math"
	"time"
)

// DayFormat is the calendar-day key used everywhere availability is computed.
// Bookings store a full timestamp but are compared at day granularity.
const DayFormat = "2006-01-02"

// ManualProducerEmail is the sentinel stored on provider-entered bookings,
// which carry a free-text client label instead of a real producer identity.
const ManualProducerEmail = "manual@booking.log"

// LitersPerBottle is the standard 750ml fill used to derive bottle counts.
const LitersPerBottle = 0.75

// WorkOrder is one line-item service specification within a booking,
// one per wine/batch. It has no identity of its own.
type WorkOrder struct {
	Service             ServiceType `json:"service" bson:"service" validate:"required,oneof=mobile_bottling mobile_labelling meeting_room"`
	ContactPerson       string      `json:"contact_person" bson:"contact_person" validate:"omitempty,max=100"`
	ContactNumber       string      `json:"contact_number" bson:"contact_number" validate:"omitempty,max=20"`
	Location            string      `json:"location" bson:"location" validate:"omitempty,max=200"`
	VolumeLiters        float64     `json:"volume_liters" bson:"volume_liters" validate:"omitempty,gt=0"`
	BottleType          string      `json:"bottle_type" bson:"bottle_type" validate:"omitempty,max=100"`
	ClosureType         string      `json:"closure_type" bson:"closure_type" validate:"omitempty,max=100"`
	Cultivar            string      `json:"cultivar" bson:"cultivar" validate:"omitempty,max=100"`
	Vintage             string      `json:"vintage" bson:"vintage" validate:"omitempty,max=10"`
	FiltrationType      string      `json:"filtration_type,omitempty" bson:"filtration_type,omitempty" validate:"omitempty,max=100"`
	SpecialInstructions string      `json:"special_instructions,omitempty" bson:"special_instructions,omitempty" validate:"omitempty,max=1000"`
}

// EquivalentBottles converts the ordered volume into 750ml bottles, rounded up.
func (w WorkOrder) EquivalentBottles() int {
	if w.VolumeLiters <= 0 {
		return 0
	}
	return int(math.Ceil(w.VolumeLiters / LitersPerBottle))
}

// Complete reports whether every field the producer entry path requires is set.
func (w WorkOrder) Complete() bool {
	return w.Cultivar != "" &&
		w.Vintage != "" &&
		w.VolumeLiters > 0 &&
		w.BottleType != "" &&
		w.ClosureType != "" &&
		w.ContactPerson != "" &&
		w.ContactNumber != "" &&
		w.Location != ""
}

type Booking struct {
	ID                string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Date              time.Time     `json:"date" bson:"date" validate:"required"`
	Status            BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed rejected"`
	ProducerCompany   string        `json:"producer_company" bson:"producer_company" validate:"required,min=1,max=200"`
	ProducerEmail     string        `json:"producer_email" bson:"producer_email" validate:"required,max=200"`
	ProviderCompany   string        `json:"provider_company" bson:"provider_company" validate:"required,min=1,max=200"`
	WorkOrders        []WorkOrder   `json:"work_orders" bson:"work_orders" validate:"required,min=1,dive"`
	AssignedMachineID string        `json:"assigned_machine_id,omitempty" bson:"assigned_machine_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Day returns the calendar-day key of the booking date in UTC.
func (b *Booking) Day() string {
	return b.Date.UTC().Format(DayFormat)
}

// Service returns the service of the first work order. Work orders within one
// booking always target the same service.
func (b *Booking) Service() ServiceType {
	if len(b.WorkOrders) == 0 {
		return ""
	}
	return b.WorkOrders[0].Service
}

// HasService reports whether any work order targets the given service.
func (b *Booking) HasService(service ServiceType) bool {
	for _, w := range b.WorkOrders {
		if w.Service == service {
			return true
		}
	}
	return false
}

// BookingEdit carries the in-place mutations the edit operation allows.
// Status is deliberately absent; status only changes through Transition.
type BookingEdit struct {
	Date              *time.Time  `json:"date,omitempty" validate:"omitempty"`
	WorkOrders        []WorkOrder `json:"work_orders,omitempty" validate:"omitempty,min=1,dive"`
	AssignedMachineID *string     `json:"assigned_machine_id,omitempty" validate:"omitempty"`
}
