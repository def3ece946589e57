package model

// ServiceType identifies a bookable service offered by a provider.
type ServiceType string

const (
	ServiceMobileBottling  ServiceType = "mobile_bottling"
	ServiceMobileLabelling ServiceType = "mobile_labelling"
	ServiceMeetingRoom     ServiceType = "meeting_room"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceMobileBottling, ServiceMobileLabelling, ServiceMeetingRoom:
		return true
	}
	return false
}

// MachineType returns the machine type that serves this service.
// Meeting rooms are not machine-backed; the second return value is false.
func (s ServiceType) MachineType() (MachineType, bool) {
	switch s {
	case ServiceMobileBottling:
		return MachineBottling, true
	case ServiceMobileLabelling:
		return MachineLabelling, true
	}
	return "", false
}

// MachineType classifies a provider's capacity units.
type MachineType string

const (
	MachineBottling  MachineType = "bottling"
	MachineLabelling MachineType = "labelling"
	MachineOther     MachineType = "other"
)

func (t MachineType) Valid() bool {
	switch t {
	case MachineBottling, MachineLabelling, MachineOther:
		return true
	}
	return false
}

type MachineStatus string

const (
	MachineOperational      MachineStatus = "operational"
	MachineUnderMaintenance MachineStatus = "under_maintenance"
	MachineDecommissioned   MachineStatus = "decommissioned"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is allowed.
// Only pending bookings move; confirmed and rejected are absorbing.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusConfirmed || next == StatusRejected
}

// Role of the acting user, resolved by the identity layer upstream.
type Role string

const (
	RoleProducer Role = "producer"
	RoleProvider Role = "provider"
)

// Actor is the explicit identity parameter every lifecycle operation takes.
// The booking core performs no authentication itself.
type Actor struct {
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"required,min=1,max=200"`
	Role    Role   `json:"role" validate:"required,oneof=producer provider"`
}
