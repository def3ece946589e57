package availability

import (
	"vinbook/pkg/model"
)

// DayCapacity is the machine ledger of one provider/service on one day.
type DayCapacity struct {
	Total     int `json:"total"`
	Committed int `json:"committed"`
}

// Capacity is a provider's capacity for one service across days. Total is
// constant: machines are owned per provider, not scheduled per day.
type Capacity struct {
	Total     int
	Committed map[string]int // keyed by civil day "2006-01-02" (UTC)
}

// On returns the ledger for one day. Days with no confirmed bookings carry
// zero committed capacity.
func (c Capacity) On(day string) DayCapacity {
	return DayCapacity{
		Total:     c.Total,
		Committed: c.Committed[day],
	}
}

// ResolveCapacity derives a provider's capacity for one service from its
// machine fleet and bookings.
//
// Mobile services count machines of the matching type; every machine counts
// regardless of operational status. Meeting rooms are not machine-backed: a
// provider registered as offering the service has exactly one room.
//
// A day's committed count is the number of confirmed bookings carrying at
// least one work order for the service. Pending and rejected bookings never
// commit capacity.
func ResolveCapacity(service model.ServiceType, bookings []*model.Booking, machines []*model.Machine, meetingRoomOffered bool) Capacity {
	capacity := Capacity{
		Committed: make(map[string]int),
	}

	if machineType, machineBacked := service.MachineType(); machineBacked {
		for _, m := range machines {
			if m.Type == machineType {
				capacity.Total++
			}
		}
	} else if service == model.ServiceMeetingRoom && meetingRoomOffered {
		capacity.Total = 1
	}

	for _, b := range bookings {
		if b.Status != model.StatusConfirmed {
			continue
		}
		if !b.HasService(service) {
			continue
		}
		capacity.Committed[b.Day()]++
	}

	return capacity
}
