package availability

import (
	"time"

	"vinbook/pkg/model"
)

// DayState is the availability verdict for one calendar day.
type DayState string

const (
	DayPast        DayState = "past"
	DayUnavailable DayState = "unavailable"
	DayOpen        DayState = "open"
)

// DayClassification is one day of a producer's availability view. The own
// markers are orthogonal to State: a producer sees their own booking flagged
// even on a day that is past or fully committed.
type DayClassification struct {
	Day          string   `json:"day"`
	State        DayState `json:"state"`
	OwnConfirmed bool     `json:"own_confirmed"`
	OwnPending   bool     `json:"own_pending"`
}

// Classify walks the days of [from, to] inclusive and labels each one.
//
// Precedence: a day strictly before today is always past, no matter how much
// capacity remains. Otherwise a day is unavailable only when the provider has
// capacity to run out of (Total > 0) and it is fully committed; a provider
// with zero machines is never marked unavailable, it simply has nothing to
// book. Everything else is open.
func Classify(today time.Time, from, to time.Time, capacity Capacity, own []*model.Booking) []DayClassification {
	todayDay := today.UTC().Format(model.DayFormat)

	ownConfirmed := make(map[string]bool)
	ownPending := make(map[string]bool)
	for _, b := range own {
		switch b.Status {
		case model.StatusConfirmed:
			ownConfirmed[b.Day()] = true
		case model.StatusPending:
			ownPending[b.Day()] = true
		}
	}

	var days []DayClassification
	for d := from.UTC().Truncate(24 * time.Hour); !d.After(to.UTC()); d = d.Add(24 * time.Hour) {
		day := d.Format(model.DayFormat)

		state := DayOpen
		if day < todayDay {
			state = DayPast
		} else if ledger := capacity.On(day); ledger.Total > 0 && ledger.Committed >= ledger.Total {
			state = DayUnavailable
		}

		days = append(days, DayClassification{
			Day:          day,
			State:        state,
			OwnConfirmed: ownConfirmed[day],
			OwnPending:   ownPending[day],
		})
	}

	return days
}
