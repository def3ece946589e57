package availability

import (
	"testing"

	"vinbook/pkg/model"
)

func classificationFor(t *testing.T, days []DayClassification, want string) DayClassification {
	t.Helper()
	for _, d := range days {
		if d.Day == want {
			return d
		}
	}
	t.Fatalf("day %s not present in classification", want)
	return DayClassification{}
}

func TestClassify_PastDaysAlwaysPast(t *testing.T) {
	today := day("2026-09-10")
	capacity := Capacity{Total: 2, Committed: map[string]int{
		"2026-09-08": 2, // full, but already past
	}}

	days := Classify(today, day("2026-09-07"), day("2026-09-12"), capacity, nil)

	for _, d := range days {
		if d.Day < "2026-09-10" && d.State != DayPast {
			t.Errorf("day %s: expected past, got %s", d.Day, d.State)
		}
		if d.Day >= "2026-09-10" && d.State == DayPast {
			t.Errorf("day %s: must not be past", d.Day)
		}
	}
}

func TestClassify_UnavailableIffFullyCommitted(t *testing.T) {
	today := day("2026-09-01")
	capacity := Capacity{Total: 2, Committed: map[string]int{
		"2026-09-14": 2,
		"2026-09-15": 1,
		"2026-09-16": 3, // over-committed still unavailable
	}}

	days := Classify(today, day("2026-09-14"), day("2026-09-17"), capacity, nil)

	tests := []struct {
		day  string
		want DayState
	}{
		{"2026-09-14", DayUnavailable},
		{"2026-09-15", DayOpen},
		{"2026-09-16", DayUnavailable},
		{"2026-09-17", DayOpen},
	}
	for _, tt := range tests {
		if got := classificationFor(t, days, tt.day).State; got != tt.want {
			t.Errorf("day %s: expected %s, got %s", tt.day, tt.want, got)
		}
	}
}

func TestClassify_ZeroTotalNeverUnavailable(t *testing.T) {
	today := day("2026-09-01")
	capacity := Capacity{Total: 0, Committed: map[string]int{
		"2026-09-14": 5,
	}}

	days := Classify(today, day("2026-09-14"), day("2026-09-14"), capacity, nil)
	if got := days[0].State; got != DayOpen {
		t.Errorf("provider without machines must never be unavailable, got %s", got)
	}
}

func TestClassify_OwnMarkersOrthogonalToState(t *testing.T) {
	today := day("2026-09-10")
	capacity := Capacity{Total: 1, Committed: map[string]int{
		"2026-09-14": 1,
	}}
	own := []*model.Booking{
		bookingOn("2026-09-14", model.StatusConfirmed, model.ServiceMobileBottling),
		bookingOn("2026-09-15", model.StatusPending, model.ServiceMobileBottling),
		bookingOn("2026-09-08", model.StatusConfirmed, model.ServiceMobileBottling),
	}

	days := Classify(today, day("2026-09-08"), day("2026-09-15"), capacity, own)

	fullDay := classificationFor(t, days, "2026-09-14")
	if fullDay.State != DayUnavailable || !fullDay.OwnConfirmed {
		t.Errorf("own confirmed booking must be flagged on an unavailable day: %+v", fullDay)
	}

	pendingDay := classificationFor(t, days, "2026-09-15")
	if pendingDay.State != DayOpen || !pendingDay.OwnPending {
		t.Errorf("own pending booking must be flagged on an open day: %+v", pendingDay)
	}

	pastDay := classificationFor(t, days, "2026-09-08")
	if pastDay.State != DayPast || !pastDay.OwnConfirmed {
		t.Errorf("own booking must be flagged even on a past day: %+v", pastDay)
	}
}

// Two bottling machines, three producers asking for the same day: the first
// two confirms commit the day, the third producer sees it unavailable.
func TestClassify_FleetExhaustionScenario(t *testing.T) {
	today := day("2026-09-01")
	fleet := bottlingFleet(2)

	confirmed := []*model.Booking{
		bookingOn("2026-09-14", model.StatusConfirmed, model.ServiceMobileBottling),
		bookingOn("2026-09-14", model.StatusConfirmed, model.ServiceMobileBottling),
		bookingOn("2026-09-14", model.StatusPending, model.ServiceMobileBottling),
	}

	capacity := ResolveCapacity(model.ServiceMobileBottling, confirmed, fleet, false)
	days := Classify(today, day("2026-09-14"), day("2026-09-14"), capacity, nil)

	if got := days[0].State; got != DayUnavailable {
		t.Errorf("expected 2 confirmed bookings to exhaust a 2-machine fleet, got %s", got)
	}
}

func TestClassify_InclusiveRange(t *testing.T) {
	today := day("2026-09-01")
	days := Classify(today, day("2026-09-14"), day("2026-09-16"), Capacity{}, nil)

	if len(days) != 3 {
		t.Fatalf("expected 3 days for an inclusive 3-day range, got %d", len(days))
	}
	if days[0].Day != "2026-09-14" || days[2].Day != "2026-09-16" {
		t.Errorf("unexpected range endpoints: %s .. %s", days[0].Day, days[2].Day)
	}
}
