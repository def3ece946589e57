package repository

import (
	"testing"
	"time"

	"vinbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestConfirmedOnDayFilter_PinsStatusAndDayWindow(t *testing.T) {
	r := &mongoBookingRepository{}

	day := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	filter := r.confirmedOnDayFilter("Acme Bottling", model.ServiceMobileBottling, day)

	if got := filter["provider_company"]; got != "Acme Bottling" {
		t.Errorf("expected provider filter, got %v", got)
	}
	if got := filter["status"]; got != model.StatusConfirmed {
		t.Errorf("capacity count must only see confirmed bookings, got status filter %v", got)
	}
	if got := filter["work_orders.service"]; got != model.ServiceMobileBottling {
		t.Errorf("expected service filter, got %v", got)
	}

	dateFilter, ok := filter["date"].(bson.M)
	if !ok {
		t.Fatalf("expected date range filter, got %T", filter["date"])
	}
	wantStart := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if got := dateFilter["$gte"].(time.Time); !got.Equal(wantStart) {
		t.Errorf("expected day start %v, got %v", wantStart, got)
	}
	if got := dateFilter["$lt"].(time.Time); !got.Equal(wantStart.Add(24*time.Hour)) {
		t.Errorf("expected day end %v, got %v", wantStart.Add(24*time.Hour), got)
	}
}

func TestBuildSearchFilter(t *testing.T) {
	r := &mongoBookingRepository{}
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		provider string
		producer string
		from     *time.Time
		to       *time.Time
		wantKeys []string
	}{
		{"provider only", "Acme Bottling", "", nil, nil, []string{"provider_company"}},
		{"producer only", "", "jan@riverside.co.za", nil, nil, []string{"producer_email"}},
		{"with date range", "Acme Bottling", "", &from, &to, []string{"provider_company", "date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := r.buildSearchFilter(tt.provider, tt.producer, tt.from, tt.to)
			if len(filter) != len(tt.wantKeys) {
				t.Errorf("expected %d filter keys, got %d: %v", len(tt.wantKeys), len(filter), filter)
			}
			for _, key := range tt.wantKeys {
				if _, ok := filter[key]; !ok {
					t.Errorf("expected filter key %q, got %v", key, filter)
				}
			}
		})
	}
}
