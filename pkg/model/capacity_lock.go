package model

import "time"

// CapacityLock is an advisory lock keyed by provider, service and calendar day.
// It serializes confirm-time capacity checks so two transitions cannot both
// observe a free machine on the same day.
type CapacityLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
