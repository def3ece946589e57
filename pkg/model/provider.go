package model

import "time"

// ProviderOffering records which services a provider company offers, plus the
// filtration options producers may pick from on bottling work orders.
type ProviderOffering struct {
	ID                string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Company           string        `json:"company" bson:"company" validate:"required,min=1,max=200"`
	Services          []ServiceType `json:"services" bson:"services" validate:"required,min=1,dive,oneof=mobile_bottling mobile_labelling meeting_room"`
	FiltrationOptions []string      `json:"filtration_options,omitempty" bson:"filtration_options,omitempty" validate:"omitempty,dive,min=1,max=100"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Offers reports whether the provider is registered as offering the service.
func (p *ProviderOffering) Offers(service ServiceType) bool {
	for _, s := range p.Services {
		if s == service {
			return true
		}
	}
	return false
}
