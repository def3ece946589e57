package model

import "time"

// Machine is a provider-owned capacity unit. One confirmed booking consumes
// one machine of matching type for one calendar date.
type Machine struct {
	ID                     string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name                   string        `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Type                   MachineType   `json:"type" bson:"type" validate:"required,oneof=bottling labelling other"`
	Status                 MachineStatus `json:"status" bson:"status" validate:"required,oneof=operational under_maintenance decommissioned"`
	ServiceProviderCompany string        `json:"service_provider_company" bson:"service_provider_company" validate:"required,min=1,max=200"`
	CreatedAt              time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// MachineUpdate carries partial machine mutations.
type MachineUpdate struct {
	Name   string        `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Type   MachineType   `json:"type,omitempty" validate:"omitempty,oneof=bottling labelling other"`
	Status MachineStatus `json:"status,omitempty" validate:"omitempty,oneof=operational under_maintenance decommissioned"`
}
