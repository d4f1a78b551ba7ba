package entity

import (
	"encoding/json"
	"time"
)

// Estados de una solicitud de cambio de configuración.
const (
	SettingsChangePending  = "pending"
	SettingsChangeApproved = "approved"
	SettingsChangeRejected = "rejected"
)

// SystemSettings configuración global (una sola fila).
type SystemSettings struct {
	Values    map[string]json.RawMessage
	UpdatedBy string
	UpdatedAt time.Time
}

// SettingsChange cambio propuesto por un admin, pendiente de revisión del super-admin.
type SettingsChange struct {
	ID          string
	RequestedBy string
	Changes     map[string]json.RawMessage
	Status      string
	ReviewedBy  string
	ReviewedAt  *time.Time
	Reason      string
	CreatedAt   time.Time
}
