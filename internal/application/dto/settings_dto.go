package dto

import (
	"encoding/json"
	"time"
)

// UpdateSettingsRequest cambios propuestos (clave → valor JSON).
type UpdateSettingsRequest struct {
	Changes map[string]json.RawMessage `json:"changes" validate:"required,min=1,max=50"`
}

// ReviewSettingsChangeRequest decisión del super-admin.
type ReviewSettingsChangeRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"max=500"`
}

// SettingsResponse configuración vigente.
type SettingsResponse struct {
	Values    map[string]json.RawMessage `json:"values"`
	UpdatedBy string                     `json:"updated_by,omitempty"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// SettingsChangeResponse solicitud de cambio.
type SettingsChangeResponse struct {
	ID          string                     `json:"id"`
	RequestedBy string                     `json:"requested_by"`
	Changes     map[string]json.RawMessage `json:"changes"`
	Status      string                     `json:"status"`
	ReviewedBy  string                     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time                 `json:"reviewed_at,omitempty"`
	Reason      string                     `json:"reason,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// SettingsUpdateResponse resultado: aplicado directamente (super-admin) o pendiente.
type SettingsUpdateResponse struct {
	Applied  bool                    `json:"applied"`
	Settings *SettingsResponse       `json:"settings,omitempty"`
	Change   *SettingsChangeResponse `json:"change,omitempty"`
}
