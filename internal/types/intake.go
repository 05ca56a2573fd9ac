package types

import "strings"

// IntakePhoto is one photo attachment in an intake request.
type IntakePhoto struct {
	URL      string `json:"url" validate:"required,url"`
	Filename string `json:"filename"`
}

// IntakePayload is the webhook body that opens a new staging order.
type IntakePayload struct {
	RecordID string        `json:"record_id"`
	Name     string        `json:"name" validate:"required"`
	Email    string        `json:"email" validate:"required,email"`
	Address  string        `json:"address" validate:"required"`
	Style    string        `json:"style"`
	Occupied string        `json:"occupied"`
	Comments string        `json:"comments"`
	Photos   []IntakePhoto `json:"photos" validate:"required,min=1,dive"`
}

// OccupiedBool interprets the intake form's occupancy dropdown.
func (p *IntakePayload) OccupiedBool() bool {
	switch strings.ToLower(strings.TrimSpace(p.Occupied)) {
	case "yes", "y", "true", "occupied", "1":
		return true
	}
	return false
}
