package models

import "time"

const (
	UnitTypeBiga    = "biga"
	UnitTypeTrolley = "trolley"
)

type Equipment struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnitType    string    `json:"unit_type"` // 'biga' or 'trolley'
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEquipmentRequest represents the request body for creating equipment
type CreateEquipmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitType    string `json:"unit_type"`
}

// UpdateEquipmentRequest represents the request body for updating equipment
type UpdateEquipmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitType    string `json:"unit_type"`
	IsActive    *bool  `json:"is_active,omitempty"`
}
