package models

import "time"

type CropType struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCropTypeRequest represents the request body for creating a crop type
type CreateCropTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
