package models

import "time"

// Person is the party accumulating entries and owing/having paid money.
// The amount columns are a materialized aggregate over the person's entries
// and are refreshed inside the same transaction as any balance mutation.
type Person struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Village         string    `json:"village"`
	TotalAmount     int64     `json:"total_amount"`
	PaidAmount      int64     `json:"paid_amount"`
	RemainingAmount int64     `json:"remaining_amount"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreatePersonRequest represents the request body for creating a person
type CreatePersonRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Village string `json:"village"`
}

// UpdatePersonRequest represents the request body for updating a person
type UpdatePersonRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Village string `json:"village"`
}

// PersonStatement bundles a person with their entries and payments for the
// person details screen.
type PersonStatement struct {
	Person   *Person    `json:"person"`
	Entries  []*Entry   `json:"entries"`
	Payments []*Payment `json:"payments"`
}
