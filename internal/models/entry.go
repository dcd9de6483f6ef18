package models

import "time"

// PaymentStatus classifies an entry's settlement progress
type PaymentStatus string

const (
	StatusNotPaid       PaymentStatus = "not_paid"       // No payment recorded yet
	StatusPartiallyPaid PaymentStatus = "partially_paid" // Some, but not all, of the total is paid
	StatusFullPaid      PaymentStatus = "full_paid"      // Total amount settled
)

// Entry is one recorded usage of equipment/crop by a person, with an
// associated price and balance. totalPrice is fixed at creation; the paid /
// remaining / status columns are derived and persisted together so lists can
// filter on payment_status in SQL.
type Entry struct {
	ID              int           `json:"id"`
	UserID          int           `json:"user_id"`
	PersonID        int           `json:"person_id"`
	PersonName      string        `json:"person_name,omitempty"` // Joined from persons table
	EquipmentID     int           `json:"equipment_id"`
	CropTypeID      int           `json:"crop_type_id"`
	Quantity        int64         `json:"quantity"`
	PricePerUnit    int64         `json:"price_per_unit"`
	TotalPrice      int64         `json:"total_price"`
	TotalAmountPaid int64         `json:"total_amount_paid"`
	RemainingAmount int64         `json:"remaining_amount"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	LastPaymentDate time.Time     `json:"last_payment_date"`
	EntryDate       time.Time     `json:"entry_date"`
	Notes           string        `json:"notes"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CreateEntryRequest represents the request body for creating an entry
type CreateEntryRequest struct {
	PersonID     int    `json:"person_id"`
	EquipmentID  int    `json:"equipment_id"`
	CropTypeID   int    `json:"crop_type_id"`
	Quantity     int64  `json:"quantity"`
	PricePerUnit int64  `json:"price_per_unit"`
	EntryDate    string `json:"entry_date"` // ISO-8601, defaults to now
	Notes        string `json:"notes"`
}

// EntryFilter is used for filtered, paginated entry listing
type EntryFilter struct {
	UserID   int
	Status   PaymentStatus // empty = all
	Search   string        // matches person name
	Page     int
	PageSize int
}

// EntryList is a single page of entries plus the unpaginated total
type EntryList struct {
	Items []*Entry `json:"items"`
	Total int      `json:"total"`
}

// Summary provides dashboard statistics across a user's entries
type Summary struct {
	TotalEntries       int   `json:"total_entries"`
	NotPaidCount       int   `json:"not_paid_count"`
	PartiallyPaidCount int   `json:"partially_paid_count"`
	FullPaidCount      int   `json:"full_paid_count"`
	TotalBilled        int64 `json:"total_billed"`
	TotalCollected     int64 `json:"total_collected"`
	TotalOutstanding   int64 `json:"total_outstanding"`
}
