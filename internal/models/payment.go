package models

import "time"

// Payment is one recorded partial or full settlement against a specific
// entry's balance. Immutable once created except for deletion.
type Payment struct {
	ID              int       `json:"id"`
	EntryID         int       `json:"entry_id"`
	ReceiptNumber   string    `json:"receipt_number"`
	Amount          int64     `json:"amount"`
	PaymentDate     time.Time `json:"payment_date"`
	Notes           string    `json:"notes"`
	IdempotencyKey  string    `json:"idempotency_key,omitempty"`
	CreatedByUserID int       `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreatePaymentRequest represents the request body for creating a payment
type CreatePaymentRequest struct {
	EntryID     int    `json:"entry_id"`
	Amount      int64  `json:"amount"`
	PaymentDate string `json:"payment_date"` // ISO-8601, defaults to now
	Notes       string `json:"notes"`
}

// PaymentResult is returned after a payment is applied: the stored payment
// plus the entry snapshot with its refreshed balance fields.
type PaymentResult struct {
	Payment *Payment `json:"payment"`
	Entry   *Entry   `json:"entry"`
}
