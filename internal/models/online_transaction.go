package models

import "time"

// Online transaction status
const (
	OnlineTxStatusCreated = "created"
	OnlineTxStatusSuccess = "success"
	OnlineTxStatusFailed  = "failed"
)

// OnlineTransaction tracks a Razorpay order used to settle (part of) an
// entry's remaining balance. A successful verification feeds the amount back
// through the ledger engine like any cash payment.
type OnlineTransaction struct {
	ID                int       `json:"id"`
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id,omitempty"`
	EntryID           int       `json:"entry_id"`
	PersonID          int       `json:"person_id"`
	Amount            int64     `json:"amount"`      // Amount applied to the entry
	FeeAmount         int64     `json:"fee_amount"`  // Convenience fee on top
	TotalAmount       int64     `json:"total_amount"` // Amount + FeeAmount, what the payer is charged
	Status            string    `json:"status"`
	FailureReason     string    `json:"failure_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateOnlinePaymentRequest represents the request body for creating a
// Razorpay order against an entry
type CreateOnlinePaymentRequest struct {
	EntryID int   `json:"entry_id"`
	Amount  int64 `json:"amount"`
}

// CreateOrderResponse is what the mobile client needs to open Razorpay checkout
type CreateOrderResponse struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`       // paise
	FeeAmount   int64  `json:"fee_amount"`   // paise
	TotalAmount int64  `json:"total_amount"` // paise
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id"`
}

// VerifyPaymentRequest represents the checkout callback payload
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
