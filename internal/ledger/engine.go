// Package ledger holds the balance reconciliation rules for entries and
// persons. Everything here is a pure computation over already-fetched data:
// callers fetch the current snapshot, run it through the engine, and persist
// the returned values transactionally. The engine itself never touches the
// database and never mutates its inputs.
package ledger

import (
	"time"

	"agrobook-backend/internal/models"
)

// EntryInput carries the validated-by-type (but not yet by-rule) fields for
// a new entry.
type EntryInput struct {
	UserID       int
	PersonID     int
	EquipmentID  int
	CropTypeID   int
	Quantity     int64
	PricePerUnit int64
	EntryDate    time.Time
	Notes        string
}

// PersonDelta instructs the caller how to adjust the owning person's
// aggregates when persisting a new entry.
type PersonDelta struct {
	TotalAmountIncrement     int64 `json:"total_amount_increment"`
	RemainingAmountIncrement int64 `json:"remaining_amount_increment"`
}

// EntryUpdate is the set of entry fields to persist after a payment mutation.
// The four fields derive from each other and must be written together.
type EntryUpdate struct {
	TotalAmountPaid int64                `json:"total_amount_paid"`
	RemainingAmount int64                `json:"remaining_amount"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	LastPaymentDate time.Time            `json:"last_payment_date"`
}

// DeriveTotalPrice computes quantity * pricePerUnit in whole currency units.
// Both operands must be positive.
func DeriveTotalPrice(quantity, pricePerUnit int64) (int64, error) {
	if quantity <= 0 {
		return 0, &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	if pricePerUnit <= 0 {
		return 0, &ValidationError{Field: "price_per_unit", Reason: "must be greater than zero"}
	}
	return quantity * pricePerUnit, nil
}

// ClassifyStatus derives the tri-state payment status from the two amounts
// it depends on. Over-payment (paid > price) still classifies as full_paid:
// the >= keeps an already-impossible state from becoming an invalid one.
func ClassifyStatus(totalPrice, totalAmountPaid int64) models.PaymentStatus {
	switch {
	case totalAmountPaid >= totalPrice:
		return models.StatusFullPaid
	case totalAmountPaid > 0:
		return models.StatusPartiallyPaid
	default:
		return models.StatusNotPaid
	}
}

// StatusRank orders statuses by settlement progress:
// not_paid < partially_paid < full_paid.
func StatusRank(s models.PaymentStatus) int {
	switch s {
	case models.StatusPartiallyPaid:
		return 1
	case models.StatusFullPaid:
		return 2
	default:
		return 0
	}
}

// CreateEntry validates the input, computes the derived price fields and
// returns a new entry snapshot plus the person aggregate increments the
// caller must persist alongside it. The entry carries no ID; the store
// assigns one on insert.
func CreateEntry(in EntryInput) (*models.Entry, PersonDelta, error) {
	if in.PersonID <= 0 {
		return nil, PersonDelta{}, &ValidationError{Field: "person_id", Reason: "is required"}
	}
	if in.EquipmentID <= 0 {
		return nil, PersonDelta{}, &ValidationError{Field: "equipment_id", Reason: "is required"}
	}
	if in.CropTypeID <= 0 {
		return nil, PersonDelta{}, &ValidationError{Field: "crop_type_id", Reason: "is required"}
	}

	totalPrice, err := DeriveTotalPrice(in.Quantity, in.PricePerUnit)
	if err != nil {
		return nil, PersonDelta{}, err
	}

	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	entry := &models.Entry{
		UserID:          in.UserID,
		PersonID:        in.PersonID,
		EquipmentID:     in.EquipmentID,
		CropTypeID:      in.CropTypeID,
		Quantity:        in.Quantity,
		PricePerUnit:    in.PricePerUnit,
		TotalPrice:      totalPrice,
		TotalAmountPaid: 0,
		RemainingAmount: totalPrice,
		PaymentStatus:   models.StatusNotPaid,
		LastPaymentDate: entryDate,
		EntryDate:       entryDate,
		Notes:           in.Notes,
	}

	delta := PersonDelta{
		TotalAmountIncrement:     totalPrice,
		RemainingAmountIncrement: totalPrice,
	}

	return entry, delta, nil
}

// ApplyPayment checks a payment against the entry's remaining balance and,
// if valid, returns the payment record and the entry fields to persist.
// The new remaining amount is recomputed from totalPrice rather than
// decremented, so repeated applications cannot drift.
//
// The input entry is never mutated: on error the caller's snapshot is
// untouched, on success the changes live only in the returned EntryUpdate.
func ApplyPayment(entry *models.Entry, amount int64, paymentDate time.Time, notes string) (*models.Payment, EntryUpdate, error) {
	if amount <= 0 {
		return nil, EntryUpdate{}, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if amount > entry.RemainingAmount {
		return nil, EntryUpdate{}, &InsufficientRemainingError{Requested: amount, Remaining: entry.RemainingAmount}
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	newTotalPaid := entry.TotalAmountPaid + amount

	payment := &models.Payment{
		EntryID:     entry.ID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Notes:       notes,
	}

	update := EntryUpdate{
		TotalAmountPaid: newTotalPaid,
		RemainingAmount: entry.TotalPrice - newTotalPaid,
		PaymentStatus:   ClassifyStatus(entry.TotalPrice, newTotalPaid),
		LastPaymentDate: paymentDate,
	}

	return payment, update, nil
}

// RecomputeFromPayments rebuilds the entry's balance fields from the full
// payment set, treating it as ground truth. Used after a payment deletion,
// where an incremental decrement could accumulate drift.
func RecomputeFromPayments(entry *models.Entry, payments []*models.Payment) EntryUpdate {
	var totalPaid int64
	lastPaymentDate := entry.EntryDate
	for _, p := range payments {
		totalPaid += p.Amount
		if p.PaymentDate.After(lastPaymentDate) {
			lastPaymentDate = p.PaymentDate
		}
	}

	return EntryUpdate{
		TotalAmountPaid: totalPaid,
		RemainingAmount: entry.TotalPrice - totalPaid,
		PaymentStatus:   ClassifyStatus(entry.TotalPrice, totalPaid),
		LastPaymentDate: lastPaymentDate,
	}
}
