package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrobook-backend/internal/models"
)

func validInput() EntryInput {
	return EntryInput{
		UserID:       1,
		PersonID:     10,
		EquipmentID:  2,
		CropTypeID:   3,
		Quantity:     5,
		PricePerUnit: 100,
		EntryDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestDeriveTotalPrice(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int64
		pricePerUnit int64
		want         int64
		wantField    string
	}{
		{name: "simple product", quantity: 5, pricePerUnit: 100, want: 500},
		{name: "single unit", quantity: 1, pricePerUnit: 1, want: 1},
		{name: "large values", quantity: 1200, pricePerUnit: 750, want: 900000},
		{name: "zero quantity rejected", quantity: 0, pricePerUnit: 100, wantField: "quantity"},
		{name: "negative quantity rejected", quantity: -3, pricePerUnit: 100, wantField: "quantity"},
		{name: "zero price rejected", quantity: 5, pricePerUnit: 0, wantField: "price_per_unit"},
		{name: "negative price rejected", quantity: 5, pricePerUnit: -1, wantField: "price_per_unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveTotalPrice(tt.quantity, tt.pricePerUnit)
			if tt.wantField != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, models.StatusNotPaid, ClassifyStatus(1000, 0))
	assert.Equal(t, models.StatusPartiallyPaid, ClassifyStatus(1000, 1))
	assert.Equal(t, models.StatusPartiallyPaid, ClassifyStatus(1000, 999))
	assert.Equal(t, models.StatusFullPaid, ClassifyStatus(1000, 1000))
	// Over-payment should never exist, but must still classify as full_paid
	assert.Equal(t, models.StatusFullPaid, ClassifyStatus(1000, 1500))
}

func TestClassifyStatusMonotonic(t *testing.T) {
	const totalPrice = 1000
	prevRank := -1
	for paid := int64(0); paid <= totalPrice+100; paid += 50 {
		rank := StatusRank(ClassifyStatus(totalPrice, paid))
		assert.GreaterOrEqual(t, rank, prevRank,
			"status rank decreased at totalAmountPaid=%d", paid)
		prevRank = rank
	}
}

func TestCreateEntry(t *testing.T) {
	t.Run("derives all balance fields", func(t *testing.T) {
		entry, delta, err := CreateEntry(validInput())
		require.NoError(t, err)

		assert.Equal(t, int64(500), entry.TotalPrice)
		assert.Equal(t, int64(0), entry.TotalAmountPaid)
		assert.Equal(t, int64(500), entry.RemainingAmount)
		assert.Equal(t, models.StatusNotPaid, entry.PaymentStatus)
		assert.Equal(t, entry.EntryDate, entry.LastPaymentDate)

		assert.Equal(t, int64(500), delta.TotalAmountIncrement)
		assert.Equal(t, int64(500), delta.RemainingAmountIncrement)
	})

	t.Run("each reference is independently required", func(t *testing.T) {
		tests := []struct {
			field  string
			mutate func(*EntryInput)
		}{
			{"person_id", func(in *EntryInput) { in.PersonID = 0 }},
			{"equipment_id", func(in *EntryInput) { in.EquipmentID = 0 }},
			{"crop_type_id", func(in *EntryInput) { in.CropTypeID = 0 }},
			{"quantity", func(in *EntryInput) { in.Quantity = 0 }},
			{"price_per_unit", func(in *EntryInput) { in.PricePerUnit = 0 }},
		}
		for _, tt := range tests {
			in := validInput()
			tt.mutate(&in)
			_, _, err := CreateEntry(in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, "expected validation error for %s", tt.field)
			assert.Equal(t, tt.field, verr.Field)
		}
	})
}

func TestApplyPayment(t *testing.T) {
	newEntry := func() *models.Entry {
		entry, _, err := CreateEntry(validInput())
		require.NoError(t, err)
		entry.ID = 42
		return entry
	}
	payDate := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("full settlement", func(t *testing.T) {
		entry := newEntry()
		payment, update, err := ApplyPayment(entry, 500, payDate, "settled")
		require.NoError(t, err)

		assert.Equal(t, 42, payment.EntryID)
		assert.Equal(t, int64(500), payment.Amount)
		assert.Equal(t, int64(500), update.TotalAmountPaid)
		assert.Equal(t, int64(0), update.RemainingAmount)
		assert.Equal(t, models.StatusFullPaid, update.PaymentStatus)
		assert.Equal(t, payDate, update.LastPaymentDate)
	})

	t.Run("sequential partial payments", func(t *testing.T) {
		entry := newEntry()
		entry.TotalPrice = 1000
		entry.RemainingAmount = 1000

		_, update, err := ApplyPayment(entry, 300, payDate, "")
		require.NoError(t, err)
		assert.Equal(t, int64(300), update.TotalAmountPaid)
		assert.Equal(t, int64(700), update.RemainingAmount)
		assert.Equal(t, models.StatusPartiallyPaid, update.PaymentStatus)

		entry.TotalAmountPaid = update.TotalAmountPaid
		entry.RemainingAmount = update.RemainingAmount
		entry.PaymentStatus = update.PaymentStatus

		_, update, err = ApplyPayment(entry, 400, payDate.Add(24*time.Hour), "")
		require.NoError(t, err)
		assert.Equal(t, int64(700), update.TotalAmountPaid)
		assert.Equal(t, int64(300), update.RemainingAmount)
		assert.Equal(t, models.StatusPartiallyPaid, update.PaymentStatus)
	})

	t.Run("remaining is recomputed from total price", func(t *testing.T) {
		entry := newEntry()
		entry.TotalPrice = 1000
		entry.TotalAmountPaid = 250
		// Deliberately stale remaining; recompute from totalPrice must win
		entry.RemainingAmount = 750

		_, update, err := ApplyPayment(entry, 750, payDate, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), update.TotalAmountPaid)
		assert.Equal(t, int64(0), update.RemainingAmount)
	})

	t.Run("overdraw rejected and entry unmutated", func(t *testing.T) {
		entry := newEntry()
		before := *entry

		_, _, err := ApplyPayment(entry, 600, payDate, "")
		var insufficient *InsufficientRemainingError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(600), insufficient.Requested)
		assert.Equal(t, int64(500), insufficient.Remaining)
		assert.Equal(t, before, *entry, "entry must not be mutated on rejection")
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		for _, amount := range []int64{0, -100} {
			_, _, err := ApplyPayment(newEntry(), amount, payDate, "")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "amount", verr.Field)
		}
	})

	t.Run("remaining never goes negative", func(t *testing.T) {
		entry := newEntry()
		for _, amount := range []int64{100, 200, 150, 50} {
			_, update, err := ApplyPayment(entry, amount, payDate, "")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, update.RemainingAmount, int64(0))
			assert.Equal(t, entry.TotalPrice-update.TotalAmountPaid, update.RemainingAmount)
			entry.TotalAmountPaid = update.TotalAmountPaid
			entry.RemainingAmount = update.RemainingAmount
		}
	})
}

func TestRecomputeFromPayments(t *testing.T) {
	entryDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entry := &models.Entry{
		ID:         7,
		TotalPrice: 1000,
		EntryDate:  entryDate,
	}
	pay := func(amount int64, day int) *models.Payment {
		return &models.Payment{
			EntryID:     7,
			Amount:      amount,
			PaymentDate: entryDate.AddDate(0, 0, day),
		}
	}

	t.Run("deleting a payment moves status backward", func(t *testing.T) {
		// Entry was full_paid via [300, 700]; the 700 payment is deleted and
		// the balance is rebuilt from the surviving set, not decremented.
		update := RecomputeFromPayments(entry, []*models.Payment{pay(300, 3)})
		assert.Equal(t, int64(300), update.TotalAmountPaid)
		assert.Equal(t, int64(700), update.RemainingAmount)
		assert.Equal(t, models.StatusPartiallyPaid, update.PaymentStatus)
		assert.Equal(t, entryDate.AddDate(0, 0, 3), update.LastPaymentDate)
	})

	t.Run("empty payment set resets to not_paid", func(t *testing.T) {
		update := RecomputeFromPayments(entry, nil)
		assert.Equal(t, int64(0), update.TotalAmountPaid)
		assert.Equal(t, int64(1000), update.RemainingAmount)
		assert.Equal(t, models.StatusNotPaid, update.PaymentStatus)
		assert.Equal(t, entryDate, update.LastPaymentDate, "falls back to entry date")
	})

	t.Run("last payment date is the latest, not the last element", func(t *testing.T) {
		update := RecomputeFromPayments(entry, []*models.Payment{pay(400, 9), pay(600, 2)})
		assert.Equal(t, int64(1000), update.TotalAmountPaid)
		assert.Equal(t, models.StatusFullPaid, update.PaymentStatus)
		assert.Equal(t, entryDate.AddDate(0, 0, 9), update.LastPaymentDate)
	})

	t.Run("idempotent over the same payment set", func(t *testing.T) {
		payments := []*models.Payment{pay(300, 1), pay(250, 4)}
		first := RecomputeFromPayments(entry, payments)
		second := RecomputeFromPayments(entry, payments)
		assert.Equal(t, first, second)
	})
}

// Round-trip from the entry-creation rule through payment application,
// mirroring how the service layer drives the engine.
func TestEntryPaymentRoundTrip(t *testing.T) {
	entry, _, err := CreateEntry(validInput())
	require.NoError(t, err)
	require.Equal(t, int64(500), entry.TotalPrice)

	// Overdraw on the fresh entry fails
	_, _, err = ApplyPayment(entry, 600, time.Time{}, "")
	var insufficient *InsufficientRemainingError
	require.ErrorAs(t, err, &insufficient)

	// Exact settlement succeeds
	_, update, err := ApplyPayment(entry, 500, time.Time{}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(500), update.TotalAmountPaid)
	assert.Equal(t, int64(0), update.RemainingAmount)
	assert.Equal(t, models.StatusFullPaid, update.PaymentStatus)
}
