package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		raw  string
		want models.PaymentStatus
	}{
		{"", ""},
		{"all", ""},
		{"not_paid", models.StatusNotPaid},
		{"partially_paid", models.StatusPartiallyPaid},
		{"full_paid", models.StatusFullPaid},
	}
	for _, tt := range tests {
		got, err := parseStatusFilter(tt.raw)
		require.NoError(t, err, "status=%q", tt.raw)
		assert.Equal(t, tt.want, got, "status=%q", tt.raw)
	}
}

func TestParseStatusFilterRejectsUnknown(t *testing.T) {
	_, err := parseStatusFilter("overdue")
	require.Error(t, err)

	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestEntryListUnknownStatusReturns400(t *testing.T) {
	h := &EntryHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/entries?status=overdue", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
