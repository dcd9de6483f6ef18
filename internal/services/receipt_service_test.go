package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rs. 0"},
		{500, "Rs. 500"},
		{1500, "Rs. 1,500"},
		{100000, "Rs. 1,00,000"},
		{1234567, "Rs. 12,34,567"},
		{12345678, "Rs. 1,23,45,678"},
		{-1500, "Rs. -1,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatINR(tt.amount))
	}
}

func TestParseDateInput(t *testing.T) {
	zero, err := parseDateInput("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	d, err := parseDateInput("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	ts, err := parseDateInput("2026-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, ts.UTC().Hour())

	_, err = parseDateInput("15/03/2026")
	assert.Error(t, err)
}
