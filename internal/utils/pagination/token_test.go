package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "6f1c2b1e-0000-4000-8000-000000000001",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID)

	// Zero time values survive the round trip.
	zero, err := DecodeToken(EncodeToken(Cursor{}))
	require.NoError(t, err)
	assert.True(t, zero.Date.IsZero())
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2026-05-15T00:00:00Z")))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("notadate|2026-05-15T14:30:45Z|id")))
	assert.Contains(t, err.Error(), "date parse")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2026-05-15T00:00:00Z|later|id")))
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestCursorBefore(t *testing.T) {
	day := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	created := day.Add(10 * time.Hour)
	c := Cursor{Date: day, CreatedAt: created, ID: "m"}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), created.Add(time.Hour), "z"), "older voucher date")
	assert.False(t, c.Before(day.AddDate(0, 0, 1), created, "a"), "newer voucher date")
	assert.True(t, c.Before(day, created.Add(-time.Second), "z"), "same date, created earlier")
	assert.True(t, c.Before(day, created, "a"), "same date and time, lower id")
	assert.False(t, c.Before(day, created, "m"), "the cursor row itself")
}
