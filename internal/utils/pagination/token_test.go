package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard date/time values
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "8c1d1f0e-2f1b-4c55-9d7a-6f2b1b1c0a11",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, cursor, decoded, "Cursor should match after decode")

	// Current time values
	now := time.Now().UTC()
	decoded, err = DecodeToken(EncodeToken(Cursor{Date: now, CreatedAt: now, ID: "x"}))
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decoded.Date), "Current date should match after decode")
	assert.True(t, now.Equal(decoded.CreatedAt), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45Z|id")))
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "entry date parse")
}

func TestCursorAfter(t *testing.T) {
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	c := Cursor{Date: base, CreatedAt: base.Add(time.Hour), ID: "m"}

	assert.True(t, c.After(base.AddDate(0, 0, -1), base, "z"), "older date comes after")
	assert.False(t, c.After(base.AddDate(0, 0, 1), base, "a"), "newer date comes before")
	assert.True(t, c.After(base, base, "z"), "same date, older creation comes after")
	assert.True(t, c.After(base, base.Add(time.Hour), "a"), "full tie broken by id")
	assert.False(t, c.After(base, base.Add(time.Hour), "m"), "the cursor entry itself is excluded")
}
