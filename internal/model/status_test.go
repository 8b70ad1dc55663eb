package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "CONFIRMED", "CANCELED", "EXPIRED"} {
		parsed, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), parsed)
	}
	for _, s := range []string{"", "pending", "DONE", "CANCELLED"} {
		_, err := ParseStatus(s)
		assert.Error(t, err, s)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusExpired, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusConfirmed, StatusExpired, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCanceled, StatusPending, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusExpired, StatusConfirmed, false},
		{StatusExpired, StatusCanceled, false},
		{StatusPending, StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestActive(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusCanceled.Active())
	assert.False(t, StatusExpired.Active())
	assert.Equal(t, []Status{StatusPending, StatusConfirmed}, ActiveStatuses())
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "50.00", FormatCents(5000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "-12.34", FormatCents(-1234))
	assert.Equal(t, "1234.56", FormatCents(123456))
}
