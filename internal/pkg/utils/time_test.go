package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTimeWindow(t *testing.T) {
	t.Run("Explicit window wins", func(t *testing.T) {
		from, to, err := DeriveTimeWindow("09:00", "09:30", "10:00", 45)
		assert.NoError(t, err)
		assert.Equal(t, "09:00", from)
		assert.Equal(t, "09:30", to)
	})

	t.Run("Start and duration", func(t *testing.T) {
		from, to, err := DeriveTimeWindow("", "", "14:15", 45)
		assert.NoError(t, err)
		assert.Equal(t, "14:15", from)
		assert.Equal(t, "15:00", to)
	})

	t.Run("Reversed window is rejected", func(t *testing.T) {
		_, _, err := DeriveTimeWindow("10:00", "09:00", "", 0)
		assert.ErrorIs(t, err, ErrInvalidTimeWindow)
	})

	t.Run("Empty window is rejected", func(t *testing.T) {
		_, _, err := DeriveTimeWindow("10:00", "10:00", "", 0)
		assert.ErrorIs(t, err, ErrInvalidTimeWindow)
	})

	t.Run("Window crossing midnight is rejected", func(t *testing.T) {
		_, _, err := DeriveTimeWindow("", "", "23:30", 60)
		assert.ErrorIs(t, err, ErrInvalidTimeWindow)
	})

	t.Run("Nothing to derive from", func(t *testing.T) {
		_, _, err := DeriveTimeWindow("", "", "", 0)
		assert.ErrorIs(t, err, ErrMissingTimeWindow)
	})
}

func TestConvertISODateToProviderDate(t *testing.T) {
	date, err := ConvertISODateToProviderDate("2024-03-07")
	assert.NoError(t, err)
	assert.Equal(t, "07/03/2024", date)

	_, err = ConvertISODateToProviderDate("07/03/2024")
	assert.Error(t, err, "provider format is not accepted as input")
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, ValidateDateRange("01/03/2024", "01/03/2024"))
	assert.NoError(t, ValidateDateRange("01/03/2024", "15/03/2024"))
	assert.Error(t, ValidateDateRange("16/03/2024", "15/03/2024"))
	assert.Error(t, ValidateDateRange("2024-03-01", "15/03/2024"))
}

func TestClampDuration(t *testing.T) {
	assert.Equal(t, time.Second, ClampDuration(0, time.Second, 10*time.Second))
	assert.Equal(t, 10*time.Second, ClampDuration(time.Minute, time.Second, 10*time.Second))
	assert.Equal(t, 5*time.Second, ClampDuration(5*time.Second, time.Second, 10*time.Second))
}
