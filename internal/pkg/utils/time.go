package utils

import (
	"errors"
	"strings"
	"telemed-service/internal/pkg/constvars"
	"time"
)

var (
	ErrInvalidTimeWindow = errors.New("time window end must be after its start")
	ErrMissingTimeWindow = errors.New("either from and to or time and duration are required")
)

// ConvertISODateToProviderDate turns yyyy-MM-dd into dd/MM/yyyy.
func ConvertISODateToProviderDate(date string) (string, error) {
	parsed, err := time.Parse(constvars.DateFormatISO, strings.TrimSpace(date))
	if err != nil {
		return "", err
	}
	return parsed.Format(constvars.DateFormatProvider), nil
}

// DeriveTimeWindow resolves the consultation window. An explicit from/to pair
// wins; otherwise the end is computed from the start time and duration.
func DeriveTimeWindow(from, to, start string, durationMinutes int) (string, string, error) {
	if from != "" && to != "" {
		return orderedWindow(from, to)
	}
	if start == "" || durationMinutes <= 0 {
		return "", "", ErrMissingTimeWindow
	}

	startTime, err := time.Parse(constvars.TimeFormatHourMin, start)
	if err != nil {
		return "", "", err
	}
	endTime := startTime.Add(time.Duration(durationMinutes) * time.Minute)
	if endTime.Day() != startTime.Day() {
		return "", "", ErrInvalidTimeWindow
	}
	return startTime.Format(constvars.TimeFormatHourMin), endTime.Format(constvars.TimeFormatHourMin), nil
}

func orderedWindow(from, to string) (string, string, error) {
	fromTime, err := time.Parse(constvars.TimeFormatHourMin, from)
	if err != nil {
		return "", "", err
	}
	toTime, err := time.Parse(constvars.TimeFormatHourMin, to)
	if err != nil {
		return "", "", err
	}
	if !fromTime.Before(toTime) {
		return "", "", ErrInvalidTimeWindow
	}
	return from, to, nil
}

// ValidateDateRange checks two dd/MM/yyyy dates are in order.
func ValidateDateRange(dateInitial, dateFinal string) error {
	initial, err := time.Parse(constvars.DateFormatProvider, dateInitial)
	if err != nil {
		return err
	}
	final, err := time.Parse(constvars.DateFormatProvider, dateFinal)
	if err != nil {
		return err
	}
	if initial.After(final) {
		return errors.New("dateInitial is after dateFinal")
	}
	return nil
}

// ClampDuration bounds d to [min, max].
func ClampDuration(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}
