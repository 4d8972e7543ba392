package appointments

import (
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"time"
)

// InferStatus returns the status shown to the subscriber. Scheduled or unfinished
// consultations whose end (or start, when the end is unknown) has passed are
// reported as completed. Cancelled and missed only come from the provider.
func InferStatus(appointment models.Appointment, now time.Time) string {
	switch appointment.Status {
	case constvars.AppointmentStatusCompleted,
		constvars.AppointmentStatusCancelled,
		constvars.AppointmentStatusMissed:
		return appointment.Status
	}

	reference := appointment.End
	if reference.IsZero() {
		reference = appointment.Start
	}
	if !reference.IsZero() && now.After(reference) {
		return constvars.AppointmentStatusCompleted
	}
	return constvars.AppointmentStatusScheduled
}

// CheckCancelable fails when the appointment is terminal or starts within threshold.
// Exactly threshold ahead is already too late.
func CheckCancelable(appointment models.Appointment, now time.Time, threshold time.Duration) error {
	status := InferStatus(appointment, now)
	if status != constvars.AppointmentStatusScheduled {
		return exceptions.ErrAppointmentNotCancelable(status)
	}
	remaining := appointment.Start.Sub(now)
	if remaining <= threshold {
		return exceptions.ErrCancellationWindowClosed(remaining, threshold)
	}
	return nil
}
