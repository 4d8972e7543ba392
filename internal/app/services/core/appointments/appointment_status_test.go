package appointments

import (
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferStatus(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		appointment models.Appointment
		want        string
	}{
		{
			name:        "Future consultation stays scheduled",
			appointment: models.Appointment{Status: constvars.AppointmentStatusScheduled, Start: now.Add(time.Hour), End: now.Add(90 * time.Minute)},
			want:        constvars.AppointmentStatusScheduled,
		},
		{
			name:        "Ended consultation is completed",
			appointment: models.Appointment{Status: constvars.AppointmentStatusScheduled, Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour)},
			want:        constvars.AppointmentStatusCompleted,
		},
		{
			name:        "In progress consultation is still scheduled",
			appointment: models.Appointment{Status: constvars.AppointmentStatusScheduled, Start: now.Add(-10 * time.Minute), End: now.Add(20 * time.Minute)},
			want:        constvars.AppointmentStatusScheduled,
		},
		{
			name:        "Start is used when the end is unknown",
			appointment: models.Appointment{Status: constvars.AppointmentStatusScheduled, Start: now.Add(-time.Minute)},
			want:        constvars.AppointmentStatusCompleted,
		},
		{
			name:        "Unfinished from yesterday is completed",
			appointment: models.Appointment{Status: constvars.AppointmentStatusUnfinished, Start: now.AddDate(0, 0, -1), End: now.AddDate(0, 0, -1).Add(30 * time.Minute)},
			want:        constvars.AppointmentStatusCompleted,
		},
		{
			name:        "Unfinished for tomorrow is scheduled",
			appointment: models.Appointment{Status: constvars.AppointmentStatusUnfinished, Start: now.AddDate(0, 0, 1), End: now.AddDate(0, 0, 1).Add(30 * time.Minute)},
			want:        constvars.AppointmentStatusScheduled,
		},
		{
			name:        "Cancelled is kept",
			appointment: models.Appointment{Status: constvars.AppointmentStatusCancelled, Start: now.Add(-2 * time.Hour)},
			want:        constvars.AppointmentStatusCancelled,
		},
		{
			name:        "Missed is kept",
			appointment: models.Appointment{Status: constvars.AppointmentStatusMissed, Start: now.Add(time.Hour)},
			want:        constvars.AppointmentStatusMissed,
		},
		{
			name:        "No times",
			appointment: models.Appointment{},
			want:        constvars.AppointmentStatusScheduled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferStatus(tt.appointment, now))
		})
	}
}

func TestCheckCancelable(t *testing.T) {
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	threshold := 24 * time.Hour

	t.Run("More than the threshold ahead", func(t *testing.T) {
		appointment := models.Appointment{Status: constvars.AppointmentStatusScheduled, Start: now.Add(threshold + time.Second)}
		assert.NoError(t, CheckCancelable(appointment, now, threshold))
	})

	t.Run("Exactly the threshold ahead is too late", func(t *testing.T) {
		appointment := models.Appointment{Status: constvars.AppointmentStatusScheduled, Start: now.Add(threshold)}
		err := CheckCancelable(appointment, now, threshold)
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindCompatibility))
	})

	t.Run("Terminal status", func(t *testing.T) {
		appointment := models.Appointment{Status: constvars.AppointmentStatusCancelled, Start: now.Add(72 * time.Hour)}
		assert.Error(t, CheckCancelable(appointment, now, threshold))
	})
}
