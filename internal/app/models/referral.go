package models

import (
	"telemed-service/internal/pkg/constvars"
	"time"
)

type Referral struct {
	UUID            string    `json:"uuid"`
	SpecialtyUUID   string    `json:"specialtyUuid"`
	SpecialtyName   string    `json:"specialtyName"`
	Status          string    `json:"status"`
	AppointmentUUID string    `json:"appointmentUuid,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	ExpiresAt       time.Time `json:"expiresAt,omitempty"`
}

func (r *Referral) IsTerminal() bool {
	switch r.Status {
	case constvars.ReferralStatusUsed,
		constvars.ReferralStatusExpired,
		constvars.ReferralStatusCancelled,
		constvars.ReferralStatusNonSchedulable:
		return true
	}
	return false
}

// IsBookable reports whether the referral can still authorize a booking.
func (r *Referral) IsBookable() bool {
	return !r.IsTerminal() && r.AppointmentUUID == ""
}
