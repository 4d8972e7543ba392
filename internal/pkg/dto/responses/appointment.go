package responses

import (
	"telemed-service/internal/app/models"
	"time"
)

type Appointment struct {
	UUID             string    `json:"uuid"`
	SpecialtyUUID    string    `json:"specialtyUuid"`
	SpecialtyName    string    `json:"specialtyName,omitempty"`
	ProfessionalName string    `json:"professionalName,omitempty"`
	ReferralUUID     string    `json:"referralUuid,omitempty"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Status           string    `json:"status"`
	JoinLink         string    `json:"joinLink,omitempty"`
	Cancelable       bool      `json:"cancelable"`
	SelfPay          bool      `json:"selfPay,omitempty"`
}

type ImmediateRequest struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

type Referrals struct {
	Referrals []models.Referral `json:"referrals"`
	TimedOut  bool              `json:"timedOut"`
}
