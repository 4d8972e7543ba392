package models

import (
	"telemed-service/internal/pkg/constvars"
	"time"
)

type Appointment struct {
	UUID             string    `json:"uuid" bson:"uuid"`
	BeneficiaryUUID  string    `json:"beneficiaryUuid" bson:"beneficiaryUuid"`
	SpecialtyUUID    string    `json:"specialtyUuid" bson:"specialtyUuid"`
	SpecialtyName    string    `json:"specialtyName,omitempty" bson:"specialtyName,omitempty"`
	ReferralUUID     string    `json:"referralUuid,omitempty" bson:"referralUuid,omitempty"`
	ProfessionalName string    `json:"professionalName,omitempty" bson:"professionalName,omitempty"`
	Start            time.Time `json:"start" bson:"start"`
	End              time.Time `json:"end" bson:"end"`
	Status           string    `json:"status" bson:"status"`
	JoinLink         string    `json:"joinLink,omitempty" bson:"joinLink,omitempty"`
	Notes            string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case constvars.AppointmentStatusCompleted,
		constvars.AppointmentStatusCancelled,
		constvars.AppointmentStatusMissed:
		return true
	}
	return false
}

type AvailabilitySlot struct {
	UUID             string `json:"uuid"`
	SpecialtyUUID    string `json:"specialtyUuid"`
	Date             string `json:"date"`
	From             string `json:"from"`
	To               string `json:"to"`
	ProfessionalName string `json:"professionalName,omitempty"`
}
