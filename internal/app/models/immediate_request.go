package models

import "time"

const (
	ImmediateRequestStatusPending   = "pending"
	ImmediateRequestStatusScheduled = "scheduled"
	ImmediateRequestStatusCanceled  = "canceled"
)

type ImmediateRequest struct {
	ID                  string       `json:"id" bson:"_id"`
	NationalID          string       `json:"cpf" bson:"nationalId"`
	BeneficiaryUUID     string       `json:"beneficiaryUuid" bson:"beneficiaryUuid"`
	SpecialtyUUID       string       `json:"specialtyUuid" bson:"specialtyUuid"`
	ProviderRequestUUID string       `json:"providerRequestUuid" bson:"providerRequestUuid"`
	Status              string       `json:"status" bson:"status"`
	Appointment         *Appointment `json:"appointment,omitempty" bson:"appointment,omitempty"`
	ExpiresAt           time.Time    `json:"expiresAt" bson:"expiresAt"`
	TimeModel           `bson:",inline"`
}

func (r *ImmediateRequest) IsClosed() bool {
	return r.Status != ImmediateRequestStatusPending
}

// ProviderImmediateRequest is the medical network view of an immediate consultation request.
type ProviderImmediateRequest struct {
	UUID        string
	Status      string
	Appointment *Appointment
}
