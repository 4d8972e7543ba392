package requests

type MedicalBeneficiary struct {
	Name        string               `json:"name"`
	Cpf         string               `json:"cpf"`
	BirthDate   string               `json:"birthday"`
	Phone       string               `json:"phone,omitempty"`
	Email       string               `json:"email,omitempty"`
	ZipCode     string               `json:"zipCode,omitempty"`
	Address     string               `json:"address,omitempty"`
	City        string               `json:"city,omitempty"`
	State       string               `json:"state,omitempty"`
	ServiceType string               `json:"serviceType,omitempty"`
	Plans       []MedicalPlanBinding `json:"plans,omitempty"`
}

type MedicalPlanBinding struct {
	Plan        MedicalPlanRef `json:"plan"`
	PaymentType string         `json:"paymentType"`
}

type MedicalPlanRef struct {
	UUID string `json:"uuid"`
}

// MedicalBeneficiaryUpdate only sends the fields that are set.
type MedicalBeneficiaryUpdate struct {
	ServiceType string               `json:"serviceType,omitempty"`
	Plans       []MedicalPlanBinding `json:"plans,omitempty"`
}

type MedicalAvailability struct {
	SpecialtyUUID   string
	DateInitial     string
	DateFinal       string
	BeneficiaryUUID string
}

type MedicalAppointment struct {
	BeneficiaryUUID          string `json:"beneficiaryUuid"`
	SpecialtyUUID            string `json:"specialtyUuid"`
	Date                     string `json:"date"`
	From                     string `json:"from"`
	To                       string `json:"to"`
	ReferralUUID             string `json:"beneficiaryMedicalReferralUuid,omitempty"`
	ApproveAdditionalPayment bool   `json:"approveAdditionalPayment"`
	Notes                    string `json:"notes,omitempty"`
}

type MedicalImmediateRequest struct {
	SpecialtyUUID string `json:"specialtyUuid,omitempty"`
}
