package models

type Beneficiary struct {
	UUID        string            `json:"uuid"`
	Name        string            `json:"nome"`
	NationalID  string            `json:"cpf"`
	BirthDate   string            `json:"dataNascimento"`
	Email       string            `json:"email"`
	Phone       string            `json:"telefone"`
	ServiceType string            `json:"serviceType"`
	IsActive    bool              `json:"ativo"`
	Plans       []BeneficiaryPlan `json:"planos"`
}

type BeneficiaryPlan struct {
	MedicalPlanUUID string `json:"uuid"`
	Name            string `json:"nome"`
	ServiceType     string `json:"serviceType"`
	PaymentType     string `json:"paymentType"`
}

func (b *Beneficiary) HasPlan(medicalPlanUUID string) bool {
	for _, plan := range b.Plans {
		if plan.MedicalPlanUUID == medicalPlanUUID {
			return true
		}
	}
	return false
}

type MedicalPlan struct {
	UUID        string
	Name        string
	ServiceType string
	PaymentType string
}

type Specialty struct {
	UUID string `json:"uuid"`
	Name string `json:"nome"`
}
