package requests

type CreatePlan struct {
	Name            string   `json:"nome" validate:"required"`
	Cycle           string   `json:"periodicidade" validate:"required,oneof=MONTHLY QUARTERLY SEMIANNUALLY YEARLY"`
	Price           float64  `json:"preco" validate:"required,gt=0"`
	Specialties     []string `json:"especialidades"`
	MedicalPlanUUID string   `json:"medicalPlanUuid" validate:"required"`
	PaymentType     string   `json:"paymentType" validate:"required,payment_type"`
}
