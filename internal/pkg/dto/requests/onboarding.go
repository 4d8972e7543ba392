package requests

type Address struct {
	ZipCode    string `json:"cep" validate:"required,len=8,numeric"`
	Street     string `json:"logradouro" validate:"required"`
	Number     string `json:"numero" validate:"required"`
	Complement string `json:"complemento"`
	District   string `json:"bairro" validate:"required"`
	City       string `json:"cidade" validate:"required"`
	State      string `json:"estado" validate:"required,len=2"`
}

// Onboarding is the body of both the admin and the self-signup onboarding endpoints.
type Onboarding struct {
	Name          string  `json:"nome" validate:"required"`
	NationalID    string  `json:"cpf" validate:"required,cpf"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"telefone" validate:"required,min=10,max=13,numeric"`
	BirthDate     string  `json:"dataNascimento" validate:"required,iso_date"`
	Address       Address `json:"endereco" validate:"required"`
	PlanID        string  `json:"planoId" validate:"required"`
	BillingMethod string  `json:"formaPagamento" validate:"required,oneof=BOLETO CREDIT_CARD PIX UNDEFINED"`
}
