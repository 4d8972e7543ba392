package models

const (
	SubscriberStatusDraft       = "draft"
	SubscriberStatusBilled      = "billed"
	SubscriberStatusProvisioned = "provisioned"
	SubscriberStatusActive      = "active"
	SubscriberStatusCanceled    = "canceled"
)

type Address struct {
	ZipCode    string `json:"cep" bson:"zipCode"`
	Street     string `json:"logradouro" bson:"street"`
	Number     string `json:"numero" bson:"number"`
	Complement string `json:"complemento,omitempty" bson:"complement,omitempty"`
	District   string `json:"bairro" bson:"district"`
	City       string `json:"cidade" bson:"city"`
	State      string `json:"estado" bson:"state"`
}

type Subscriber struct {
	ID                string  `json:"id" bson:"_id"`
	NationalID        string  `json:"cpf" bson:"nationalId"`
	Name              string  `json:"nome" bson:"name"`
	Email             string  `json:"email" bson:"email"`
	Phone             string  `json:"telefone" bson:"phone"`
	BirthDate         string  `json:"dataNascimento" bson:"birthDate"`
	Address           Address `json:"endereco" bson:"address"`
	Status            string  `json:"status" bson:"status"`
	BillingCustomerID string  `json:"billingCustomerId,omitempty" bson:"billingCustomerId,omitempty"`
	IdentityUserID    string  `json:"identityUserId,omitempty" bson:"identityUserId,omitempty"`
	BeneficiaryUUID   string  `json:"beneficiaryUuid,omitempty" bson:"beneficiaryUuid,omitempty"`
	TimeModel         `bson:",inline"`
}
