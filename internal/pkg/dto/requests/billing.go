package requests

type BillingCustomer struct {
	Name              string `json:"name"`
	CpfCnpj           string `json:"cpfCnpj"`
	Email             string `json:"email"`
	MobilePhone       string `json:"mobilePhone,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	Address           string `json:"address,omitempty"`
	AddressNumber     string `json:"addressNumber,omitempty"`
	Complement        string `json:"complement,omitempty"`
	Province          string `json:"province,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
}

type BillingSubscription struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	NextDueDate       string  `json:"nextDueDate"`
	Cycle             string  `json:"cycle"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

// BillingWebhook is the notification posted by the billing provider.
type BillingWebhook struct {
	ID           string                      `json:"id"`
	Event        string                      `json:"event" validate:"required"`
	Payment      *BillingWebhookPayment      `json:"payment"`
	Subscription *BillingWebhookSubscription `json:"subscription"`
}

type BillingWebhookPayment struct {
	ID           string  `json:"id"`
	Subscription string  `json:"subscription"`
	Customer     string  `json:"customer"`
	Status       string  `json:"status"`
	Value        float64 `json:"value"`
}

type BillingWebhookSubscription struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}
