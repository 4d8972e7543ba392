package models

type BillingCustomer struct {
	ID         string
	Name       string
	NationalID string
	Email      string
}

type BillingSubscription struct {
	ID                string
	CustomerID        string
	Value             float64
	Cycle             string
	BillingMethod     string
	NextDueDate       string
	Status            string
	ExternalReference string
}

type BillingPayment struct {
	ID             string
	SubscriptionID string
	Status         string
	Value          float64
	DueDate        string
}

// PaymentEvent is a billing webhook notification as queued for reconciliation.
type PaymentEvent struct {
	ID             string `json:"id"`
	Event          string `json:"event"`
	PaymentID      string `json:"paymentId,omitempty"`
	SubscriptionID string `json:"subscriptionId,omitempty"`
	PaymentStatus  string `json:"paymentStatus,omitempty"`
	FailedCount    int    `json:"failedCount"`
	ReceivedAt     int64  `json:"receivedAt"`
}
