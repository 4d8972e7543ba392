package models

const (
	SubscriptionStatusActive   = "ATIVA"
	SubscriptionStatusCanceled = "CANCELADA"
	SubscriptionStatusPending  = "PENDENTE"
)

type Subscription struct {
	ID            string  `json:"id" bson:"_id"`
	NationalID    string  `json:"cpf" bson:"nationalId"`
	PlanID        string  `json:"planoId" bson:"planId"`
	Cycle         string  `json:"ciclo" bson:"cycle"`
	BillingMethod string  `json:"formaPagamento" bson:"billingMethod"`
	Value         float64 `json:"valor" bson:"value"`
	Status        string  `json:"status" bson:"status"`
	TimeModel     `bson:",inline"`
}

func (s *Subscription) IsOpen() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusPending
}
