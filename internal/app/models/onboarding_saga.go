package models

import "time"

const (
	SagaModeImmediate    = "immediate"
	SagaModeAwaitPayment = "await_payment"
)

const (
	SagaStateRunning         = "running"
	SagaStateAwaitingPayment = "awaiting_payment"
	SagaStateCompleted       = "completed"
	SagaStateFailed          = "failed"
	SagaStatePaymentExpired  = "payment_expired"
)

const (
	SagaStepBillingCustomer     = "billing_customer"
	SagaStepBillingSubscription = "billing_subscription"
	SagaStepLocalRecords        = "local_records"
	SagaStepIdentityAccount     = "identity_account"
	SagaStepMedicalBeneficiary  = "medical_beneficiary"
)

const (
	SagaStepStatusPending   = "pending"
	SagaStepStatusCompleted = "completed"
	SagaStepStatusFailed    = "failed"
)

// SagaStepOrder lists the onboarding steps in execution order.
var SagaStepOrder = []string{
	SagaStepBillingCustomer,
	SagaStepBillingSubscription,
	SagaStepLocalRecords,
	SagaStepIdentityAccount,
	SagaStepMedicalBeneficiary,
}

type Warning struct {
	Code    string `json:"code" bson:"code"`
	Message string `json:"message" bson:"message"`
}

type StepError struct {
	Kind       string `json:"kind,omitempty" bson:"kind,omitempty"`
	Provider   string `json:"provider,omitempty" bson:"provider,omitempty"`
	StatusCode int    `json:"statusCode,omitempty" bson:"statusCode,omitempty"`
	Body       string `json:"body,omitempty" bson:"body,omitempty"`
	Message    string `json:"message" bson:"message"`
}

type SagaStep struct {
	Name        string     `json:"name" bson:"name"`
	Status      string     `json:"status" bson:"status"`
	Attempts    int        `json:"attempts" bson:"attempts"`
	LastError   *StepError `json:"lastError,omitempty" bson:"lastError,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

type OnboardingSaga struct {
	ID                    string       `json:"id" bson:"_id"`
	NationalID            string       `json:"cpf" bson:"nationalId"`
	PlanID                string       `json:"planoId" bson:"planId"`
	Mode                  string       `json:"mode" bson:"mode"`
	State                 string       `json:"state" bson:"state"`
	Steps                 []SagaStep   `json:"steps" bson:"steps"`
	Subscriber            Subscriber   `json:"subscriber" bson:"subscriber"`
	BillingMethod         string       `json:"billingMethod" bson:"billingMethod"`
	BillingCustomerID     string       `json:"billingCustomerId,omitempty" bson:"billingCustomerId,omitempty"`
	BillingSubscriptionID string       `json:"billingSubscriptionId,omitempty" bson:"billingSubscriptionId,omitempty"`
	IdentityUserID        string       `json:"identityUserId,omitempty" bson:"identityUserId,omitempty"`
	BeneficiaryUUID       string       `json:"beneficiaryUuid,omitempty" bson:"beneficiaryUuid,omitempty"`
	Beneficiary           *Beneficiary `json:"beneficiario,omitempty" bson:"beneficiary,omitempty"`
	Warnings              []Warning    `json:"warnings,omitempty" bson:"warnings,omitempty"`
	LastError             *StepError   `json:"lastError,omitempty" bson:"lastError,omitempty"`
	PaidAt                *time.Time   `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	TimeModel             `bson:",inline"`
}

// NewOnboardingSaga builds a saga with every step pending.
func NewOnboardingSaga(id, mode string, subscriber Subscriber, planID, billingMethod string) *OnboardingSaga {
	steps := make([]SagaStep, 0, len(SagaStepOrder))
	for _, name := range SagaStepOrder {
		steps = append(steps, SagaStep{Name: name, Status: SagaStepStatusPending})
	}
	saga := &OnboardingSaga{
		ID:            id,
		NationalID:    subscriber.NationalID,
		PlanID:        planID,
		Mode:          mode,
		State:         SagaStateRunning,
		Steps:         steps,
		Subscriber:    subscriber,
		BillingMethod: billingMethod,
	}
	saga.SetCreatedAtUpdatedAt()
	return saga
}

func (s *OnboardingSaga) Step(name string) *SagaStep {
	for i := range s.Steps {
		if s.Steps[i].Name == name {
			return &s.Steps[i]
		}
	}
	s.Steps = append(s.Steps, SagaStep{Name: name, Status: SagaStepStatusPending})
	return &s.Steps[len(s.Steps)-1]
}

func (s *OnboardingSaga) IsStepCompleted(name string) bool {
	return s.Step(name).Status == SagaStepStatusCompleted
}

func (s *OnboardingSaga) CompleteStep(name string, at time.Time) {
	step := s.Step(name)
	step.Attempts++
	step.Status = SagaStepStatusCompleted
	step.LastError = nil
	step.CompletedAt = &at
}

func (s *OnboardingSaga) FailStep(name string, stepErr *StepError) {
	step := s.Step(name)
	step.Attempts++
	step.Status = SagaStepStatusFailed
	step.LastError = stepErr
	s.LastError = stepErr
	s.State = SagaStateFailed
}

// FirstPendingStep returns the first step not yet completed, or "" when all are.
func (s *OnboardingSaga) FirstPendingStep() string {
	for _, name := range SagaStepOrder {
		if !s.IsStepCompleted(name) {
			return name
		}
	}
	return ""
}

// Restart reopens an expired saga for a new attempt. The billing customer is
// reused; the canceled subscription and every later step start over.
func (s *OnboardingSaga) Restart(mode string, subscriber Subscriber, billingMethod string) {
	for i := range s.Steps {
		step := &s.Steps[i]
		if step.Name == SagaStepBillingCustomer && s.BillingCustomerID != "" {
			continue
		}
		step.Status = SagaStepStatusPending
		step.LastError = nil
		step.CompletedAt = nil
	}

	subscriber.BillingCustomerID = s.BillingCustomerID
	s.Subscriber = subscriber
	s.Mode = mode
	s.State = SagaStateRunning
	s.BillingMethod = billingMethod
	s.BillingSubscriptionID = ""
	s.IdentityUserID = ""
	s.BeneficiaryUUID = ""
	s.Beneficiary = nil
	s.Warnings = nil
	s.LastError = nil
	s.PaidAt = nil
	s.SetUpdatedAt()
}

func (s *OnboardingSaga) IsFinal() bool {
	return s.State == SagaStateCompleted || s.State == SagaStatePaymentExpired
}
