package responses

import (
	"telemed-service/internal/app/models"
	"time"
)

// OnboardingResult is returned once every onboarding step has completed.
type OnboardingResult struct {
	SagaID       string               `json:"sagaId"`
	Subscriber   *models.Subscriber   `json:"usuario"`
	Subscription *models.Subscription `json:"assinatura"`
	Plan         *models.Plan         `json:"plano"`
	Beneficiary  *models.Beneficiary  `json:"beneficiario,omitempty"`
	Warnings     []models.Warning     `json:"avisos"`
}

type OnboardingAccepted struct {
	SagaID       string               `json:"sagaId"`
	State        string               `json:"state"`
	StatusToken  string               `json:"statusToken"`
	Subscription *models.Subscription `json:"assinatura"`
}

type OnboardingStatus struct {
	SagaID     string            `json:"sagaId"`
	NationalID string            `json:"cpf"`
	PlanID     string            `json:"planoId"`
	Mode       string            `json:"mode"`
	State      string            `json:"state"`
	Steps      []models.SagaStep `json:"steps"`
	Warnings   []models.Warning  `json:"avisos,omitempty"`
	LastError  *models.StepError `json:"lastError,omitempty"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
