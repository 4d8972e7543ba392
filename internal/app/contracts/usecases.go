package contracts

import (
	"context"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/dto/responses"
)

// ReferralResolution is the outcome of matching a specialty against a beneficiary's referrals.
type ReferralResolution struct {
	Specialty    models.Specialty
	ReferralUUID string
	SelfPay      bool
}

type ReferralResolver interface {
	ResolveSpecialty(ctx context.Context, specialtyID string) (*models.Specialty, error)
	Resolve(ctx context.Context, beneficiaryUUID, specialtyID string) (*ReferralResolution, error)
	ListReferrals(ctx context.Context, beneficiaryUUID string) (*responses.Referrals, error)
}

// ProvisionResult carries the beneficiary and any non fatal repair warnings.
type ProvisionResult struct {
	Beneficiary *models.Beneficiary
	Warnings    []models.Warning
}

type BeneficiaryProvisioner interface {
	Provision(ctx context.Context, subscriber *models.Subscriber, plan *models.Plan) (*ProvisionResult, error)
}

type PlanUsecase interface {
	CreatePlan(ctx context.Context, request *requests.CreatePlan) (*models.Plan, error)
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)
}

type OnboardingUsecase interface {
	OnboardImmediate(ctx context.Context, request *requests.Onboarding) (*responses.OnboardingResult, error)
	StartSelfSignup(ctx context.Context, request *requests.Onboarding) (*responses.OnboardingAccepted, error)
	Resume(ctx context.Context, nationalID string) (*responses.OnboardingResult, error)
	GetStatus(ctx context.Context, nationalID string) (*responses.OnboardingStatus, error)
	GetStatusByToken(ctx context.Context, token string) (*responses.OnboardingStatus, error)
	CompletePaidSaga(ctx context.Context, sagaID string) error
	ExpireSaga(ctx context.Context, sagaID string) error
}

type AppointmentUsecase interface {
	// NationalIDForIdentityUser maps a session user to the subscriber it was provisioned for.
	NationalIDForIdentityUser(ctx context.Context, identityUserID string) (string, error)
	CreateAppointment(ctx context.Context, request *requests.CreateAppointment) (*responses.Appointment, error)
	ListAppointments(ctx context.Context, nationalID string) ([]responses.Appointment, error)
	GetAvailability(ctx context.Context, nationalID string, request *requests.Availability) ([]models.AvailabilitySlot, error)
	ListReferrals(ctx context.Context, nationalID string) (*responses.Referrals, error)
	CancelAppointment(ctx context.Context, nationalID, appointmentUUID string) error
	CreateImmediateRequest(ctx context.Context, request *requests.CreateImmediateRequest) (*responses.ImmediateRequest, error)
	GetImmediateRequest(ctx context.Context, nationalID, requestID string) (*responses.ImmediateRequest, error)
	CancelImmediateRequest(ctx context.Context, nationalID, requestID string) error
}

type PaymentUsecase interface {
	HandleBillingWebhook(ctx context.Context, token string, request *requests.BillingWebhook) error
	ProcessEvent(ctx context.Context, event models.PaymentEvent) error
	ReconcileAwaitingSagas(ctx context.Context) error
}
