package contracts

import (
	"context"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/dto/requests"
)

type MedicalGateway interface {
	GetBeneficiaryByNationalID(ctx context.Context, nationalID string) (*models.Beneficiary, error)
	CreateBeneficiary(ctx context.Context, request *requests.MedicalBeneficiary) (*models.Beneficiary, error)
	UpdateBeneficiary(ctx context.Context, beneficiaryUUID string, request *requests.MedicalBeneficiaryUpdate) error
	GetMedicalPlan(ctx context.Context, medicalPlanUUID string) (*models.MedicalPlan, error)
	ListSpecialties(ctx context.Context) ([]models.Specialty, error)
	ListReferrals(ctx context.Context, beneficiaryUUID string) ([]models.Referral, error)
	GetAvailability(ctx context.Context, request *requests.MedicalAvailability) ([]models.AvailabilitySlot, error)
	CreateAppointment(ctx context.Context, request *requests.MedicalAppointment) (*models.Appointment, error)
	GetAppointment(ctx context.Context, appointmentUUID string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, beneficiaryUUID string) ([]models.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentUUID string) error
	CreateImmediateRequest(ctx context.Context, beneficiaryUUID string, request *requests.MedicalImmediateRequest) (*models.ProviderImmediateRequest, error)
	GetImmediateRequest(ctx context.Context, beneficiaryUUID, requestUUID string) (*models.ProviderImmediateRequest, error)
	CancelImmediateRequest(ctx context.Context, beneficiaryUUID, requestUUID string) error
}
