package plans

import (
	"context"
	"fmt"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/app/services/core/referrals"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type planUsecase struct {
	PlanRepository   contracts.PlanRepository
	MedicalGateway   contracts.MedicalGateway
	ReferralResolver contracts.ReferralResolver
	Log              *zap.Logger
}

func NewPlanUsecase(
	planRepository contracts.PlanRepository,
	medicalGateway contracts.MedicalGateway,
	referralResolver contracts.ReferralResolver,
	logger *zap.Logger,
) contracts.PlanUsecase {
	return &planUsecase{
		PlanRepository:   planRepository,
		MedicalGateway:   medicalGateway,
		ReferralResolver: referralResolver,
		Log:              logger,
	}
}

// CreatePlan stores a plan after checking its payment type against the medical plan
// it maps to and that every listed specialty exists on the network.
func (uc *planUsecase) CreatePlan(ctx context.Context, request *requests.CreatePlan) (*models.Plan, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("planUsecase.CreatePlan called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPlanIDKey, request.MedicalPlanUUID),
	)

	medicalPlan, err := uc.MedicalGateway.GetMedicalPlan(ctx, request.MedicalPlanUUID)
	if err != nil {
		uc.Log.Error("planUsecase.CreatePlan error fetching medical plan",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return nil, exceptions.ErrPlanNotFound(err)
		}
		return nil, err
	}

	if !referrals.IsPaymentTypeCompatible(request.PaymentType, medicalPlan.PaymentType) {
		uc.Log.Info("planUsecase.CreatePlan payment type incompatible",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("payment_type", request.PaymentType),
			zap.String("medical_payment_type", medicalPlan.PaymentType),
		)
		return nil, exceptions.ErrPaymentTypeIncompatible(request.PaymentType, medicalPlan.PaymentType)
	}

	for _, specialtyID := range request.Specialties {
		if _, err := uc.ReferralResolver.ResolveSpecialty(ctx, specialtyID); err != nil {
			return nil, err
		}
	}

	plan := &models.Plan{
		ID:              utils.GenerateID(),
		Name:            request.Name,
		Cycle:           request.Cycle,
		Price:           request.Price,
		Specialties:     request.Specialties,
		MedicalPlanUUID: medicalPlan.UUID,
		PaymentType:     request.PaymentType,
		ServiceType:     medicalPlan.ServiceType,
	}
	plan.SetCreatedAtUpdatedAt()

	if err := uc.PlanRepository.Create(ctx, plan); err != nil {
		uc.Log.Error("planUsecase.CreatePlan error storing plan",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("planUsecase.CreatePlan succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPlanIDKey, plan.ID),
	)
	return plan, nil
}

func (uc *planUsecase) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	plan, err := uc.PlanRepository.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, exceptions.ErrPlanNotFound(fmt.Errorf("plan %s", planID))
	}
	return plan, nil
}
