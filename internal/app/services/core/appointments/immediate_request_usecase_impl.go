package appointments

import (
	"context"
	"fmt"
	"strings"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/dto/responses"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

func (uc *appointmentUsecase) CreateImmediateRequest(ctx context.Context, request *requests.CreateImmediateRequest) (*responses.ImmediateRequest, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CreateImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, request.NationalID),
	)

	specialtyID := uc.specialtyOrDefault(request.SpecialtyID)
	if specialtyID != "" {
		if _, err := uc.ReferralResolver.ResolveSpecialty(ctx, specialtyID); err != nil {
			return nil, withSubmittedBody(err, request)
		}
	}

	beneficiaryUUID, err := uc.beneficiaryUUID(ctx, request.NationalID)
	if err != nil {
		return nil, err
	}

	providerRequest, err := uc.MedicalGateway.CreateImmediateRequest(ctx, beneficiaryUUID, &requests.MedicalImmediateRequest{
		SpecialtyUUID: specialtyID,
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateImmediateRequest error creating provider request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	now := uc.now()
	record := &models.ImmediateRequest{
		ID:                  utils.GenerateID(),
		NationalID:          request.NationalID,
		BeneficiaryUUID:     beneficiaryUUID,
		SpecialtyUUID:       specialtyID,
		ProviderRequestUUID: providerRequest.UUID,
		Status:              models.ImmediateRequestStatusPending,
		ExpiresAt:           now.Add(uc.immediateRequestTTL()),
	}
	record.SetCreatedAtUpdatedAt()
	applyProviderState(record, providerRequest)

	if err := uc.ImmediateRequestRepository.Create(ctx, record); err != nil {
		uc.Log.Error("appointmentUsecase.CreateImmediateRequest error storing request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.CreateImmediateRequest succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingImmediateRequestKey, record.ID),
	)
	return uc.toImmediateResponse(record), nil
}

// GetImmediateRequest refreshes a pending request from the provider. A matched
// appointment schedules it; a request still pending past its TTL is canceled.
func (uc *appointmentUsecase) GetImmediateRequest(ctx context.Context, nationalID, requestID string) (*responses.ImmediateRequest, error) {
	logRequestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.GetImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, logRequestID),
		zap.String(constvars.LoggingImmediateRequestKey, requestID),
	)

	record, err := uc.findImmediateRequest(ctx, nationalID, requestID)
	if err != nil {
		return nil, err
	}
	if record.IsClosed() {
		return uc.toImmediateResponse(record), nil
	}

	providerRequest, err := uc.MedicalGateway.GetImmediateRequest(ctx, record.BeneficiaryUUID, record.ProviderRequestUUID)
	if err != nil && !exceptions.IsKind(err, constvars.ErrorKindNotFound) {
		uc.Log.Error("appointmentUsecase.GetImmediateRequest error refreshing from provider",
			zap.String(constvars.LoggingRequestIDKey, logRequestID),
			zap.Error(err),
		)
		return nil, err
	}
	if providerRequest == nil {
		record.Status = models.ImmediateRequestStatusCanceled
	} else {
		applyProviderState(record, providerRequest)
	}

	if !record.IsClosed() && uc.now().After(record.ExpiresAt) {
		uc.Log.Info("appointmentUsecase.GetImmediateRequest request expired",
			zap.String(constvars.LoggingRequestIDKey, logRequestID),
			zap.String(constvars.LoggingImmediateRequestKey, record.ID),
		)
		if err := uc.MedicalGateway.CancelImmediateRequest(ctx, record.BeneficiaryUUID, record.ProviderRequestUUID); err != nil {
			uc.Log.Warn("appointmentUsecase.GetImmediateRequest error canceling expired request",
				zap.String(constvars.LoggingRequestIDKey, logRequestID),
				zap.Error(err),
			)
		}
		record.Status = models.ImmediateRequestStatusCanceled
	}

	if err := uc.ImmediateRequestRepository.Update(ctx, record); err != nil {
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.GetImmediateRequest succeeded",
		zap.String(constvars.LoggingRequestIDKey, logRequestID),
		zap.String(constvars.LoggingImmediateRequestKey, record.ID),
		zap.String("status", record.Status),
	)
	return uc.toImmediateResponse(record), nil
}

func (uc *appointmentUsecase) CancelImmediateRequest(ctx context.Context, nationalID, requestID string) error {
	logRequestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CancelImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, logRequestID),
		zap.String(constvars.LoggingImmediateRequestKey, requestID),
	)

	record, err := uc.findImmediateRequest(ctx, nationalID, requestID)
	if err != nil {
		return err
	}
	switch record.Status {
	case models.ImmediateRequestStatusCanceled:
		return nil
	case models.ImmediateRequestStatusScheduled:
		return exceptions.ErrImmediateRequestClosed(record.Status)
	}

	if err := uc.MedicalGateway.CancelImmediateRequest(ctx, record.BeneficiaryUUID, record.ProviderRequestUUID); err != nil {
		uc.Log.Error("appointmentUsecase.CancelImmediateRequest error canceling at provider",
			zap.String(constvars.LoggingRequestIDKey, logRequestID),
			zap.Error(err),
		)
		return err
	}

	record.Status = models.ImmediateRequestStatusCanceled
	if err := uc.ImmediateRequestRepository.Update(ctx, record); err != nil {
		return err
	}

	uc.Log.Info("appointmentUsecase.CancelImmediateRequest succeeded",
		zap.String(constvars.LoggingRequestIDKey, logRequestID),
		zap.String(constvars.LoggingImmediateRequestKey, record.ID),
	)
	return nil
}

func (uc *appointmentUsecase) findImmediateRequest(ctx context.Context, nationalID, requestID string) (*models.ImmediateRequest, error) {
	record, err := uc.ImmediateRequestRepository.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if record == nil || (nationalID != "" && record.NationalID != nationalID) {
		return nil, exceptions.ErrImmediateRequestNotFound(fmt.Errorf("immediate request %s", requestID))
	}
	return record, nil
}

func (uc *appointmentUsecase) immediateRequestTTL() time.Duration {
	return time.Duration(uc.InternalConfig.Appointment.ImmediateRequestTTLInMinutes) * time.Minute
}

func (uc *appointmentUsecase) toImmediateResponse(record *models.ImmediateRequest) *responses.ImmediateRequest {
	response := &responses.ImmediateRequest{
		ID:        record.ID,
		Status:    record.Status,
		ExpiresAt: record.ExpiresAt,
	}
	if record.Appointment != nil {
		appointment := uc.toResponse(*record.Appointment)
		response.Appointment = &appointment
	}
	return response
}

func applyProviderState(record *models.ImmediateRequest, providerRequest *models.ProviderImmediateRequest) {
	if providerRequest.Appointment != nil {
		record.Appointment = providerRequest.Appointment
		record.Status = models.ImmediateRequestStatusScheduled
		return
	}
	switch strings.ToUpper(providerRequest.Status) {
	case "CANCELED", constvars.AppointmentStatusCancelled:
		record.Status = models.ImmediateRequestStatusCanceled
	}
}
