package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/dto/responses"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type appointmentUsecase struct {
	SubscriberRepository       contracts.SubscriberRepository
	SubscriptionRepository     contracts.SubscriptionRepository
	PlanRepository             contracts.PlanRepository
	ImmediateRequestRepository contracts.ImmediateRequestRepository
	MedicalGateway             contracts.MedicalGateway
	ReferralResolver           contracts.ReferralResolver
	InternalConfig             *config.InternalConfig
	Log                        *zap.Logger
	now                        func() time.Time
}

func NewAppointmentUsecase(
	subscriberRepository contracts.SubscriberRepository,
	subscriptionRepository contracts.SubscriptionRepository,
	planRepository contracts.PlanRepository,
	immediateRequestRepository contracts.ImmediateRequestRepository,
	medicalGateway contracts.MedicalGateway,
	referralResolver contracts.ReferralResolver,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	return &appointmentUsecase{
		SubscriberRepository:       subscriberRepository,
		SubscriptionRepository:     subscriptionRepository,
		PlanRepository:             planRepository,
		ImmediateRequestRepository: immediateRequestRepository,
		MedicalGateway:             medicalGateway,
		ReferralResolver:           referralResolver,
		InternalConfig:             internalConfig,
		Log:                        logger,
		now:                        time.Now,
	}
}

func (uc *appointmentUsecase) NationalIDForIdentityUser(ctx context.Context, identityUserID string) (string, error) {
	subscriber, err := uc.SubscriberRepository.FindByIdentityUserID(ctx, identityUserID)
	if err != nil {
		return "", err
	}
	if subscriber == nil {
		return "", exceptions.ErrSubscriberNotFound(fmt.Errorf("no subscriber for identity user %s", identityUserID))
	}
	return subscriber.NationalID, nil
}

// CreateAppointment books a consultation, authorizing it with a referral or as
// an additional payment for referral exempt specialties.
func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, request *requests.CreateAppointment) (*responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, request.NationalID),
		zap.String(constvars.LoggingSpecialtyIDKey, request.SpecialtyID),
	)

	from, to, err := utils.DeriveTimeWindow(request.From, request.To, request.Time, request.DurationMinutes)
	if err != nil {
		return nil, exceptions.ErrInvalidTimeWindow(err)
	}
	date, err := utils.ConvertISODateToProviderDate(request.Date)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}

	specialtyID := uc.specialtyOrDefault(request.SpecialtyID)
	beneficiaryUUID, err := uc.beneficiaryUUID(ctx, request.NationalID)
	if err != nil {
		return nil, err
	}

	resolution, err := uc.ReferralResolver.Resolve(ctx, beneficiaryUUID, specialtyID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error resolving referral",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSpecialtyIDKey, specialtyID),
			zap.Error(err),
		)
		return nil, withSubmittedBody(err, request)
	}

	if !resolution.SelfPay {
		if err := uc.checkPlanCoverage(ctx, request.NationalID, specialtyID); err != nil {
			return nil, err
		}
	}

	appointment, err := uc.MedicalGateway.CreateAppointment(ctx, &requests.MedicalAppointment{
		BeneficiaryUUID:          beneficiaryUUID,
		SpecialtyUUID:            specialtyID,
		Date:                     date,
		From:                     from,
		To:                       to,
		ReferralUUID:             resolution.ReferralUUID,
		ApproveAdditionalPayment: resolution.SelfPay,
		Notes:                    request.Notes,
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error booking appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiaryUUID),
			zap.Error(err),
		)
		return nil, err
	}
	if appointment.SpecialtyName == "" {
		appointment.SpecialtyName = resolution.Specialty.Name
	}
	if appointment.ReferralUUID == "" {
		appointment.ReferralUUID = resolution.ReferralUUID
	}

	response := uc.toResponse(*appointment)
	response.SelfPay = resolution.SelfPay

	uc.Log.Info("appointmentUsecase.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointment.UUID),
		zap.String(constvars.LoggingReferralUUIDKey, resolution.ReferralUUID),
		zap.Bool("self_pay", resolution.SelfPay),
	)
	return &response, nil
}

func (uc *appointmentUsecase) ListAppointments(ctx context.Context, nationalID string) ([]responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.ListAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, nationalID),
	)

	beneficiaryUUID, err := uc.beneficiaryUUID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.MedicalGateway.ListAppointments(ctx, beneficiaryUUID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.ListAppointments error fetching appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	result := make([]responses.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, uc.toResponse(appointment))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	uc.Log.Info("appointmentUsecase.ListAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingAppointmentCountKey, len(result)),
	)
	return result, nil
}

func (uc *appointmentUsecase) GetAvailability(ctx context.Context, nationalID string, request *requests.Availability) ([]models.AvailabilitySlot, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.GetAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, nationalID),
		zap.String(constvars.LoggingSpecialtyIDKey, request.SpecialtyID),
	)

	if err := uc.checkDateRange(request.DateInitial, request.DateFinal); err != nil {
		return nil, err
	}

	specialty, err := uc.ReferralResolver.ResolveSpecialty(ctx, uc.specialtyOrDefault(request.SpecialtyID))
	if err != nil {
		return nil, withSubmittedBody(err, request)
	}

	beneficiaryUUID, err := uc.beneficiaryUUID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	slots, err := uc.MedicalGateway.GetAvailability(ctx, &requests.MedicalAvailability{
		SpecialtyUUID:   specialty.UUID,
		DateInitial:     request.DateInitial,
		DateFinal:       request.DateFinal,
		BeneficiaryUUID: beneficiaryUUID,
	})
	if err != nil {
		uc.Log.Error("appointmentUsecase.GetAvailability error fetching availability",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("appointmentUsecase.GetAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("slot_count", len(slots)),
	)
	return slots, nil
}

func (uc *appointmentUsecase) ListReferrals(ctx context.Context, nationalID string) (*responses.Referrals, error) {
	beneficiaryUUID, err := uc.beneficiaryUUID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	return uc.ReferralResolver.ListReferrals(ctx, beneficiaryUUID)
}

// CancelAppointment cancels at the provider when the consultation is still more
// than the configured threshold ahead. An empty nationalID skips the ownership check.
func (uc *appointmentUsecase) CancelAppointment(ctx context.Context, nationalID, appointmentUUID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("appointmentUsecase.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointmentUUID),
	)

	appointment, err := uc.MedicalGateway.GetAppointment(ctx, appointmentUUID)
	if err != nil {
		return err
	}

	if nationalID != "" {
		beneficiaryUUID, err := uc.beneficiaryUUID(ctx, nationalID)
		if err != nil {
			return err
		}
		if appointment.BeneficiaryUUID != "" && appointment.BeneficiaryUUID != beneficiaryUUID {
			return exceptions.ErrAppointmentNotFound(fmt.Errorf("appointment %s belongs to another beneficiary", appointmentUUID))
		}
	}

	if err := CheckCancelable(*appointment, uc.now(), uc.cancellationThreshold()); err != nil {
		uc.Log.Info("appointmentUsecase.CancelAppointment refused",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentUUIDKey, appointmentUUID),
			zap.Error(err),
		)
		return err
	}

	if err := uc.MedicalGateway.CancelAppointment(ctx, appointmentUUID); err != nil {
		uc.Log.Error("appointmentUsecase.CancelAppointment error canceling at provider",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("appointmentUsecase.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointmentUUID),
	)
	return nil
}

// beneficiaryUUID prefers the uuid stored on the subscriber and falls back to a
// lookup on the medical network.
func (uc *appointmentUsecase) beneficiaryUUID(ctx context.Context, nationalID string) (string, error) {
	subscriber, err := uc.SubscriberRepository.FindByNationalID(ctx, nationalID)
	if err != nil {
		return "", err
	}
	if subscriber != nil && subscriber.BeneficiaryUUID != "" {
		return subscriber.BeneficiaryUUID, nil
	}

	beneficiary, err := uc.MedicalGateway.GetBeneficiaryByNationalID(ctx, nationalID)
	if err != nil {
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return "", exceptions.ErrBeneficiaryNotFound(err)
		}
		return "", err
	}
	return beneficiary.UUID, nil
}

func (uc *appointmentUsecase) checkPlanCoverage(ctx context.Context, nationalID, specialtyID string) error {
	subscription, err := uc.SubscriptionRepository.FindOpenByNationalID(ctx, nationalID)
	if err != nil || subscription == nil {
		return err
	}
	plan, err := uc.PlanRepository.FindByID(ctx, subscription.PlanID)
	if err != nil || plan == nil {
		return err
	}
	if !plan.CoversSpecialty(specialtyID) {
		return exceptions.ErrSpecialtyNotInPlan(specialtyID)
	}
	return nil
}

func (uc *appointmentUsecase) checkDateRange(dateInitial, dateFinal string) error {
	if err := utils.ValidateDateRange(dateInitial, dateFinal); err != nil {
		return exceptions.ErrInvalidDateRange(err)
	}
	initial, _ := time.Parse(constvars.DateFormatProvider, dateInitial)
	final, _ := time.Parse(constvars.DateFormatProvider, dateFinal)
	maxRange := time.Duration(uc.InternalConfig.Appointment.AvailabilityMaxRangeInDays) * 24 * time.Hour
	if maxRange > 0 && final.Sub(initial) > maxRange {
		return exceptions.ErrInvalidDateRange(fmt.Errorf("range exceeds %d days", uc.InternalConfig.Appointment.AvailabilityMaxRangeInDays))
	}
	return nil
}

func (uc *appointmentUsecase) specialtyOrDefault(specialtyID string) string {
	if specialtyID == "" {
		return uc.InternalConfig.Medical.DefaultSpecialtyUUID
	}
	return specialtyID
}

func (uc *appointmentUsecase) cancellationThreshold() time.Duration {
	return time.Duration(uc.InternalConfig.Appointment.CancellationThresholdInHours) * time.Hour
}

func (uc *appointmentUsecase) toResponse(appointment models.Appointment) responses.Appointment {
	now := uc.now()
	return responses.Appointment{
		UUID:             appointment.UUID,
		SpecialtyUUID:    appointment.SpecialtyUUID,
		SpecialtyName:    appointment.SpecialtyName,
		ProfessionalName: appointment.ProfessionalName,
		ReferralUUID:     appointment.ReferralUUID,
		Start:            appointment.Start,
		End:              appointment.End,
		Status:           InferStatus(appointment, now),
		JoinLink:         appointment.JoinLink,
		Cancelable:       CheckCancelable(appointment, now, uc.cancellationThreshold()) == nil,
	}
}

// withSubmittedBody attaches the caller's payload to compatibility failures so
// unknown specialties can be diagnosed from the response.
func withSubmittedBody(err error, body interface{}) error {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) && customErr.Kind == constvars.ErrorKindCompatibility {
		return customErr.WithDetails(map[string]interface{}{exceptions.DetailSubmittedBody: body})
	}
	return err
}
