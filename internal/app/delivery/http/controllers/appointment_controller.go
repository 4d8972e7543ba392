package controllers

import (
	"context"
	"net/http"
	"strings"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AppointmentController struct {
	Log                *zap.Logger
	InternalConfig     *config.InternalConfig
	AppointmentUsecase contracts.AppointmentUsecase
}

func NewAppointmentController(logger *zap.Logger, internalConfig *config.InternalConfig, appointmentUsecase contracts.AppointmentUsecase) *AppointmentController {
	return &AppointmentController{
		Log:                logger,
		InternalConfig:     internalConfig,
		AppointmentUsecase: appointmentUsecase,
	}
}

// callerNationalID returns the national id the request acts for. Session
// callers always act for their own subscriber. API key callers name one
// explicitly, or none at all.
func (ctrl *AppointmentController) callerNationalID(ctx context.Context, explicit string) (string, error) {
	if isAPIKeyCaller(ctx) {
		return utils.DigitsOnly(explicit), nil
	}
	uid := utils.GetUID(ctx)
	if uid == "" {
		return "", exceptions.ErrMissingUID(nil)
	}
	return ctrl.AppointmentUsecase.NationalIDForIdentityUser(ctx, uid)
}

func isAPIKeyCaller(ctx context.Context) bool {
	authenticated, ok := ctx.Value(constvars.CONTEXT_API_KEY_AUTH).(bool)
	return ok && authenticated
}

func (ctrl *AppointmentController) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("AppointmentController.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateAppointment)
	if err := decodeJSON(r, ctrl.InternalConfig, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	nationalID, err := ctrl.callerNationalID(ctx, request.NationalID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.NationalID = nationalID

	utils.SanitizeCreateAppointmentRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	appointment, err := ctrl.AppointmentUsecase.CreateAppointment(ctx, request)
	if err != nil {
		ctrl.Log.Error("AppointmentController.CreateAppointment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}

	ctrl.Log.Info("AppointmentController.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointment.UUID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.AppointmentCreatedSuccessMessage, appointment)
}

func (ctrl *AppointmentController) ListAppointments(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("AppointmentController.ListAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	nationalID, err := ctrl.requiredNationalID(ctx, r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	appointments, err := ctrl.AppointmentUsecase.ListAppointments(ctx, nationalID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}

	ctrl.Log.Info("AppointmentController.ListAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(appointments)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AppointmentListSuccessMessage, appointments)
}

func (ctrl *AppointmentController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	query := r.URL.Query()
	ctrl.Log.Info("AppointmentController.GetAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryKey, r.URL.RawQuery),
	)

	request := &requests.Availability{
		SpecialtyID: strings.TrimSpace(query.Get(constvars.URLQueryParamSpecialtyID)),
		DateInitial: strings.TrimSpace(query.Get(constvars.URLQueryParamDateInitial)),
		DateFinal:   strings.TrimSpace(query.Get(constvars.URLQueryParamDateFinal)),
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	nationalID, err := ctrl.requiredNationalID(ctx, r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	slots, err := ctrl.AppointmentUsecase.GetAvailability(ctx, nationalID, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AvailabilitySuccessMessage, slots)
}

func (ctrl *AppointmentController) ListReferrals(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("AppointmentController.ListReferrals called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	ctx, cancel := requestContextAtLeast(r, ctrl.InternalConfig, ctrl.InternalConfig.Medical.ReferralTimeout())
	defer cancel()

	nationalID, err := ctrl.requiredNationalID(ctx, r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	referrals, err := ctrl.AppointmentUsecase.ListReferrals(ctx, nationalID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ReferralListSuccessMessage, referrals)
}

func (ctrl *AppointmentController) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	appointmentUUID := chi.URLParam(r, constvars.URLParamAppointmentUUID)
	ctrl.Log.Info("AppointmentController.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointmentUUID),
	)

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	nationalID, err := ctrl.callerNationalID(ctx, r.URL.Query().Get(constvars.URLQueryParamNationalID))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.AppointmentUsecase.CancelAppointment(ctx, nationalID, appointmentUUID); err != nil {
		ctrl.Log.Error("AppointmentController.CancelAppointment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}

	ctrl.Log.Info("AppointmentController.CancelAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointmentUUID),
	)
	utils.BuildNoContentResponse(w)
}

func (ctrl *AppointmentController) CreateImmediateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("AppointmentController.CreateImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateImmediateRequest)
	if err := decodeJSON(r, ctrl.InternalConfig, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	nationalID, err := ctrl.callerNationalID(ctx, request.NationalID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.NationalID = nationalID
	request.SpecialtyID = strings.TrimSpace(request.SpecialtyID)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	immediate, err := ctrl.AppointmentUsecase.CreateImmediateRequest(ctx, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ImmediateRequestCreatedSuccessMessage, immediate)
}

func (ctrl *AppointmentController) GetImmediateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	immediateID := chi.URLParam(r, constvars.URLParamImmediateRequestID)
	ctrl.Log.Info("AppointmentController.GetImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingImmediateRequestKey, immediateID),
	)

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	nationalID, err := ctrl.callerNationalID(ctx, r.URL.Query().Get(constvars.URLQueryParamNationalID))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	immediate, err := ctrl.AppointmentUsecase.GetImmediateRequest(ctx, nationalID, immediateID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ImmediateRequestFetchedSuccessMessage, immediate)
}

func (ctrl *AppointmentController) CancelImmediateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	immediateID := chi.URLParam(r, constvars.URLParamImmediateRequestID)
	ctrl.Log.Info("AppointmentController.CancelImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingImmediateRequestKey, immediateID),
	)

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	nationalID, err := ctrl.callerNationalID(ctx, r.URL.Query().Get(constvars.URLQueryParamNationalID))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.AppointmentUsecase.CancelImmediateRequest(ctx, nationalID, immediateID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ImmediateRequestCanceledSuccessMessage, nil)
}

// requiredNationalID resolves the caller for listing routes, where an API key
// caller must name the subscriber with the cpf query parameter.
func (ctrl *AppointmentController) requiredNationalID(ctx context.Context, r *http.Request) (string, error) {
	nationalID, err := ctrl.callerNationalID(ctx, r.URL.Query().Get(constvars.URLQueryParamNationalID))
	if err != nil {
		return "", err
	}
	if nationalID == "" {
		return "", exceptions.ErrSubscriberNotFound(nil)
	}
	return nationalID, nil
}
