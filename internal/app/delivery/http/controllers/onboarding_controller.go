package controllers

import (
	"net/http"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OnboardingController struct {
	Log               *zap.Logger
	InternalConfig    *config.InternalConfig
	OnboardingUsecase contracts.OnboardingUsecase
}

func NewOnboardingController(logger *zap.Logger, internalConfig *config.InternalConfig, onboardingUsecase contracts.OnboardingUsecase) *OnboardingController {
	return &OnboardingController{
		Log:               logger,
		InternalConfig:    internalConfig,
		OnboardingUsecase: onboardingUsecase,
	}
}

func (ctrl *OnboardingController) decodeOnboarding(r *http.Request) (*requests.Onboarding, error) {
	request := new(requests.Onboarding)
	if err := decodeJSON(r, ctrl.InternalConfig, request); err != nil {
		return nil, err
	}
	utils.SanitizeOnboardingRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	return request, nil
}

// CreateCompleteUser runs the whole onboarding for a back office caller.
func (ctrl *OnboardingController) CreateCompleteUser(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("OnboardingController.CreateCompleteUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request, err := ctrl.decodeOnboarding(r)
	if err != nil {
		ctrl.Log.Error("OnboardingController.CreateCompleteUser invalid request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	result, err := ctrl.OnboardingUsecase.OnboardImmediate(ctx, request)
	if err != nil {
		ctrl.Log.Error("OnboardingController.CreateCompleteUser error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}

	ctrl.Log.Info("OnboardingController.CreateCompleteUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, result.SagaID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.OnboardingCompletedSuccessMessage, result)
}

// Subscribe starts a self-signup that completes once the first payment is seen.
func (ctrl *OnboardingController) Subscribe(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("OnboardingController.Subscribe called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request, err := ctrl.decodeOnboarding(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	accepted, err := ctrl.OnboardingUsecase.StartSelfSignup(ctx, request)
	if err != nil {
		ctrl.Log.Error("OnboardingController.Subscribe error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}

	ctrl.Log.Info("OnboardingController.Subscribe succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, accepted.SagaID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.OnboardingAwaitingPaymentMessage, accepted)
}

func (ctrl *OnboardingController) Resume(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	nationalID := utils.DigitsOnly(chi.URLParam(r, constvars.URLParamNationalID))
	ctrl.Log.Info("OnboardingController.Resume called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, nationalID),
	)

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	result, err := ctrl.OnboardingUsecase.Resume(ctx, nationalID)
	if err != nil {
		ctrl.Log.Error("OnboardingController.Resume error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OnboardingResumedSuccessMessage, result)
}

func (ctrl *OnboardingController) GetStatus(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	nationalID := utils.DigitsOnly(chi.URLParam(r, constvars.URLParamNationalID))
	ctrl.Log.Info("OnboardingController.GetStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, nationalID),
	)

	status, err := ctrl.OnboardingUsecase.GetStatus(r.Context(), nationalID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OnboardingStatusSuccessMessage, status)
}

// GetSubscriptionStatus answers the self-signup client polling with its status token.
func (ctrl *OnboardingController) GetSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("OnboardingController.GetSubscriptionStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	token := r.URL.Query().Get(constvars.URLQueryParamToken)
	if token == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInvalidStatusToken(nil))
		return
	}

	status, err := ctrl.OnboardingUsecase.GetStatusByToken(r.Context(), token)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OnboardingStatusSuccessMessage, status)
}
