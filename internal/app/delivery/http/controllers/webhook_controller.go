package controllers

import (
	"net/http"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type WebhookController struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	PaymentUsecase contracts.PaymentUsecase
}

func NewWebhookController(logger *zap.Logger, internalConfig *config.InternalConfig, paymentUsecase contracts.PaymentUsecase) *WebhookController {
	return &WebhookController{
		Log:            logger,
		InternalConfig: internalConfig,
		PaymentUsecase: paymentUsecase,
	}
}

// HandleBillingWebhook accepts a billing notification for asynchronous processing.
func (ctrl *WebhookController) HandleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("WebhookController.HandleBillingWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.BillingWebhook)
	if err := decodeJSON(r, ctrl.InternalConfig, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	token := r.Header.Get(constvars.BillingWebhookTokenHeader)
	if err := ctrl.PaymentUsecase.HandleBillingWebhook(r.Context(), token, request); err != nil {
		ctrl.Log.Error("WebhookController.HandleBillingWebhook error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.BillingWebhookAcceptedMessage, nil)
}
