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

type PlanController struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	PlanUsecase    contracts.PlanUsecase
}

func NewPlanController(logger *zap.Logger, internalConfig *config.InternalConfig, planUsecase contracts.PlanUsecase) *PlanController {
	return &PlanController{
		Log:            logger,
		InternalConfig: internalConfig,
		PlanUsecase:    planUsecase,
	}
}

func (ctrl *PlanController) CreatePlan(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PlanController.CreatePlan called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreatePlan)
	if err := decodeJSON(r, ctrl.InternalConfig, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizeCreatePlanRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := requestContext(r, ctrl.InternalConfig)
	defer cancel()

	plan, err := ctrl.PlanUsecase.CreatePlan(ctx, request)
	if err != nil {
		ctrl.Log.Error("PlanController.CreatePlan error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, mapContextError(err))
		return
	}

	ctrl.Log.Info("PlanController.CreatePlan succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPlanIDKey, plan.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PlanCreatedSuccessMessage, plan)
}
