package onboarding

import (
	"context"
	"errors"
	"fmt"
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

const WarningWelcomeEmailFailed = "welcome_email_failed"

type Dependencies struct {
	SubscriberRepository   contracts.SubscriberRepository
	SubscriptionRepository contracts.SubscriptionRepository
	PlanRepository         contracts.PlanRepository
	SagaRepository         contracts.OnboardingSagaRepository
	BillingGateway         contracts.BillingGateway
	IdentityGateway        contracts.IdentityGateway
	Provisioner            contracts.BeneficiaryProvisioner
	Locker                 contracts.LockerService
	Mailer                 contracts.MailerService
	Storage                contracts.StorageService
	TokenManager           contracts.StatusTokenManager
}

type onboardingUsecase struct {
	Dependencies
	InternalConfig *config.InternalConfig
	Location       *time.Location
	Log            *zap.Logger
	now            func() time.Time
}

func NewOnboardingUsecase(deps Dependencies, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.OnboardingUsecase {
	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logger.Warn("onboardingUsecase falling back to UTC", zap.Error(err))
		location = time.UTC
	}
	return &onboardingUsecase{
		Dependencies:   deps,
		InternalConfig: internalConfig,
		Location:       location,
		Log:            logger,
		now:            time.Now,
	}
}

// OnboardImmediate runs every step and activates the subscription without waiting for payment.
func (uc *onboardingUsecase) OnboardImmediate(ctx context.Context, request *requests.Onboarding) (*responses.OnboardingResult, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("onboardingUsecase.OnboardImmediate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, request.NationalID),
		zap.String(constvars.LoggingPlanIDKey, request.PlanID),
	)

	var result *responses.OnboardingResult
	err := uc.withNationalIDLock(ctx, request.NationalID, func() error {
		plan, err := uc.getPlan(ctx, request.PlanID)
		if err != nil {
			return err
		}
		saga, err := uc.findOrCreateSaga(ctx, request, models.SagaModeImmediate)
		if err != nil {
			return err
		}
		if err := uc.run(ctx, saga, plan); err != nil {
			return err
		}
		result, err = uc.buildResult(ctx, saga, plan)
		return err
	})
	if err != nil {
		uc.Log.Error("onboardingUsecase.OnboardImmediate error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingNationalIDKey, request.NationalID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("onboardingUsecase.OnboardImmediate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, result.SagaID),
		zap.Int(constvars.LoggingWarningCountKey, len(result.Warnings)),
	)
	return result, nil
}

// StartSelfSignup runs the billing, local and identity steps and leaves the saga
// waiting for the payment reconciliation to release the medical step.
func (uc *onboardingUsecase) StartSelfSignup(ctx context.Context, request *requests.Onboarding) (*responses.OnboardingAccepted, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("onboardingUsecase.StartSelfSignup called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, request.NationalID),
		zap.String(constvars.LoggingPlanIDKey, request.PlanID),
	)

	var saga *models.OnboardingSaga
	err := uc.withNationalIDLock(ctx, request.NationalID, func() error {
		plan, err := uc.getPlan(ctx, request.PlanID)
		if err != nil {
			return err
		}
		saga, err = uc.findOrCreateSaga(ctx, request, models.SagaModeAwaitPayment)
		if err != nil {
			return err
		}
		return uc.run(ctx, saga, plan)
	})
	if err != nil {
		uc.Log.Error("onboardingUsecase.StartSelfSignup error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingNationalIDKey, request.NationalID),
			zap.Error(err),
		)
		return nil, err
	}

	token, err := uc.TokenManager.CreateStatusToken(saga.ID)
	if err != nil {
		return nil, err
	}

	subscription, err := uc.SubscriptionRepository.FindByID(ctx, saga.BillingSubscriptionID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("onboardingUsecase.StartSelfSignup succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, saga.ID),
		zap.String(constvars.LoggingSagaStateKey, saga.State),
	)
	return &responses.OnboardingAccepted{
		SagaID:       saga.ID,
		State:        saga.State,
		StatusToken:  token,
		Subscription: subscription,
	}, nil
}

// Resume continues the latest saga of a subscriber from its first pending step.
func (uc *onboardingUsecase) Resume(ctx context.Context, nationalID string) (*responses.OnboardingResult, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("onboardingUsecase.Resume called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, nationalID),
	)

	var result *responses.OnboardingResult
	err := uc.withNationalIDLock(ctx, nationalID, func() error {
		saga, err := uc.SagaRepository.FindLatestByNationalID(ctx, nationalID)
		if err != nil {
			return err
		}
		if saga == nil {
			return exceptions.ErrOnboardingNotFound(fmt.Errorf("no onboarding for %s", nationalID))
		}
		plan, err := uc.getPlan(ctx, saga.PlanID)
		if err != nil {
			return err
		}
		if err := uc.run(ctx, saga, plan); err != nil {
			return err
		}
		result, err = uc.buildResult(ctx, saga, plan)
		return err
	})
	if err != nil {
		uc.Log.Error("onboardingUsecase.Resume error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingNationalIDKey, nationalID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("onboardingUsecase.Resume succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, result.SagaID),
	)
	return result, nil
}

func (uc *onboardingUsecase) GetStatus(ctx context.Context, nationalID string) (*responses.OnboardingStatus, error) {
	saga, err := uc.SagaRepository.FindLatestByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if saga == nil {
		return nil, exceptions.ErrOnboardingNotFound(fmt.Errorf("no onboarding for %s", nationalID))
	}
	return toStatus(saga), nil
}

func (uc *onboardingUsecase) GetStatusByToken(ctx context.Context, token string) (*responses.OnboardingStatus, error) {
	sagaID, err := uc.TokenManager.ParseStatusToken(token)
	if err != nil {
		uc.Log.Info("onboardingUsecase.GetStatusByToken invalid token",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}

	saga, err := uc.SagaRepository.FindByID(ctx, sagaID)
	if err != nil {
		return nil, err
	}
	if saga == nil {
		return nil, exceptions.ErrOnboardingNotFound(fmt.Errorf("saga %s", sagaID))
	}
	return toStatus(saga), nil
}

// CompletePaidSaga runs the remaining steps of a saga whose payment was observed.
// It is a no-op for sagas already in a final state.
func (uc *onboardingUsecase) CompletePaidSaga(ctx context.Context, sagaID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("onboardingUsecase.CompletePaidSaga called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, sagaID),
	)

	saga, err := uc.SagaRepository.FindByID(ctx, sagaID)
	if err != nil {
		return err
	}
	if saga == nil {
		return exceptions.ErrOnboardingNotFound(fmt.Errorf("saga %s", sagaID))
	}
	if saga.IsFinal() {
		return nil
	}

	err = uc.withNationalIDLock(ctx, saga.NationalID, func() error {
		// reload under the lock, a concurrent resume may have moved it
		saga, err = uc.SagaRepository.FindByID(ctx, sagaID)
		if err != nil {
			return err
		}
		if saga == nil || saga.IsFinal() {
			return nil
		}
		if saga.PaidAt == nil {
			paidAt := uc.now()
			saga.PaidAt = &paidAt
		}
		plan, err := uc.getPlan(ctx, saga.PlanID)
		if err != nil {
			return err
		}
		return uc.run(ctx, saga, plan)
	})
	if err != nil {
		uc.Log.Error("onboardingUsecase.CompletePaidSaga error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSagaIDKey, sagaID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("onboardingUsecase.CompletePaidSaga succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, sagaID),
		zap.String(constvars.LoggingSagaStateKey, saga.State),
	)
	return nil
}

// ExpireSaga gives up on a saga that never observed its payment and releases the
// pending subscription.
func (uc *onboardingUsecase) ExpireSaga(ctx context.Context, sagaID string) error {
	requestID := utils.GetRequestID(ctx)

	saga, err := uc.SagaRepository.FindByID(ctx, sagaID)
	if err != nil {
		return err
	}
	if saga == nil || saga.State != models.SagaStateAwaitingPayment {
		return nil
	}

	saga.State = models.SagaStatePaymentExpired
	saga.SetUpdatedAt()
	if err := uc.SagaRepository.Save(ctx, saga); err != nil {
		return err
	}
	if saga.BillingSubscriptionID != "" {
		if err := uc.SubscriptionRepository.UpdateStatus(ctx, saga.BillingSubscriptionID, models.SubscriptionStatusCanceled); err != nil {
			return err
		}
	}

	uc.Log.Info("onboardingUsecase.ExpireSaga succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, sagaID),
		zap.String(constvars.LoggingNationalIDKey, saga.NationalID),
	)
	return nil
}

func (uc *onboardingUsecase) withNationalIDLock(ctx context.Context, nationalID string, fn func() error) error {
	lockKey := fmt.Sprintf(constvars.OnboardingLockKeyFormat, nationalID)
	ttl := time.Duration(uc.InternalConfig.Onboarding.LockTTLInSeconds) * time.Second

	locked, lockValue, err := uc.Locker.TryLock(ctx, lockKey, ttl)
	if err != nil {
		return err
	}
	if !locked {
		return exceptions.ErrOnboardingInProgress(nationalID)
	}
	defer func() {
		// the request context may already be gone
		unlockCtx := context.WithoutCancel(ctx)
		if err := uc.Locker.Unlock(unlockCtx, lockKey, lockValue); err != nil {
			uc.Log.Warn("onboardingUsecase failed to release lock",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	return fn()
}

func (uc *onboardingUsecase) getPlan(ctx context.Context, planID string) (*models.Plan, error) {
	plan, err := uc.PlanRepository.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, exceptions.ErrPlanNotFound(fmt.Errorf("plan %s", planID))
	}
	return plan, nil
}

// findOrCreateSaga returns the saga for (national id, plan), creating it when absent.
// An expired saga is restarted in place. A new or restarted saga is refused while
// another plan holds an open subscription.
func (uc *onboardingUsecase) findOrCreateSaga(ctx context.Context, request *requests.Onboarding, mode string) (*models.OnboardingSaga, error) {
	saga, err := uc.SagaRepository.FindByNationalIDAndPlan(ctx, request.NationalID, request.PlanID)
	if err != nil {
		return nil, err
	}
	if saga != nil && saga.State != models.SagaStatePaymentExpired {
		// an admin onboarding takes over a self signup still waiting for its payment
		if mode == models.SagaModeImmediate && saga.Mode == models.SagaModeAwaitPayment && !saga.IsFinal() {
			saga.Mode = models.SagaModeImmediate
		}
		return saga, nil
	}

	open, err := uc.SubscriptionRepository.FindOpenByNationalID(ctx, request.NationalID)
	if err != nil {
		return nil, err
	}
	if open != nil && open.PlanID != request.PlanID {
		return nil, exceptions.ErrActiveSubscriptionExists(request.NationalID, open.ID, open.PlanID)
	}

	if saga != nil {
		saga.Restart(mode, subscriberFromRequest(request), request.BillingMethod)
		if err := uc.SagaRepository.Save(ctx, saga); err != nil {
			return nil, err
		}
		uc.Log.Info("onboardingUsecase.findOrCreateSaga restarted expired saga",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingSagaIDKey, saga.ID),
			zap.String("mode", mode),
		)
		return saga, nil
	}

	saga = models.NewOnboardingSaga(utils.GenerateID(), mode, subscriberFromRequest(request), request.PlanID, request.BillingMethod)
	if err := uc.SagaRepository.Save(ctx, saga); err != nil {
		return nil, err
	}

	uc.Log.Info("onboardingUsecase.findOrCreateSaga created saga",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingSagaIDKey, saga.ID),
		zap.String("mode", mode),
	)
	return saga, nil
}

func subscriberFromRequest(request *requests.Onboarding) models.Subscriber {
	return models.Subscriber{
		NationalID: request.NationalID,
		Name:       request.Name,
		Email:      request.Email,
		Phone:      request.Phone,
		BirthDate:  request.BirthDate,
		Address: models.Address{
			ZipCode:    request.Address.ZipCode,
			Street:     request.Address.Street,
			Number:     request.Address.Number,
			Complement: request.Address.Complement,
			District:   request.Address.District,
			City:       request.Address.City,
			State:      request.Address.State,
		},
		Status: models.SubscriberStatusDraft,
	}
}

// run executes the pending steps in order, persisting the saga after each one.
// The medical step waits for the payment unless the saga is immediate.
func (uc *onboardingUsecase) run(ctx context.Context, saga *models.OnboardingSaga, plan *models.Plan) error {
	if saga.State == models.SagaStateCompleted {
		return nil
	}
	if saga.State == models.SagaStatePaymentExpired {
		return exceptions.ErrOnboardingExpired(saga.ID)
	}
	saga.State = models.SagaStateRunning
	saga.LastError = nil

	for _, name := range models.SagaStepOrder {
		if saga.IsStepCompleted(name) {
			continue
		}
		if name == models.SagaStepMedicalBeneficiary && saga.Mode == models.SagaModeAwaitPayment && saga.PaidAt == nil {
			saga.State = models.SagaStateAwaitingPayment
			saga.SetUpdatedAt()
			return uc.SagaRepository.Save(ctx, saga)
		}

		uc.Log.Info("onboardingUsecase.run executing step",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingSagaIDKey, saga.ID),
			zap.String(constvars.LoggingSagaStepKey, name),
		)

		if err := uc.executeStep(ctx, name, saga, plan); err != nil {
			return uc.failStep(ctx, name, saga, err)
		}
		saga.CompleteStep(name, uc.now())
		saga.SetUpdatedAt()
		if err := uc.SagaRepository.Save(ctx, saga); err != nil {
			return err
		}
	}

	saga.State = models.SagaStateCompleted
	saga.SetUpdatedAt()
	return uc.SagaRepository.Save(ctx, saga)
}

func (uc *onboardingUsecase) executeStep(ctx context.Context, name string, saga *models.OnboardingSaga, plan *models.Plan) error {
	switch name {
	case models.SagaStepBillingCustomer:
		return uc.ensureBillingCustomer(ctx, saga)
	case models.SagaStepBillingSubscription:
		return uc.ensureBillingSubscription(ctx, saga, plan)
	case models.SagaStepLocalRecords:
		return uc.storeLocalRecords(ctx, saga, plan)
	case models.SagaStepIdentityAccount:
		return uc.ensureIdentityAccount(ctx, saga)
	case models.SagaStepMedicalBeneficiary:
		return uc.provisionBeneficiary(ctx, saga, plan)
	}
	return exceptions.ErrServerProcess(fmt.Errorf("unknown onboarding step %s", name))
}

func (uc *onboardingUsecase) ensureBillingCustomer(ctx context.Context, saga *models.OnboardingSaga) error {
	if saga.BillingCustomerID != "" {
		return nil
	}

	customer, err := uc.BillingGateway.FindCustomerByNationalID(ctx, saga.NationalID)
	if err != nil {
		return err
	}
	if customer == nil {
		subscriber := saga.Subscriber
		customer, err = uc.BillingGateway.CreateCustomer(ctx, &requests.BillingCustomer{
			Name:              subscriber.Name,
			CpfCnpj:           subscriber.NationalID,
			Email:             subscriber.Email,
			MobilePhone:       subscriber.Phone,
			PostalCode:        subscriber.Address.ZipCode,
			Address:           subscriber.Address.Street,
			AddressNumber:     subscriber.Address.Number,
			Complement:        subscriber.Address.Complement,
			Province:          subscriber.Address.District,
			ExternalReference: subscriber.NationalID,
		})
		if err != nil {
			return err
		}
	}

	saga.BillingCustomerID = customer.ID
	saga.Subscriber.BillingCustomerID = customer.ID
	return nil
}

func (uc *onboardingUsecase) ensureBillingSubscription(ctx context.Context, saga *models.OnboardingSaga, plan *models.Plan) error {
	if saga.BillingSubscriptionID != "" {
		return nil
	}

	existing, err := uc.SubscriptionRepository.FindByNationalIDAndPlan(ctx, saga.NationalID, plan.ID)
	if err != nil {
		return err
	}
	if existing != nil && existing.IsOpen() {
		saga.BillingSubscriptionID = existing.ID
		return nil
	}

	subscription, err := uc.BillingGateway.CreateSubscription(ctx, &requests.BillingSubscription{
		Customer:          saga.BillingCustomerID,
		BillingType:       saga.BillingMethod,
		Value:             plan.Price,
		NextDueDate:       uc.now().In(uc.Location).Format(constvars.DateFormatISO),
		Cycle:             plan.Cycle,
		Description:       plan.Name,
		ExternalReference: saga.NationalID,
	})
	if err != nil {
		return err
	}

	saga.BillingSubscriptionID = subscription.ID
	return nil
}

func (uc *onboardingUsecase) storeLocalRecords(ctx context.Context, saga *models.OnboardingSaga, plan *models.Plan) error {
	if saga.Subscriber.Status == models.SubscriberStatusDraft {
		saga.Subscriber.Status = models.SubscriberStatusBilled
	}
	if err := uc.SubscriberRepository.Upsert(ctx, &saga.Subscriber); err != nil {
		return err
	}

	status := models.SubscriptionStatusPending
	if saga.Mode == models.SagaModeImmediate {
		status = models.SubscriptionStatusActive
	}
	subscription := &models.Subscription{
		ID:            saga.BillingSubscriptionID,
		NationalID:    saga.NationalID,
		PlanID:        plan.ID,
		Cycle:         plan.Cycle,
		BillingMethod: saga.BillingMethod,
		Value:         plan.Price,
		Status:        status,
	}
	subscription.SetCreatedAtUpdatedAt()
	return uc.SubscriptionRepository.Upsert(ctx, subscription)
}

// ensureIdentityAccount creates the login for the subscriber email. An existing
// account is reused and keeps its password.
func (uc *onboardingUsecase) ensureIdentityAccount(ctx context.Context, saga *models.OnboardingSaga) error {
	subscriber := &saga.Subscriber

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return exceptions.ErrServerProcess(err)
	}

	user, created, err := uc.IdentityGateway.CreateUser(ctx, subscriber.Email, password)
	if err != nil {
		return err
	}
	if err := uc.IdentityGateway.AssignRole(ctx, user.ID, uc.InternalConfig.Onboarding.SubscriberRole); err != nil {
		return err
	}

	saga.IdentityUserID = user.ID
	subscriber.IdentityUserID = user.ID
	subscriber.Status = models.SubscriberStatusProvisioned
	if err := uc.SubscriberRepository.Upsert(ctx, subscriber); err != nil {
		return err
	}

	if created {
		uc.sendWelcomeEmail(ctx, saga, password)
	}
	return nil
}

func (uc *onboardingUsecase) sendWelcomeEmail(ctx context.Context, saga *models.OnboardingSaga, password string) {
	subscriber := saga.Subscriber
	err := uc.Mailer.SendEmail(ctx, &requests.EmailPayload{
		From:    uc.InternalConfig.Mailer.EmailSender,
		To:      []string{subscriber.Email},
		Subject: constvars.EmailWelcomeSubjectMessage,
		Body:    fmt.Sprintf(constvars.EmailWelcomeHTMLFormat, subscriber.Name, subscriber.Email, password),
	})
	if err != nil {
		uc.Log.Warn("onboardingUsecase.sendWelcomeEmail error publishing email",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingSagaIDKey, saga.ID),
			zap.Error(err),
		)
		saga.Warnings = append(saga.Warnings, models.Warning{
			Code:    WarningWelcomeEmailFailed,
			Message: err.Error(),
		})
	}
}

func (uc *onboardingUsecase) provisionBeneficiary(ctx context.Context, saga *models.OnboardingSaga, plan *models.Plan) error {
	result, err := uc.Provisioner.Provision(ctx, &saga.Subscriber, plan)
	if err != nil {
		return err
	}

	saga.BeneficiaryUUID = result.Beneficiary.UUID
	saga.Beneficiary = result.Beneficiary
	saga.Warnings = append(saga.Warnings, result.Warnings...)

	subscriber := &saga.Subscriber
	subscriber.BeneficiaryUUID = result.Beneficiary.UUID
	subscriber.Status = models.SubscriberStatusActive
	if err := uc.SubscriberRepository.Upsert(ctx, subscriber); err != nil {
		return err
	}
	return uc.SubscriptionRepository.UpdateStatus(ctx, saga.BillingSubscriptionID, models.SubscriptionStatusActive)
}

// failStep records the failure on the saga and, past the billing steps, uploads a
// reconciliation report. The returned error carries the saga id and failed step.
func (uc *onboardingUsecase) failStep(ctx context.Context, name string, saga *models.OnboardingSaga, cause error) error {
	requestID := utils.GetRequestID(ctx)
	stepErr := toStepError(cause)
	saga.FailStep(name, stepErr)
	saga.SetUpdatedAt()

	uc.Log.Error("onboardingUsecase.run step failed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSagaIDKey, saga.ID),
		zap.String(constvars.LoggingSagaStepKey, name),
		zap.Error(cause),
	)

	// the failure must outlive a canceled request
	if err := uc.SagaRepository.Save(context.WithoutCancel(ctx), saga); err != nil {
		uc.Log.Error("onboardingUsecase.failStep error persisting saga",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSagaIDKey, saga.ID),
			zap.Error(err),
		)
	}

	if name != models.SagaStepBillingCustomer {
		uc.uploadReport(ctx, name, saga, stepErr)
	}

	var customErr *exceptions.CustomError
	if errors.As(cause, &customErr) {
		return customErr.WithDetails(map[string]interface{}{
			"saga_id":     saga.ID,
			"failed_step": name,
		})
	}
	return exceptions.ErrServerProcess(cause).WithDetails(map[string]interface{}{
		"saga_id":     saga.ID,
		"failed_step": name,
	})
}

func (uc *onboardingUsecase) uploadReport(ctx context.Context, name string, saga *models.OnboardingSaga, stepErr *models.StepError) {
	objectName := utils.GenerateReconciliationObjectName(saga.NationalID, saga.ID, uc.now())
	report := map[string]interface{}{
		"failedStep": name,
		"error":      stepErr,
		"saga":       saga,
	}
	if err := uc.Storage.PutJSON(context.WithoutCancel(ctx), objectName, report); err != nil {
		uc.Log.Warn("onboardingUsecase.uploadReport error storing report",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return
	}
	uc.Log.Info("onboardingUsecase.uploadReport stored report",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
}

func (uc *onboardingUsecase) buildResult(ctx context.Context, saga *models.OnboardingSaga, plan *models.Plan) (*responses.OnboardingResult, error) {
	subscriber, err := uc.SubscriberRepository.FindByNationalID(ctx, saga.NationalID)
	if err != nil {
		return nil, err
	}
	if subscriber == nil {
		subscriber = &saga.Subscriber
	}

	subscription, err := uc.SubscriptionRepository.FindByID(ctx, saga.BillingSubscriptionID)
	if err != nil {
		return nil, err
	}

	warnings := saga.Warnings
	if warnings == nil {
		warnings = []models.Warning{}
	}
	return &responses.OnboardingResult{
		SagaID:       saga.ID,
		Subscriber:   subscriber,
		Subscription: subscription,
		Plan:         plan,
		Beneficiary:  saga.Beneficiary,
		Warnings:     warnings,
	}, nil
}

func toStepError(err error) *models.StepError {
	stepErr := &models.StepError{
		Kind:    exceptions.KindOf(err),
		Message: err.Error(),
	}
	var customErr *exceptions.CustomError
	for current := err; current != nil; current = customErr.Err {
		if !errors.As(current, &customErr) {
			break
		}
		if provider, ok := customErr.Details[exceptions.DetailProvider].(string); ok && stepErr.Provider == "" {
			stepErr.Provider = provider
		}
		if body, ok := customErr.Details[exceptions.DetailProviderBody].(string); ok && stepErr.Body == "" {
			stepErr.Body = body
		}
	}
	if status, ok := exceptions.UpstreamStatus(err); ok {
		stepErr.StatusCode = status
	}
	return stepErr
}

func toStatus(saga *models.OnboardingSaga) *responses.OnboardingStatus {
	return &responses.OnboardingStatus{
		SagaID:     saga.ID,
		NationalID: saga.NationalID,
		PlanID:     saga.PlanID,
		Mode:       saga.Mode,
		State:      saga.State,
		Steps:      saga.Steps,
		Warnings:   saga.Warnings,
		LastError:  saga.LastError,
		UpdatedAt:  saga.UpdatedAt,
	}
}
