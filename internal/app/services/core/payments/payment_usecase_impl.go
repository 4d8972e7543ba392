package payments

import (
	"context"
	"crypto/subtle"
	"errors"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type paymentUsecase struct {
	PaymentQueue           contracts.PaymentQueueService
	SagaRepository         contracts.OnboardingSagaRepository
	SubscriptionRepository contracts.SubscriptionRepository
	SubscriberRepository   contracts.SubscriberRepository
	BillingGateway         contracts.BillingGateway
	OnboardingUsecase      contracts.OnboardingUsecase
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
	now                    func() time.Time
}

func NewPaymentUsecase(
	paymentQueue contracts.PaymentQueueService,
	sagaRepository contracts.OnboardingSagaRepository,
	subscriptionRepository contracts.SubscriptionRepository,
	subscriberRepository contracts.SubscriberRepository,
	billingGateway contracts.BillingGateway,
	onboardingUsecase contracts.OnboardingUsecase,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	return &paymentUsecase{
		PaymentQueue:           paymentQueue,
		SagaRepository:         sagaRepository,
		SubscriptionRepository: subscriptionRepository,
		SubscriberRepository:   subscriberRepository,
		BillingGateway:         billingGateway,
		OnboardingUsecase:      onboardingUsecase,
		InternalConfig:         internalConfig,
		Log:                    logger,
		now:                    time.Now,
	}
}

// HandleBillingWebhook authenticates the provider token and queues the event.
// Processing happens in the reconciliation worker.
func (uc *paymentUsecase) HandleBillingWebhook(ctx context.Context, token string, request *requests.BillingWebhook) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.HandleBillingWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentEventKey, request.Event),
	)

	expected := uc.InternalConfig.Billing.WebhookToken
	if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		utils.LogSecurityEvent(uc.Log, "billing_webhook_token_rejected", requestID, "medium")
		return exceptions.ErrInvalidWebhookToken(nil)
	}

	event := models.PaymentEvent{
		ID:         request.ID,
		Event:      request.Event,
		ReceivedAt: uc.now().Unix(),
	}
	if event.ID == "" {
		event.ID = utils.GenerateID()
	}
	if request.Payment != nil {
		event.PaymentID = request.Payment.ID
		event.SubscriptionID = request.Payment.Subscription
		event.PaymentStatus = request.Payment.Status
	}
	if event.SubscriptionID == "" && request.Subscription != nil {
		event.SubscriptionID = request.Subscription.ID
	}

	if err := uc.PaymentQueue.Enqueue(ctx, event); err != nil {
		uc.Log.Error("paymentUsecase.HandleBillingWebhook error enqueueing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	uc.Log.Info("paymentUsecase.HandleBillingWebhook succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, event.ID),
		zap.String(constvars.LoggingSubscriptionIDKey, event.SubscriptionID),
	)
	return nil
}

// ProcessEvent applies one queued billing event. Events for subscriptions this
// service does not know about are ignored.
func (uc *paymentUsecase) ProcessEvent(ctx context.Context, event models.PaymentEvent) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.ProcessEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, event.ID),
		zap.String(constvars.LoggingPaymentEventKey, event.Event),
		zap.String(constvars.LoggingSubscriptionIDKey, event.SubscriptionID),
	)

	if event.SubscriptionID == "" {
		return nil
	}

	switch event.Event {
	case constvars.BillingEventPaymentConfirmed, constvars.BillingEventPaymentReceived:
		saga, err := uc.SagaRepository.FindByBillingSubscriptionID(ctx, event.SubscriptionID)
		if err != nil {
			return err
		}
		if saga == nil {
			uc.Log.Info("paymentUsecase.ProcessEvent no saga for subscription",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSubscriptionIDKey, event.SubscriptionID),
			)
			return nil
		}
		return uc.releaseSaga(ctx, saga, time.Unix(event.ReceivedAt, 0))

	case constvars.BillingEventSubscriptionDeleted, constvars.BillingEventSubscriptionInactivate:
		return uc.cancelSubscription(ctx, event.SubscriptionID)
	}
	return nil
}

// ReconcileAwaitingSagas reads the billing status of every saga waiting for its
// payment once. Paid sagas are released and leave the awaiting state for good.
func (uc *paymentUsecase) ReconcileAwaitingSagas(ctx context.Context) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.ReconcileAwaitingSagas called", zap.String(constvars.LoggingRequestIDKey, requestID))

	pageSize := int64(uc.InternalConfig.Payment.EventBatchSize)
	var errs []error
	afterID := ""
	for {
		sagas, err := uc.SagaRepository.ListByState(ctx, models.SagaStateAwaitingPayment, afterID, pageSize)
		if err != nil {
			errs = append(errs, err)
			break
		}
		errs = append(errs, uc.reconcilePage(ctx, sagas)...)

		if len(sagas) == 0 || pageSize <= 0 || int64(len(sagas)) < pageSize || ctx.Err() != nil {
			break
		}
		afterID = sagas[len(sagas)-1].ID
	}
	return errors.Join(errs...)
}

func (uc *paymentUsecase) reconcilePage(ctx context.Context, sagas []models.OnboardingSaga) []error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Debug("paymentUsecase.reconcilePage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("saga_count", len(sagas)),
	)

	maxAge := time.Duration(uc.InternalConfig.Payment.AwaitMaxAgeInHours) * time.Hour
	var errs []error
	for i := range sagas {
		saga := &sagas[i]

		if maxAge > 0 && uc.now().Sub(saga.CreatedAt) > maxAge {
			if err := uc.OnboardingUsecase.ExpireSaga(ctx, saga.ID); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		paidAt, paid, err := uc.paymentObserved(ctx, saga.BillingSubscriptionID)
		if err != nil {
			uc.Log.Warn("paymentUsecase.reconcilePage error reading payments",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSagaIDKey, saga.ID),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if !paid {
			continue
		}
		if err := uc.releaseSaga(ctx, saga, paidAt); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (uc *paymentUsecase) paymentObserved(ctx context.Context, subscriptionID string) (time.Time, bool, error) {
	if subscriptionID == "" {
		return time.Time{}, false, nil
	}
	payments, err := uc.BillingGateway.ListSubscriptionPayments(ctx, subscriptionID)
	if err != nil {
		return time.Time{}, false, err
	}
	uc.Log.Debug("paymentUsecase.paymentObserved payments fetched",
		zap.String(constvars.LoggingSubscriptionIDKey, subscriptionID),
		zap.Int(constvars.LoggingPaymentCountKey, len(payments)),
	)
	for _, payment := range payments {
		if IsPaidStatus(payment.Status) {
			return uc.now(), true, nil
		}
	}
	return time.Time{}, false, nil
}

// releaseSaga records the payment and runs the medical provisioning. A saga
// already paid and no longer awaiting is left to the admin resume.
func (uc *paymentUsecase) releaseSaga(ctx context.Context, saga *models.OnboardingSaga, paidAt time.Time) error {
	if saga.IsFinal() {
		return nil
	}

	marked, err := uc.SagaRepository.MarkPaid(ctx, saga.ID, paidAt)
	if err != nil {
		return err
	}
	if !marked && saga.State != models.SagaStateAwaitingPayment {
		return nil
	}

	utils.LogBusinessEvent(uc.Log, "onboarding_payment_observed", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingSagaIDKey, saga.ID),
		zap.String(constvars.LoggingNationalIDKey, saga.NationalID),
	)

	if err := uc.OnboardingUsecase.CompletePaidSaga(ctx, saga.ID); err != nil {
		// the saga keeps the failure; payment is recorded so it will not be polled again
		uc.Log.Error("paymentUsecase.releaseSaga error completing saga",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingSagaIDKey, saga.ID),
			zap.Error(err),
		)
		if exceptions.IsKind(err, constvars.ErrorKindConflict) {
			return err
		}
	}
	return nil
}

func (uc *paymentUsecase) cancelSubscription(ctx context.Context, subscriptionID string) error {
	subscription, err := uc.SubscriptionRepository.FindByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if subscription == nil {
		return nil
	}
	if err := uc.SubscriptionRepository.UpdateStatus(ctx, subscriptionID, models.SubscriptionStatusCanceled); err != nil {
		return err
	}
	if err := uc.SubscriberRepository.UpdateStatus(ctx, subscription.NationalID, models.SubscriberStatusCanceled); err != nil {
		return err
	}

	utils.LogBusinessEvent(uc.Log, "subscription_canceled", utils.GetRequestID(ctx),
		zap.String(constvars.LoggingSubscriptionIDKey, subscriptionID),
		zap.String(constvars.LoggingNationalIDKey, subscription.NationalID),
	)
	return nil
}

// IsPaidStatus reports whether a billing payment status settles the subscription.
func IsPaidStatus(status string) bool {
	switch status {
	case constvars.BillingPaymentStatusReceived,
		constvars.BillingPaymentStatusConfirmed,
		constvars.BillingPaymentStatusReceivedInCash:
		return true
	}
	return false
}
