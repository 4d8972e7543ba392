package payments

import (
	"context"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/utils"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultCronSpec = "@every 7s"

// Worker drains queued billing events and polls sagas waiting for payment.
// Only the instance holding the leader lock runs a tick.
type Worker struct {
	log     *zap.Logger
	cfg     *config.InternalConfig
	locker  contracts.LockerService
	queue   contracts.PaymentQueueService
	usecase contracts.PaymentUsecase
	cron    *cron.Cron
	runCtx  context.Context
	cancel  context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, queue contracts.PaymentQueueService, usecase contracts.PaymentUsecase) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, queue: queue, usecase: usecase}
}

// Start schedules the reconciliation tick and returns a function that stops it.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	w.runCtx, w.cancel = context.WithCancel(ctx)

	spec := w.cfg.Payment.ReconciliationCronSpec
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) }); err != nil {
		w.log.Warn("payments.worker: invalid cron spec, falling back to default",
			zap.String(constvars.LoggingCronSpecKey, spec),
			zap.Error(err),
		)
		c = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
		_, _ = c.AddFunc(defaultCronSpec, func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c

	w.log.Info("payments.worker started", zap.String(constvars.LoggingCronSpecKey, spec))
	return w.Stop
}

// Stop cancels in flight work and waits for the running tick to return.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ctx = utils.WithRequestID(ctx, utils.GenerateID())
	requestID := utils.GetRequestID(ctx)

	ttl := time.Duration(w.cfg.Payment.WorkerLockTTLInSeconds) * time.Second
	acquired, lockValue, err := w.locker.TryLock(ctx, constvars.PaymentWorkerLockKey, ttl)
	if err != nil {
		w.log.Warn("payments.worker: leader lock attempt failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}
	if !acquired {
		w.log.Debug("payments.worker: leader lock held by another instance",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return
	}
	defer func() {
		if err := w.locker.Unlock(context.WithoutCancel(ctx), constvars.PaymentWorkerLockKey, lockValue); err != nil {
			w.log.Error("payments.worker: unlock failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}()

	w.drainQueue(ctx)

	if err := w.usecase.ReconcileAwaitingSagas(ctx); err != nil {
		w.log.Warn("payments.worker: reconciliation finished with errors",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

func (w *Worker) drainQueue(ctx context.Context) {
	requestID := utils.GetRequestID(ctx)

	max := w.cfg.Payment.EventBatchSize
	if max <= 0 {
		max = 1
	}
	items, err := w.queue.FetchN(ctx, max)
	if err != nil {
		w.log.Warn("payments.worker: fetch failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}
	if len(items) == 0 {
		return
	}
	w.log.Info("payments.worker: fetched events",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingMessageCountKey, len(items)),
	)

	for _, item := range items {
		w.processItem(ctx, item)
	}
}

// processItem acks handled events. Failures go back to the tail with an
// incremented failed count until the retry limit sends them to the DLQ.
func (w *Worker) processItem(ctx context.Context, item contracts.QueuedPaymentEvent) {
	requestID := utils.GetRequestID(ctx)
	event := item.Event

	err := w.usecase.ProcessEvent(ctx, event)
	if err == nil {
		if ackErr := w.queue.AckMessage(ctx, item.DeliveryTag); ackErr != nil {
			w.log.Warn("payments.worker: ack failed after success",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMessageIDKey, event.ID),
				zap.Error(ackErr),
			)
		}
		return
	}

	event.FailedCount++
	if event.FailedCount >= w.cfg.Payment.EventMaxRetry {
		if dlqErr := w.queue.EnqueueToDeadQueue(ctx, event); dlqErr != nil {
			w.log.Error("payments.worker: enqueue to DLQ failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingMessageIDKey, event.ID),
				zap.Error(dlqErr),
			)
			return
		}
		_ = w.queue.AckMessage(ctx, item.DeliveryTag)
		w.log.Warn("payments.worker: moved event to DLQ",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMessageIDKey, event.ID),
			zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
			zap.Error(err),
		)
		return
	}

	if requeueErr := w.queue.Reenqueue(ctx, event); requeueErr != nil {
		w.log.Error("payments.worker: reenqueue failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMessageIDKey, event.ID),
			zap.Error(requeueErr),
		)
		return
	}
	_ = w.queue.AckMessage(ctx, item.DeliveryTag)
	w.log.Info("payments.worker: event failed, requeued",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMessageIDKey, event.ID),
		zap.Int(constvars.LoggingFailedCountKey, event.FailedCount),
		zap.Error(err),
	)
}
