package payments

import (
	"context"
	"errors"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLocker struct {
	acquire  bool
	unlocked int
}

func (s *stubLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if !s.acquire {
		return false, "", nil
	}
	return true, "v", nil
}

func (s *stubLocker) Unlock(ctx context.Context, key, lockValue string) error {
	s.unlocked++
	return nil
}

func (s *stubLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

type stubPayments struct {
	contracts.PaymentUsecase
	failing    map[string]bool
	processed  []string
	reconciled int
}

func (s *stubPayments) ProcessEvent(ctx context.Context, event models.PaymentEvent) error {
	s.processed = append(s.processed, event.ID)
	if s.failing[event.ID] {
		return errors.New("processing failed")
	}
	return nil
}

func (s *stubPayments) ReconcileAwaitingSagas(ctx context.Context) error {
	s.reconciled++
	return nil
}

func newTestWorker(locker *stubLocker, queue *recordingQueue, usecase *stubPayments) *Worker {
	cfg := &config.InternalConfig{Payment: config.AppPayment{EventBatchSize: 10, EventMaxRetry: 3, WorkerLockTTLInSeconds: 30}}
	return NewWorker(zap.NewNop(), cfg, locker, queue, usecase)
}

func TestWorkerRunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("Follower instance does nothing", func(t *testing.T) {
		locker := &stubLocker{}
		queue := &recordingQueue{pending: []contracts.QueuedPaymentEvent{{DeliveryTag: 1, Event: models.PaymentEvent{ID: "e1"}}}}
		usecase := &stubPayments{}

		newTestWorker(locker, queue, usecase).runOnce(ctx)
		assert.Empty(t, usecase.processed)
		assert.Zero(t, usecase.reconciled)
		assert.Len(t, queue.pending, 1)
	})

	t.Run("Leader drains, acks and reconciles", func(t *testing.T) {
		locker := &stubLocker{acquire: true}
		queue := &recordingQueue{pending: []contracts.QueuedPaymentEvent{
			{DeliveryTag: 1, Event: models.PaymentEvent{ID: "e1"}},
			{DeliveryTag: 2, Event: models.PaymentEvent{ID: "e2"}},
		}}
		usecase := &stubPayments{}

		newTestWorker(locker, queue, usecase).runOnce(ctx)
		assert.Equal(t, []string{"e1", "e2"}, usecase.processed)
		assert.Equal(t, []uint64{1, 2}, queue.acked)
		assert.Equal(t, 1, usecase.reconciled)
		assert.Equal(t, 1, locker.unlocked)
	})

	t.Run("Failed event is requeued with its count", func(t *testing.T) {
		locker := &stubLocker{acquire: true}
		queue := &recordingQueue{pending: []contracts.QueuedPaymentEvent{{DeliveryTag: 7, Event: models.PaymentEvent{ID: "e1", FailedCount: 1}}}}
		usecase := &stubPayments{failing: map[string]bool{"e1": true}}

		newTestWorker(locker, queue, usecase).runOnce(ctx)
		if assert.Len(t, queue.requeued, 1) {
			assert.Equal(t, 2, queue.requeued[0].FailedCount)
		}
		assert.Empty(t, queue.dead)
		assert.Equal(t, []uint64{7}, queue.acked)
	})

	t.Run("Retry limit sends the event to the DLQ", func(t *testing.T) {
		locker := &stubLocker{acquire: true}
		queue := &recordingQueue{pending: []contracts.QueuedPaymentEvent{{DeliveryTag: 9, Event: models.PaymentEvent{ID: "e1", FailedCount: 2}}}}
		usecase := &stubPayments{failing: map[string]bool{"e1": true}}

		newTestWorker(locker, queue, usecase).runOnce(ctx)
		assert.Empty(t, queue.requeued)
		if assert.Len(t, queue.dead, 1) {
			assert.Equal(t, 3, queue.dead[0].FailedCount)
		}
		assert.Equal(t, []uint64{9}, queue.acked)
	})
}

func TestWorkerStartStop(t *testing.T) {
	cfg := &config.InternalConfig{Payment: config.AppPayment{ReconciliationCronSpec: "not a spec"}}
	worker := NewWorker(zap.NewNop(), cfg, &stubLocker{}, &recordingQueue{}, &stubPayments{})

	stop := worker.Start(context.Background())
	assert.NotNil(t, worker.cron)
	assert.Len(t, worker.cron.Entries(), 1)
	stop()
}
