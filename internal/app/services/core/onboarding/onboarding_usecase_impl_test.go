package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSubscribers struct {
	mu   sync.Mutex
	rows map[string]models.Subscriber
}

func (m *memSubscribers) FindByNationalID(ctx context.Context, nationalID string) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[nationalID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *memSubscribers) FindByIdentityUserID(ctx context.Context, identityUserID string) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.IdentityUserID == identityUserID {
			return &row, nil
		}
	}
	return nil, nil
}

func (m *memSubscribers) Upsert(ctx context.Context, subscriber *models.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[subscriber.NationalID] = *subscriber
	return nil
}

func (m *memSubscribers) UpdateStatus(ctx context.Context, nationalID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[nationalID]
	row.Status = status
	m.rows[nationalID] = row
	return nil
}

type memSubscriptions struct {
	mu   sync.Mutex
	rows map[string]models.Subscription
}

func (m *memSubscriptions) FindByID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[subscriptionID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *memSubscriptions) FindByNationalIDAndPlan(ctx context.Context, nationalID, planID string) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.NationalID == nationalID && row.PlanID == planID {
			return &row, nil
		}
	}
	return nil, nil
}

func (m *memSubscriptions) FindOpenByNationalID(ctx context.Context, nationalID string) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.NationalID == nationalID && row.IsOpen() {
			return &row, nil
		}
	}
	return nil, nil
}

func (m *memSubscriptions) Upsert(ctx context.Context, subscription *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[subscription.ID] = *subscription
	return nil
}

func (m *memSubscriptions) UpdateStatus(ctx context.Context, subscriptionID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[subscriptionID]
	row.Status = status
	m.rows[subscriptionID] = row
	return nil
}

type memPlans struct {
	contracts.PlanRepository
	rows map[string]models.Plan
}

func (m *memPlans) FindByID(ctx context.Context, planID string) (*models.Plan, error) {
	row, ok := m.rows[planID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

type memSagas struct {
	mu   sync.Mutex
	rows map[string]models.OnboardingSaga
}

func (m *memSagas) get(id string) *models.OnboardingSaga {
	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	row.Steps = append([]models.SagaStep(nil), row.Steps...)
	return &row
}

func (m *memSagas) FindByID(ctx context.Context, sagaID string) (*models.OnboardingSaga, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(sagaID), nil
}

func (m *memSagas) FindByNationalIDAndPlan(ctx context.Context, nationalID, planID string) (*models.OnboardingSaga, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.NationalID == nationalID && row.PlanID == planID {
			return m.get(id), nil
		}
	}
	return nil, nil
}

func (m *memSagas) FindLatestByNationalID(ctx context.Context, nationalID string) (*models.OnboardingSaga, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.OnboardingSaga
	for id, row := range m.rows {
		if row.NationalID == nationalID && (latest == nil || row.CreatedAt.After(latest.CreatedAt)) {
			latest = m.get(id)
		}
	}
	return latest, nil
}

func (m *memSagas) FindByBillingSubscriptionID(ctx context.Context, subscriptionID string) (*models.OnboardingSaga, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if row.BillingSubscriptionID == subscriptionID {
			return m.get(id), nil
		}
	}
	return nil, nil
}

func (m *memSagas) ListByState(ctx context.Context, state, afterID string, limit int64) ([]models.OnboardingSaga, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sagas []models.OnboardingSaga
	for id, row := range m.rows {
		if row.State == state && id > afterID {
			sagas = append(sagas, *m.get(id))
		}
	}
	sort.Slice(sagas, func(i, j int) bool { return sagas[i].ID < sagas[j].ID })
	if limit > 0 && int64(len(sagas)) > limit {
		sagas = sagas[:limit]
	}
	return sagas, nil
}

func (m *memSagas) Save(ctx context.Context, saga *models.OnboardingSaga) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := *saga
	row.Steps = append([]models.SagaStep(nil), saga.Steps...)
	m.rows[saga.ID] = row
	return nil
}

func (m *memSagas) MarkPaid(ctx context.Context, sagaID string, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[sagaID]
	if !ok || row.PaidAt != nil {
		return false, nil
	}
	row.PaidAt = &paidAt
	m.rows[sagaID] = row
	return true, nil
}

type fakeBilling struct {
	contracts.BillingGateway
	customers     []*requests.BillingCustomer
	subscriptions []*requests.BillingSubscription
	subscribeErr  error
}

func (f *fakeBilling) FindCustomerByNationalID(ctx context.Context, nationalID string) (*models.BillingCustomer, error) {
	if len(f.customers) == 0 {
		return nil, nil
	}
	return &models.BillingCustomer{ID: "cus_1", NationalID: nationalID}, nil
}

func (f *fakeBilling) CreateCustomer(ctx context.Context, request *requests.BillingCustomer) (*models.BillingCustomer, error) {
	f.customers = append(f.customers, request)
	return &models.BillingCustomer{ID: "cus_1", NationalID: request.CpfCnpj}, nil
}

func (f *fakeBilling) CreateSubscription(ctx context.Context, request *requests.BillingSubscription) (*models.BillingSubscription, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.subscriptions = append(f.subscriptions, request)
	id := fmt.Sprintf("sub_%d", len(f.subscriptions))
	return &models.BillingSubscription{ID: id, CustomerID: request.Customer, Value: request.Value}, nil
}

type fakeIdentity struct {
	contracts.IdentityGateway
	users map[string]string
	roles map[string]string
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password string) (*models.IdentityUser, bool, error) {
	if id, ok := f.users[email]; ok {
		return &models.IdentityUser{ID: id, Email: email}, false, nil
	}
	f.users[email] = "user-" + email
	return &models.IdentityUser{ID: f.users[email], Email: email}, true, nil
}

func (f *fakeIdentity) AssignRole(ctx context.Context, userID, role string) error {
	f.roles[userID] = role
	return nil
}

type fakeProvisioner struct {
	calls    int
	err      error
	warnings []models.Warning
	onCall   func()
}

func (f *fakeProvisioner) Provision(ctx context.Context, subscriber *models.Subscriber, plan *models.Plan) (*contracts.ProvisionResult, error) {
	f.calls++
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &contracts.ProvisionResult{
		Beneficiary: &models.Beneficiary{UUID: "b-1", NationalID: subscriber.NationalID, ServiceType: plan.ServiceType},
		Warnings:    f.warnings,
	}, nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (f *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] {
		return false, "", nil
	}
	f.held[key] = true
	return true, "v", nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	return nil
}

func (f *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

type fakeMailer struct {
	sent []*requests.EmailPayload
	err  error
}

func (f *fakeMailer) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, request)
	return nil
}

type fakeStorage struct {
	objects map[string]interface{}
}

func (f *fakeStorage) PutJSON(ctx context.Context, objectName string, payload interface{}) error {
	f.objects[objectName] = payload
	return nil
}

type fakeTokens struct{}

func (fakeTokens) CreateStatusToken(sagaID string) (string, error) { return "token-" + sagaID, nil }

func (fakeTokens) ParseStatusToken(token string) (string, error) {
	if len(token) <= len("token-") {
		return "", exceptions.ErrInvalidStatusToken(nil)
	}
	return token[len("token-"):], nil
}

type harness struct {
	usecase       *onboardingUsecase
	subscribers   *memSubscribers
	subscriptions *memSubscriptions
	sagas         *memSagas
	billing       *fakeBilling
	identity      *fakeIdentity
	provisioner   *fakeProvisioner
	locker        *fakeLocker
	mailer        *fakeMailer
	storage       *fakeStorage
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		subscribers:   &memSubscribers{rows: map[string]models.Subscriber{}},
		subscriptions: &memSubscriptions{rows: map[string]models.Subscription{}},
		sagas:         &memSagas{rows: map[string]models.OnboardingSaga{}},
		billing:       &fakeBilling{},
		identity:      &fakeIdentity{users: map[string]string{}, roles: map[string]string{}},
		provisioner:   &fakeProvisioner{},
		locker:        &fakeLocker{held: map[string]bool{}},
		mailer:        &fakeMailer{},
		storage:       &fakeStorage{objects: map[string]interface{}{}},
	}
	plans := &memPlans{rows: map[string]models.Plan{
		"plan-1": {ID: "plan-1", Name: "Essencial", Cycle: constvars.BillingCycleMonthly, Price: 99.90, MedicalPlanUUID: "mp-1", PaymentType: constvars.PaymentTypeSubscription, ServiceType: "G"},
		"plan-2": {ID: "plan-2", Name: "Familia", Cycle: constvars.BillingCycleMonthly, Price: 149.90},
	}}
	cfg := &config.InternalConfig{
		App:        config.App{Timezone: "America/Sao_Paulo"},
		Onboarding: config.AppOnboarding{LockTTLInSeconds: 60, SubscriberRole: "subscriber"},
	}

	uc := NewOnboardingUsecase(Dependencies{
		SubscriberRepository:   h.subscribers,
		SubscriptionRepository: h.subscriptions,
		PlanRepository:         plans,
		SagaRepository:         h.sagas,
		BillingGateway:         h.billing,
		IdentityGateway:        h.identity,
		Provisioner:            h.provisioner,
		Locker:                 h.locker,
		Mailer:                 h.mailer,
		Storage:                h.storage,
		TokenManager:           fakeTokens{},
	}, cfg, zap.NewNop())
	h.usecase = uc.(*onboardingUsecase)
	return h
}

func onboardingRequest(planID string) *requests.Onboarding {
	return &requests.Onboarding{
		Name:          "Maria Silva",
		NationalID:    "11122233344",
		Email:         "maria@example.com",
		Phone:         "11999998888",
		BirthDate:     "1990-04-12",
		Address:       requests.Address{ZipCode: "01001000", Street: "Praca da Se", Number: "1", District: "Se", City: "Sao Paulo", State: "SP"},
		PlanID:        planID,
		BillingMethod: constvars.BillingMethodBoleto,
	}
}

func TestOnboardImmediate(t *testing.T) {
	ctx := context.Background()

	t.Run("Runs every step and activates the subscription", func(t *testing.T) {
		h := newHarness(t)

		result, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)

		require.NotNil(t, result.Subscription)
		assert.Equal(t, models.SubscriptionStatusActive, result.Subscription.Status)
		assert.Equal(t, 99.90, result.Subscription.Value)
		assert.Equal(t, constvars.BillingMethodBoleto, result.Subscription.BillingMethod)
		assert.Equal(t, models.SubscriberStatusActive, result.Subscriber.Status)
		assert.Equal(t, "b-1", result.Subscriber.BeneficiaryUUID)
		require.NotNil(t, result.Beneficiary)
		assert.Equal(t, "G", result.Beneficiary.ServiceType)
		assert.Empty(t, result.Warnings)

		require.Len(t, h.billing.subscriptions, 1)
		assert.Equal(t, 99.90, h.billing.subscriptions[0].Value)
		assert.Equal(t, constvars.BillingMethodBoleto, h.billing.subscriptions[0].BillingType)
		assert.Equal(t, "subscriber", h.identity.roles["user-maria@example.com"])
		assert.Len(t, h.mailer.sent, 1)

		saga := h.sagas.get(result.SagaID)
		assert.Equal(t, models.SagaStateCompleted, saga.State)
		assert.Empty(t, saga.FirstPendingStep())
		assert.Empty(t, h.locker.held)
	})

	t.Run("Repeating the call does not duplicate provider records", func(t *testing.T) {
		h := newHarness(t)

		first, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		second, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)

		assert.Equal(t, first.SagaID, second.SagaID)
		assert.Len(t, h.billing.customers, 1)
		assert.Len(t, h.billing.subscriptions, 1)
		assert.Equal(t, 1, h.provisioner.calls)
		assert.Len(t, h.mailer.sent, 1)
	})

	t.Run("Concurrent onboarding of the same person conflicts", func(t *testing.T) {
		h := newHarness(t)
		h.locker.held[fmt.Sprintf(constvars.OnboardingLockKeyFormat, "11122233344")] = true

		_, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
		assert.Empty(t, h.billing.customers)
	})

	t.Run("Open subscription on another plan conflicts", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)

		_, err = h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-2"))
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindConflict))
	})

	t.Run("Unknown plan", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-x"))
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindNotFound))
	})

	t.Run("Welcome email failure is a warning", func(t *testing.T) {
		h := newHarness(t)
		h.mailer.err = errors.New("broker down")

		result, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, WarningWelcomeEmailFailed, result.Warnings[0].Code)
	})
}

func TestFailedStepAndResume(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.provisioner.err = exceptions.ErrUpstreamFatal(constvars.ProviderMedical, 500, `{"error":"down"}`)

	_, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, models.SagaStepMedicalBeneficiary, customErr.Details["failed_step"])
	sagaID, _ := customErr.Details["saga_id"].(string)
	require.NotEmpty(t, sagaID)

	saga := h.sagas.get(sagaID)
	assert.Equal(t, models.SagaStateFailed, saga.State)
	assert.Equal(t, models.SagaStepMedicalBeneficiary, saga.FirstPendingStep())
	require.NotNil(t, saga.LastError)
	assert.Equal(t, 500, saga.LastError.StatusCode)
	assert.Equal(t, constvars.ProviderMedical, saga.LastError.Provider)
	assert.Len(t, h.storage.objects, 1)

	status, err := h.usecase.GetStatus(ctx, "11122233344")
	require.NoError(t, err)
	assert.Equal(t, models.SagaStateFailed, status.State)

	h.provisioner.err = nil
	result, err := h.usecase.Resume(ctx, "11122233344")
	require.NoError(t, err)
	assert.Equal(t, sagaID, result.SagaID)
	assert.Equal(t, models.SubscriptionStatusActive, result.Subscription.Status)
	assert.Len(t, h.billing.subscriptions, 1)
	assert.Equal(t, 2, h.provisioner.calls)
}

func TestFailedStepSurvivesCanceledRequest(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.provisioner.onCall = cancel
	h.provisioner.err = exceptions.ErrUpstreamFatal(constvars.ProviderMedical, 500, "")

	_, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	sagaID, _ := customErr.Details["saga_id"].(string)

	saga := h.sagas.get(sagaID)
	require.NotNil(t, saga)
	assert.Equal(t, models.SagaStateFailed, saga.State)
	require.NotNil(t, saga.LastError)
	assert.Equal(t, 500, saga.LastError.StatusCode)
	assert.Equal(t, models.SagaStepStatusFailed, saga.Step(models.SagaStepMedicalBeneficiary).Status)
}

func TestResumeWithoutSaga(t *testing.T) {
	h := newHarness(t)
	_, err := h.usecase.Resume(context.Background(), "11122233344")
	assert.True(t, exceptions.IsKind(err, constvars.ErrorKindNotFound))
}

func TestSelfSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("Waits for the payment before the medical step", func(t *testing.T) {
		h := newHarness(t)

		accepted, err := h.usecase.StartSelfSignup(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		assert.Equal(t, models.SagaStateAwaitingPayment, accepted.State)
		assert.Equal(t, "token-"+accepted.SagaID, accepted.StatusToken)
		require.NotNil(t, accepted.Subscription)
		assert.Equal(t, models.SubscriptionStatusPending, accepted.Subscription.Status)
		assert.Zero(t, h.provisioner.calls)

		status, err := h.usecase.GetStatusByToken(ctx, accepted.StatusToken)
		require.NoError(t, err)
		assert.Equal(t, models.SagaStateAwaitingPayment, status.State)

		require.NoError(t, h.usecase.CompletePaidSaga(ctx, accepted.SagaID))
		saga := h.sagas.get(accepted.SagaID)
		assert.Equal(t, models.SagaStateCompleted, saga.State)
		assert.NotNil(t, saga.PaidAt)
		subscription, _ := h.subscriptions.FindByID(ctx, saga.BillingSubscriptionID)
		assert.Equal(t, models.SubscriptionStatusActive, subscription.Status)

		require.NoError(t, h.usecase.CompletePaidSaga(ctx, accepted.SagaID))
		assert.Equal(t, 1, h.provisioner.calls)
	})

	t.Run("Admin onboarding takes over a waiting self signup", func(t *testing.T) {
		h := newHarness(t)
		accepted, err := h.usecase.StartSelfSignup(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)

		result, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		assert.Equal(t, accepted.SagaID, result.SagaID)
		assert.Equal(t, 1, h.provisioner.calls)
	})

	t.Run("Expired saga cannot be resumed", func(t *testing.T) {
		h := newHarness(t)
		accepted, err := h.usecase.StartSelfSignup(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)

		require.NoError(t, h.usecase.ExpireSaga(ctx, accepted.SagaID))
		saga := h.sagas.get(accepted.SagaID)
		assert.Equal(t, models.SagaStatePaymentExpired, saga.State)
		subscription, _ := h.subscriptions.FindByID(ctx, saga.BillingSubscriptionID)
		assert.Equal(t, models.SubscriptionStatusCanceled, subscription.Status)

		_, err = h.usecase.Resume(ctx, "11122233344")
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindConflict))
		assert.NoError(t, h.usecase.CompletePaidSaga(ctx, accepted.SagaID))
		assert.Zero(t, h.provisioner.calls)
	})

	t.Run("Expired self signup can sign up again", func(t *testing.T) {
		h := newHarness(t)
		first, err := h.usecase.StartSelfSignup(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		expiredSubscription := first.Subscription.ID
		require.NoError(t, h.usecase.ExpireSaga(ctx, first.SagaID))

		second, err := h.usecase.StartSelfSignup(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		assert.Equal(t, first.SagaID, second.SagaID)
		assert.Equal(t, models.SagaStateAwaitingPayment, second.State)
		require.NotNil(t, second.Subscription)
		assert.NotEqual(t, expiredSubscription, second.Subscription.ID)
		assert.Equal(t, models.SubscriptionStatusPending, second.Subscription.Status)

		assert.Len(t, h.billing.customers, 1)
		assert.Len(t, h.billing.subscriptions, 2)
		old, _ := h.subscriptions.FindByID(ctx, expiredSubscription)
		assert.Equal(t, models.SubscriptionStatusCanceled, old.Status)

		saga := h.sagas.get(second.SagaID)
		assert.Nil(t, saga.PaidAt)
		assert.Equal(t, models.SagaStepMedicalBeneficiary, saga.FirstPendingStep())
	})

	t.Run("Admin onboarding after an expired self signup", func(t *testing.T) {
		h := newHarness(t)
		accepted, err := h.usecase.StartSelfSignup(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		require.NoError(t, h.usecase.ExpireSaga(ctx, accepted.SagaID))

		result, err := h.usecase.OnboardImmediate(ctx, onboardingRequest("plan-1"))
		require.NoError(t, err)
		assert.Equal(t, accepted.SagaID, result.SagaID)
		assert.Equal(t, models.SubscriptionStatusActive, result.Subscription.Status)
		assert.NotEqual(t, accepted.Subscription.ID, result.Subscription.ID)
		assert.Equal(t, 1, h.provisioner.calls)
		assert.Equal(t, models.SagaStateCompleted, h.sagas.get(accepted.SagaID).State)
	})

	t.Run("Invalid status token", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.usecase.GetStatusByToken(ctx, "bad")
		assert.Error(t, err)
	})
}
