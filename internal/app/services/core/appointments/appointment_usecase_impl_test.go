package appointments

import (
	"context"
	"sync"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/dto/responses"
	"telemed-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscribers struct {
	contracts.SubscriberRepository
	byNationalID map[string]*models.Subscriber
}

func (f *fakeSubscribers) FindByNationalID(ctx context.Context, nationalID string) (*models.Subscriber, error) {
	return f.byNationalID[nationalID], nil
}

func (f *fakeSubscribers) FindByIdentityUserID(ctx context.Context, identityUserID string) (*models.Subscriber, error) {
	for _, subscriber := range f.byNationalID {
		if subscriber.IdentityUserID == identityUserID {
			return subscriber, nil
		}
	}
	return nil, nil
}

type fakeSubscriptions struct {
	contracts.SubscriptionRepository
	open *models.Subscription
}

func (f *fakeSubscriptions) FindOpenByNationalID(ctx context.Context, nationalID string) (*models.Subscription, error) {
	return f.open, nil
}

type fakePlans struct {
	contracts.PlanRepository
	plans map[string]*models.Plan
}

func (f *fakePlans) FindByID(ctx context.Context, planID string) (*models.Plan, error) {
	return f.plans[planID], nil
}

type memoryImmediateRequests struct {
	mu      sync.Mutex
	records map[string]models.ImmediateRequest
}

func (m *memoryImmediateRequests) Create(ctx context.Context, request *models.ImmediateRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[request.ID] = *request
	return nil
}

func (m *memoryImmediateRequests) FindByID(ctx context.Context, requestID string) (*models.ImmediateRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[requestID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *memoryImmediateRequests) Update(ctx context.Context, request *models.ImmediateRequest) error {
	return m.Create(ctx, request)
}

type fakeResolver struct {
	resolution *contracts.ReferralResolution
	err        error
}

func (f *fakeResolver) ResolveSpecialty(ctx context.Context, specialtyID string) (*models.Specialty, error) {
	if specialtyID == "sp-unknown" {
		return nil, exceptions.ErrUnknownSpecialty(specialtyID, nil)
	}
	return &models.Specialty{UUID: specialtyID, Name: "Cardiologia"}, nil
}

func (f *fakeResolver) Resolve(ctx context.Context, beneficiaryUUID, specialtyID string) (*contracts.ReferralResolution, error) {
	return f.resolution, f.err
}

func (f *fakeResolver) ListReferrals(ctx context.Context, beneficiaryUUID string) (*responses.Referrals, error) {
	return &responses.Referrals{Referrals: []models.Referral{}}, nil
}

type fakeMedical struct {
	contracts.MedicalGateway
	booked           []*requests.MedicalAppointment
	appointment      *models.Appointment
	appointments     []models.Appointment
	canceled         []string
	immediate        *models.ProviderImmediateRequest
	canceledRequests []string
}

func (f *fakeMedical) GetBeneficiaryByNationalID(ctx context.Context, nationalID string) (*models.Beneficiary, error) {
	return nil, exceptions.ErrUpstreamNotConsistent(constvars.ProviderMedical, constvars.StatusNotFound, "")
}

func (f *fakeMedical) CreateAppointment(ctx context.Context, request *requests.MedicalAppointment) (*models.Appointment, error) {
	f.booked = append(f.booked, request)
	return &models.Appointment{UUID: "apt-1", SpecialtyUUID: request.SpecialtyUUID, Status: constvars.AppointmentStatusScheduled}, nil
}

func (f *fakeMedical) GetAppointment(ctx context.Context, appointmentUUID string) (*models.Appointment, error) {
	if f.appointment == nil {
		return nil, exceptions.ErrAppointmentNotFound(nil)
	}
	return f.appointment, nil
}

func (f *fakeMedical) ListAppointments(ctx context.Context, beneficiaryUUID string) ([]models.Appointment, error) {
	return f.appointments, nil
}

func (f *fakeMedical) CancelAppointment(ctx context.Context, appointmentUUID string) error {
	f.canceled = append(f.canceled, appointmentUUID)
	return nil
}

func (f *fakeMedical) CreateImmediateRequest(ctx context.Context, beneficiaryUUID string, request *requests.MedicalImmediateRequest) (*models.ProviderImmediateRequest, error) {
	return &models.ProviderImmediateRequest{UUID: "prov-1", Status: "PENDING"}, nil
}

func (f *fakeMedical) GetImmediateRequest(ctx context.Context, beneficiaryUUID, requestUUID string) (*models.ProviderImmediateRequest, error) {
	if f.immediate == nil {
		return nil, exceptions.ErrImmediateRequestNotFound(nil)
	}
	return f.immediate, nil
}

func (f *fakeMedical) CancelImmediateRequest(ctx context.Context, beneficiaryUUID, requestUUID string) error {
	f.canceledRequests = append(f.canceledRequests, requestUUID)
	return nil
}

type fixture struct {
	usecase   *appointmentUsecase
	medical   *fakeMedical
	resolver  *fakeResolver
	immediate *memoryImmediateRequests
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		medical:   &fakeMedical{},
		resolver:  &fakeResolver{resolution: &contracts.ReferralResolution{Specialty: models.Specialty{UUID: "sp-cardio", Name: "Cardiologia"}, ReferralUUID: "ref-1"}},
		immediate: &memoryImmediateRequests{records: map[string]models.ImmediateRequest{}},
		clock:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	subscribers := &fakeSubscribers{byNationalID: map[string]*models.Subscriber{
		"11122233344": {NationalID: "11122233344", BeneficiaryUUID: "b-1", IdentityUserID: "user-1"},
	}}
	subscriptions := &fakeSubscriptions{open: &models.Subscription{ID: "sub-1", PlanID: "plan-1", Status: models.SubscriptionStatusActive}}
	plans := &fakePlans{plans: map[string]*models.Plan{"plan-1": {ID: "plan-1", Specialties: []string{"sp-cardio"}}}}
	cfg := &config.InternalConfig{
		Appointment: config.AppAppointment{
			CancellationThresholdInHours: 24,
			ImmediateRequestTTLInMinutes: 15,
			AvailabilityMaxRangeInDays:   30,
		},
	}

	uc := NewAppointmentUsecase(subscribers, subscriptions, plans, f.immediate, f.medical, f.resolver, cfg, zap.NewNop()).(*appointmentUsecase)
	uc.now = func() time.Time { return f.clock }
	f.usecase = uc
	return f
}

func TestNationalIDForIdentityUser(t *testing.T) {
	f := newFixture(t)

	nationalID, err := f.usecase.NationalIDForIdentityUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "11122233344", nationalID)

	_, err = f.usecase.NationalIDForIdentityUser(context.Background(), "nobody")
	assert.True(t, exceptions.IsKind(err, constvars.ErrorKindNotFound))
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Books against the selected referral", func(t *testing.T) {
		f := newFixture(t)
		response, err := f.usecase.CreateAppointment(ctx, &requests.CreateAppointment{
			NationalID:      "11122233344",
			Date:            "2024-05-10",
			Time:            "09:00",
			DurationMinutes: 30,
			SpecialtyID:     "sp-cardio",
		})
		require.NoError(t, err)
		assert.Equal(t, "apt-1", response.UUID)
		assert.Equal(t, "ref-1", response.ReferralUUID)
		assert.Equal(t, "Cardiologia", response.SpecialtyName)
		assert.False(t, response.SelfPay)

		require.Len(t, f.medical.booked, 1)
		booked := f.medical.booked[0]
		assert.Equal(t, "b-1", booked.BeneficiaryUUID)
		assert.Equal(t, "10/05/2024", booked.Date)
		assert.Equal(t, "09:00", booked.From)
		assert.Equal(t, "09:30", booked.To)
		assert.False(t, booked.ApproveAdditionalPayment)
	})

	t.Run("Self pay approves the additional payment", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.resolution = &contracts.ReferralResolution{Specialty: models.Specialty{UUID: "sp-general"}, SelfPay: true}

		response, err := f.usecase.CreateAppointment(ctx, &requests.CreateAppointment{
			NationalID: "11122233344", Date: "2024-05-10", From: "10:00", To: "10:20", SpecialtyID: "sp-general",
		})
		require.NoError(t, err)
		assert.True(t, response.SelfPay)
		assert.True(t, f.medical.booked[0].ApproveAdditionalPayment)
		assert.Empty(t, f.medical.booked[0].ReferralUUID)
	})

	t.Run("Specialty outside the plan", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.resolution = &contracts.ReferralResolution{Specialty: models.Specialty{UUID: "sp-derma"}, ReferralUUID: "ref-9"}

		_, err := f.usecase.CreateAppointment(ctx, &requests.CreateAppointment{
			NationalID: "11122233344", Date: "2024-05-10", From: "10:00", To: "10:20", SpecialtyID: "sp-derma",
		})
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindCompatibility))
		assert.Empty(t, f.medical.booked)
	})

	t.Run("Unknown specialty carries the submitted body", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.err = exceptions.ErrUnknownSpecialty("sp-x", nil)
		request := &requests.CreateAppointment{NationalID: "11122233344", Date: "2024-05-10", From: "10:00", To: "10:20", SpecialtyID: "sp-x"}

		_, err := f.usecase.CreateAppointment(ctx, request)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, request, customErr.Details[exceptions.DetailSubmittedBody])
	})

	t.Run("Reversed window", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.usecase.CreateAppointment(ctx, &requests.CreateAppointment{
			NationalID: "11122233344", Date: "2024-05-10", From: "10:00", To: "09:00",
		})
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindValidation))
	})

	t.Run("Unknown beneficiary", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.usecase.CreateAppointment(ctx, &requests.CreateAppointment{
			NationalID: "99988877766", Date: "2024-05-10", From: "10:00", To: "10:20",
		})
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindNotFound))
	})
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	f.medical.appointments = []models.Appointment{
		{UUID: "late", Status: constvars.AppointmentStatusScheduled, Start: f.clock.Add(72 * time.Hour)},
		{UUID: "past", Status: constvars.AppointmentStatusScheduled, Start: f.clock.Add(-48 * time.Hour), End: f.clock.Add(-47 * time.Hour)},
		{UUID: "soon", Status: constvars.AppointmentStatusScheduled, Start: f.clock.Add(2 * time.Hour)},
	}

	result, err := f.usecase.ListAppointments(context.Background(), "11122233344")
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, []string{"past", "soon", "late"}, []string{result[0].UUID, result[1].UUID, result[2].UUID})
	assert.Equal(t, constvars.AppointmentStatusCompleted, result[0].Status)
	assert.False(t, result[1].Cancelable)
	assert.True(t, result[2].Cancelable)
}

func TestGetAvailabilityRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.usecase.GetAvailability(context.Background(), "11122233344", &requests.Availability{
		SpecialtyID: "sp-cardio", DateInitial: "01/05/2024", DateFinal: "15/07/2024",
	})
	assert.True(t, exceptions.IsKind(err, constvars.ErrorKindValidation))

	_, err = f.usecase.GetAvailability(context.Background(), "11122233344", &requests.Availability{
		SpecialtyID: "sp-cardio", DateInitial: "10/05/2024", DateFinal: "01/05/2024",
	})
	assert.True(t, exceptions.IsKind(err, constvars.ErrorKindValidation))
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancels ahead of the window", func(t *testing.T) {
		f := newFixture(t)
		f.medical.appointment = &models.Appointment{UUID: "apt-1", BeneficiaryUUID: "b-1", Status: constvars.AppointmentStatusScheduled, Start: f.clock.Add(25 * time.Hour)}

		require.NoError(t, f.usecase.CancelAppointment(ctx, "11122233344", "apt-1"))
		assert.Equal(t, []string{"apt-1"}, f.medical.canceled)
	})

	t.Run("Inside the window", func(t *testing.T) {
		f := newFixture(t)
		f.medical.appointment = &models.Appointment{UUID: "apt-1", BeneficiaryUUID: "b-1", Status: constvars.AppointmentStatusScheduled, Start: f.clock.Add(24 * time.Hour)}

		err := f.usecase.CancelAppointment(ctx, "11122233344", "apt-1")
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindCompatibility))
		assert.Empty(t, f.medical.canceled)
	})

	t.Run("Another beneficiary's appointment", func(t *testing.T) {
		f := newFixture(t)
		f.medical.appointment = &models.Appointment{UUID: "apt-1", BeneficiaryUUID: "b-2", Status: constvars.AppointmentStatusScheduled, Start: f.clock.Add(48 * time.Hour)}

		err := f.usecase.CancelAppointment(ctx, "11122233344", "apt-1")
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindNotFound))
	})

	t.Run("Without a national id ownership is not checked", func(t *testing.T) {
		f := newFixture(t)
		f.medical.appointment = &models.Appointment{UUID: "apt-1", BeneficiaryUUID: "b-2", Status: constvars.AppointmentStatusScheduled, Start: f.clock.Add(48 * time.Hour)}

		assert.NoError(t, f.usecase.CancelAppointment(ctx, "", "apt-1"))
	})
}

func TestImmediateRequests(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *fixture) *responses.ImmediateRequest {
		t.Helper()
		response, err := f.usecase.CreateImmediateRequest(ctx, &requests.CreateImmediateRequest{NationalID: "11122233344", SpecialtyID: "sp-cardio"})
		require.NoError(t, err)
		return response
	}

	t.Run("Created pending with a TTL", func(t *testing.T) {
		f := newFixture(t)
		response := create(t, f)
		assert.Equal(t, models.ImmediateRequestStatusPending, response.Status)
		assert.Equal(t, f.clock.Add(15*time.Minute), response.ExpiresAt)
	})

	t.Run("Unknown specialty is rejected before the provider call", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.usecase.CreateImmediateRequest(ctx, &requests.CreateImmediateRequest{NationalID: "11122233344", SpecialtyID: "sp-unknown"})
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindCompatibility))
	})

	t.Run("Matched appointment schedules the request", func(t *testing.T) {
		f := newFixture(t)
		created := create(t, f)
		f.medical.immediate = &models.ProviderImmediateRequest{
			UUID:        "prov-1",
			Appointment: &models.Appointment{UUID: "apt-7", Start: f.clock.Add(5 * time.Minute), JoinLink: "https://meet/7"},
		}

		response, err := f.usecase.GetImmediateRequest(ctx, "11122233344", created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ImmediateRequestStatusScheduled, response.Status)
		require.NotNil(t, response.Appointment)
		assert.Equal(t, "https://meet/7", response.Appointment.JoinLink)
	})

	t.Run("Pending past the TTL is canceled", func(t *testing.T) {
		f := newFixture(t)
		created := create(t, f)
		f.medical.immediate = &models.ProviderImmediateRequest{UUID: "prov-1", Status: "PENDING"}
		f.clock = f.clock.Add(16 * time.Minute)

		response, err := f.usecase.GetImmediateRequest(ctx, "11122233344", created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ImmediateRequestStatusCanceled, response.Status)
		assert.Equal(t, []string{"prov-1"}, f.medical.canceledRequests)
	})

	t.Run("Other subscriber cannot read the request", func(t *testing.T) {
		f := newFixture(t)
		created := create(t, f)

		_, err := f.usecase.GetImmediateRequest(ctx, "99988877766", created.ID)
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindNotFound))
	})

	t.Run("Cancel is idempotent and refused once scheduled", func(t *testing.T) {
		f := newFixture(t)
		created := create(t, f)

		require.NoError(t, f.usecase.CancelImmediateRequest(ctx, "11122233344", created.ID))
		require.NoError(t, f.usecase.CancelImmediateRequest(ctx, "11122233344", created.ID))
		assert.Len(t, f.medical.canceledRequests, 1)

		scheduled := create(t, f)
		record, _ := f.immediate.FindByID(ctx, scheduled.ID)
		record.Status = models.ImmediateRequestStatusScheduled
		require.NoError(t, f.immediate.Update(ctx, record))

		err := f.usecase.CancelImmediateRequest(ctx, "11122233344", scheduled.ID)
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindConflict))
	})
}
