package beneficiaries

import (
	"context"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedMedical answers beneficiary lookups from a queue; the last entry repeats.
type scriptedMedical struct {
	contracts.MedicalGateway
	lookups      []func() (*models.Beneficiary, error)
	lookupCalls  int
	created      []*requests.MedicalBeneficiary
	updates      []*requests.MedicalBeneficiaryUpdate
	medicalPlans map[string]*models.MedicalPlan
}

func (s *scriptedMedical) GetBeneficiaryByNationalID(ctx context.Context, nationalID string) (*models.Beneficiary, error) {
	i := s.lookupCalls
	if i >= len(s.lookups) {
		i = len(s.lookups) - 1
	}
	s.lookupCalls++
	return s.lookups[i]()
}

func (s *scriptedMedical) CreateBeneficiary(ctx context.Context, request *requests.MedicalBeneficiary) (*models.Beneficiary, error) {
	s.created = append(s.created, request)
	return &models.Beneficiary{UUID: "b-new"}, nil
}

func (s *scriptedMedical) UpdateBeneficiary(ctx context.Context, beneficiaryUUID string, request *requests.MedicalBeneficiaryUpdate) error {
	s.updates = append(s.updates, request)
	return nil
}

func (s *scriptedMedical) GetMedicalPlan(ctx context.Context, medicalPlanUUID string) (*models.MedicalPlan, error) {
	if plan, ok := s.medicalPlans[medicalPlanUUID]; ok {
		return plan, nil
	}
	return nil, exceptions.ErrUpstreamFatal(constvars.ProviderMedical, 500, "")
}

func notFound() (*models.Beneficiary, error) {
	return nil, exceptions.ErrUpstreamNotConsistent(constvars.ProviderMedical, constvars.StatusNotFound, "")
}

func found(beneficiary models.Beneficiary) func() (*models.Beneficiary, error) {
	return func() (*models.Beneficiary, error) {
		copied := beneficiary
		copied.Plans = append([]models.BeneficiaryPlan(nil), beneficiary.Plans...)
		return &copied, nil
	}
}

func newTestProvisioner(medical *scriptedMedical) contracts.BeneficiaryProvisioner {
	cfg := &config.InternalConfig{Medical: config.AppMedical{ConsistencyRetryAttempts: 3}}
	return NewBeneficiaryProvisioner(medical, cfg, zap.NewNop())
}

var (
	testSubscriber = &models.Subscriber{NationalID: "11122233344", Name: "Maria", Address: models.Address{Street: "Rua A", Number: "10"}}
	testPlan       = &models.Plan{ID: "plan-1", MedicalPlanUUID: "mp-1", PaymentType: constvars.PaymentTypeSubscription, ServiceType: "G"}
)

func TestProvision(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a missing beneficiary and waits until it is readable", func(t *testing.T) {
		medical := &scriptedMedical{
			lookups: []func() (*models.Beneficiary, error){
				notFound, notFound, notFound,
				found(models.Beneficiary{UUID: "b-new", ServiceType: "G", Plans: []models.BeneficiaryPlan{{MedicalPlanUUID: "mp-1", ServiceType: "G"}}}),
			},
		}

		result, err := newTestProvisioner(medical).Provision(ctx, testSubscriber, testPlan)
		require.NoError(t, err)
		assert.Equal(t, "b-new", result.Beneficiary.UUID)
		assert.Equal(t, 4, medical.lookupCalls)
		require.Len(t, medical.created, 1)
		assert.Equal(t, "Rua A, 10", medical.created[0].Address)
		require.Len(t, medical.created[0].Plans, 1)
		assert.Equal(t, "mp-1", medical.created[0].Plans[0].Plan.UUID)
		assert.Empty(t, medical.updates)
		assert.Empty(t, result.Warnings)
	})

	t.Run("Gives up after the retry budget", func(t *testing.T) {
		medical := &scriptedMedical{lookups: []func() (*models.Beneficiary, error){notFound}}

		_, err := newTestProvisioner(medical).Provision(ctx, testSubscriber, testPlan)
		require.Error(t, err)
		assert.True(t, exceptions.IsKind(err, constvars.ErrorKindUpstreamEventualConsistency))
		assert.Equal(t, 1+4, medical.lookupCalls)
	})

	t.Run("Attaches the plan and widens the service type", func(t *testing.T) {
		medical := &scriptedMedical{
			lookups: []func() (*models.Beneficiary, error){
				found(models.Beneficiary{UUID: "b-1", ServiceType: "G", Plans: []models.BeneficiaryPlan{{MedicalPlanUUID: "mp-old", ServiceType: "G", PaymentType: "S"}}}),
			},
			medicalPlans: map[string]*models.MedicalPlan{
				"mp-1": {UUID: "mp-1", ServiceType: "S", PaymentType: constvars.PaymentTypeWildcard},
			},
		}

		result, err := newTestProvisioner(medical).Provision(ctx, testSubscriber, testPlan)
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
		require.Len(t, medical.updates, 2)
		assert.Len(t, medical.updates[0].Plans, 2)
		assert.Equal(t, "GS", medical.updates[1].ServiceType)
		assert.Equal(t, "GS", result.Beneficiary.ServiceType)
	})

	t.Run("Incompatible payment type is a warning", func(t *testing.T) {
		medical := &scriptedMedical{
			lookups: []func() (*models.Beneficiary, error){found(models.Beneficiary{UUID: "b-1", ServiceType: "G"})},
			medicalPlans: map[string]*models.MedicalPlan{
				"mp-1": {UUID: "mp-1", ServiceType: "S", PaymentType: constvars.PaymentTypeSingle},
			},
		}

		result, err := newTestProvisioner(medical).Provision(ctx, testSubscriber, testPlan)
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, WarningPaymentTypeIncompatible, result.Warnings[0].Code)
		assert.Empty(t, medical.updates)
	})

	t.Run("Unreadable medical plan is a warning", func(t *testing.T) {
		medical := &scriptedMedical{
			lookups: []func() (*models.Beneficiary, error){found(models.Beneficiary{UUID: "b-1", ServiceType: "G"})},
		}

		result, err := newTestProvisioner(medical).Provision(ctx, testSubscriber, testPlan)
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, WarningMedicalPlanLookupFailed, result.Warnings[0].Code)
	})
}
