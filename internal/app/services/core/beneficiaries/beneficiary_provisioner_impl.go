package beneficiaries

import (
	"context"
	"fmt"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/app/services/core/referrals"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

const (
	WarningPlanAttachFailed        = "plan_attach_failed"
	WarningPaymentTypeIncompatible = "payment_type_incompatible"
	WarningMedicalPlanLookupFailed = "medical_plan_lookup_failed"
	WarningServiceTypeUpdateFailed = "service_type_update_failed"
)

type beneficiaryProvisioner struct {
	MedicalGateway contracts.MedicalGateway
	RetryPolicy    utils.RetryPolicy
	Log            *zap.Logger
}

func NewBeneficiaryProvisioner(medicalGateway contracts.MedicalGateway, internalConfig *config.InternalConfig, logger *zap.Logger) contracts.BeneficiaryProvisioner {
	return &beneficiaryProvisioner{
		MedicalGateway: medicalGateway,
		RetryPolicy: utils.RetryPolicy{
			Retries: internalConfig.Medical.ConsistencyRetryAttempts,
			Delay:   time.Duration(internalConfig.Medical.ConsistencyRetryDelayInMillis) * time.Millisecond,
		},
		Log: logger,
	}
}

// Provision makes sure the subscriber has a beneficiary bound to the plan's medical
// plan with a service type matching its attached plans. Only fetch and create
// failures are returned as errors; repairs degrade to warnings.
func (p *beneficiaryProvisioner) Provision(ctx context.Context, subscriber *models.Subscriber, plan *models.Plan) (*contracts.ProvisionResult, error) {
	requestID := utils.GetRequestID(ctx)
	p.Log.Info("beneficiaryProvisioner.Provision called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, subscriber.NationalID),
		zap.String(constvars.LoggingPlanIDKey, plan.ID),
	)

	beneficiary, err := p.fetchOrCreate(ctx, subscriber, plan)
	if err != nil {
		p.Log.Error("beneficiaryProvisioner.Provision error ensuring beneficiary",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	result := &contracts.ProvisionResult{Beneficiary: beneficiary}

	if plan.MedicalPlanUUID != "" && !beneficiary.HasPlan(plan.MedicalPlanUUID) {
		p.attachPlan(ctx, beneficiary, plan, result)
	}

	p.reconcileServiceType(ctx, beneficiary, result)

	p.Log.Info("beneficiaryProvisioner.Provision succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiary.UUID),
		zap.String(constvars.LoggingServiceTypeKey, beneficiary.ServiceType),
		zap.Int(constvars.LoggingWarningCountKey, len(result.Warnings)),
	)
	return result, nil
}

// fetchOrCreate looks the beneficiary up by national id, retrying while the network
// is not yet consistent. A 404 creates it and then waits for it to become readable.
func (p *beneficiaryProvisioner) fetchOrCreate(ctx context.Context, subscriber *models.Subscriber, plan *models.Plan) (*models.Beneficiary, error) {
	requestID := utils.GetRequestID(ctx)

	var (
		beneficiary *models.Beneficiary
		notFound    bool
	)
	err := utils.RetryOnEventualConsistency(ctx, p.RetryPolicy, func(attempt int) error {
		var err error
		beneficiary, err = p.MedicalGateway.GetBeneficiaryByNationalID(ctx, subscriber.NationalID)
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			notFound = true
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !notFound {
		return beneficiary, nil
	}

	p.Log.Info("beneficiaryProvisioner.fetchOrCreate beneficiary not found, creating",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, subscriber.NationalID),
	)

	request := &requests.MedicalBeneficiary{
		Name:        subscriber.Name,
		Cpf:         subscriber.NationalID,
		BirthDate:   subscriber.BirthDate,
		Phone:       subscriber.Phone,
		Email:       subscriber.Email,
		ZipCode:     subscriber.Address.ZipCode,
		Address:     formatAddress(subscriber.Address),
		City:        subscriber.Address.City,
		State:       subscriber.Address.State,
		ServiceType: plan.ServiceType,
	}
	if plan.MedicalPlanUUID != "" {
		request.Plans = []requests.MedicalPlanBinding{{
			Plan:        requests.MedicalPlanRef{UUID: plan.MedicalPlanUUID},
			PaymentType: plan.PaymentType,
		}}
	}

	created, err := p.MedicalGateway.CreateBeneficiary(ctx, request)
	if err != nil {
		return nil, err
	}

	err = utils.RetryOnEventualConsistency(ctx, p.RetryPolicy, func(attempt int) error {
		p.Log.Info("beneficiaryProvisioner.fetchOrCreate re-fetching created beneficiary",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingAttemptKey, attempt),
		)
		var err error
		beneficiary, err = p.MedicalGateway.GetBeneficiaryByNationalID(ctx, subscriber.NationalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if beneficiary.UUID == "" && created != nil {
		beneficiary.UUID = created.UUID
	}
	return beneficiary, nil
}

func (p *beneficiaryProvisioner) attachPlan(ctx context.Context, beneficiary *models.Beneficiary, plan *models.Plan, result *contracts.ProvisionResult) {
	requestID := utils.GetRequestID(ctx)

	medicalPlan, err := p.getMedicalPlan(ctx, plan.MedicalPlanUUID)
	if err != nil {
		p.warn(ctx, result, WarningMedicalPlanLookupFailed, fmt.Sprintf("could not read medical plan %s: %s", plan.MedicalPlanUUID, err.Error()))
		return
	}

	if !referrals.IsPaymentTypeCompatible(plan.PaymentType, medicalPlan.PaymentType) {
		p.warn(ctx, result, WarningPaymentTypeIncompatible, fmt.Sprintf("payment type %s is not accepted by medical plan %s (%s)", plan.PaymentType, medicalPlan.UUID, medicalPlan.PaymentType))
		return
	}

	bindings := make([]requests.MedicalPlanBinding, 0, len(beneficiary.Plans)+1)
	for _, attached := range beneficiary.Plans {
		bindings = append(bindings, requests.MedicalPlanBinding{
			Plan:        requests.MedicalPlanRef{UUID: attached.MedicalPlanUUID},
			PaymentType: attached.PaymentType,
		})
	}
	bindings = append(bindings, requests.MedicalPlanBinding{
		Plan:        requests.MedicalPlanRef{UUID: plan.MedicalPlanUUID},
		PaymentType: plan.PaymentType,
	})

	err = utils.RetryOnEventualConsistency(ctx, p.RetryPolicy, func(attempt int) error {
		return p.MedicalGateway.UpdateBeneficiary(ctx, beneficiary.UUID, &requests.MedicalBeneficiaryUpdate{Plans: bindings})
	})
	if err != nil {
		p.warn(ctx, result, WarningPlanAttachFailed, fmt.Sprintf("could not attach medical plan %s: %s", plan.MedicalPlanUUID, err.Error()))
		return
	}

	beneficiary.Plans = append(beneficiary.Plans, models.BeneficiaryPlan{
		MedicalPlanUUID: medicalPlan.UUID,
		Name:            medicalPlan.Name,
		ServiceType:     medicalPlan.ServiceType,
		PaymentType:     plan.PaymentType,
	})
	p.Log.Info("beneficiaryProvisioner.attachPlan attached medical plan",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPlanIDKey, plan.MedicalPlanUUID),
	)
}

// reconcileServiceType sets the beneficiary service type to the union of its plans'
// capabilities. Plans without a service type are resolved through the medical plan.
func (p *beneficiaryProvisioner) reconcileServiceType(ctx context.Context, beneficiary *models.Beneficiary, result *contracts.ProvisionResult) {
	requestID := utils.GetRequestID(ctx)

	serviceTypes := make([]string, 0, len(beneficiary.Plans))
	for i, attached := range beneficiary.Plans {
		if attached.ServiceType == "" {
			medicalPlan, err := p.getMedicalPlan(ctx, attached.MedicalPlanUUID)
			if err != nil {
				p.warn(ctx, result, WarningMedicalPlanLookupFailed, fmt.Sprintf("could not read medical plan %s: %s", attached.MedicalPlanUUID, err.Error()))
				continue
			}
			beneficiary.Plans[i].ServiceType = medicalPlan.ServiceType
			attached.ServiceType = medicalPlan.ServiceType
		}
		serviceTypes = append(serviceTypes, attached.ServiceType)
	}

	target := UnionServiceTypes(serviceTypes...)
	if target == "" || target == beneficiary.ServiceType {
		return
	}

	p.Log.Info("beneficiaryProvisioner.reconcileServiceType correcting service type",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("current", beneficiary.ServiceType),
		zap.String("target", target),
	)

	err := utils.RetryOnEventualConsistency(ctx, p.RetryPolicy, func(attempt int) error {
		return p.MedicalGateway.UpdateBeneficiary(ctx, beneficiary.UUID, &requests.MedicalBeneficiaryUpdate{ServiceType: target})
	})
	if err != nil {
		p.warn(ctx, result, WarningServiceTypeUpdateFailed, fmt.Sprintf("could not set service type %s: %s", target, err.Error()))
		return
	}
	beneficiary.ServiceType = target
}

func (p *beneficiaryProvisioner) getMedicalPlan(ctx context.Context, medicalPlanUUID string) (*models.MedicalPlan, error) {
	var medicalPlan *models.MedicalPlan
	err := utils.RetryOnEventualConsistency(ctx, p.RetryPolicy, func(attempt int) error {
		var err error
		medicalPlan, err = p.MedicalGateway.GetMedicalPlan(ctx, medicalPlanUUID)
		return err
	})
	return medicalPlan, err
}

func (p *beneficiaryProvisioner) warn(ctx context.Context, result *contracts.ProvisionResult, code, message string) {
	p.Log.Warn("beneficiaryProvisioner repair failed",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String("warning_code", code),
		zap.String("warning_message", message),
	)
	result.Warnings = append(result.Warnings, models.Warning{Code: code, Message: message})
}

func formatAddress(address models.Address) string {
	formatted := address.Street
	if address.Number != "" {
		formatted += ", " + address.Number
	}
	if address.Complement != "" {
		formatted += " " + address.Complement
	}
	if address.District != "" {
		formatted += " - " + address.District
	}
	return formatted
}
