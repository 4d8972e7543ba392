package referrals

import (
	"context"
	"errors"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/responses"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type referralResolver struct {
	MedicalGateway    contracts.MedicalGateway
	RedisRepository   contracts.RedisRepository
	ExemptSpecialties map[string]struct{}
	SpecialtyCacheTTL time.Duration
	ReferralTimeout   time.Duration
	Log               *zap.Logger
}

func NewReferralResolver(
	medicalGateway contracts.MedicalGateway,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ReferralResolver {
	exempt := make(map[string]struct{}, len(internalConfig.Medical.ReferralExemptSpecialties))
	for _, specialty := range internalConfig.Medical.ReferralExemptSpecialties {
		exempt[specialty] = struct{}{}
	}

	return &referralResolver{
		MedicalGateway:    medicalGateway,
		RedisRepository:   redisRepository,
		ExemptSpecialties: exempt,
		SpecialtyCacheTTL: time.Duration(internalConfig.Medical.SpecialtyCacheTTLInMinutes) * time.Minute,
		ReferralTimeout:   internalConfig.Medical.ReferralTimeout(),
		Log:               logger,
	}
}

func (r *referralResolver) ResolveSpecialty(ctx context.Context, specialtyID string) (*models.Specialty, error) {
	requestID := utils.GetRequestID(ctx)
	r.Log.Info("referralResolver.ResolveSpecialty called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSpecialtyIDKey, specialtyID),
	)

	specialties, err := r.specialties(ctx)
	if err != nil {
		return nil, err
	}
	return findSpecialty(specialties, specialtyID)
}

func (r *referralResolver) Resolve(ctx context.Context, beneficiaryUUID, specialtyID string) (*contracts.ReferralResolution, error) {
	requestID := utils.GetRequestID(ctx)
	r.Log.Info("referralResolver.Resolve called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiaryUUID),
		zap.String(constvars.LoggingSpecialtyIDKey, specialtyID),
	)

	if _, ok := r.ExemptSpecialties[specialtyID]; ok {
		specialty, err := r.ResolveSpecialty(ctx, specialtyID)
		if err != nil {
			return nil, err
		}
		r.Log.Info("referralResolver.Resolve referral exempt specialty, self pay",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return &contracts.ReferralResolution{Specialty: *specialty, SelfPay: true}, nil
	}

	var (
		specialties []models.Specialty
		referrals   []models.Referral
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		specialties, err = r.specialties(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		referrals, err = r.MedicalGateway.ListReferrals(groupCtx, beneficiaryUUID)
		return err
	})
	if err := group.Wait(); err != nil {
		r.Log.Error("referralResolver.Resolve error fetching specialties or referrals",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	specialty, err := findSpecialty(specialties, specialtyID)
	if err != nil {
		return nil, err
	}

	referral, err := SelectReferral(referrals, specialtyID)
	if err != nil {
		r.Log.Info("referralResolver.Resolve no referral to book against",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingReferralCountKey, len(referrals)),
			zap.Error(err),
		)
		if errors.Is(err, ErrNoBookableReferral) {
			return nil, exceptions.ErrNoBookableReferral(err, specialtyID)
		}
		return nil, exceptions.ErrNoReferralFound(err, specialtyID)
	}

	r.Log.Info("referralResolver.Resolve succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReferralUUIDKey, referral.UUID),
	)
	return &contracts.ReferralResolution{Specialty: *specialty, ReferralUUID: referral.UUID}, nil
}

// ListReferrals is the display listing. A lookup exceeding the referral timeout
// degrades to an empty list flagged as timed out.
func (r *referralResolver) ListReferrals(ctx context.Context, beneficiaryUUID string) (*responses.Referrals, error) {
	requestID := utils.GetRequestID(ctx)
	r.Log.Info("referralResolver.ListReferrals called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiaryUUID),
		zap.Duration("timeout", r.ReferralTimeout),
	)

	lookupCtx, cancel := context.WithTimeout(ctx, r.ReferralTimeout)
	defer cancel()

	referrals, err := r.MedicalGateway.ListReferrals(lookupCtx, beneficiaryUUID)
	if err != nil {
		if errors.Is(lookupCtx.Err(), context.DeadlineExceeded) || exceptions.IsKind(err, constvars.ErrorKindTimeout) {
			r.Log.Warn("referralResolver.ListReferrals timed out, returning empty list",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return &responses.Referrals{Referrals: []models.Referral{}, TimedOut: true}, nil
		}
		r.Log.Error("referralResolver.ListReferrals error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	return &responses.Referrals{Referrals: referrals}, nil
}

// specialties reads the specialty list through the Redis cache. Cache failures
// fall back to the network.
func (r *referralResolver) specialties(ctx context.Context) ([]models.Specialty, error) {
	requestID := utils.GetRequestID(ctx)

	cached, err := r.RedisRepository.Get(ctx, constvars.MedicalSpecialtyCacheKey)
	if err != nil {
		r.Log.Warn("referralResolver.specialties error reading cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	if cached != "" {
		var specialties []models.Specialty
		if err := json.Unmarshal([]byte(cached), &specialties); err == nil && len(specialties) > 0 {
			return specialties, nil
		}
	}

	specialties, err := r.MedicalGateway.ListSpecialties(ctx)
	if err != nil {
		return nil, err
	}

	if len(specialties) > 0 {
		if err := r.RedisRepository.Set(ctx, constvars.MedicalSpecialtyCacheKey, specialties, r.SpecialtyCacheTTL); err != nil {
			r.Log.Warn("referralResolver.specialties error writing cache",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}
	return specialties, nil
}

func findSpecialty(specialties []models.Specialty, specialtyID string) (*models.Specialty, error) {
	for _, specialty := range specialties {
		if specialty.UUID == specialtyID {
			found := specialty
			return &found, nil
		}
	}
	return nil, exceptions.ErrUnknownSpecialty(specialtyID, nil)
}
