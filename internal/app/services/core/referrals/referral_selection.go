package referrals

import (
	"errors"
	"sort"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"time"
)

var (
	// ErrNoReferralFound means the beneficiary holds no referral at all for the specialty.
	ErrNoReferralFound = errors.New("no referral found for specialty")
	// ErrNoBookableReferral means referrals exist for the specialty but all are consumed, expired or linked.
	ErrNoBookableReferral = errors.New("no bookable referral for specialty")
)

// SelectReferral picks the referral to book against. Candidates are ordered ACTIVE
// before PENDING, then by earliest expiry, then earliest creation, keeping provider
// order for ties.
func SelectReferral(referrals []models.Referral, specialtyUUID string) (*models.Referral, error) {
	found := false
	candidates := make([]models.Referral, 0, len(referrals))
	for _, referral := range referrals {
		if referral.SpecialtyUUID != specialtyUUID {
			continue
		}
		found = true
		if referral.IsBookable() {
			candidates = append(candidates, referral)
		}
	}

	if !found {
		return nil, ErrNoReferralFound
	}
	if len(candidates) == 0 {
		return nil, ErrNoBookableReferral
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if statusRank(a.Status) != statusRank(b.Status) {
			return statusRank(a.Status) < statusRank(b.Status)
		}
		if !a.ExpiresAt.Equal(b.ExpiresAt) {
			return earlier(a.ExpiresAt, b.ExpiresAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return earlier(a.CreatedAt, b.CreatedAt)
		}
		return false
	})

	selected := candidates[0]
	return &selected, nil
}

func statusRank(status string) int {
	switch status {
	case constvars.ReferralStatusActive:
		return 0
	case constvars.ReferralStatusPending:
		return 1
	default:
		return 2
	}
}

// earlier orders zero times last.
func earlier(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	return a.Before(b)
}

// IsPaymentTypeCompatible applies the medical plan payment type rule: the wildcard L
// accepts S, A and L; any other code only accepts itself.
func IsPaymentTypeCompatible(planPaymentType, medicalPaymentType string) bool {
	switch planPaymentType {
	case constvars.PaymentTypeSubscription, constvars.PaymentTypeSingle, constvars.PaymentTypeWildcard:
	default:
		return false
	}
	if medicalPaymentType == constvars.PaymentTypeWildcard {
		return true
	}
	return planPaymentType == medicalPaymentType
}
