package referrals

import (
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectReferral(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("No referral for the specialty", func(t *testing.T) {
		_, err := SelectReferral([]models.Referral{{UUID: "r1", SpecialtyUUID: "other", Status: constvars.ReferralStatusActive}}, "sp-1")
		assert.ErrorIs(t, err, ErrNoReferralFound)
	})

	t.Run("Only consumed or linked referrals", func(t *testing.T) {
		referrals := []models.Referral{
			{UUID: "r1", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusUsed},
			{UUID: "r2", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusExpired},
			{UUID: "r3", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive, AppointmentUUID: "apt-1"},
		}
		_, err := SelectReferral(referrals, "sp-1")
		assert.ErrorIs(t, err, ErrNoBookableReferral)
	})

	t.Run("Skips consumed referrals and other specialties", func(t *testing.T) {
		referrals := []models.Referral{
			{UUID: "used", SpecialtyUUID: "A", Status: constvars.ReferralStatusUsed},
			{UUID: "bookable", SpecialtyUUID: "A", Status: constvars.ReferralStatusActive},
			{UUID: "other", SpecialtyUUID: "B", Status: constvars.ReferralStatusActive},
		}
		selected, err := SelectReferral(referrals, "A")
		require.NoError(t, err)
		assert.Equal(t, "bookable", selected.UUID)

		_, err = SelectReferral(referrals, "C")
		assert.ErrorIs(t, err, ErrNoReferralFound)
		assert.NotErrorIs(t, err, ErrNoBookableReferral)
	})

	t.Run("Active before pending", func(t *testing.T) {
		referrals := []models.Referral{
			{UUID: "pending", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusPending, ExpiresAt: base},
			{UUID: "active", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive, ExpiresAt: base.AddDate(0, 1, 0)},
		}
		selected, err := SelectReferral(referrals, "sp-1")
		require.NoError(t, err)
		assert.Equal(t, "active", selected.UUID)
	})

	t.Run("Earliest expiry, missing expiry last", func(t *testing.T) {
		referrals := []models.Referral{
			{UUID: "none", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive},
			{UUID: "late", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive, ExpiresAt: base.AddDate(0, 0, 10)},
			{UUID: "soon", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive, ExpiresAt: base.AddDate(0, 0, 2)},
		}
		selected, err := SelectReferral(referrals, "sp-1")
		require.NoError(t, err)
		assert.Equal(t, "soon", selected.UUID)
	})

	t.Run("Creation breaks expiry ties, then provider order", func(t *testing.T) {
		referrals := []models.Referral{
			{UUID: "newer", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive, ExpiresAt: base, CreatedAt: base.AddDate(0, 0, -1)},
			{UUID: "older", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive, ExpiresAt: base, CreatedAt: base.AddDate(0, 0, -5)},
			{UUID: "twin", SpecialtyUUID: "sp-1", Status: constvars.ReferralStatusActive, ExpiresAt: base, CreatedAt: base.AddDate(0, 0, -5)},
		}
		selected, err := SelectReferral(referrals, "sp-1")
		require.NoError(t, err)
		assert.Equal(t, "older", selected.UUID)
	})
}

func TestIsPaymentTypeCompatible(t *testing.T) {
	tests := []struct {
		plan, medical string
		want          bool
	}{
		{constvars.PaymentTypeSubscription, constvars.PaymentTypeSubscription, true},
		{constvars.PaymentTypeSingle, constvars.PaymentTypeSingle, true},
		{constvars.PaymentTypeWildcard, constvars.PaymentTypeWildcard, true},
		{constvars.PaymentTypeSubscription, constvars.PaymentTypeWildcard, true},
		{constvars.PaymentTypeSingle, constvars.PaymentTypeWildcard, true},
		{constvars.PaymentTypeSubscription, constvars.PaymentTypeSingle, false},
		{constvars.PaymentTypeSingle, constvars.PaymentTypeSubscription, false},
		{constvars.PaymentTypeWildcard, constvars.PaymentTypeSubscription, false},
		{"X", constvars.PaymentTypeWildcard, false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.plan+"/"+tt.medical, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPaymentTypeCompatible(tt.plan, tt.medical))
		})
	}
}
