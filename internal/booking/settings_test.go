package booking

import (
	"testing"

	"studio8/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLoyaltySettingsValidate(t *testing.T) {
	assert.NoError(t, DefaultLoyaltySettings().Validate())

	tests := []struct {
		field  string
		mutate func(s *LoyaltySettings)
	}{
		{"first_booking_referral_discount", func(s *LoyaltySettings) { s.FirstBookingReferralDiscount = -1 }},
		{"rupiah_per_point", func(s *LoyaltySettings) { s.RupiahPerPoint = -1 }},
		{"points_per_rupiah", func(s *LoyaltySettings) { s.PointsPerRupiah = -0.5 }},
		{"referral_bonus_points", func(s *LoyaltySettings) { s.ReferralBonusPoints = -5 }},
		{"loyalty_tiers[0].name", func(s *LoyaltySettings) { s.LoyaltyTiers[0].Name = "" }},
		{"loyalty_tiers[1].name", func(s *LoyaltySettings) { s.LoyaltyTiers[1].Name = "Bronze" }},
		{"loyalty_tiers[2].booking_threshold", func(s *LoyaltySettings) { s.LoyaltyTiers[2].BookingThreshold = -1 }},
		{"loyalty_tiers[2].discount_percentage", func(s *LoyaltySettings) { s.LoyaltyTiers[2].DiscountPercentage = 120 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			s := DefaultLoyaltySettings()
			tt.mutate(&s)
			ve, ok := IsValidation(s.Validate())
			if assert.True(t, ok) {
				assert.Equal(t, tt.field, ve.Field)
			}
		})
	}
}

func TestTierForUnsortedTiers(t *testing.T) {
	s := LoyaltySettings{LoyaltyTiers: []Tier{
		{Name: "Gold", BookingThreshold: 20, DiscountPercentage: 10},
		{Name: "Bronze", BookingThreshold: 3, DiscountPercentage: 5},
		{Name: "Silver", BookingThreshold: 10, DiscountPercentage: 7},
	}}
	assert.Nil(t, s.TierFor(2))
	assert.Equal(t, "Bronze", s.TierFor(3).Name)
	assert.Equal(t, "Silver", s.TierFor(10).Name)
	assert.Equal(t, "Gold", s.TierFor(40).Name)
	assert.Equal(t, domain.DefaultTier, s.TierName(0))
	// Caller order is untouched.
	assert.Equal(t, "Gold", s.LoyaltyTiers[0].Name)
}
