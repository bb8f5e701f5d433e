package booking

import (
	"fmt"
	"sort"

	"studio8/internal/domain"
)

// Tier is a loyalty level unlocked by a cumulative completed-booking count.
type Tier struct {
	Name               string  `json:"name"`
	BookingThreshold   int     `json:"booking_threshold"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// LoyaltySettings is read once per request and never mutated by the booking flow.
type LoyaltySettings struct {
	FirstBookingReferralDiscount int64   `json:"first_booking_referral_discount"`
	LoyaltyTiers                 []Tier  `json:"loyalty_tiers"`
	RupiahPerPoint               float64 `json:"rupiah_per_point"`
	PointsPerRupiah              float64 `json:"points_per_rupiah"`
	ReferralBonusPoints          int64   `json:"referral_bonus_points"`
}

func DefaultLoyaltySettings() LoyaltySettings {
	return LoyaltySettings{
		FirstBookingReferralDiscount: 35000,
		LoyaltyTiers: []Tier{
			{Name: "Bronze", BookingThreshold: 3, DiscountPercentage: 5},
			{Name: "Silver", BookingThreshold: 10, DiscountPercentage: 7},
			{Name: "Gold", BookingThreshold: 20, DiscountPercentage: 10},
		},
		RupiahPerPoint:      100,
		PointsPerRupiah:     0.001,
		ReferralBonusPoints: 50,
	}
}

func (s LoyaltySettings) Validate() error {
	if s.FirstBookingReferralDiscount < 0 {
		return Invalid("first_booking_referral_discount", "must not be negative")
	}
	if s.RupiahPerPoint < 0 {
		return Invalid("rupiah_per_point", "must not be negative")
	}
	if s.PointsPerRupiah < 0 {
		return Invalid("points_per_rupiah", "must not be negative")
	}
	if s.ReferralBonusPoints < 0 {
		return Invalid("referral_bonus_points", "must not be negative")
	}
	seen := make(map[string]bool, len(s.LoyaltyTiers))
	for i, t := range s.LoyaltyTiers {
		field := fmt.Sprintf("loyalty_tiers[%d]", i)
		if t.Name == "" {
			return Invalid(field+".name", "is required")
		}
		if seen[t.Name] {
			return Invalid(field+".name", "duplicate tier name")
		}
		seen[t.Name] = true
		if t.BookingThreshold < 0 {
			return Invalid(field+".booking_threshold", "must not be negative")
		}
		if t.DiscountPercentage < 0 || t.DiscountPercentage > 100 {
			return Invalid(field+".discount_percentage", "must be between 0 and 100")
		}
	}
	return nil
}

// TierFor returns the highest tier whose threshold totalBookings meets, or nil.
func (s LoyaltySettings) TierFor(totalBookings int) *Tier {
	tiers := make([]Tier, len(s.LoyaltyTiers))
	copy(tiers, s.LoyaltyTiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].BookingThreshold > tiers[j].BookingThreshold
	})
	for i := range tiers {
		if totalBookings >= tiers[i].BookingThreshold {
			return &tiers[i]
		}
	}
	return nil
}

// TierName is TierFor with the default tier name when no tier matches.
func (s LoyaltySettings) TierName(totalBookings int) string {
	if t := s.TierFor(totalBookings); t != nil {
		return t.Name
	}
	return domain.DefaultTier
}
