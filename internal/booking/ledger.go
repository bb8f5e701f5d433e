package booking

import (
	"math"
	"strings"
	"time"

	"studio8/internal/domain"
	"studio8/internal/models"
)

// NormalizeEmail lower-cases and trims an email so it can key the client ledger.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewClient materializes an empty ledger for a first-time client.
func NewClient(email, name, phone, referralCode string, now time.Time) *models.Client {
	first := now
	return &models.Client{
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		Phone:        strings.TrimSpace(phone),
		FirstBooking: &first,
		LoyaltyTier:  domain.DefaultTier,
		ReferralCode: referralCode,
	}
}

// EarnedPoints is the loyalty points earned on a paid amount, rounded down.
func EarnedPoints(totalPrice int64, pointsPerRupiah float64) int64 {
	if totalPrice <= 0 || pointsPerRupiah <= 0 {
		return 0
	}
	return int64(math.Floor(float64(totalPrice) * pointsPerRupiah))
}

// DebitPoints removes redeemed points from the ledger; the balance never goes negative.
func DebitPoints(c *models.Client, points int64) {
	if points <= 0 {
		return
	}
	c.LoyaltyPoints -= points
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
}

// CreditPoints returns points to the ledger (cancelled booking, referral bonus).
func CreditPoints(c *models.Client, points int64) {
	if points > 0 {
		c.LoyaltyPoints += points
	}
}

type CompletionResult struct {
	FirstCompletion bool
	PointsEarned    int64
	ReferralBonus   int64
	PreviousTier    string
	NewTier         string
	TierChanged     bool
}

// ApplyCompletion credits a completed booking to the client's ledger. referralBonus is
// granted by the caller only on the client's first completion with a valid referral.
func ApplyCompletion(c *models.Client, totalPrice, referralBonus int64, s LoyaltySettings, now time.Time) CompletionResult {
	res := CompletionResult{
		FirstCompletion: c.TotalBookings == 0,
		PointsEarned:    EarnedPoints(totalPrice, s.PointsPerRupiah),
		PreviousTier:    c.LoyaltyTier,
	}
	if res.FirstCompletion && referralBonus > 0 {
		res.ReferralBonus = referralBonus
	}
	CreditPoints(c, res.PointsEarned+res.ReferralBonus)
	c.TotalBookings++
	c.TotalSpent += totalPrice
	last := now
	c.LastBooking = &last
	if c.FirstBooking == nil {
		first := now
		c.FirstBooking = &first
	}

	res.NewTier = s.TierName(c.TotalBookings)
	if res.NewTier != c.LoyaltyTier {
		res.TierChanged = true
		c.LoyaltyTier = res.NewTier
	}
	return res
}
