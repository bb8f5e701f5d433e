package booking

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"studio8/internal/models"
)

const (
	ReasonReferral = "Diskon Referral"
	ReasonPoints   = "Tukar Poin Loyalitas"
)

// ReferralOutcome says what happened to a submitted referral code. Only ReferralApplied
// changes the price; every other outcome is a silent no-op for the submitter.
type ReferralOutcome string

const (
	ReferralNone         ReferralOutcome = "none"
	ReferralApplied      ReferralOutcome = "applied"
	ReferralUnknown      ReferralOutcome = "unknown_code"
	ReferralSelf         ReferralOutcome = "self_referral"
	ReferralNotNewClient ReferralOutcome = "not_new_client"
)

type DiscountInput struct {
	Subtotal      int64
	ClientEmail   string
	IsNewClient   bool
	ReferralCode  string
	Referrer      *models.Client // owner of ReferralCode; nil when the code matched nobody
	TotalBookings int
	LoyaltyPoints int64
	RedeemPoints  bool
	Settings      LoyaltySettings
}

type Discount struct {
	BaseDiscount     int64
	Reason           string
	Referral         ReferralOutcome
	ReferralCodeUsed string
	Tier             *Tier
	PointsRedeemed   int64
	PointsValue      int64
	Amount           int64
	TotalPrice       int64
}

// ResolveDiscount picks at most one base discount (first-booking referral for new clients,
// tier discount for returning ones) and optionally stacks a points redemption capped at
// what is still payable. The result always satisfies 0 <= Amount <= Subtotal.
func ResolveDiscount(in DiscountInput) Discount {
	d := Discount{Referral: ReferralNone}
	code := NormalizeCode(in.ReferralCode)

	switch {
	case in.IsNewClient && code != "":
		switch {
		case in.Referrer == nil:
			d.Referral = ReferralUnknown
		case strings.EqualFold(strings.TrimSpace(in.Referrer.Email), strings.TrimSpace(in.ClientEmail)):
			d.Referral = ReferralSelf
		default:
			d.Referral = ReferralApplied
			d.BaseDiscount = in.Settings.FirstBookingReferralDiscount
			d.Reason = ReasonReferral
			d.ReferralCodeUsed = code
		}
	case !in.IsNewClient:
		if code != "" {
			d.Referral = ReferralNotNewClient
		}
		if tier := in.Settings.TierFor(in.TotalBookings); tier != nil {
			d.Tier = tier
			d.BaseDiscount = int64(math.Round(float64(in.Subtotal) * tier.DiscountPercentage / 100))
			if d.BaseDiscount > 0 {
				d.Reason = fmt.Sprintf("Diskon Tier %s (%s%%)", tier.Name, strconv.FormatFloat(tier.DiscountPercentage, 'f', -1, 64))
			}
		}
	}
	if d.BaseDiscount > in.Subtotal {
		d.BaseDiscount = in.Subtotal
	}
	if d.BaseDiscount < 0 {
		d.BaseDiscount = 0
	}
	d.Amount = d.BaseDiscount

	if in.RedeemPoints {
		d.PointsValue, d.PointsRedeemed = RedeemPoints(in.Subtotal-d.Amount, in.LoyaltyPoints, in.Settings.RupiahPerPoint)
		if d.PointsValue > 0 {
			d.Amount += d.PointsValue
			if d.Reason == "" {
				d.Reason = ReasonPoints
			} else {
				d.Reason += " + " + ReasonPoints
			}
		}
	}
	d.TotalPrice = in.Subtotal - d.Amount
	return d
}

// RedeemPoints converts up to balance points into rupiah, never exceeding payable.
// It returns the rupiah value and the points consumed.
func RedeemPoints(payable, balance int64, rupiahPerPoint float64) (value, redeemed int64) {
	if payable <= 0 || balance <= 0 || rupiahPerPoint <= 0 {
		return 0, 0
	}
	value = int64(math.Floor(math.Min(float64(payable), float64(balance)*rupiahPerPoint)))
	redeemed = int64(math.Round(float64(value) / rupiahPerPoint))
	if redeemed > balance {
		redeemed = balance
	}
	if redeemed == 0 {
		return 0, 0
	}
	return value, redeemed
}

// NormalizeCode trims and upper-cases a booking or referral code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
