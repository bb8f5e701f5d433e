package booking

import (
	"testing"

	"studio8/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveDiscountTier(t *testing.T) {
	d := ResolveDiscount(DiscountInput{
		Subtotal:      200000,
		ClientEmail:   "ani@example.com",
		TotalBookings: 10,
		Settings:      DefaultLoyaltySettings(),
	})
	assert.Equal(t, int64(14000), d.Amount)
	assert.Equal(t, int64(186000), d.TotalPrice)
	assert.Equal(t, "Silver", d.Tier.Name)
	assert.Equal(t, "Diskon Tier Silver (7%)", d.Reason)
	assert.Equal(t, ReferralNone, d.Referral)
}

func TestResolveDiscountTierBoundaries(t *testing.T) {
	s := DefaultLoyaltySettings()
	for _, tt := range []struct {
		bookings int
		want     int64
	}{
		{0, 0}, {2, 0}, {3, 5000}, {9, 5000}, {10, 7000}, {19, 7000}, {20, 10000}, {99, 10000},
	} {
		d := ResolveDiscount(DiscountInput{Subtotal: 100000, TotalBookings: tt.bookings, Settings: s})
		assert.Equal(t, tt.want, d.Amount, "total bookings %d", tt.bookings)
	}
}

func TestResolveDiscountReferral(t *testing.T) {
	referrer := &models.Client{ID: 7, Email: "budi@example.com", ReferralCode: "BUDI2024"}
	d := ResolveDiscount(DiscountInput{
		Subtotal:     100000,
		ClientEmail:  "cici@example.com",
		IsNewClient:  true,
		ReferralCode: " budi2024 ",
		Referrer:     referrer,
		Settings:     DefaultLoyaltySettings(),
	})
	assert.Equal(t, ReferralApplied, d.Referral)
	assert.Equal(t, "BUDI2024", d.ReferralCodeUsed)
	assert.Equal(t, int64(35000), d.Amount)
	assert.Equal(t, int64(65000), d.TotalPrice)
	assert.Equal(t, ReasonReferral, d.Reason)
}

func TestResolveDiscountReferralIgnored(t *testing.T) {
	s := DefaultLoyaltySettings()
	tests := []struct {
		name string
		in   DiscountInput
		want ReferralOutcome
	}{
		{"unknown code", DiscountInput{Subtotal: 100000, ClientEmail: "a@x.id", IsNewClient: true, ReferralCode: "NOPE", Settings: s}, ReferralUnknown},
		{"self referral", DiscountInput{Subtotal: 100000, ClientEmail: "a@x.id", IsNewClient: true, ReferralCode: "SELF",
			Referrer: &models.Client{Email: "A@X.ID"}, Settings: s}, ReferralSelf},
		{"returning client", DiscountInput{Subtotal: 100000, ClientEmail: "a@x.id", TotalBookings: 1, ReferralCode: "BUDI2024",
			Referrer: &models.Client{Email: "b@x.id"}, Settings: s}, ReferralNotNewClient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ResolveDiscount(tt.in)
			assert.Equal(t, tt.want, d.Referral)
			assert.Equal(t, int64(0), d.Amount)
			assert.Equal(t, int64(100000), d.TotalPrice)
			assert.Empty(t, d.ReferralCodeUsed)
		})
	}
}

func TestResolveDiscountReferralCappedAtSubtotal(t *testing.T) {
	d := ResolveDiscount(DiscountInput{
		Subtotal:     20000,
		ClientEmail:  "new@example.com",
		IsNewClient:  true,
		ReferralCode: "BUDI2024",
		Referrer:     &models.Client{Email: "budi@example.com"},
		Settings:     DefaultLoyaltySettings(),
	})
	assert.Equal(t, int64(20000), d.Amount)
	assert.Equal(t, int64(0), d.TotalPrice)
}

func TestResolveDiscountPoints(t *testing.T) {
	d := ResolveDiscount(DiscountInput{
		Subtotal:      40000,
		ClientEmail:   "ani@example.com",
		TotalBookings: 1,
		LoyaltyPoints: 500,
		RedeemPoints:  true,
		Settings:      DefaultLoyaltySettings(),
	})
	assert.Equal(t, int64(40000), d.PointsValue)
	assert.Equal(t, int64(400), d.PointsRedeemed)
	assert.Equal(t, int64(40000), d.Amount)
	assert.Equal(t, int64(0), d.TotalPrice)
	assert.Equal(t, ReasonPoints, d.Reason)
}

func TestResolveDiscountTierPlusPoints(t *testing.T) {
	d := ResolveDiscount(DiscountInput{
		Subtotal:      200000,
		TotalBookings: 3,
		LoyaltyPoints: 200,
		RedeemPoints:  true,
		Settings:      DefaultLoyaltySettings(),
	})
	assert.Equal(t, int64(10000), d.BaseDiscount)
	assert.Equal(t, int64(20000), d.PointsValue)
	assert.Equal(t, int64(200), d.PointsRedeemed)
	assert.Equal(t, int64(30000), d.Amount)
	assert.Equal(t, int64(170000), d.TotalPrice)
	assert.Equal(t, "Diskon Tier Bronze (5%) + "+ReasonPoints, d.Reason)
}

func TestResolveDiscountBounds(t *testing.T) {
	s := DefaultLoyaltySettings()
	for _, subtotal := range []int64{0, 1, 999, 35000, 50000, 123457, 2000000} {
		for _, points := range []int64{0, 3, 400, 100000} {
			for _, bookings := range []int{0, 3, 25} {
				in := DiscountInput{
					Subtotal:      subtotal,
					IsNewClient:   bookings == 0,
					ReferralCode:  "BUDI2024",
					Referrer:      &models.Client{Email: "budi@example.com"},
					ClientEmail:   "x@example.com",
					TotalBookings: bookings,
					LoyaltyPoints: points,
					RedeemPoints:  true,
					Settings:      s,
				}
				d := ResolveDiscount(in)
				assert.GreaterOrEqual(t, d.Amount, int64(0))
				assert.LessOrEqual(t, d.Amount, subtotal)
				assert.Equal(t, subtotal-d.Amount, d.TotalPrice)
				assert.LessOrEqual(t, d.PointsRedeemed, points)
			}
		}
	}
}

func TestRedeemPoints(t *testing.T) {
	value, redeemed := RedeemPoints(40000, 500, 100)
	assert.Equal(t, int64(40000), value)
	assert.Equal(t, int64(400), redeemed)

	value, redeemed = RedeemPoints(100000, 50, 100)
	assert.Equal(t, int64(5000), value)
	assert.Equal(t, int64(50), redeemed)

	for _, tt := range [][3]int64{{0, 500, 100}, {1000, 0, 100}, {1000, 500, 0}} {
		value, redeemed = RedeemPoints(tt[0], tt[1], float64(tt[2]))
		assert.Zero(t, value)
		assert.Zero(t, redeemed)
	}

	// Less than a point's worth payable redeems nothing.
	value, redeemed = RedeemPoints(40, 10, 100)
	assert.Zero(t, value)
	assert.Zero(t, redeemed)
}
