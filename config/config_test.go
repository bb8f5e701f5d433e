package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BOOKING_EXTRA_PERSON_CHARGE", "")

	cfg := Load()

	assert.Equal(t, "8099", cfg.Server.Port)
	assert.Equal(t, int64(15000), cfg.Booking.ExtraPersonCharge)
	assert.Equal(t, 2, cfg.Booking.GroupBaseHeadcount)
	assert.Equal(t, 10, cfg.Booking.CodeAttempts)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BOOKING_EXTRA_PERSON_CHARGE", "20000")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, int64(20000), cfg.Booking.ExtraPersonCharge)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns, "invalid ints fall back to the default")
}

func TestCloudinaryConfigured(t *testing.T) {
	assert.False(t, CloudinaryConfig{CloudName: "demo"}.Configured())
	assert.True(t, CloudinaryConfig{CloudName: "demo", APIKey: "k", APISecret: "s"}.Configured())
}
