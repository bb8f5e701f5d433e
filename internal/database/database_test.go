package database_test

import (
	"context"
	"encoding/json"
	"testing"

	"studio8/config"
	"studio8/internal/booking"
	"studio8/internal/database"
	"studio8/internal/domain"
	"studio8/internal/models"
	"studio8/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunMigrationsSeeds(t *testing.T) {
	db := testutil.NewTestDB(t)
	admin := config.AdminConfig{Email: " Admin@Studio8.id ", Password: "admin12345", Name: "Admin"}

	require.NoError(t, database.RunMigrations(context.Background(), db, "migrations", admin))

	var setting models.SystemSetting
	require.NoError(t, db.Where("`key` = ?", domain.SettingLoyalty).First(&setting).Error)
	var s booking.LoyaltySettings
	require.NoError(t, json.Unmarshal([]byte(setting.Value), &s))
	assert.Equal(t, booking.DefaultLoyaltySettings(), s)

	var u models.StaffUser
	require.NoError(t, db.Where("email = ?", "admin@studio8.id").First(&u).Error)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("admin12345")))

	// Re-running is a no-op.
	require.NoError(t, database.RunMigrations(context.Background(), db, "migrations", admin))
	var n int64
	require.NoError(t, db.Model(&models.StaffUser{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRunMigrationsKeepsExistingSettings(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Create(&models.SystemSetting{Key: domain.SettingLoyalty, Value: `{"rupiah_per_point":200}`}).Error)
	require.NoError(t, db.Create(&models.StaffUser{Email: "boss@studio8.id", Role: domain.RoleAdmin, IsActive: true}).Error)

	require.NoError(t, database.RunMigrations(context.Background(), db, "migrations", config.AdminConfig{Email: "admin@studio8.id", Password: "x"}))

	var setting models.SystemSetting
	require.NoError(t, db.Where("`key` = ?", domain.SettingLoyalty).First(&setting).Error)
	assert.JSONEq(t, `{"rupiah_per_point":200}`, setting.Value)

	var n int64
	require.NoError(t, db.Model(&models.StaffUser{}).Where("email = ?", "admin@studio8.id").Count(&n).Error)
	assert.Zero(t, n, "an admin already exists")
}

func TestRunMigrationsMissingDir(t *testing.T) {
	db := testutil.NewTestDB(t)
	assert.Error(t, database.RunMigrations(context.Background(), db, "does-not-exist", config.AdminConfig{}))
}
