package migrations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"studio8/internal/booking"
	"studio8/internal/domain"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upSeedLoyaltySettings, downSeedLoyaltySettings)
}

func upSeedLoyaltySettings(ctx context.Context, tx *sql.Tx) error {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM system_settings WHERE `key` = ?", domain.SettingLoyalty).Scan(&count); err != nil {
		return fmt.Errorf("check loyalty settings: %w", err)
	}
	if count > 0 {
		return nil
	}
	value, err := json.Marshal(booking.DefaultLoyaltySettings())
	if err != nil {
		return err
	}
	now := time.Now()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO system_settings (`key`, value, created_at, updated_at) VALUES (?, ?, ?, ?)",
		domain.SettingLoyalty, string(value), now, now)
	if err != nil {
		return fmt.Errorf("insert loyalty settings: %w", err)
	}
	return nil
}

func downSeedLoyaltySettings(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM system_settings WHERE `key` = ?", domain.SettingLoyalty)
	return err
}
