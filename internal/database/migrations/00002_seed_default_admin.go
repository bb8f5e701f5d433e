package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studio8/config"
	"studio8/internal/domain"

	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
)

var admin config.AdminConfig

// SetAdmin sets the account the default-admin migration creates.
func SetAdmin(a config.AdminConfig) { admin = a }

func init() {
	goose.AddMigrationContext(upSeedDefaultAdmin, downSeedDefaultAdmin)
}

func upSeedDefaultAdmin(ctx context.Context, tx *sql.Tx) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	var count int
	err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM staff_users WHERE role = ? AND deleted_at IS NULL", domain.RoleAdmin).Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing admin: %w", err)
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO staff_users (name, email, password_hash, role, fcm_token, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, '', ?, ?, ?)`,
		admin.Name, strings.ToLower(strings.TrimSpace(admin.Email)), string(hash), domain.RoleAdmin, true, now, now)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

func downSeedDefaultAdmin(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM staff_users WHERE email = ? AND role = ?",
		strings.ToLower(strings.TrimSpace(admin.Email)), domain.RoleAdmin)
	return err
}
