package seeders

import (
	"context"
	"encoding/json"
	"log"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Роль admin не обходит проверку прав, только проверку роли, поэтому
// суперадминистратору материализуется полная карта прав.
func seedSuperAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config) error {
	log.Println("  - Создание суперадминистратора...")

	var exists bool
	err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", cfg.Auth.SuperAdminEmail).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		log.Println("    - Суперадминистратор уже существует. Пропускаем.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.SuperAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	permsJSON, err := json.Marshal(authz.FullPermissionSet())
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
        INSERT INTO users (email, fio, password_hash, role, status, permissions)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, cfg.Auth.SuperAdminEmail, "Суперадминистратор", string(hash), authz.RoleAdmin, "active", permsJSON)
	return err
}
