package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"timecard/internal/domain/auth"
	"timecard/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	tenantID, err := ensureTenant(ctx, pool, cfg.SeedCompanyName)
	if err != nil {
		return err
	}
	return ensureOwnerUser(ctx, pool, tenantID, cfg.SeedOwnerID, cfg.SeedOwnerName, cfg.SeedOwnerPassword)
}

func ensureTenant(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO tenants (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureOwnerUser(ctx context.Context, pool *pgxpool.Pool, tenantID, employeeID, name, password string) error {
	if strings.TrimSpace(employeeID) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE tenant_id = $1 AND employee_id = $2", tenantID, employeeID).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx, `
    INSERT INTO users (tenant_id, name, employee_id, password_hash, position)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, tenantID, name, employeeID, hash, auth.PositionOwner).Scan(&id)
}
