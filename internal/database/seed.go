package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shoekart/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seed inserts a demo admin, a demo shopper and a small catalog. It is a
// no-op when any user already exists, so it is safe to run at every startup.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	var userCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		logger.Info("Seed skipped; users already exist")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()

	users := []struct {
		email, password, role, name string
	}{
		{"admin@shoekart.test", "admin123", domain.RoleAdmin, "Admin"},
		{"user@shoekart.test", "user123", domain.RoleUser, "Demo User"},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, email, password_hash, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, uuid.New(), u.email, string(hash), u.name, u.role, now)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
	}

	products := []struct {
		name, description, imageURL string
		priceCents                  int64
		stock                       int
	}{
		{"Air Runner Pro", "Lightweight running shoes with breathable mesh and responsive cushioning.", "https://images.unsplash.com/photo-1542293787938-c9e299b88054", 6999, 25},
		{"Street Sneak Classic", "Timeless low-top sneakers with durable canvas and rubber sole.", "https://images.unsplash.com/photo-1514986888952-8cd320577b68", 4999, 40},
		{"Trail Master GTX", "Waterproof trail shoes with aggressive grip and protective toe cap.", "https://images.unsplash.com/photo-1542291026-7eec264c27ff", 8999, 15},
		{"Court Ace 2.0", "All-court tennis shoes offering stability and comfort.", "https://images.unsplash.com/photo-1520256862855-398228c41684", 7999, 18},
	}
	for _, p := range products {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO products (id, name, description, price_cents, image_url, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		`, uuid.New(), p.name, p.description, p.priceCents, p.imageURL, p.stock, now)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logger.Info("Seeded demo users and sample products",
		zap.Int("users", len(users)),
		zap.Int("products", len(products)),
	)
	return nil
}
