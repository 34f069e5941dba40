package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the default admin account when none exists yet.
// Idempotent: does nothing once any admin row is present.
func EnsureAdmin(ctx context.Context, logger *slog.Logger, store Store, email, password string) error {
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := store.CreateAdmin(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	logger.Warn("default admin created, change the password after first login", "email", email)
	return nil
}
