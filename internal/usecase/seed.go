package usecase

import (
	"context"
	"fmt"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

// SeedAdmin creates the configured admin account when no user owns its email yet.
func SeedAdmin(ctx context.Context, users repository.UserRepository, config utils.DatabaseConfig, log *zap.Logger) error {
	if !config.SeedAdmin || config.AdminEmail == "" {
		return nil
	}

	existing, err := users.FindByEmail(ctx, config.AdminEmail)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hashed, err := utils.HashPassword(config.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &entity.User{
		Name:         config.AdminName,
		Email:        config.AdminEmail,
		PasswordHash: hashed,
		Roles:        []entity.Role{entity.AdminRole()},
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info("Seeded admin user", zap.Int64("user_id", admin.ID), zap.String("email", admin.Email))
	return nil
}
