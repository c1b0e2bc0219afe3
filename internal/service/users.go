package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kbase/internal/domain"
	"kbase/internal/domain/models"
	"kbase/internal/domain/repositories"
	"kbase/internal/domain/services"
)

// userService implements the UserService interface
type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) services.UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// EnsureUser returns the permissions for an authenticated subject,
// creating a viewer-role row on first sight. Concurrent first requests
// can race the insert; the loser re-reads the winner's row.
func (s *userService) EnsureUser(ctx context.Context, userID, username, email string) (*models.UserPermissions, error) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err == nil {
		if touchErr := s.userRepo.TouchLogin(ctx, userID, username, email); touchErr != nil {
			s.logger.Warn("failed to touch login", "user_id", userID, "error", touchErr)
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &models.UserPermissions{
		ID:           uuid.New().String(),
		UserID:       userID,
		Username:     username,
		Email:        email,
		Role:         models.RoleViewer,
		IsActive:     true,
		Capabilities: models.DefaultCapabilities(models.RoleViewer),
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.userRepo.GetByUserID(ctx, userID)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", userID, "role", user.Role)

	return user, nil
}

// GetUser retrieves a user's permissions
func (s *userService) GetUser(ctx context.Context, userID string) (*models.UserPermissions, error) {
	return s.userRepo.GetByUserID(ctx, userID)
}

// ListUsers returns a page of active users and the total count
func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]models.UserPermissions, int, error) {
	if limit <= 0 {
		limit = models.DefaultListLimit
	}
	if limit > models.MaxListLimit {
		return nil, 0, fmt.Errorf("%w: limit cannot exceed %d", domain.ErrValidation, models.MaxListLimit)
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, offset, limit)
}

// UpdateRole sets a user's role and resets capabilities to the role's
// defaults.
func (s *userService) UpdateRole(ctx context.Context, userID string, role models.Role) error {
	if err := role.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role, models.DefaultCapabilities(role)); err != nil {
		return err
	}
	s.logger.Info("user role updated", "user_id", userID, "role", role)
	return nil
}

// UpdateCapabilities overrides individual capabilities
func (s *userService) UpdateCapabilities(ctx context.Context, userID string, caps models.Capabilities) error {
	if err := s.userRepo.UpdateCapabilities(ctx, userID, caps); err != nil {
		return err
	}
	s.logger.Info("user capabilities updated", "user_id", userID)
	return nil
}

// DeactivateUser soft-deletes a user
func (s *userService) DeactivateUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Deactivate(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deactivated", "user_id", userID)
	return nil
}
