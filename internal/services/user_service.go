package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/pkg/auth"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id int64, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserService handles user business logic. Every record it returns is
// sanitized; the password hash never crosses the service boundary.
type UserService struct {
	repo   UserRepository
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

// ListUsers retrieves all users
func (s *UserService) ListUsers() ([]*models.User, error) {
	ctx := context.Background()

	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	sanitized := make([]*models.User, len(users))
	for i, user := range users {
		sanitized[i] = user.Sanitized()
	}

	return sanitized, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(id int64) (*models.User, error) {
	ctx := context.Background()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.Int64("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user.Sanitized(), nil
}

// GetUserByEmail retrieves a user by email, used for uniqueness checks
// and login lookup
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	ctx := context.Background()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user.Sanitized(), nil
}

// CreateUser hashes the password and inserts the user. Identity and creation
// time are assigned by the store. Duplicate emails surface as ErrConflict.
func (s *UserService) CreateUser(user *models.User, password string) (*models.User, error) {
	ctx := context.Background()

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.PasswordHash = hashedPassword

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.Int64("user_id", createdUser.ID))
	return createdUser.Sanitized(), nil
}

// UpdateUser applies the non-empty fields of user (name, email, role) to an
// existing record. The password hash is immutable through this path.
func (s *UserService) UpdateUser(id int64, user *models.User) (*models.User, error) {
	ctx := context.Background()

	existingUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.Int64("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.Name != "" {
		existingUser.Name = user.Name
	}
	if user.Email != "" {
		existingUser.Email = user.Email
	}
	if user.Role != "" {
		existingUser.Role = user.Role
	}

	updatedUser, err := s.repo.Update(ctx, id, existingUser)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update user", slog.Int64("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.Int64("user_id", id))
	return updatedUser.Sanitized(), nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(id int64) error {
	ctx := context.Background()

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.Int64("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.Int64("user_id", id))
	return nil
}

// VerifyCredentials looks up the user by email and compares the password
// against the stored hash. An unknown email and a wrong password both return
// ok=false with no error, so callers cannot distinguish the two.
func (s *UserService) VerifyCredentials(email, password string) (*models.User, bool, error) {
	ctx := context.Background()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, false, nil
		}
		s.logger.Error("failed to look up user for login", slog.Any("error", err))
		return nil, false, models.ErrInternalServer
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, false, nil
	}

	return user.Sanitized(), true, nil
}
