package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe-api/internal/domain"
	"recipe-api/pkg/utils"
)

// UserService covers registration, the ownership policy and the admin
// operations on accounts.
type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
	hash  func(string) (string, error)
}

func NewUserService(users domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log.Named("users"), hash: utils.HashPassword}
}

// NormalizeEmail is applied on every write and lookup, making email identity
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a ROLE_USER account. It fails with
// domain.ErrDuplicateEmail when the email is taken.
func (s *UserService) Register(ctx context.Context, email, rawPassword string) error {
	email = NormalizeEmail(email)
	inUse, err := s.IsEmailInUse(ctx, email)
	if err != nil {
		return err
	}
	if inUse {
		return domain.ErrDuplicateEmail
	}
	hashed, err := s.hash(rawPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Email: email, Password: hashed, Role: domain.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}
	usersRegistered.Inc()
	s.log.Info("user registered", zap.Uint("id", u.ID))
	return nil
}

func (s *UserService) IsEmailInUse(ctx context.Context, email string) (bool, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("find user by email: %w", err)
	}
	return u != nil, nil
}

// GetUser returns nil when id is absent.
func (s *UserService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// IsOwner reports whether user userID exists and owns r.
func (s *UserService) IsOwner(ctx context.Context, r *domain.Recipe, userID uint) (bool, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil || u == nil {
		return false, err
	}
	ok, err := s.users.HasRecipe(ctx, u.ID, r.ID)
	if err != nil {
		return false, fmt.Errorf("check ownership: %w", err)
	}
	return ok, nil
}

// RemoveOwnership drops r from user userID's collection. It reports false,
// removing nothing, when the user is missing or does not own r.
func (s *UserService) RemoveOwnership(ctx context.Context, r *domain.Recipe, userID uint) (bool, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil || u == nil {
		return false, err
	}
	removed, err := s.users.RemoveRecipe(ctx, u.ID, r.ID)
	if err != nil {
		return false, fmt.Errorf("remove ownership: %w", err)
	}
	return removed, nil
}

// OwnedRecipeIDs lists the user's collection in insertion order.
func (s *UserService) OwnedRecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.users.RecipeIDs(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]domain.UserSummary, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if out == nil {
		out = []domain.UserSummary{}
	}
	return out, nil
}

// SetRole assigns one of the known roles to user id.
func (s *UserService) SetRole(ctx context.Context, id uint, role string) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		ve := &domain.ValidationError{}
		ve.Add("role", "Role must be ROLE_USER or ROLE_ADMIN.")
		return ve
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	s.log.Info("role changed", zap.Uint("id", id), zap.String("role", role))
	return nil
}

// SetRoleByEmail is SetRole keyed by email.
func (s *UserService) SetRoleByEmail(ctx context.Context, email, role string) error {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return s.SetRole(ctx, u.ID, role)
}
