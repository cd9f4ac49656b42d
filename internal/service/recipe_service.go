package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-api/internal/domain"
)

// RecipeService runs recipe reads and writes. Ownership checks are the
// caller's job (see UserService.IsOwner), except for DeleteAsOwner.
type RecipeService struct {
	recipes domain.RecipeRepository
	users   domain.UserRepository
	log     *zap.Logger
	now     func() time.Time
}

func NewRecipeService(recipes domain.RecipeRepository, users domain.UserRepository, log *zap.Logger) *RecipeService {
	return &RecipeService{recipes: recipes, users: users, log: log.Named("recipes"), now: time.Now}
}

// Create stores a new recipe authored by authorID and links it into the
// author's collection. It fails with domain.ErrPrincipalNotFound when the
// author is gone.
func (s *RecipeService) Create(ctx context.Context, in domain.RecipeInput, authorID uint) (uint, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return 0, fmt.Errorf("load author: %w", err)
	}
	if author == nil {
		return 0, domain.ErrPrincipalNotFound
	}
	r := domain.NewRecipe(in, author.ID, s.now())
	if err := s.recipes.Create(ctx, r); err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}
	recipesCreated.Inc()
	s.log.Info("recipe created", zap.Uint("id", r.ID), zap.Uint("author", author.ID))
	return r.ID, nil
}

// Get returns nil when id is absent.
func (s *RecipeService) Get(ctx context.Context, id uint) (*domain.Recipe, error) {
	r, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return r, nil
}

func (s *RecipeService) GetView(ctx context.Context, id uint) (*domain.RecipeView, error) {
	r, err := s.Get(ctx, id)
	if err != nil || r == nil {
		return nil, err
	}
	v := r.View()
	return &v, nil
}

// Update replaces every editable field of recipe id. A missing id is a no-op.
func (s *RecipeService) Update(ctx context.Context, id uint, in domain.RecipeInput) error {
	r, err := s.Get(ctx, id)
	if err != nil || r == nil {
		return err
	}
	r.Apply(in, s.now())
	if err := s.recipes.Update(ctx, r); err != nil {
		return fmt.Errorf("update recipe %d: %w", id, err)
	}
	s.log.Info("recipe updated", zap.Uint("id", id))
	return nil
}

// Delete clears the author and removes r without an ownership check. Owner
// requests go through DeleteAsOwner.
func (s *RecipeService) Delete(ctx context.Context, r *domain.Recipe) error {
	if err := s.recipes.Delete(ctx, r); err != nil {
		return fmt.Errorf("delete recipe %d: %w", r.ID, err)
	}
	recipesDeleted.Inc()
	s.log.Info("recipe deleted", zap.Uint("id", r.ID))
	return nil
}

// DeleteAsOwner removes userID's ownership of r and then r itself, all or
// nothing. It reports false, changing nothing, when the user is missing or
// does not own r.
func (s *RecipeService) DeleteAsOwner(ctx context.Context, r *domain.Recipe, userID uint) (bool, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load user %d: %w", userID, err)
	}
	if u == nil {
		return false, nil
	}
	id := r.ID
	removed, err := s.recipes.DeleteOwned(ctx, u.ID, r)
	if err != nil {
		return false, fmt.Errorf("delete recipe %d: %w", id, err)
	}
	if removed {
		recipesDeleted.Inc()
		s.log.Info("recipe deleted", zap.Uint("id", id), zap.Uint("owner", u.ID))
	}
	return removed, nil
}

// FindByNameContaining matches name case-insensitively, newest first.
// Blank input yields no results.
func (s *RecipeService) FindByNameContaining(ctx context.Context, name string) ([]domain.RecipeView, error) {
	recipeSearches.WithLabelValues("name").Inc()
	if strings.TrimSpace(name) == "" {
		return []domain.RecipeView{}, nil
	}
	rs, err := s.recipes.FindByNameContaining(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search by name: %w", err)
	}
	return domain.Views(rs), nil
}

// FindByCategory matches category case-insensitively and exactly, newest first.
func (s *RecipeService) FindByCategory(ctx context.Context, category string) ([]domain.RecipeView, error) {
	recipeSearches.WithLabelValues("category").Inc()
	if strings.TrimSpace(category) == "" {
		return []domain.RecipeView{}, nil
	}
	rs, err := s.recipes.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("search by category: %w", err)
	}
	return domain.Views(rs), nil
}
