package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipe-api/internal/domain"
)

const newestFirst = "date DESC, id DESC"

type RecipeRepo struct{ db *gorm.DB }

var _ domain.RecipeRepository = (*RecipeRepo)(nil)

func NewRecipeRepo(db *gorm.DB) *RecipeRepo { return &RecipeRepo{db: db} }

func (r *RecipeRepo) Create(ctx context.Context, rec *domain.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return err
		}
		if rec.AuthorID == nil {
			return nil
		}
		return tx.Create(&domain.UserRecipe{UserID: *rec.AuthorID, RecipeID: rec.ID}).Error
	})
}

func (r *RecipeRepo) FindByID(ctx context.Context, id uint) (*domain.Recipe, error) {
	var rec domain.Recipe
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecipeRepo) Update(ctx context.Context, rec *domain.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rec).Error
}

func (r *RecipeRepo) Delete(ctx context.Context, rec *domain.Recipe) error {
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRecipe(tx, rec.ID)
	}); err != nil {
		return err
	}
	rec.AuthorID = nil
	rec.Author = nil
	return nil
}

var errNotOwned = errors.New("recipe not owned")

func (r *RecipeRepo) DeleteOwned(ctx context.Context, userID uint, rec *domain.Recipe) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, rec.ID).Delete(&domain.UserRecipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotOwned
		}
		return deleteRecipe(tx, rec.ID)
	})
	if errors.Is(err, errNotOwned) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	rec.AuthorID = nil
	rec.Author = nil
	return true, nil
}

// deleteRecipe clears the author, drops every remaining link and removes the row.
func deleteRecipe(tx *gorm.DB, id uint) error {
	if err := tx.Model(&domain.Recipe{}).Where("id = ?", id).Update("author_id", nil).Error; err != nil {
		return err
	}
	// stale links left by other collections
	if err := tx.Where("recipe_id = ?", id).Delete(&domain.UserRecipe{}).Error; err != nil {
		return err
	}
	return tx.Delete(&domain.Recipe{}, "id = ?", id).Error
}

func (r *RecipeRepo) FindByNameContaining(ctx context.Context, name string) ([]domain.Recipe, error) {
	var out []domain.Recipe
	pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).
		Order(newestFirst).
		Find(&out).Error
	return out, err
}

func (r *RecipeRepo) FindByCategory(ctx context.Context, category string) ([]domain.Recipe, error) {
	var out []domain.Recipe
	err := r.db.WithContext(ctx).
		Where("LOWER(category) = ?", strings.ToLower(category)).
		Order(newestFirst).
		Find(&out).Error
	return out, err
}

// escapeLike makes % and _ match literally under ESCAPE '!'.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
