package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// Recipe is a persisted recipe. AuthorID is nil only while the row is being
// removed.
type Recipe struct {
	ID          uint                        `gorm:"primaryKey"`
	AuthorID    *uint                       `gorm:"index"`
	Author      *User                       `gorm:"foreignKey:AuthorID"`
	Name        string                      `gorm:"size:255;not null;index"`
	Category    string                      `gorm:"size:255;not null;index"`
	Date        time.Time                   `gorm:"not null;index"`
	Description string                      `gorm:"type:text;not null"`
	Ingredients datatypes.JSONSlice[string] `gorm:"not null"`
	Directions  datatypes.JSONSlice[string] `gorm:"not null"`
}

// RecipeInput carries validated recipe fields into the service. A nil Date
// means "now".
type RecipeInput struct {
	Name        string
	Category    string
	Date        *time.Time
	Description string
	Ingredients []string
	Directions  []string
}

// RecipeView is the client-facing shape of a recipe.
type RecipeView struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Directions  []string  `json:"directions"`
}

// NewRecipe builds an unsaved recipe owned by authorID.
func NewRecipe(in RecipeInput, authorID uint, now time.Time) *Recipe {
	r := &Recipe{AuthorID: &authorID}
	r.Apply(in, now)
	return r
}

// Apply overwrites every editable field from in. ID and author are kept.
// Dates are stored in UTC so they order correctly in text-typed columns.
func (r *Recipe) Apply(in RecipeInput, now time.Time) {
	r.Name = in.Name
	r.Category = in.Category
	r.Description = in.Description
	r.Date = now.UTC()
	if in.Date != nil {
		r.Date = in.Date.UTC()
	}
	r.Ingredients = append(datatypes.JSONSlice[string]{}, in.Ingredients...)
	r.Directions = append(datatypes.JSONSlice[string]{}, in.Directions...)
}

// View projects r without its id and author.
func (r *Recipe) View() RecipeView {
	return RecipeView{
		Name:        r.Name,
		Category:    r.Category,
		Date:        r.Date,
		Description: r.Description,
		Ingredients: append([]string{}, r.Ingredients...),
		Directions:  append([]string{}, r.Directions...),
	}
}

// Views projects a slice, never returning nil.
func Views(rs []Recipe) []RecipeView {
	out := make([]RecipeView, 0, len(rs))
	for i := range rs {
		out = append(out, rs[i].View())
	}
	return out
}

// RecipeRepository returns (nil, nil) from FindByID when no row matches.
// Search results are ordered by Date descending.
type RecipeRepository interface {
	// Create inserts r and links it into its author's collection in one
	// transaction.
	Create(ctx context.Context, r *Recipe) error
	FindByID(ctx context.Context, id uint) (*Recipe, error)
	Update(ctx context.Context, r *Recipe) error
	// Delete clears the author reference and removes the row.
	Delete(ctx context.Context, r *Recipe) error
	// DeleteOwned drops userID's ownership of r and removes r in one
	// transaction. It reports false, changing nothing, when userID does not
	// own r.
	DeleteOwned(ctx context.Context, userID uint, r *Recipe) (bool, error)
	FindByNameContaining(ctx context.Context, name string) ([]Recipe, error)
	FindByCategory(ctx context.Context, category string) ([]Recipe, error)
}
