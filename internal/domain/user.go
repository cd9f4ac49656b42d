package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is a registered account. Password always holds a bcrypt hash.
type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Email     string       `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password  string       `gorm:"size:100;not null" json:"-"`
	Role      string       `gorm:"size:32;not null;default:ROLE_USER" json:"role"`
	Recipes   []UserRecipe `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// UserRecipe is one entry of a user's owned-recipe collection.
type UserRecipe struct {
	UserID    uint      `gorm:"primaryKey"`
	RecipeID  uint      `gorm:"primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRecipe) TableName() string { return "user_recipes" }

// UserSummary is the admin listing row.
type UserSummary struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Recipes int64  `json:"recipes"`
}

// UserRepository returns (nil, nil) from finders when no row matches.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]UserSummary, error)
	UpdateRole(ctx context.Context, id uint, role string) error

	// HasRecipe reports whether recipeID is in the user's collection.
	HasRecipe(ctx context.Context, userID, recipeID uint) (bool, error)
	// RemoveRecipe drops recipeID from the user's collection and reports
	// whether anything was removed.
	RemoveRecipe(ctx context.Context, userID, recipeID uint) (bool, error)
	// RecipeIDs lists the user's collection in insertion order.
	RecipeIDs(ctx context.Context, userID uint) ([]uint, error)
}
