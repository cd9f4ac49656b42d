package dto

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"recipe-api/internal/domain"
	"recipe-api/pkg/utils"
)

var validate = validator.New()

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	ve := &domain.ValidationError{}
	// Surrounding spaces are trimmed by email normalization, not rejected.
	if validate.Var(strings.TrimSpace(r.Email), "required,email") != nil {
		ve.Add("email", "must be a well-formed email address")
	}
	switch {
	case isBlank(r.Password):
		ve.Add("password", "Password must not be empty.")
	case utf8.RuneCountInString(r.Password) < 8:
		ve.Add("password", "Password must be at least 8 characters long.")
	case len(r.Password) > utils.MaxPasswordBytes:
		ve.Add("password", "Password must be at most 72 bytes long.")
	}
	return ve.Err()
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	ve := &domain.ValidationError{}
	if isBlank(r.Email) {
		ve.Add("email", "must not be blank")
	}
	if r.Password == "" {
		ve.Add("password", "must not be blank")
	}
	return ve.Err()
}

// TokenResponse answers a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

// RoleRequest is the body of the admin role change.
type RoleRequest struct {
	Role string `json:"role"`
}

func (r *RoleRequest) Validate() error {
	ve := &domain.ValidationError{}
	if isBlank(r.Role) {
		ve.Add("role", "must not be blank")
	}
	return ve.Err()
}
