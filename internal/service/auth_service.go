package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"recipe-api/internal/core/auth"
	"recipe-api/internal/domain"
	"recipe-api/pkg/utils"
)

// Compared against when the email is unknown so both paths cost one bcrypt run.
var dummyHash = sync.OnceValue(func() string {
	h, _ := utils.HashPassword("recipe-api-dummy-password")
	return h
})

// Token is an issued bearer token.
type Token struct {
	Token     string
	ExpiresIn time.Duration
}

// AuthService turns credentials into principals.
type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer) *AuthService {
	return &AuthService{users: users, jwt: jwter}
}

// LoadPrincipal fails with domain.ErrPrincipalNotFound for unknown emails.
func (s *AuthService) LoadPrincipal(ctx context.Context, email string) (*domain.Principal, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("load principal: %w", err)
	}
	if u == nil {
		return nil, domain.ErrPrincipalNotFound
	}
	return domain.NewPrincipal(u), nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password both yield domain.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Principal, error) {
	p, err := s.LoadPrincipal(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPrincipalNotFound):
		utils.CheckPassword(password, dummyHash())
		return nil, domain.ErrUnauthenticated
	default:
		return nil, err
	}
	if !utils.CheckPassword(password, p.PasswordHash) {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

func (s *AuthService) IssueToken(p *domain.Principal) (Token, error) {
	tok, err := s.jwt.Issue(strconv.FormatUint(uint64(p.ID), 10), p.Username, p.Role)
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}
	return Token{Token: tok, ExpiresIn: s.jwt.TTL}, nil
}

// ParseToken returns the principal carried by a bearer token. The password
// hash is not part of a token and stays empty.
func (s *AuthService) ParseToken(tok string) (*domain.Principal, error) {
	c, err := s.jwt.Parse(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	id, err := strconv.ParseUint(c.UID, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad uid %q", domain.ErrUnauthenticated, c.UID)
	}
	return &domain.Principal{ID: uint(id), Username: c.Email, Role: c.Role}, nil
}
