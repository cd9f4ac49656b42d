package handler

import (
	"github.com/gin-gonic/gin"

	"recipe-api/internal/domain"
	"recipe-api/internal/service"
	"recipe-api/internal/transport/http/dto"
)

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewUserHandler(users *service.UserService, auth *service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) Register(c *gin.Context, _ *domain.Principal, in *dto.RegisterRequest) (struct{}, error) {
	return struct{}{}, h.users.Register(c.Request.Context(), in.Email, in.Password)
}

func (h *UserHandler) Login(c *gin.Context, _ *domain.Principal, in *dto.LoginRequest) (dto.TokenResponse, error) {
	p, err := h.auth.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	tok, err := h.auth.IssueToken(p)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	return dto.TokenResponse{
		Token:     tok.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(tok.ExpiresIn.Seconds()),
	}, nil
}
