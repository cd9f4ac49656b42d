package handler

import (
	"github.com/gin-gonic/gin"

	"recipe-api/internal/domain"
	"recipe-api/internal/service"
	"recipe-api/internal/transport/http/dto"
)

// AdminHandler serves the admin listener. Role checks happen in the router.
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

func (h *AdminHandler) ListUsers(c *gin.Context, _ *domain.Principal, _ *struct{}) ([]domain.UserSummary, error) {
	return h.users.List(c.Request.Context())
}

func (h *AdminHandler) SetRole(c *gin.Context, _ *domain.Principal, in *dto.RoleRequest) (struct{}, error) {
	id, ok := pathID(c)
	if !ok {
		return struct{}{}, domain.ErrNotFound
	}
	return struct{}{}, h.users.SetRole(c.Request.Context(), id, in.Role)
}
