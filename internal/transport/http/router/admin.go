package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-api/internal/domain"
	"recipe-api/internal/transport/http/dto"
	"recipe-api/internal/transport/http/handler"
	mdw "recipe-api/internal/transport/http/middleware"
)

// NewAdminEngine mounts the account administration API under /admin/v1,
// reserved to ROLE_ADMIN.
func NewAdminEngine(l *zap.Logger, svc Services, g Guards) *gin.Engine {
	r := newEngine(l, g)

	admin := r.Group("/admin/v1", mdw.Authenticate(svc.Auth, l))
	h := handler.NewAdminHandler(svc.Users)

	RegisterAction(admin, l, Action[struct{}, []domain.UserSummary]{
		Method:  http.MethodGet,
		Path:    "/users",
		Binder:  BindNone,
		Auth:    true,
		Roles:   []string{domain.RoleAdmin},
		Handler: h.ListUsers,
	})
	RegisterAction(admin, l, Action[dto.RoleRequest, struct{}]{
		Method:  http.MethodPut,
		Path:    "/users/:id/role",
		Binder:  BindJSON,
		Auth:    true,
		Roles:   []string{domain.RoleAdmin},
		Status:  http.StatusNoContent,
		Handler: h.SetRole,
	})
	return r
}
