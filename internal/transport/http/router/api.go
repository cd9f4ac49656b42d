package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-api/internal/core/server"
	"recipe-api/internal/domain"
	"recipe-api/internal/service"
	"recipe-api/internal/transport/http/dto"
	"recipe-api/internal/transport/http/handler"
	mdw "recipe-api/internal/transport/http/middleware"
)

// Services is everything the HTTP engines call into.
type Services struct {
	Recipes *service.RecipeService
	Users   *service.UserService
	Auth    *service.AuthService
}

var _ mdw.Authenticator = (*service.AuthService)(nil)

// Guards configures the transport-level protections.
type Guards struct {
	MaxInflight  int64
	MaxBodyBytes int64
	Timeout      time.Duration
}

func (g Guards) withDefaults() Guards {
	if g.MaxInflight <= 0 {
		g.MaxInflight = 300
	}
	if g.MaxBodyBytes <= 0 {
		g.MaxBodyBytes = 1 << 20
	}
	if g.Timeout <= 0 {
		g.Timeout = 10 * time.Second
	}
	return g
}

func newEngine(l *zap.Logger, g Guards) *gin.Engine {
	g = g.withDefaults()
	r := server.NewRouter(l)
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.Timeout(g.Timeout),
		mdw.ConcurrencyLimit(g.MaxInflight),
		mdw.MaxBodyBytes(g.MaxBodyBytes),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

// NewAPIEngine mounts the public recipe API under /api.
func NewAPIEngine(l *zap.Logger, svc Services, g Guards) *gin.Engine {
	r := newEngine(l, g)
	api := r.Group("/api")

	users := handler.NewUserHandler(svc.Users, svc.Auth)
	RegisterAction(api, l, Action[dto.RegisterRequest, struct{}]{
		Method:  http.MethodPost,
		Path:    "/register",
		Binder:  BindJSON,
		Handler: users.Register,
	})
	RegisterAction(api, l, Action[dto.LoginRequest, dto.TokenResponse]{
		Method:  http.MethodPost,
		Path:    "/login",
		Binder:  BindJSON,
		Handler: users.Login,
	})

	authed := api.Group("/recipe", mdw.Authenticate(svc.Auth, l))
	recipes := handler.NewRecipeHandler(svc.Recipes, svc.Users)
	RegisterAction(authed, l, Action[dto.RecipeRequest, dto.IDResponse]{
		Method:  http.MethodPost,
		Path:    "/new",
		Binder:  BindJSON,
		Auth:    true,
		Handler: recipes.Create,
	})
	RegisterAction(authed, l, Action[struct{}, []domain.RecipeView]{
		Method:  http.MethodGet,
		Path:    "/search",
		Binder:  BindNone,
		Auth:    true,
		Handler: recipes.Search,
	})
	RegisterAction(authed, l, Action[struct{}, domain.RecipeView]{
		Method:  http.MethodGet,
		Path:    "/:id",
		Binder:  BindNone,
		Auth:    true,
		Handler: recipes.Get,
	})
	RegisterAction(authed, l, Action[dto.RecipeRequest, struct{}]{
		Method:  http.MethodPut,
		Path:    "/:id",
		Binder:  BindJSON,
		Auth:    true,
		Status:  http.StatusNoContent,
		Handler: recipes.Update,
	})
	RegisterAction(authed, l, Action[struct{}, struct{}]{
		Method:  http.MethodDelete,
		Path:    "/:id",
		Binder:  BindNone,
		Auth:    true,
		Status:  http.StatusNoContent,
		Handler: recipes.Delete,
	})
	return r
}
