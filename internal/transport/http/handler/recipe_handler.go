package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe-api/internal/domain"
	"recipe-api/internal/service"
	"recipe-api/internal/transport/http/dto"
)

type RecipeHandler struct {
	recipes *service.RecipeService
	users   *service.UserService
}

func NewRecipeHandler(recipes *service.RecipeService, users *service.UserService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, users: users}
}

func (h *RecipeHandler) Create(c *gin.Context, p *domain.Principal, in *dto.RecipeRequest) (dto.IDResponse, error) {
	id, err := h.recipes.Create(c.Request.Context(), in.ToInput(), p.ID)
	if err != nil {
		return dto.IDResponse{}, err
	}
	return dto.IDResponse{ID: id}, nil
}

func (h *RecipeHandler) Get(c *gin.Context, _ *domain.Principal, _ *struct{}) (domain.RecipeView, error) {
	id, ok := pathID(c)
	if !ok {
		return domain.RecipeView{}, domain.ErrNotFound
	}
	v, err := h.recipes.GetView(c.Request.Context(), id)
	if err != nil {
		return domain.RecipeView{}, err
	}
	if v == nil {
		return domain.RecipeView{}, domain.ErrNotFound
	}
	return *v, nil
}

func (h *RecipeHandler) Update(c *gin.Context, p *domain.Principal, in *dto.RecipeRequest) (struct{}, error) {
	ctx := c.Request.Context()
	r, err := h.load(c)
	if err != nil {
		return struct{}{}, err
	}
	owner, err := h.users.IsOwner(ctx, r, p.ID)
	if err != nil {
		return struct{}{}, err
	}
	if !owner {
		return struct{}{}, domain.ErrForbidden
	}
	return struct{}{}, h.recipes.Update(ctx, r.ID, in.ToInput())
}

// Delete drops the caller's ownership and the row in one transaction.
func (h *RecipeHandler) Delete(c *gin.Context, p *domain.Principal, _ *struct{}) (struct{}, error) {
	r, err := h.load(c)
	if err != nil {
		return struct{}{}, err
	}
	removed, err := h.recipes.DeleteAsOwner(c.Request.Context(), r, p.ID)
	if err != nil {
		return struct{}{}, err
	}
	if !removed {
		return struct{}{}, domain.ErrForbidden
	}
	return struct{}{}, nil
}

// Search takes exactly one of ?name= or ?category=.
func (h *RecipeHandler) Search(c *gin.Context, _ *domain.Principal, _ *struct{}) ([]domain.RecipeView, error) {
	q := c.Request.URL.Query()
	if len(q) != 1 {
		return nil, searchKeyError()
	}
	ctx := c.Request.Context()
	switch {
	case q.Has("name"):
		return h.recipes.FindByNameContaining(ctx, q.Get("name"))
	case q.Has("category"):
		return h.recipes.FindByCategory(ctx, q.Get("category"))
	default:
		return nil, searchKeyError()
	}
}

func searchKeyError() error {
	ve := &domain.ValidationError{}
	ve.Add("query", "exactly one of name or category is required")
	return ve
}

func (h *RecipeHandler) load(c *gin.Context) (*domain.Recipe, error) {
	id, ok := pathID(c)
	if !ok {
		return nil, domain.ErrNotFound
	}
	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// pathID reads :id; anything but a positive integer names no resource.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
