package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"recipe-api/internal/core/auth"
	"recipe-api/internal/core/database/dbtest"
	"recipe-api/internal/domain"
	"recipe-api/internal/repo"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	users   *UserService
	recipes *RecipeService
	auth    *AuthService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	ur := repo.NewUserRepo(db)
	rr := repo.NewRecipeRepo(db)
	log := zap.NewNop()

	us := NewUserService(ur, log)
	us.hash = func(pw string) (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		return string(b), err
	}
	rs := NewRecipeService(rr, ur, log)
	rs.now = func() time.Time { return fixedNow }
	as := NewAuthService(ur, &auth.JWTer{Secret: []byte("test-secret"), Issuer: "recipe-api", TTL: time.Hour})
	return fixture{db: db, users: us, recipes: rs, auth: as}
}

func (f fixture) register(t *testing.T, email string) *domain.Principal {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.users.Register(ctx, email, "password1"))
	p, err := f.auth.LoadPrincipal(ctx, email)
	require.NoError(t, err)
	return p
}

func soup() domain.RecipeInput {
	return domain.RecipeInput{
		Name:        "Soup",
		Category:    "Dinner",
		Description: "warm",
		Ingredients: []string{"water", "salt"},
		Directions:  []string{"boil"},
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Register(ctx, "  Ann@Example.com ", "password1"))

	inUse, err := f.users.IsEmailInUse(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, inUse)

	err = f.users.Register(ctx, "ANN@example.com", "password2")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	p, err := f.auth.LoadPrincipal(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", p.Username)
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.NotEqual(t, "password1", p.PasswordHash)
}

func TestCreateRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")

	id, err := f.recipes.Create(ctx, soup(), a.ID)
	require.NoError(t, err)
	require.NotZero(t, id)

	v, err := f.recipes.GetView(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Soup", v.Name)
	assert.True(t, fixedNow.Equal(v.Date), "missing date defaults to now")
	assert.Equal(t, []string{"water", "salt"}, v.Ingredients)

	r, err := f.recipes.Get(ctx, id)
	require.NoError(t, err)
	owner, err := f.users.IsOwner(ctx, r, a.ID)
	require.NoError(t, err)
	assert.True(t, owner)

	ids, err := f.users.OwnedRecipeIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{id}, ids)
}

func TestCreateRecipe_UnknownAuthor(t *testing.T) {
	f := newFixture(t)
	_, err := f.recipes.Create(context.Background(), soup(), 999)
	require.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetView_Missing(t *testing.T) {
	f := newFixture(t)
	v, err := f.recipes.GetView(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestUpdateRecipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	id, err := f.recipes.Create(ctx, soup(), a.ID)
	require.NoError(t, err)

	when := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	in := domain.RecipeInput{
		Name: "Stew", Category: "Dinner", Date: &when, Description: "thick",
		Ingredients: []string{"beef"}, Directions: []string{"simmer", "serve"},
	}
	require.NoError(t, f.recipes.Update(ctx, id, in))

	v, err := f.recipes.GetView(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Stew", v.Name)
	assert.Equal(t, []string{"simmer", "serve"}, v.Directions)
	assert.True(t, when.Equal(v.Date))

	r, err := f.recipes.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *r.AuthorID, "update keeps the author")

	before, err := f.recipes.GetView(ctx, id)
	require.NoError(t, err)
	require.NoError(t, f.recipes.Update(ctx, id+100, in), "missing id is a no-op")

	var n int64
	require.NoError(t, f.db.Model(&domain.Recipe{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "no row is created for a missing id")
	after, err := f.recipes.GetView(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	missing, err := f.recipes.Get(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOwnershipAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")

	id, err := f.recipes.Create(ctx, soup(), a.ID)
	require.NoError(t, err)
	r, err := f.recipes.Get(ctx, id)
	require.NoError(t, err)

	owner, err := f.users.IsOwner(ctx, r, b.ID)
	require.NoError(t, err)
	assert.False(t, owner)

	removed, err := f.users.RemoveOwnership(ctx, r, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = f.users.RemoveOwnership(ctx, r, 999)
	require.NoError(t, err)
	assert.False(t, removed, "unknown user owns nothing")

	removed, err = f.users.RemoveOwnership(ctx, r, a.ID)
	require.NoError(t, err)
	require.True(t, removed)
	require.NoError(t, f.recipes.Delete(ctx, r))

	gone, err := f.recipes.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeleteAsOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")

	id, err := f.recipes.Create(ctx, soup(), a.ID)
	require.NoError(t, err)
	r, err := f.recipes.Get(ctx, id)
	require.NoError(t, err)

	removed, err := f.recipes.DeleteAsOwner(ctx, r, 999)
	require.NoError(t, err)
	assert.False(t, removed, "unknown user owns nothing")

	removed, err = f.recipes.DeleteAsOwner(ctx, r, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	owner, err := f.users.IsOwner(ctx, r, a.ID)
	require.NoError(t, err)
	assert.True(t, owner)

	removed, err = f.recipes.DeleteAsOwner(ctx, r, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	gone, err := f.recipes.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
	ids, err := f.users.OwnedRecipeIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteAsOwnerFailureKeepsOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")

	id, err := f.recipes.Create(ctx, soup(), a.ID)
	require.NoError(t, err)
	r, err := f.recipes.Get(ctx, id)
	require.NoError(t, err)

	dbtest.FailDeletes(t, f.db, "recipes", errors.New("disk full"))

	removed, err := f.recipes.DeleteAsOwner(ctx, r, a.ID)
	require.Error(t, err)
	assert.False(t, removed)

	owner, err := f.users.IsOwner(ctx, r, a.ID)
	require.NoError(t, err)
	assert.True(t, owner)
	require.NoError(t, f.recipes.Update(ctx, id, soup()), "owner can still edit")
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")

	older := fixedNow.Add(-time.Hour)
	cake := soup()
	cake.Name, cake.Category, cake.Date = "Chocolate Cake", "Dessert", &older
	_, err := f.recipes.Create(ctx, cake, a.ID)
	require.NoError(t, err)
	cheese := soup()
	cheese.Name, cheese.Category = "Cheesecake", "dessert"
	_, err = f.recipes.Create(ctx, cheese, a.ID)
	require.NoError(t, err)

	byName, err := f.recipes.FindByNameContaining(ctx, "CAKE")
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "Cheesecake", byName[0].Name)

	byCat, err := f.recipes.FindByCategory(ctx, "DESSERT")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)

	blank, err := f.recipes.FindByNameContaining(ctx, "  ")
	require.NoError(t, err)
	assert.NotNil(t, blank)
	assert.Empty(t, blank)

	blank, err = f.recipes.FindByCategory(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func TestSetRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")

	require.NoError(t, f.users.SetRole(ctx, a.ID, domain.RoleAdmin))
	p, err := f.auth.LoadPrincipal(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, p.HasRole(domain.RoleAdmin))

	err = f.users.SetRole(ctx, a.ID, "ROLE_ROOT")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Fields[0].Field)

	require.ErrorIs(t, f.users.SetRole(ctx, 999, domain.RoleUser), domain.ErrNotFound)

	require.NoError(t, f.users.SetRoleByEmail(ctx, "A@X.com", domain.RoleUser))
	require.ErrorIs(t, f.users.SetRoleByEmail(ctx, "nobody@x.com", domain.RoleAdmin), domain.ErrNotFound)

	list, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.RoleUser, list[0].Role)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")

	p, err := f.auth.Authenticate(ctx, "A@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, p.ID)

	_, err = f.auth.Authenticate(ctx, "a@x.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.auth.Authenticate(ctx, "nobody@x.com", "password1")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.auth.LoadPrincipal(ctx, "nobody@x.com")
	require.ErrorIs(t, err, domain.ErrPrincipalNotFound)
}

func TestTokenRoundTrip(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "a@x.com")

	tok, err := f.auth.IssueToken(a)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, tok.ExpiresIn)

	p, err := f.auth.ParseToken(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, p.ID)
	assert.Equal(t, "a@x.com", p.Username)
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.Empty(t, p.PasswordHash)

	_, err = f.auth.ParseToken("not-a-token")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUsers) List(ctx context.Context) ([]domain.UserSummary, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.UserSummary)
	return out, args.Error(1)
}

func (m *mockUsers) UpdateRole(ctx context.Context, id uint, role string) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUsers) HasRecipe(ctx context.Context, userID, recipeID uint) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsers) RemoveRecipe(ctx context.Context, userID, recipeID uint) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsers) RecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]uint)
	return out, args.Error(1)
}

func TestStoreFailuresPropagate(t *testing.T) {
	boom := errors.New("db down")
	ctx := context.Background()

	m := &mockUsers{}
	m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, boom)
	m.On("FindByID", mock.Anything, uint(7)).Return(&domain.User{ID: 7}, nil)
	m.On("HasRecipe", mock.Anything, uint(7), uint(1)).Return(false, boom)
	m.On("List", mock.Anything).Return(nil, nil)

	us := NewUserService(m, zap.NewNop())
	as := NewAuthService(m, &auth.JWTer{Secret: []byte("s"), Issuer: "i", TTL: time.Minute})

	err := us.Register(ctx, "a@x.com", "password1")
	require.ErrorIs(t, err, boom)

	_, err = as.Authenticate(ctx, "a@x.com", "password1")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = us.IsOwner(ctx, &domain.Recipe{ID: 1}, 7)
	require.ErrorIs(t, err, boom)

	list, err := us.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)

	m.AssertExpectations(t)
}
