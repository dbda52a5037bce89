package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
	"pizza-service/internal/data/repository/memory"
	"pizza-service/internal/dto/request"
	"pizza-service/pkg/metrics"
	"pizza-service/pkg/queue"
	"pizza-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

type fakeFactory struct {
	receipt *FactoryReceipt
	err     error
	calls   int
}

func (f *fakeFactory) Fulfill(_ context.Context, _ *entity.User, _ *entity.Order) (*FactoryReceipt, error) {
	f.calls++
	return f.receipt, f.err
}

type fakePublisher struct {
	events []queue.OrderCreatedEvent
	err    error
}

func (p *fakePublisher) PublishOrderCreated(_ context.Context, event queue.OrderCreatedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

type fixture struct {
	repo      *repository.Repository
	service   *Service
	factory   *fakeFactory
	publisher *fakePublisher
	admin     *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	m, err := metrics.New(noop.NewMeterProvider())
	require.NoError(t, err)

	repo := memory.NewRepository()
	config := &utils.Config{
		JWT: utils.JWTConfig{Secret: testSecret, ExpiryHours: 1, Issuer: "pizza-test"},
		Database: utils.DatabaseConfig{
			SeedAdmin:     true,
			AdminName:     "admin",
			AdminEmail:    "a@jwt.com",
			AdminPassword: "admin",
		},
	}
	require.NoError(t, SeedAdmin(ctx, repo.User, config.Database, zap.NewNop()))

	factory := &fakeFactory{receipt: &FactoryReceipt{ReportURL: "http://factory/report", JWT: "factory.jwt.value"}}
	publisher := &fakePublisher{}
	service, err := NewService(repo, config, Dependencies{
		Metrics:   m,
		Factory:   factory,
		Publisher: publisher,
	}, zap.NewNop())
	require.NoError(t, err)

	admin, err := repo.User.FindByEmail(ctx, "a@jwt.com")
	require.NoError(t, err)
	require.NotNil(t, admin)

	return &fixture{repo: repo, service: service, factory: factory, publisher: publisher, admin: admin}
}

func (f *fixture) register(t *testing.T, name, email, password string) *entity.User {
	t.Helper()

	resp, err := f.service.Auth.Register(context.Background(), &request.RegisterRequest{
		Name: name, Email: email, Password: password,
	})
	require.NoError(t, err)

	user, err := f.service.Token.Verify(context.Background(), resp.Token)
	require.NoError(t, err)
	return user
}

func assertStatus(t *testing.T, err error, status int, message string) {
	t.Helper()

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode())
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	f := newFixture(t)
	config := utils.DatabaseConfig{SeedAdmin: true, AdminName: "admin", AdminEmail: "a@jwt.com", AdminPassword: "admin"}

	require.NoError(t, SeedAdmin(context.Background(), f.repo.User, config, zap.NewNop()))

	users, err := f.repo.User.FindAll(context.Background(), 10, 0, "*")
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("missing fields", func(t *testing.T) {
		for _, req := range []request.RegisterRequest{
			{Email: "x@jwt.com", Password: "p"},
			{Name: "x", Password: "p"},
			{Name: "x", Email: "x@jwt.com"},
		} {
			_, err := f.service.Auth.Register(ctx, &req)
			assertStatus(t, err, http.StatusBadRequest, "name, email, and password are required")
		}

		found, err := f.repo.User.FindByEmail(ctx, "x@jwt.com")
		require.NoError(t, err)
		assert.Nil(t, found, "no user is created")
	})

	t.Run("success returns diner and token", func(t *testing.T) {
		resp, err := f.service.Auth.Register(ctx, &request.RegisterRequest{
			Name: "pizza diner", Email: "d@jwt.com", Password: "diner",
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.User.ID)
		assert.Equal(t, "d@jwt.com", resp.User.Email)
		require.Len(t, resp.User.Roles, 1)
		assert.Equal(t, entity.RoleDiner, resp.User.Roles[0].Role)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.service.Auth.Register(ctx, &request.RegisterRequest{
			Name: "again", Email: "d@jwt.com", Password: "other",
		})
		assertStatus(t, err, http.StatusConflict, "email already registered")
	})
}

func TestAuthService_LoginLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "pizza diner", "d@jwt.com", "diner")

	t.Run("missing fields", func(t *testing.T) {
		_, err := f.service.Auth.Login(ctx, &request.LoginRequest{Email: "d@jwt.com"})
		assertStatus(t, err, http.StatusBadRequest, "email and password are required")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.service.Auth.Login(ctx, &request.LoginRequest{Email: "d@jwt.com", Password: "nope"})
		assertStatus(t, err, http.StatusUnauthorized, "unknown user")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.service.Auth.Login(ctx, &request.LoginRequest{Email: "nobody@jwt.com", Password: "diner"})
		assertStatus(t, err, http.StatusUnauthorized, "unknown user")
	})

	t.Run("logout revokes only the presented token", func(t *testing.T) {
		first, err := f.service.Auth.Login(ctx, &request.LoginRequest{Email: "d@jwt.com", Password: "diner"})
		require.NoError(t, err)
		second, err := f.service.Auth.Login(ctx, &request.LoginRequest{Email: "d@jwt.com", Password: "diner"})
		require.NoError(t, err)

		require.NoError(t, f.service.Auth.Logout(ctx, first.User.ID, first.Token))

		_, err = f.service.Token.Verify(ctx, first.Token)
		assert.ErrorIs(t, err, ErrRevokedToken)
		_, err = f.service.Token.Verify(ctx, second.Token)
		assert.NoError(t, err)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	diner := f.register(t, "pizza diner", "d@jwt.com", "diner")
	other := f.register(t, "other", "o@jwt.com", "other")

	t.Run("self update changes credentials", func(t *testing.T) {
		resp, err := f.service.User.Update(ctx, diner, diner.ID, &request.UpdateUserRequest{
			Email: "new@jwt.com", Password: "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "new@jwt.com", resp.User.Email)
		assert.Equal(t, "pizza diner", resp.User.Name)

		claims, err := f.service.Token.Verify(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "new@jwt.com", claims.Email)

		_, err = f.service.Auth.Login(ctx, &request.LoginRequest{Email: "new@jwt.com", Password: "diner"})
		assertStatus(t, err, http.StatusUnauthorized, "")

		_, err = f.service.Auth.Login(ctx, &request.LoginRequest{Email: "new@jwt.com", Password: "secret"})
		assert.NoError(t, err)
	})

	t.Run("non admin cannot update another user", func(t *testing.T) {
		_, err := f.service.User.Update(ctx, diner, other.ID, &request.UpdateUserRequest{Name: "hacked"})
		assertStatus(t, err, http.StatusForbidden, "unauthorized")

		stored, err := f.repo.User.FindByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "other", stored.Name)
	})

	t.Run("admin can update another user", func(t *testing.T) {
		resp, err := f.service.User.Update(ctx, f.admin, other.ID, &request.UpdateUserRequest{Name: "renamed"})
		require.NoError(t, err)
		assert.Equal(t, "renamed", resp.User.Name)
	})

	t.Run("taken email", func(t *testing.T) {
		_, err := f.service.User.Update(ctx, f.admin, other.ID, &request.UpdateUserRequest{Email: "a@jwt.com"})
		assertStatus(t, err, http.StatusConflict, "email already registered")
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := f.service.User.Update(ctx, f.admin, 9999, &request.UpdateUserRequest{Name: "ghost"})
		assertStatus(t, err, http.StatusNotFound, "user not found")
	})
}

func TestUserService_ListDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	diner := f.register(t, "pizza diner", "d@jwt.com", "diner")
	f.register(t, "kai", "k@jwt.com", "kai")
	f.register(t, "kira", "ki@jwt.com", "kira")

	t.Run("non admin is forbidden", func(t *testing.T) {
		_, err := f.service.User.List(ctx, diner, request.ListRequest{Page: 1, Limit: 10})
		assertStatus(t, err, http.StatusForbidden, "unauthorized")
	})

	t.Run("paging", func(t *testing.T) {
		resp, err := f.service.User.List(ctx, f.admin, request.ListRequest{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, resp.Users, 2)
		assert.Equal(t, 1, resp.Page)
		assert.True(t, resp.HasMore)

		resp, err = f.service.User.List(ctx, f.admin, request.ListRequest{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, resp.Users, 2)
		assert.False(t, resp.HasMore)
	})

	t.Run("name filter", func(t *testing.T) {
		resp, err := f.service.User.List(ctx, f.admin, request.ListRequest{Page: 1, Limit: 10, Name: "k*"})
		require.NoError(t, err)
		assert.Len(t, resp.Users, 2)
	})

	t.Run("delete", func(t *testing.T) {
		err := f.service.User.Delete(ctx, diner, diner.ID)
		assertStatus(t, err, http.StatusForbidden, "unauthorized")

		require.NoError(t, f.service.User.Delete(ctx, f.admin, diner.ID))

		err = f.service.User.Delete(ctx, f.admin, diner.ID)
		assertStatus(t, err, http.StatusNotFound, "user not found")
	})
}

func TestFranchiseService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "owner", "f@jwt.com", "franchisee")
	diner := f.register(t, "diner", "d@jwt.com", "diner")

	_, err := f.service.Franchise.Create(ctx, diner, &request.CreateFranchiseRequest{Name: "nope"})
	assertStatus(t, err, http.StatusForbidden, "unable to create a franchise")

	_, err = f.service.Franchise.Create(ctx, f.admin, &request.CreateFranchiseRequest{
		Name:   "ghost",
		Admins: []request.FranchiseAdminRequest{{Email: "ghost@jwt.com"}},
	})
	assertStatus(t, err, http.StatusNotFound, "unknown user for franchise admin ghost@jwt.com provided")

	created, err := f.service.Franchise.Create(ctx, f.admin, &request.CreateFranchiseRequest{
		Name:   "pizzaPocket",
		Admins: []request.FranchiseAdminRequest{{Email: "f@jwt.com"}},
	})
	require.NoError(t, err)
	require.Len(t, created.Admins, 1)
	assert.Equal(t, owner.ID, created.Admins[0].ID)

	_, err = f.service.Franchise.Create(ctx, f.admin, &request.CreateFranchiseRequest{Name: "pizzaPocket"})
	assertStatus(t, err, http.StatusConflict, "franchise already exists")

	t.Run("store changes need franchise membership", func(t *testing.T) {
		_, err := f.service.Franchise.CreateStore(ctx, diner, created.ID, &request.CreateStoreRequest{Name: "SLC"})
		assertStatus(t, err, http.StatusForbidden, "unable to create a store")

		_, err = f.service.Franchise.CreateStore(ctx, owner, 9999, &request.CreateStoreRequest{Name: "SLC"})
		assertStatus(t, err, http.StatusNotFound, "franchise not found")

		store, err := f.service.Franchise.CreateStore(ctx, owner, created.ID, &request.CreateStoreRequest{Name: "SLC"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, store.FranchiseID)

		err = f.service.Franchise.DeleteStore(ctx, diner, created.ID, store.ID)
		assertStatus(t, err, http.StatusForbidden, "unable to delete a store")

		require.NoError(t, f.service.Franchise.DeleteStore(ctx, owner, created.ID, store.ID))

		err = f.service.Franchise.DeleteStore(ctx, owner, created.ID, store.ID)
		assertStatus(t, err, http.StatusNotFound, "store not found")
	})

	t.Run("listing", func(t *testing.T) {
		public, err := f.service.Franchise.List(ctx, nil, request.ListRequest{Page: 0, Limit: 10, Name: "*"})
		require.NoError(t, err)
		require.Len(t, public.Franchises, 1)
		assert.Nil(t, public.Franchises[0].Admins)
		assert.False(t, public.More)

		detailed, err := f.service.Franchise.List(ctx, f.admin, request.ListRequest{Page: 0, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, detailed.Franchises[0].Admins, 1)

		mine, err := f.service.Franchise.ListForUser(ctx, owner, owner.ID)
		require.NoError(t, err)
		assert.Len(t, mine, 1)

		theirs, err := f.service.Franchise.ListForUser(ctx, diner, owner.ID)
		require.NoError(t, err)
		assert.Empty(t, theirs)
	})

	t.Run("delete", func(t *testing.T) {
		err := f.service.Franchise.Delete(ctx, owner, created.ID)
		assertStatus(t, err, http.StatusForbidden, "unable to delete a franchise")

		require.NoError(t, f.service.Franchise.Delete(ctx, f.admin, created.ID))

		stored, err := f.repo.User.FindByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsFranchiseAdmin(created.ID))
	})
}

func TestOrderService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	diner := f.register(t, "diner", "d@jwt.com", "diner")

	_, err := f.service.Order.AddMenuItem(ctx, diner, &request.MenuItemRequest{Title: "Veggie", Price: 0.0038})
	assertStatus(t, err, http.StatusForbidden, "unable to add menu item")

	menu, err := f.service.Order.AddMenuItem(ctx, f.admin, &request.MenuItemRequest{
		Title: "Veggie", Description: "A garden of delight", Image: "pizza1.png", Price: 0.0038,
	})
	require.NoError(t, err)
	require.Len(t, menu, 1)
	menuID := menu[0].ID

	franchise, err := f.service.Franchise.Create(ctx, f.admin, &request.CreateFranchiseRequest{Name: "pizzaPocket"})
	require.NoError(t, err)
	store, err := f.service.Franchise.CreateStore(ctx, f.admin, franchise.ID, &request.CreateStoreRequest{Name: "SLC"})
	require.NoError(t, err)

	order := func(items ...request.OrderItemRequest) *request.CreateOrderRequest {
		return &request.CreateOrderRequest{FranchiseID: franchise.ID, StoreID: store.ID, Items: items}
	}

	t.Run("empty order", func(t *testing.T) {
		_, err := f.service.Order.Create(ctx, diner, order())
		assertStatus(t, err, http.StatusBadRequest, "order must contain at least one item")
	})

	t.Run("unknown menu item", func(t *testing.T) {
		_, err := f.service.Order.Create(ctx, diner, order(request.OrderItemRequest{MenuID: 404, Description: "x", Price: 1}))
		assertStatus(t, err, http.StatusBadRequest, "unknown menu item 404")
	})

	t.Run("fulfilled order", func(t *testing.T) {
		resp, err := f.service.Order.Create(ctx, diner, order(request.OrderItemRequest{MenuID: menuID, Description: "Veggie", Price: 0.05}))
		require.NoError(t, err)
		assert.Equal(t, "http://factory/report", resp.FollowLinkToEndChaos)
		assert.Equal(t, "factory.jwt.value", resp.JWT)
		require.Len(t, resp.Order.Items, 1)

		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, resp.Order.ID, f.publisher.events[0].OrderID)
		assert.Equal(t, 1, f.publisher.events[0].ItemCount)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		f.publisher.err = errors.New("broker down")
		defer func() { f.publisher.err = nil }()

		_, err := f.service.Order.Create(ctx, diner, order(request.OrderItemRequest{MenuID: menuID, Description: "Veggie", Price: 0.05}))
		assert.NoError(t, err)
	})

	t.Run("factory failure", func(t *testing.T) {
		f.factory.err = &FactoryError{ReportURL: "http://factory/chaos"}
		defer func() { f.factory.err = nil }()

		events := len(f.publisher.events)
		_, err := f.service.Order.Create(ctx, diner, order(request.OrderItemRequest{MenuID: menuID, Description: "Veggie", Price: 0.05}))

		var factoryErr *FactoryError
		require.ErrorAs(t, err, &factoryErr)
		assert.Equal(t, "http://factory/chaos", factoryErr.ReportURL)
		assert.Len(t, f.publisher.events, events)
	})

	t.Run("history", func(t *testing.T) {
		history, err := f.service.Order.Orders(ctx, diner, 1)
		require.NoError(t, err)
		assert.Equal(t, diner.ID, history.DinerID)
		assert.Equal(t, 1, history.Page)
		assert.Len(t, history.Orders, 3)

		history, err = f.service.Order.Orders(ctx, f.admin, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, history.Page)
		assert.Empty(t, history.Orders)
	})
}
