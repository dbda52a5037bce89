package memory

import (
	"context"
	"testing"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLike(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		value  string
		want   bool
	}{
		{"empty filter matches all", "", "anything", true},
		{"star matches all", "*", "anything", true},
		{"exact match", "pizza", "pizza", true},
		{"exact mismatch", "pizza", "pizzas", false},
		{"prefix", "piz*", "pizzaPocket", true},
		{"suffix", "*Pocket", "pizzaPocket", true},
		{"infix", "*zaP*", "pizzaPocket", true},
		{"infix missing", "*xyz*", "pizzaPocket", false},
		{"prefix and suffix", "p*t", "pizzaPocket", true},
		{"prefix mismatch", "q*", "pizza", false},
		{"percent is literal", "50%", "50 percent", false},
		{"percent matches itself", "50%*", "50% off", true},
		{"underscore is literal", "pizza_diner", "pizza diner", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchLike(tt.filter, tt.value))
		})
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, page(items, 2, 0))
	assert.Equal(t, []int{5}, page(items, 2, 4))
	assert.Empty(t, page(items, 2, 5))
	assert.Empty(t, page(items, 2, -20))
	assert.Empty(t, page(items, 0, 0))
	assert.Equal(t, []int{4, 5}, page(items, int(^uint(0)>>1), 3))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	alice := &entity.User{
		Name:         "alice",
		Email:        "alice@jwt.com",
		PasswordHash: "hash",
		Roles:        []entity.Role{entity.DinerRole()},
	}
	require.NoError(t, repo.User.Create(ctx, alice))
	assert.NotZero(t, alice.ID)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.User.Create(ctx, &entity.User{Name: "other", Email: "alice@jwt.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("find by email returns roles", func(t *testing.T) {
		found, err := repo.User.FindByEmail(ctx, "alice@jwt.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, alice.ID, found.ID)
		assert.True(t, found.HasRole(entity.RoleDiner))
	})

	t.Run("missing user is nil without error", func(t *testing.T) {
		found, err := repo.User.FindByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update to a taken email is rejected", func(t *testing.T) {
		bob := &entity.User{Name: "bob", Email: "bob@jwt.com"}
		require.NoError(t, repo.User.Create(ctx, bob))

		bob.Email = "alice@jwt.com"
		assert.ErrorIs(t, repo.User.Update(ctx, bob), repository.ErrDuplicateEmail)
	})

	t.Run("find all filters by name and pages", func(t *testing.T) {
		users, err := repo.User.FindAll(ctx, 10, 0, "al*")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Name)

		users, err = repo.User.FindAll(ctx, 1, 1, "*")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Name)
	})

	t.Run("delete removes the user", func(t *testing.T) {
		require.NoError(t, repo.User.Delete(ctx, alice.ID))
		assert.ErrorIs(t, repo.User.Delete(ctx, alice.ID), repository.ErrNotFound)

		found, err := repo.User.FindByEmail(ctx, "alice@jwt.com")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestFranchiseRepository_Cascade(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	owner := &entity.User{Name: "owner", Email: "owner@jwt.com", Roles: []entity.Role{entity.DinerRole()}}
	require.NoError(t, repo.User.Create(ctx, owner))

	franchise := &entity.Franchise{
		Name:   "pizzaPocket",
		Admins: []entity.FranchiseAdmin{{ID: owner.ID}},
	}
	require.NoError(t, repo.Franchise.Create(ctx, franchise))
	assert.ErrorIs(t, repo.Franchise.Create(ctx, &entity.Franchise{Name: "pizzaPocket"}), repository.ErrDuplicateFranchise)

	store := &entity.Store{FranchiseID: franchise.ID, Name: "SLC"}
	require.NoError(t, repo.Store.Create(ctx, store))

	item := &entity.MenuItem{Title: "Veggie", Price: 0.0038}
	require.NoError(t, repo.Menu.Create(ctx, item))

	order := &entity.Order{
		DinerID:     owner.ID,
		FranchiseID: franchise.ID,
		StoreID:     store.ID,
		Items:       []entity.OrderItem{{MenuID: item.ID, Description: "Veggie", Price: 0.05}},
	}
	require.NoError(t, repo.Order.Create(ctx, order))

	found, err := repo.Franchise.FindByID(ctx, franchise.ID)
	require.NoError(t, err)
	require.Len(t, found.Admins, 1)
	require.Len(t, found.Stores, 1)
	assert.InDelta(t, 0.05, found.Stores[0].TotalRevenue, 1e-9)

	user, err := repo.User.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, user.IsFranchiseAdmin(franchise.ID))

	require.NoError(t, repo.Franchise.Delete(ctx, franchise.ID))

	user, err = repo.User.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, user.IsFranchiseAdmin(franchise.ID))

	gone, err := repo.Store.FindByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTokenRepository_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	now := time.Now()

	require.NoError(t, repo.Token.Revoke(ctx, "old", now.Add(-time.Minute)))
	require.NoError(t, repo.Token.Revoke(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, repo.Token.Revoke(ctx, "live", now.Add(2*time.Hour)))

	purged, err := repo.Token.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	revoked, err := repo.Token.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.Token.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
