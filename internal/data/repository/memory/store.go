// Package memory is a mutex-guarded in-process implementation of every repository,
// selected with DB_DRIVER=memory and used by the HTTP tests.
package memory

import (
	"strings"
	"sync"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
)

type roleRow struct {
	userID int64
	role   entity.Role
}

type state struct {
	mu sync.RWMutex

	seq        int64
	users      map[int64]*entity.User
	roles      []roleRow
	revoked    map[string]time.Time
	franchises map[int64]*entity.Franchise
	stores     map[int64]*entity.Store
	menu       []entity.MenuItem
	orders     []*entity.Order
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// NewRepository returns a fresh, empty data set.
func NewRepository() *repository.Repository {
	s := &state{
		users:      make(map[int64]*entity.User),
		revoked:    make(map[string]time.Time),
		franchises: make(map[int64]*entity.Franchise),
		stores:     make(map[int64]*entity.Store),
	}

	return &repository.Repository{
		User:      &userRepository{s: s},
		Token:     &tokenRepository{s: s},
		Franchise: &franchiseRepository{s: s},
		Store:     &storeRepository{s: s},
		Menu:      &menuRepository{s: s},
		Order:     &orderRepository{s: s},
	}
}

// rolesOf returns a copy of the user's roles in grant order. Caller holds the lock.
func (s *state) rolesOf(userID int64) []entity.Role {
	var out []entity.Role
	for _, r := range s.roles {
		if r.userID == userID {
			out = append(out, copyRole(r.role))
		}
	}
	return out
}

func copyRole(r entity.Role) entity.Role {
	if r.ObjectID != nil {
		id := *r.ObjectID
		r.ObjectID = &id
	}
	return r
}

// matchLike reports whether value matches a '*' wildcard filter, the way LIKE does with '%'.
func matchLike(filter, value string) bool {
	if filter == "" || filter == "*" {
		return true
	}

	parts := strings.Split(filter, "*")
	if !strings.HasPrefix(value, parts[0]) {
		return false
	}
	value = value[len(parts[0]):]

	last := len(parts) - 1
	for i := 1; i < last; i++ {
		idx := strings.Index(value, parts[i])
		if idx < 0 {
			return false
		}
		value = value[idx+len(parts[i]):]
	}

	if last == 0 {
		return value == ""
	}
	return strings.HasSuffix(value, parts[last])
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 || limit < 1 || offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) || end < offset {
		end = len(items)
	}
	return items[offset:end]
}
