package memory

import (
	"context"
	"sort"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
)

type userRepository struct {
	s *state
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	now := time.Now()
	user.ID = r.s.nextID()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	stored.Roles = nil
	r.s.users[user.ID] = &stored
	for _, role := range user.Roles {
		r.s.roles = append(r.s.roles, roleRow{userID: user.ID, role: copyRole(role)})
	}
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return r.snapshot(u), nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return r.snapshot(u), nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindAll(_ context.Context, limit, offset int, nameFilter string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*entity.User
	for _, u := range r.s.users {
		if matchLike(nameFilter, u.Name) {
			matched = append(matched, r.snapshot(u))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return page(matched, limit, offset), nil
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.UpdatedAt = time.Now()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)

	roles := r.s.roles[:0]
	for _, row := range r.s.roles {
		if row.userID != id {
			roles = append(roles, row)
		}
	}
	r.s.roles = roles

	orders := r.s.orders[:0]
	for _, o := range r.s.orders {
		if o.DinerID != id {
			orders = append(orders, o)
		}
	}
	r.s.orders = orders
	return nil
}

// snapshot copies the stored user with its roles. Caller holds the lock.
func (r *userRepository) snapshot(u *entity.User) *entity.User {
	out := *u
	out.Roles = r.s.rolesOf(u.ID)
	return &out
}
