package memory

import (
	"context"
	"sort"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
)

type franchiseRepository struct {
	s *state
}

func (r *franchiseRepository) Create(_ context.Context, franchise *entity.Franchise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.franchises {
		if f.Name == franchise.Name {
			return repository.ErrDuplicateFranchise
		}
	}

	franchise.ID = r.s.nextID()
	r.s.franchises[franchise.ID] = &entity.Franchise{ID: franchise.ID, Name: franchise.Name}
	for _, admin := range franchise.Admins {
		r.s.roles = append(r.s.roles, roleRow{userID: admin.ID, role: entity.FranchiseeRole(franchise.ID)})
	}
	return nil
}

func (r *franchiseRepository) FindByID(_ context.Context, id int64) (*entity.Franchise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.franchises[id]
	if !ok {
		return nil, nil
	}
	return r.detail(f), nil
}

func (r *franchiseRepository) FindAll(_ context.Context, limit, offset int, nameFilter string) ([]*entity.Franchise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*entity.Franchise
	for _, f := range r.s.franchises {
		if matchLike(nameFilter, f.Name) {
			matched = append(matched, r.detail(f))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return page(matched, limit, offset), nil
}

func (r *franchiseRepository) FindByAdmin(_ context.Context, userID int64) ([]*entity.Franchise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*entity.Franchise{}
	for _, row := range r.s.roles {
		if row.userID != userID || row.role.Kind != entity.RoleFranchisee || row.role.ObjectID == nil {
			continue
		}
		if f, ok := r.s.franchises[*row.role.ObjectID]; ok {
			out = append(out, r.detail(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *franchiseRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.franchises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.franchises, id)

	for storeID, st := range r.s.stores {
		if st.FranchiseID == id {
			delete(r.s.stores, storeID)
		}
	}

	roles := r.s.roles[:0]
	for _, row := range r.s.roles {
		if row.role.Kind == entity.RoleFranchisee && row.role.ObjectID != nil && *row.role.ObjectID == id {
			continue
		}
		roles = append(roles, row)
	}
	r.s.roles = roles
	return nil
}

// detail builds the franchise with admins and stores. Caller holds the lock.
func (r *franchiseRepository) detail(f *entity.Franchise) *entity.Franchise {
	out := &entity.Franchise{
		ID:     f.ID,
		Name:   f.Name,
		Admins: []entity.FranchiseAdmin{},
		Stores: []entity.Store{},
	}

	for _, row := range r.s.roles {
		if row.role.Kind != entity.RoleFranchisee || row.role.ObjectID == nil || *row.role.ObjectID != f.ID {
			continue
		}
		if u, ok := r.s.users[row.userID]; ok {
			out.Admins = append(out.Admins, entity.FranchiseAdmin{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	sort.Slice(out.Admins, func(i, j int) bool { return out.Admins[i].ID < out.Admins[j].ID })

	for _, st := range r.s.stores {
		if st.FranchiseID != f.ID {
			continue
		}
		s := *st
		for _, o := range r.s.orders {
			if o.StoreID == s.ID {
				s.TotalRevenue += o.Revenue()
			}
		}
		out.Stores = append(out.Stores, s)
	}
	sort.Slice(out.Stores, func(i, j int) bool { return out.Stores[i].ID < out.Stores[j].ID })

	return out
}
