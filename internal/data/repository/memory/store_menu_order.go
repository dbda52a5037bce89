package memory

import (
	"context"
	"sort"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
)

type storeRepository struct {
	s *state
}

func (r *storeRepository) Create(_ context.Context, store *entity.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	store.ID = r.s.nextID()
	stored := *store
	r.s.stores[store.ID] = &stored
	return nil
}

func (r *storeRepository) FindByID(_ context.Context, id int64) (*entity.Store, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.stores[id]
	if !ok {
		return nil, nil
	}
	out := *st
	return &out, nil
}

func (r *storeRepository) Delete(_ context.Context, franchiseID, storeID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.stores[storeID]
	if !ok || st.FranchiseID != franchiseID {
		return repository.ErrNotFound
	}
	delete(r.s.stores, storeID)
	return nil
}

type menuRepository struct {
	s *state
}

func (r *menuRepository) FindAll(_ context.Context) ([]entity.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.MenuItem, len(r.s.menu))
	copy(out, r.s.menu)
	return out, nil
}

func (r *menuRepository) FindByIDs(_ context.Context, ids []int64) (map[int64]entity.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make(map[int64]entity.MenuItem, len(ids))
	for _, item := range r.s.menu {
		if _, ok := wanted[item.ID]; ok {
			out[item.ID] = item
		}
	}
	return out, nil
}

func (r *menuRepository) Create(_ context.Context, item *entity.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.ID = r.s.nextID()
	r.s.menu = append(r.s.menu, *item)
	return nil
}

type orderRepository struct {
	s *state
}

func (r *orderRepository) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if order.Date.IsZero() {
		order.Date = time.Now().UTC()
	}
	order.ID = r.s.nextID()
	for i := range order.Items {
		order.Items[i].ID = r.s.nextID()
		order.Items[i].OrderID = order.ID
	}

	stored := *order
	stored.Items = append([]entity.OrderItem(nil), order.Items...)
	r.s.orders = append(r.s.orders, &stored)
	return nil
}

func (r *orderRepository) FindByDiner(_ context.Context, dinerID int64, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*entity.Order
	for _, o := range r.s.orders {
		if o.DinerID == dinerID {
			out := *o
			out.Items = append([]entity.OrderItem{}, o.Items...)
			matched = append(matched, &out)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return page(matched, limit, offset), nil
}
