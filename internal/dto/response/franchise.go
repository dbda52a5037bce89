package response

import (
	"pizza-service/internal/data/entity"
)

type FranchiseAdminResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StoreResponse struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	FranchiseID  int64    `json:"franchiseId,omitempty"`
	TotalRevenue *float64 `json:"totalRevenue,omitempty"`
}

type FranchiseResponse struct {
	ID     int64                    `json:"id"`
	Name   string                   `json:"name"`
	Admins []FranchiseAdminResponse `json:"admins,omitempty"`
	Stores []StoreResponse          `json:"stores"`
}

type FranchiseListResponse struct {
	Franchises []FranchiseResponse `json:"franchises"`
	More       bool                `json:"more"`
}

// FranchiseToResponse renders a franchise; detailed adds admins and store revenue.
func FranchiseToResponse(f *entity.Franchise, detailed bool) FranchiseResponse {
	resp := FranchiseResponse{
		ID:     f.ID,
		Name:   f.Name,
		Stores: make([]StoreResponse, 0, len(f.Stores)),
	}

	if detailed {
		resp.Admins = make([]FranchiseAdminResponse, 0, len(f.Admins))
		for _, a := range f.Admins {
			resp.Admins = append(resp.Admins, FranchiseAdminResponse{ID: a.ID, Name: a.Name, Email: a.Email})
		}
	}

	for _, s := range f.Stores {
		store := StoreResponse{ID: s.ID, Name: s.Name}
		if detailed {
			revenue := s.TotalRevenue
			store.TotalRevenue = &revenue
		}
		resp.Stores = append(resp.Stores, store)
	}

	return resp
}
