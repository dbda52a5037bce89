package entity

type Franchise struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Admins []FranchiseAdmin
	Stores []Store
}

// FranchiseAdmin is the public projection of a user administering a franchise.
type FranchiseAdmin struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

type Store struct {
	ID           int64   `db:"id"`
	FranchiseID  int64   `db:"franchise_id"`
	Name         string  `db:"name"`
	TotalRevenue float64 `db:"total_revenue"`
}
