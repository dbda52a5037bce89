package entity

type MenuItem struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Description string  `db:"description"`
	Image       string  `db:"image"`
	Price       float64 `db:"price"`
}
