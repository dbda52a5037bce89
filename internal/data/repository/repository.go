package repository

import (
	"errors"
	"strings"

	"pizza-service/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateFranchise = errors.New("franchise name already exists")
)

const uniqueViolation = "23505"

type Repository struct {
	User      UserRepository
	Token     TokenRepository
	Franchise FranchiseRepository
	Store     StoreRepository
	Menu      MenuRepository
	Order     OrderRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Token:     NewTokenRepository(db, log),
		Franchise: NewFranchiseRepository(db, log),
		Store:     NewStoreRepository(db, log),
		Menu:      NewMenuRepository(db, log),
		Order:     NewOrderRepository(db, log),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`, "*", "%")

// LikePattern turns a '*' wildcard filter into a SQL LIKE pattern for use with ESCAPE '\'.
// '%' and '_' match literally. An empty filter matches everything.
func LikePattern(filter string) string {
	if filter == "" {
		return "%"
	}
	return likeEscaper.Replace(filter)
}
