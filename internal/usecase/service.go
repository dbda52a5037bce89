package usecase

import (
	"pizza-service/internal/data/repository"
	"pizza-service/pkg/metrics"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Token     TokenService
	Auth      AuthService
	User      UserService
	Franchise FranchiseService
	Order     OrderService
}

// Dependencies are the collaborators built outside the repository layer.
// Publisher may be nil.
type Dependencies struct {
	Metrics   *metrics.Metrics
	Factory   FactoryClient
	Publisher OrderEventPublisher
}

func NewService(repo *repository.Repository, config *utils.Config, deps Dependencies, log *zap.Logger) (*Service, error) {
	tokens, err := NewTokenService(repo.Token, config.JWT, log)
	if err != nil {
		return nil, err
	}

	if deps.Factory == nil {
		deps.Factory = NewFactoryClient(config.Factory, log)
	}

	return &Service{
		Token:     tokens,
		Auth:      NewAuthService(repo.User, tokens, deps.Metrics, log),
		User:      NewUserService(repo.User, tokens, log),
		Franchise: NewFranchiseService(repo, log),
		Order:     NewOrderService(repo, deps, log),
	}, nil
}
