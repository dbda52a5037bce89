package usecase

import (
	"context"
	"errors"
	"fmt"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
	"pizza-service/internal/dto/request"
	"pizza-service/internal/dto/response"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgCreateFranchiseDenied = "unable to create a franchise"
	msgDeleteFranchiseDenied = "unable to delete a franchise"
	msgCreateStoreDenied     = "unable to create a store"
	msgDeleteStoreDenied     = "unable to delete a store"
	msgFranchiseNotFound     = "franchise not found"
	msgStoreNotFound         = "store not found"
	msgFranchiseExists       = "franchise already exists"
)

type FranchiseService interface {
	List(ctx context.Context, actor *entity.User, req request.ListRequest) (*response.FranchiseListResponse, error)
	ListForUser(ctx context.Context, actor *entity.User, userID int64) ([]response.FranchiseResponse, error)
	Create(ctx context.Context, actor *entity.User, req *request.CreateFranchiseRequest) (*response.FranchiseResponse, error)
	Delete(ctx context.Context, actor *entity.User, franchiseID int64) error
	CreateStore(ctx context.Context, actor *entity.User, franchiseID int64, req *request.CreateStoreRequest) (*response.StoreResponse, error)
	DeleteStore(ctx context.Context, actor *entity.User, franchiseID, storeID int64) error
}

type franchiseService struct {
	franchises repository.FranchiseRepository
	stores     repository.StoreRepository
	users      repository.UserRepository
	log        *zap.Logger
}

func NewFranchiseService(repo *repository.Repository, log *zap.Logger) FranchiseService {
	return &franchiseService{
		franchises: repo.Franchise,
		stores:     repo.Store,
		users:      repo.User,
		log:        log,
	}
}

// List is public; admins additionally see franchise admins and store revenue.
func (fs *franchiseService) List(ctx context.Context, actor *entity.User, req request.ListRequest) (*response.FranchiseListResponse, error) {
	if req.Page < 0 {
		req.Page = 0
	}
	req.Limit = utils.ClampLimit(req.Limit)

	franchises, err := fs.franchises.FindAll(ctx, req.Limit+1, req.ZeroBasedOffset(), req.Name)
	if err != nil {
		return nil, fmt.Errorf("list franchises: %w", err)
	}

	more := len(franchises) > req.Limit
	if more {
		franchises = franchises[:req.Limit]
	}

	detailed := actor != nil && actor.IsAdmin()
	resp := &response.FranchiseListResponse{
		Franchises: make([]response.FranchiseResponse, 0, len(franchises)),
		More:       more,
	}
	for _, f := range franchises {
		resp.Franchises = append(resp.Franchises, response.FranchiseToResponse(f, detailed))
	}

	return resp, nil
}

// ListForUser returns the franchises userID administers. Other callers get an empty list.
func (fs *franchiseService) ListForUser(ctx context.Context, actor *entity.User, userID int64) ([]response.FranchiseResponse, error) {
	out := []response.FranchiseResponse{}
	if !actor.CanActOn(userID) {
		return out, nil
	}

	franchises, err := fs.franchises.FindByAdmin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user franchises: %w", err)
	}

	for _, f := range franchises {
		out = append(out, response.FranchiseToResponse(f, true))
	}
	return out, nil
}

func (fs *franchiseService) Create(ctx context.Context, actor *entity.User, req *request.CreateFranchiseRequest) (*response.FranchiseResponse, error) {
	// 1. Admin only
	if !actor.IsAdmin() {
		return nil, utils.NewAuthorizationError(msgCreateFranchiseDenied)
	}

	// 2. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(utils.FormatValidationErrors(errs))
	}

	// 3. Resolve admins by email
	franchise := &entity.Franchise{Name: req.Name}
	for _, a := range req.Admins {
		user, err := fs.users.FindByEmail(ctx, a.Email)
		if err != nil {
			return nil, fmt.Errorf("find franchise admin: %w", err)
		}
		if user == nil {
			return nil, utils.NewNotFoundError(fmt.Sprintf("unknown user for franchise admin %s provided", a.Email))
		}
		franchise.Admins = append(franchise.Admins, entity.FranchiseAdmin{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	}

	// 4. Persist with franchisee grants
	if err := fs.franchises.Create(ctx, franchise); err != nil {
		if errors.Is(err, repository.ErrDuplicateFranchise) {
			return nil, utils.NewConflictError(msgFranchiseExists, err)
		}
		return nil, fmt.Errorf("create franchise: %w", err)
	}

	fs.log.Info("Franchise created",
		zap.Int64("franchise_id", franchise.ID),
		zap.Int("admins", len(franchise.Admins)),
		zap.Int64("actor_id", actor.ID),
	)

	resp := response.FranchiseToResponse(franchise, true)
	return &resp, nil
}

func (fs *franchiseService) Delete(ctx context.Context, actor *entity.User, franchiseID int64) error {
	if !actor.IsAdmin() {
		return utils.NewAuthorizationError(msgDeleteFranchiseDenied)
	}

	if err := fs.franchises.Delete(ctx, franchiseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError(msgFranchiseNotFound)
		}
		return fmt.Errorf("delete franchise: %w", err)
	}

	fs.log.Info("Franchise deleted", zap.Int64("franchise_id", franchiseID), zap.Int64("actor_id", actor.ID))
	return nil
}

func (fs *franchiseService) CreateStore(ctx context.Context, actor *entity.User, franchiseID int64, req *request.CreateStoreRequest) (*response.StoreResponse, error) {
	if err := fs.authorizeStore(ctx, actor, franchiseID, msgCreateStoreDenied); err != nil {
		return nil, err
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(utils.FormatValidationErrors(errs))
	}

	store := &entity.Store{FranchiseID: franchiseID, Name: req.Name}
	if err := fs.stores.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	fs.log.Info("Store created", zap.Int64("store_id", store.ID), zap.Int64("franchise_id", franchiseID))

	return &response.StoreResponse{ID: store.ID, Name: store.Name, FranchiseID: store.FranchiseID}, nil
}

func (fs *franchiseService) DeleteStore(ctx context.Context, actor *entity.User, franchiseID, storeID int64) error {
	if err := fs.authorizeStore(ctx, actor, franchiseID, msgDeleteStoreDenied); err != nil {
		return err
	}

	store, err := fs.stores.FindByID(ctx, storeID)
	if err != nil {
		return fmt.Errorf("find store: %w", err)
	}
	if store == nil || store.FranchiseID != franchiseID {
		return utils.NewNotFoundError(msgStoreNotFound)
	}

	if err := fs.stores.Delete(ctx, franchiseID, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError(msgStoreNotFound)
		}
		return fmt.Errorf("delete store: %w", err)
	}

	fs.log.Info("Store deleted", zap.Int64("store_id", storeID), zap.Int64("franchise_id", franchiseID))
	return nil
}

// authorizeStore allows admins and the franchise's own admins. Membership is read
// from the database, not from the token's roles.
func (fs *franchiseService) authorizeStore(ctx context.Context, actor *entity.User, franchiseID int64, denied string) error {
	franchise, err := fs.franchises.FindByID(ctx, franchiseID)
	if err != nil {
		return fmt.Errorf("find franchise: %w", err)
	}
	if franchise == nil {
		return utils.NewNotFoundError(msgFranchiseNotFound)
	}

	if actor.IsAdmin() {
		return nil
	}
	for _, a := range franchise.Admins {
		if a.ID == actor.ID {
			return nil
		}
	}

	fs.log.Warn("Store change denied", zap.Int64("actor_id", actor.ID), zap.Int64("franchise_id", franchiseID))
	return utils.NewAuthorizationError(denied)
}
