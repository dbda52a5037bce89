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
	msgUnauthorized = "unauthorized"
	msgUserNotFound = "user not found"
)

type UserService interface {
	Me(ctx context.Context, actor *entity.User) (*response.UserResponse, error)
	List(ctx context.Context, actor *entity.User, req request.ListRequest) (*response.UserListResponse, error)
	Update(ctx context.Context, actor *entity.User, userID int64, req *request.UpdateUserRequest) (*response.AuthResponse, error)
	Delete(ctx context.Context, actor *entity.User, userID int64) error
}

type userService struct {
	users  repository.UserRepository
	tokens TokenService
	log    *zap.Logger
}

func NewUserService(users repository.UserRepository, tokens TokenService, log *zap.Logger) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

// Me returns the identity carried by the token.
func (us *userService) Me(_ context.Context, actor *entity.User) (*response.UserResponse, error) {
	resp := response.UserToResponse(actor)
	return &resp, nil
}

func (us *userService) List(ctx context.Context, actor *entity.User, req request.ListRequest) (*response.UserListResponse, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewAuthorizationError(msgUnauthorized)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	req.Limit = utils.ClampLimit(req.Limit)
	if req.Name == "" {
		req.Name = "*"
	}

	// One extra row tells whether another page exists
	users, err := us.users.FindAll(ctx, req.Limit+1, req.Offset(), req.Name)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	hasMore := len(users) > req.Limit
	if hasMore {
		users = users[:req.Limit]
	}

	resp := &response.UserListResponse{
		Users:   make([]response.UserResponse, 0, len(users)),
		Page:    req.Page,
		HasMore: hasMore,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, response.UserToResponse(u))
	}

	return resp, nil
}

// Update changes any subset of name, email and password and issues a token for the
// new identity. Tokens issued before the update are left valid.
func (us *userService) Update(ctx context.Context, actor *entity.User, userID int64, req *request.UpdateUserRequest) (*response.AuthResponse, error) {
	// 1. Self or admin
	if !actor.CanActOn(userID) {
		us.log.Warn("Update user denied",
			zap.Int64("actor_id", actor.ID),
			zap.Int64("target_id", userID))
		return nil, utils.NewAuthorizationError(msgUnauthorized)
	}

	// 2. Load target
	user, err := us.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, utils.NewNotFoundError(msgUserNotFound)
	}

	// 3. Apply changes
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			var appErr *utils.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	// 4. Persist
	if err := us.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, utils.NewConflictError(msgEmailTaken, err)
		case errors.Is(err, repository.ErrNotFound):
			return nil, utils.NewNotFoundError(msgUserNotFound)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	// 5. Re-issue
	token, err := us.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	us.log.Info("User updated", zap.Int64("user_id", user.ID), zap.Int64("actor_id", actor.ID))

	return &response.AuthResponse{User: response.UserToResponse(user), Token: token}, nil
}

func (us *userService) Delete(ctx context.Context, actor *entity.User, userID int64) error {
	if !actor.IsAdmin() {
		return utils.NewAuthorizationError(msgUnauthorized)
	}

	if err := us.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NewNotFoundError(msgUserNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted", zap.Int64("user_id", userID), zap.Int64("actor_id", actor.ID))
	return nil
}
