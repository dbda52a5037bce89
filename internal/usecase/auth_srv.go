package usecase

import (
	"context"
	"errors"
	"fmt"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
	"pizza-service/internal/dto/request"
	"pizza-service/internal/dto/response"
	"pizza-service/pkg/metrics"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgRegisterFieldsRequired = "name, email, and password are required"
	msgLoginFieldsRequired    = "email and password are required"
	msgUnknownUser            = "unknown user"
	msgEmailTaken             = "email already registered"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, userID int64, token string) error
}

type authService struct {
	users   repository.UserRepository
	tokens  TokenService
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens TokenService,
	m *metrics.Metrics,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:   users,
		tokens:  tokens,
		metrics: m,
		log:     log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Debug("Register validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError(msgRegisterFieldsRequired)
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. Save user with the default role
	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Roles:        []entity.Role{entity.DinerRole()},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.metrics.RecordAuth(ctx, false)
			return nil, utils.NewConflictError(msgEmailTaken, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 4. Issue token
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuth(ctx, true)
	s.metrics.UserLoggedIn(ctx, user.ID)

	s.log.Info("User registered", zap.Int64("user_id", user.ID), zap.String("email", user.Email))

	return &response.AuthResponse{User: response.UserToResponse(user), Token: token}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError(msgLoginFieldsRequired)
	}

	// 2. Find user
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 3. Unknown email and wrong password are indistinguishable to the caller
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.metrics.RecordAuth(ctx, false)
		s.log.Warn("Login rejected", zap.String("email", req.Email))
		return nil, utils.NewAuthenticationError(msgUnknownUser)
	}

	// 4. Issue a fresh token; earlier tokens stay valid
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuth(ctx, true)
	s.metrics.UserLoggedIn(ctx, user.ID)

	s.log.Info("User logged in", zap.Int64("user_id", user.ID))

	return &response.AuthResponse{User: response.UserToResponse(user), Token: token}, nil
}

func (s *authService) Logout(ctx context.Context, userID int64, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		s.log.Error("Failed to revoke token", zap.Error(err))
		return err
	}

	s.metrics.UserLoggedOut(ctx, userID)
	return nil
}
