package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/data/repository"
	"pizza-service/internal/dto/response"
	"pizza-service/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token revoked")
	ErrSigning      = errors.New("token signing failed")
)

// TokenService issues and checks session tokens. Tokens are self-contained; the only
// server-side state is the revocation record.
type TokenService interface {
	Issue(user *entity.User) (string, error)
	Verify(ctx context.Context, token string) (*entity.User, error)
	Revoke(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type tokenClaims struct {
	UserID int64                   `json:"id"`
	Name   string                  `json:"name"`
	Email  string                  `json:"email"`
	Roles  []response.RoleResponse `json:"roles"`
	jwt.RegisteredClaims
}

type tokenService struct {
	repo   repository.TokenRepository
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	log    *zap.Logger
}

func NewTokenService(repo repository.TokenRepository, config utils.JWTConfig, log *zap.Logger) (TokenService, error) {
	if config.Secret == "" {
		return nil, fmt.Errorf("%w: empty secret", ErrSigning)
	}

	ttl := time.Duration(config.ExpiryHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &tokenService{
		repo:   repo,
		secret: []byte(config.Secret),
		ttl:    ttl,
		issuer: config.Issuer,
		now:    time.Now,
		log:    log.With(zap.String("service", "token")),
	}, nil
}

func (s *tokenService) Issue(user *entity.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  response.RolesToResponse(user.Roles),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.Int64("user_id", user.ID))
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}

	return signed, nil
}

func (s *tokenService) Verify(ctx context.Context, token string) (*entity.User, error) {
	// 1. Shape: header.payload.signature
	if !wellFormed(token) {
		return nil, ErrInvalidToken
	}

	// 2. Signature, algorithm, expiry, issuer
	var claims tokenClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// 3. Revocation
	revoked, err := s.repo.IsRevoked(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	return claims.user()
}

// Revoke is idempotent. The entry lives as long as the token itself would have.
func (s *tokenService) Revoke(ctx context.Context, token string) error {
	expiresAt := s.now().Add(s.ttl)

	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.repo.Revoke(ctx, hashToken(token), expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *tokenService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.repo.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return purged, nil
}

func (c *tokenClaims) user() (*entity.User, error) {
	roles := make([]entity.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		kind, err := entity.ParseRoleKind(string(r.Role))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		roles = append(roles, entity.Role{Kind: kind, ObjectID: r.ObjectID})
	}

	return &entity.User{
		Base:  entity.Base{ID: c.UserID},
		Name:  c.Name,
		Email: c.Email,
		Roles: roles,
	}, nil
}

func wellFormed(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
