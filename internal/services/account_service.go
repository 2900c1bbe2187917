package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"xplore/internal/models/db_models"
	"xplore/internal/models/request_models"
	"xplore/internal/models/response_models"
	"xplore/internal/repositories"
	"xplore/pkg/logger"
	mem "xplore/pkg/memcache"
	"xplore/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.UserResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
	Logout(ctx context.Context, token string, claims *utils.Claims) error
	ChangePassword(ctx context.Context, userID uuid.UUID, request request_models.ChangePasswordRequest) error
}

type AccountService struct {
	userRepo repositories.UserRepository
	tokens   *utils.TokenIssuer
	revoked  mem.TokenStore
	log      *logger.Logger
}

func NewAccountService(userRepo repositories.UserRepository, tokens *utils.TokenIssuer, revoked mem.TokenStore, log *logger.Logger) AccountServiceInterface {
	return &AccountService{
		userRepo: userRepo,
		tokens:   tokens,
		revoked:  revoked,
		log:      log.With("service", "AccountService"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.UserResponse, error) {
	email := normalizeEmail(request.Email)
	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		DisplayName:  strings.TrimSpace(request.DisplayName),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         db_models.RoleUser,
		Active:       true,
	}
	if err := a.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	a.log.Info("user registered", "user_id", user.ID)
	resp := toUserResponse(user, true)
	return &resp, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	startTime := time.Now()

	user, err := a.userRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil || !user.Active {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	now := utils.NowUnixSeconds()
	if err := a.userRepo.TouchLastSeen(ctx, user.ID, now); err != nil {
		a.log.Warn("failed to update last seen", "user_id", user.ID, "error", err)
	} else {
		user.LastSeenAt = &now
	}

	a.log.Debug("login finished", "user_id", user.ID, "elapsed", time.Since(startTime))
	return &response_models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: time.Now().Add(a.tokens.TTL()).UTC().Format(time.RFC3339),
		Usuario:   toUserResponse(user, true),
	}, nil
}

// Logout revokes the token for the rest of its lifetime.
func (a *AccountService) Logout(ctx context.Context, token string, claims *utils.Claims) error {
	if token == "" || claims == nil {
		return utils.ErrUnauthorized
	}
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := a.revoked.Revoke(ctx, token, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	a.log.Info("user logged out", "user_id", claims.UserID)
	return nil
}

func (a *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, request request_models.ChangePasswordRequest) error {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil || !user.Active {
		return utils.ErrUserNotFound
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.CurrentPassword); err != nil {
		return utils.ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := a.userRepo.Update(ctx, userID, map[string]interface{}{"password_hash": hashed}); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	a.log.Info("password changed", "user_id", userID)
	return nil
}
