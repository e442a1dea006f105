package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"CadetTrack/internal/cache"
	"CadetTrack/internal/model"
	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/repository"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/logger"
	"CadetTrack/pkg/token"
	"CadetTrack/storage/database"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = NewAuthService(database.DB())
	})
	return authService
}

type AuthService struct {
	users *repository.UserRepository
	cost  int
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		users: repository.NewUserRepository(db),
		cost:  bcrypt.DefaultCost,
	}
}

// Register 创建后台账号，用户名唯一
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserInfo, error) {
	username := strings.TrimSpace(req.Username)

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, errors.Field("username", errors.UsernameTaken.Message)
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, errors.Field("username", errors.UsernameTaken.Message)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	info := userInfo(user)
	return &info, nil
}

// Login 校验密码并签发 token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.InvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Logger.Info("Login rejected", zap.String("username", user.Username))
		return nil, errors.InvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh 用 refresh token 换一组新 token，旧的随之失效
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	ok, err := cache.ValidateRefreshTokenExists(ctx, userID, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !ok {
		return nil, errors.Unauthorized
	}

	user, err := s.userByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, errors.UserNotFound) {
			return nil, errors.Unauthorized
		}
		return nil, err
	}

	return s.issue(ctx, user)
}

// Logout 删除 refresh token，access token 自然过期
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := cache.DeleteRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// Me 当前登录用户
func (s *AuthService) Me(ctx context.Context, userID string) (*dto.UserInfo, error) {
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := userInfo(user)
	return &info, nil
}

func (s *AuthService) userByID(ctx context.Context, userID string) (*model.User, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, errors.UserNotFound
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	userID := strconv.FormatInt(user.ID, 10)

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, userID, refreshToken); err != nil {
		logger.Logger.Warn("Failed to update refresh token in Redis",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
		User:         userInfo(user),
	}, nil
}

func userInfo(u *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:       strconv.FormatInt(u.ID, 10),
		Username: u.Username,
		Name:     u.Name,
		Role:     string(u.Role),
	}
}
