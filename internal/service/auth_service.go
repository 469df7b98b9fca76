package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"smart-class-flow/backend/config"
	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/model"
	"smart-class-flow/backend/internal/repository"
	pkgerrors "smart-class-flow/backend/pkg/errors"
	"smart-class-flow/backend/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrIdentityNotFound   = errors.New("身份不存在")
	ErrInvalidRefresh     = errors.New("refresh token 无效")
)

// AuthService 认证业务接口
type AuthService interface {
	// Register 创建身份；对应档案由模型钩子在同一事务内生成
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	GetCurrentIdentity(ctx context.Context, identityID string) (*dto.IdentityResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	identity := &model.Identity{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if req.Name != "" {
		identity.MetaName = &req.Name
	}

	if err := s.repo.Identity.Create(ctx, identity); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("创建身份失败", zap.Error(err))
		return nil, err
	}

	// 档案已由 AfterCreate 钩子生成，读取以构造响应
	profile, err := s.repo.Profile.GetByIdentityID(ctx, identity.IdentityID)
	if err != nil {
		s.logger.Error("查询注册档案失败", zap.String("identity_id", identity.IdentityID), zap.Error(err))
		return nil, err
	}

	return s.issueTokens(identity.IdentityID, profile)
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	identity, err := s.repo.Identity.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询身份失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.repo.Profile.GetByIdentityID(ctx, identity.IdentityID)
	if err != nil {
		s.logger.Error("查询档案失败", zap.String("identity_id", identity.IdentityID), zap.Error(err))
		return nil, err
	}

	return s.issueTokens(identity.IdentityID, profile)
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	profile, err := s.repo.Profile.GetByIdentityID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		s.logger.Error("查询档案失败", zap.String("identity_id", claims.IdentityID), zap.Error(err))
		return nil, err
	}

	return s.issueTokens(claims.IdentityID, profile)
}

// ────────────────────── GetCurrentIdentity ──────────────────────

func (s *authService) GetCurrentIdentity(ctx context.Context, identityID string) (*dto.IdentityResponse, error) {
	identity, err := s.repo.Identity.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		s.logger.Error("查询身份失败", zap.String("identity_id", identityID), zap.Error(err))
		return nil, err
	}

	resp := &dto.IdentityResponse{
		ID:        identity.IdentityID,
		Email:     identity.Email,
		CreatedAt: formatTime(identity.CreatedAt),
	}
	if identity.Profile != nil {
		resp.Profile = toProfileResponse(identity.Profile)
	}
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(identityID string, profile *model.Profile) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(identityID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(identityID)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Profile:      *toProfileResponse(profile),
	}, nil
}
