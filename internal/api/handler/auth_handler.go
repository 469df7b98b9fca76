package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/service"
	"smart-class-flow/backend/pkg/jwt"
	"smart-class-flow/backend/pkg/redis"
	"smart-class-flow/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// Login 登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出：将当前 Access Token 的 JTI 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			response.Unauthorized(c, 10002, "缺少认证头")
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			return
		}

		// Redis 不可用时降级为无状态登出
		if rdb != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := rdb.BlacklistToken(c.Request.Context(), claims.ID, ttl); err != nil {
				response.InternalError(c)
				return
			}
		}

		response.OK(c, nil)
	}
}

// GetCurrentIdentity 当前登录身份
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentIdentity(c *gin.Context) {
	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.GetCurrentIdentity(c.Request.Context(), identityID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "邮箱或密码错误")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 11002, "邮箱已被注册")
	case errors.Is(err, service.ErrInvalidRefresh):
		response.Unauthorized(c, 11003, "refresh token 无效")
	case errors.Is(err, service.ErrIdentityNotFound):
		response.NotFound(c, 11004, "身份不存在")
	default:
		response.InternalError(c)
	}
}
