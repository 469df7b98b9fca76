package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/service"
	"smart-class-flow/backend/pkg/response"
)

// ProfileHandler 档案模块 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// ListProfiles 档案目录（公开可读）
// GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var req dto.ProfileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	profiles, total, err := h.profileSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, profiles, total, req.Page, req.PageSize)
}

// GetProfile 档案详情
// GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "档案ID不能为空")
		return
	}

	profile, err := h.profileSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// GetMyProfile 当前身份的档案
// GET /api/v1/profiles/me
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.GetByIdentity(c.Request.Context(), identityID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateMyProfile 更新本人档案
// PUT /api/v1/profiles/me
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	profile, err := h.profileSvc.UpdateOwn(c.Request.Context(), identityID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// handleProfileError 统一处理档案模块业务错误
func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 12001, "档案不存在")
	case errors.Is(err, authz.ErrDenied):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}
