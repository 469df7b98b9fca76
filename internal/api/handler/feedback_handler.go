package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/service"
	"smart-class-flow/backend/pkg/response"
)

// FeedbackHandler 反馈模块 HTTP 处理器
type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

// NewFeedbackHandler 创建 FeedbackHandler
func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// CreateFeedback 提交反馈（归属身份为调用者）
// POST /api/v1/feedback
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackSvc.Create(c.Request.Context(), identityID, &req)
	if err != nil {
		h.handleFeedbackError(c, err)
		return
	}

	response.Created(c, feedback)
}

// ListFeedback 反馈列表（本人；管理员可见全量）
// GET /api/v1/feedback
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	var req dto.FeedbackListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	items, total, err := h.feedbackSvc.List(c.Request.Context(), identityID, &req)
	if err != nil {
		h.handleFeedbackError(c, err)
		return
	}

	response.OKPage(c, items, total, req.Page, req.PageSize)
}

// GetFeedback 反馈详情
// GET /api/v1/feedback/:id
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "反馈ID不能为空")
		return
	}

	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackSvc.GetByID(c.Request.Context(), identityID, id)
	if err != nil {
		h.handleFeedbackError(c, err)
		return
	}

	response.OK(c, feedback)
}

// UpdateFeedback 更新反馈
// PUT /api/v1/feedback/:id
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "反馈ID不能为空")
		return
	}

	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackSvc.Update(c.Request.Context(), identityID, id, &req)
	if err != nil {
		h.handleFeedbackError(c, err)
		return
	}

	response.OK(c, feedback)
}

// handleFeedbackError 统一处理反馈模块业务错误
func (h *FeedbackHandler) handleFeedbackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFeedbackNotFound):
		response.NotFound(c, 16001, "反馈不存在")
	case errors.Is(err, authz.ErrDenied):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}
