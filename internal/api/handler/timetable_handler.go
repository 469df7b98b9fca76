package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/service"
	"smart-class-flow/backend/pkg/response"
)

// TimetableHandler 课程安排模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// ListEntries 课程安排列表（仪表盘联表查询）
// GET /api/v1/timetable
func (h *TimetableHandler) ListEntries(c *gin.Context) {
	var req dto.TimetableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.timetableSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// GetEntry 课程安排详情
// GET /api/v1/timetable/:id
func (h *TimetableHandler) GetEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "安排ID不能为空")
		return
	}

	entry, err := h.timetableSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, entry)
}

// CreateEntry 创建课程安排（策略层校验管理员或教师）
// POST /api/v1/timetable
func (h *TimetableHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	entry, err := h.timetableSvc.Create(c.Request.Context(), identityID, &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.Created(c, entry)
}

// UpdateEntry 更新课程安排
// PUT /api/v1/timetable/:id
func (h *TimetableHandler) UpdateEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "安排ID不能为空")
		return
	}

	var req dto.UpdateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	entry, err := h.timetableSvc.Update(c.Request.Context(), identityID, id, &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, entry)
}

// DeleteEntry 删除课程安排
// DELETE /api/v1/timetable/:id
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "安排ID不能为空")
		return
	}

	identityID, ok := MustGetIdentityID(c)
	if !ok {
		return
	}

	if err := h.timetableSvc.Delete(c.Request.Context(), identityID, id); err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimetableError 统一处理课程安排模块业务错误
func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 15001, "课程安排不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 15002, "结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrInvalidDayOfWeek):
		response.BadRequest(c, 15003, "无效的星期")
	case errors.Is(err, service.ErrInvalidClock):
		response.BadRequest(c, 15004, "时间格式无效，应为 HH:MM")
	case errors.Is(err, service.ErrEntryRefMissing):
		response.BadRequest(c, 15005, "引用的课程/教师/教室不存在")
	case errors.Is(err, authz.ErrDenied):
		response.Forbidden(c, 10003, "无权限访问")
	default:
		response.InternalError(c)
	}
}
