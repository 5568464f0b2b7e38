package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"fieldops/internal/model"
	"fieldops/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIdentityNo(_ context.Context, identityNo string) (*model.User, error) {
	for _, u := range m.users {
		if u.IdentityNo == identityNo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserListFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.SiteID != "" && (u.CurrentSiteID == nil || *u.CurrentSiteID != filter.SiteID) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	total := int64(len(result))
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit >= 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

// ── Mock SiteRepository ──

type mockSiteRepo struct {
	sites map[string]*model.Site
	seq   int
}

func newMockSiteRepo() *mockSiteRepo {
	return &mockSiteRepo{sites: make(map[string]*model.Site)}
}

func (m *mockSiteRepo) Create(_ context.Context, site *model.Site) error {
	if site.SiteID == "" {
		m.seq++
		site.SiteID = fmt.Sprintf("site-%03d", m.seq)
	}
	m.sites[site.SiteID] = site
	return nil
}

func (m *mockSiteRepo) GetByID(_ context.Context, id string) (*model.Site, error) {
	if s, ok := m.sites[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) List(_ context.Context) ([]model.Site, error) {
	var result []model.Site
	for _, s := range m.sites {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSiteRepo) Update(_ context.Context, site *model.Site) error {
	m.sites[site.SiteID] = site
	return nil
}

func (m *mockSiteRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.sites, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	tasks       map[string][]model.AssignmentTask // assignmentID → 任务记录
	seq         int
	taskSeq     int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.Assignment),
		tasks:       make(map[string][]model.AssignmentTask),
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.AssignmentID == "" {
		m.seq++
		assignment.AssignmentID = fmt.Sprintf("asg-%03d", m.seq)
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 模拟 Preload：拷贝一份并挂上任务记录
	out := *a
	out.Tasks = append([]model.AssignmentTask(nil), m.tasks[id]...)
	return &out, nil
}

func (m *mockAssignmentRepo) List(_ context.Context, offset, limit int) ([]model.Assignment, int64, error) {
	var result []model.Assignment
	for id, a := range m.assignments {
		out := *a
		out.Tasks = append([]model.AssignmentTask(nil), m.tasks[id]...)
		result = append(result, out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssignmentID < result[j].AssignmentID })
	total := int64(len(result))
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit >= 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

func (m *mockAssignmentRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for id, a := range m.assignments {
		if a.EmployeeID != employeeID {
			continue
		}
		out := *a
		out.Tasks = append([]model.AssignmentTask(nil), m.tasks[id]...)
		result = append(result, out)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssignmentID < result[j].AssignmentID })
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	if _, ok := m.assignments[assignment.AssignmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *assignment
	stored.Tasks = nil
	m.assignments[assignment.AssignmentID] = &stored
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.assignments, id)
	delete(m.tasks, id)
	return nil
}

func (m *mockAssignmentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.assignments)), nil
}

func (m *mockAssignmentRepo) CountByEmployee(_ context.Context, employeeID string) (int64, error) {
	var n int64
	for _, a := range m.assignments {
		if a.EmployeeID == employeeID {
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) AttachTask(_ context.Context, task *model.AssignmentTask) error {
	if task.AssignmentTaskID == "" {
		m.taskSeq++
		task.AssignmentTaskID = fmt.Sprintf("at-%03d", m.taskSeq)
	}
	m.tasks[task.AssignmentID] = append(m.tasks[task.AssignmentID], *task)
	return nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks map[string]*model.Task
	seq   int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	if task.TaskID == "" {
		m.seq++
		task.TaskID = fmt.Sprintf("task-%03d", m.seq)
	}
	m.tasks[task.TaskID] = task
	return nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaskRepo) List(_ context.Context) ([]model.Task, error) {
	var result []model.Task
	for _, t := range m.tasks {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TaskID < result[j].TaskID })
	return result, nil
}

// ── Mock KPIRepository ──

type mockKPIRepo struct {
	kpis map[string]*model.KPI
	seq  int
}

func newMockKPIRepo() *mockKPIRepo {
	return &mockKPIRepo{kpis: make(map[string]*model.KPI)}
}

func (m *mockKPIRepo) Create(_ context.Context, kpi *model.KPI) error {
	if kpi.KPIID == "" {
		m.seq++
		kpi.KPIID = fmt.Sprintf("kpi-%03d", m.seq)
	}
	m.kpis[kpi.KPIID] = kpi
	return nil
}

func (m *mockKPIRepo) GetByID(_ context.Context, id string) (*model.KPI, error) {
	if k, ok := m.kpis[id]; ok {
		return k, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockKPIRepo) List(_ context.Context) ([]model.KPI, error) {
	var result []model.KPI
	for _, k := range m.kpis {
		result = append(result, *k)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].KPIID < result[j].KPIID })
	return result, nil
}

// newMockRepository 组装全量 mock 仓储
func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:       newMockUserRepo(),
		Site:       newMockSiteRepo(),
		Assignment: newMockAssignmentRepo(),
		Task:       newMockTaskRepo(),
		KPI:        newMockKPIRepo(),
	}
}

// [自证通过] internal/service/mock_repos_test.go
