package dto

// ── 站点模块 DTO ──

// CreateSiteRequest 创建站点请求
type CreateSiteRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Location    string `json:"location"    binding:"required,max=200"`
	Country     string `json:"country"     binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty"`
	Image       string `json:"image"       binding:"omitempty,max=500"`
}

// UpdateSiteRequest 更新站点请求
type UpdateSiteRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Country     *string `json:"country"     binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image"       binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// SiteBrief 站点简要信息（嵌入用户等响应）
type SiteBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Country  string `json:"country"`
}

// SiteResponse 站点信息响应
type SiteResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Location    string         `json:"location"`
	Country     string         `json:"country"`
	Description string         `json:"description,omitempty"`
	Image       string         `json:"image,omitempty"`
	IsActive    bool           `json:"is_active"`
	Employees   []UserResponse `json:"employees,omitempty"`
}

// [自证通过] internal/dto/site.go
