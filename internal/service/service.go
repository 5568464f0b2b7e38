package service

import (
	"go.uber.org/zap"

	"fieldops/config"
	"fieldops/internal/repository"
	"fieldops/pkg/jwt"
	"fieldops/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Site       SiteService
	Assignment AssignmentService
	Catalog    CatalogService
	Export     ExportService
	Calendar   CalendarService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:       NewUserService(repo, logger),
		Site:       NewSiteService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Catalog:    NewCatalogService(repo, logger),
		Export:     NewExportService(repo, logger),
		Calendar:   NewCalendarService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
