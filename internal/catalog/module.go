// Package catalog provides the product catalog bounded context module.
package catalog

import (
	"ruffo_chat_backend/internal/catalog/handler"
	"ruffo_chat_backend/internal/catalog/service"
	"ruffo_chat_backend/internal/catalog/sheets"
	apphttp "ruffo_chat_backend/internal/http"
	"ruffo_chat_backend/platform/config"
	"ruffo_chat_backend/platform/logger"
	"ruffo_chat_backend/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module.
func NewModule(cfg config.CatalogConfig, val *validator.Validator, log *logger.Logger) *Module {
	client := sheets.NewClient(sheets.Config{
		APIKey:        cfg.GetSheetsAPIKey(),
		SpreadsheetID: cfg.GetSheetsSpreadsheetID(),
		SheetName:     cfg.GetSheetsSheetName(),
	}, log)

	svc := service.New(client, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/v1/catalog")
	group.GET("/search", m.handler.SearchProducts)
	group.GET("/categories", m.handler.ListByCategory)
	group.GET("/products/:id", m.handler.GetProductByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
