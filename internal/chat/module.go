package chat

import (
	"ruffo_chat_backend/internal/branches"
	catalogservice "ruffo_chat_backend/internal/catalog/service"
	"ruffo_chat_backend/internal/chat/agent"
	"ruffo_chat_backend/internal/chat/handler"
	"ruffo_chat_backend/internal/chat/intent"
	"ruffo_chat_backend/internal/chat/service"
	"ruffo_chat_backend/internal/conversation"
	"ruffo_chat_backend/internal/events"
	apphttp "ruffo_chat_backend/internal/http"
	orderservice "ruffo_chat_backend/internal/order/service"
	"ruffo_chat_backend/internal/upsell"
	"ruffo_chat_backend/platform/config"
	"ruffo_chat_backend/platform/logger"
	"ruffo_chat_backend/platform/validator"
)

// Module is the chat bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the oracle, the order flow and the chat service.
func NewModule(
	cfg config.LLMConfig,
	store conversation.Store,
	catalog *catalogservice.Service,
	branchSvc *branches.Service,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	oracle := agent.NewOracle(agent.Config{
		APIKey:    cfg.GetLLMAPIKey(),
		BaseURL:   cfg.GetLLMBaseURL(),
		Model:     cfg.GetLLMModel(),
		MaxTokens: cfg.GetLLMMaxTokens(),
	}, catalog, branchSvc, store, log)

	upsellSvc := upsell.NewService(catalog, log)
	flow := orderservice.NewFlow(catalog, branchSvc, upsellSvc, oracle, bus, log)
	classifier := intent.NewClassifier(oracle, log)

	svc := service.New(store, classifier, oracle, flow, catalog, branchSvc, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts chat routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/v1/chat")
	group.POST("", m.handler.PostMessage)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
