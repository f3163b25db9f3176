package branches

import (
	"net/http"

	apphttp "ruffo_chat_backend/internal/http"
	"ruffo_chat_backend/platform/httpkit"
	"ruffo_chat_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is the branches bounded context module implementing http.Module.
type Module struct {
	service *Service
}

// NewModule creates the branches module.
func NewModule(log *logger.Logger) *Module {
	return &Module{service: NewService(log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "branches"
}

// Service returns the service layer for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts branch routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/v1/branches")
	group.GET("", m.listBranches)
	group.GET("/:id", m.getBranchByID)
}

func (m *Module) listBranches(c *gin.Context) {
	httpkit.OK(c, gin.H{"items": m.service.All()})
}

func (m *Module) getBranchByID(c *gin.Context) {
	branch := m.service.ByID(c.Param("id"))
	if branch == nil {
		httpkit.Error(c, http.StatusNotFound, "branch not found", nil)
		return
	}
	httpkit.OK(c, branch)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
