package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/Gitsandu/taskmanagementBackend/internal/interface/http"
)

type DashboardModule struct {
	Handler *handlers.DashboardHandler
	Guards  []gin.HandlerFunc
}

func NewDashboardModule(h *handlers.DashboardHandler, guards ...gin.HandlerFunc) *DashboardModule {
	return &DashboardModule{Handler: h, Guards: guards}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	d := rg.Group("/dashboard", m.Guards...)
	{
		d.GET("/priority-distribution", m.Handler.PriorityDistribution)
		d.GET("/completion-rate", m.Handler.CompletionRate)
		d.GET("/upcoming-deadlines", m.Handler.UpcomingDeadlines)
	}
}
