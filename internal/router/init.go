package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gitsandu/taskmanagementBackend/internal/container"
	handlers "github.com/Gitsandu/taskmanagementBackend/internal/interface/http"
	"github.com/Gitsandu/taskmanagementBackend/internal/interface/middleware"
	"github.com/Gitsandu/taskmanagementBackend/internal/router/modules"
)

// InitModules builds services and handlers from c and registers every feature module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	users := c.UserService()

	var allow middleware.AllowFunc
	if c.Config != nil {
		allow = middleware.AllowPrivateIP(c.Config.RateLimitBypassPrivate)
	}
	protected := []gin.HandlerFunc{
		middleware.Auth(users),
		middleware.RateLimit(c.Redis, 300, time.Minute, middleware.KeyByIP(), allow),
		middleware.RateLimit(c.Redis, 120, time.Minute, middleware.KeyByUserID(), allow),
	}

	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(users, c.Logger),
		middleware.RateLimit(c.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), allow),
	))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(c.TaskService(), c.Logger), protected...))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(c.AnalyticsService(), c.Logger), protected...))
	if c.Config == nil || c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(middleware.RateLimit(c.Redis, 120, time.Minute, middleware.KeyByIP(), allow)))
	}
}
