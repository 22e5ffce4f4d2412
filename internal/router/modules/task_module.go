package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/Gitsandu/taskmanagementBackend/internal/interface/http"
)

// TaskModule wires task CRUD under /tasks.
// Guards run in order before every route; the first one must be the bearer Auth.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Guards  []gin.HandlerFunc
}

func NewTaskModule(h *handlers.TaskHandler, guards ...gin.HandlerFunc) *TaskModule {
	return &TaskModule{Handler: h, Guards: guards}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks", m.Guards...)
	{
		tasks.POST("", m.Handler.Create)
		tasks.GET("", m.Handler.List)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
