package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/Gitsandu/taskmanagementBackend/internal/interface/http"
)

// AuthModule serves the public signup and login endpoints.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limiter gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, limiter gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Limiter: limiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	if m.Limiter != nil {
		auth.Use(m.Limiter)
	}
	auth.POST("/signup", m.Handler.Signup)
	auth.POST("/login", m.Handler.Login)
}
