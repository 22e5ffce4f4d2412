package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gitsandu/taskmanagementBackend/internal/domain/apperror"
	"github.com/Gitsandu/taskmanagementBackend/internal/domain/entity"
	"github.com/Gitsandu/taskmanagementBackend/pkg/response"
)

// TokenResolver turns a bearer token into the user it was issued for.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*entity.User, error)
}

// Auth requires a valid bearer token whose user still exists.
// It sets userID, userName, and userEmail in the Gin context on success.
func Auth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		u, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			var ae *apperror.Error
			if errors.As(err, &ae) && ae.Kind == apperror.KindUnauthenticated {
				response.Abort(c, http.StatusUnauthorized, ae.Message, nil)
				return
			}
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserNameKey, u.Username)
		c.Set(CtxUserEmailKey, u.Email)
		c.Next()
	}
}
