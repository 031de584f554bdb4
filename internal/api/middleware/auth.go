package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/shopvine/shopvine/internal/logger"
	"github.com/shopvine/shopvine/internal/repository"
	"gorm.io/gorm"
)

const (
	ctxWorkspaceKey = "workspace"
	ctxRoleKey      = "role"
)

// APIKeyAuth returns a middleware that resolves the X-API-Key header to a
// workspace and role. Requests without a valid key are rejected with 401.
// Parameters:
//   - workspaces: workspace repository used for key lookup.
// Returns:
//   - gin.HandlerFunc: middleware handler.
func APIKeyAuth(workspaces *repository.WorkspaceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		ws, apiKey, err := workspaces.GetByAPIKey(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
			return
		}

		c.Set(ctxWorkspaceKey, ws)
		c.Set(ctxRoleKey, apiKey.Role)

		ctx := logger.SetWorkspaceID(c.Request.Context(), ws.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireWriter returns a middleware that rejects callers whose role cannot
// create or modify content.
// Parameters: none.
// Returns:
//   - gin.HandlerFunc: middleware handler.
func RequireWriter() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ctxRoleKey)
		if !ok || !role.(domain.Role).CanWrite() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "write permission required"})
			return
		}
		c.Next()
	}
}

// Workspace extracts the authenticated workspace from the Gin context.
// Parameters:
//   - c: Gin request context.
// Returns:
//   - *domain.Workspace: authenticated workspace; nil if unauthenticated.
func Workspace(c *gin.Context) *domain.Workspace {
	if ws, ok := c.Get(ctxWorkspaceKey); ok {
		if workspace, ok := ws.(*domain.Workspace); ok {
			return workspace
		}
	}
	return nil
}
