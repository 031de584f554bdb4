package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopvine/shopvine/internal/api/middleware"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/shopvine/shopvine/internal/repository"
	"gorm.io/gorm"
)

const (
	defaultPostListLimit = 20
	maxPostListLimit     = 100
)

// PostHandler serves the read side of imported UGC posts.
type PostHandler struct {
	posts *repository.PostRepository
}

// NewPostHandler creates a new post handler.
// Parameters:
//   - posts: post repository.
// Returns:
//   - *PostHandler: initialized handler.
func NewPostHandler(posts *repository.PostRepository) *PostHandler {
	return &PostHandler{posts: posts}
}

// List handles GET /api/v1/posts with optional platform filter and pagination.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PostHandler) List(c *gin.Context) {
	ws := middleware.Workspace(c)

	var platform domain.Platform
	if v := c.Query("platform"); v != "" {
		p, ok := domain.ParsePlatform(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform: " + v})
			return
		}
		platform = p
	}

	limit := defaultPostListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxPostListLimit {
		limit = maxPostListLimit
	}

	offset := 0
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
			return
		}
		offset = n
	}

	posts, err := h.posts.List(c.Request.Context(), ws.ID, platform, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	total, err := h.posts.Count(c.Request.Context(), ws.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":  posts,
		"count":  len(posts),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Get handles GET /api/v1/posts/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *PostHandler) Get(c *gin.Context) {
	ws := middleware.Workspace(c)

	post, err := h.posts.GetByID(c.Request.Context(), ws.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}
