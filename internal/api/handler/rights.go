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

// RightsHandler serves rights requests: listing, lookup, and status
// transitions as creators respond.
type RightsHandler struct {
	rights *repository.RightsRequestRepository
}

// NewRightsHandler creates a new rights request handler.
// Parameters:
//   - rights: rights request repository.
// Returns:
//   - *RightsHandler: initialized handler.
func NewRightsHandler(rights *repository.RightsRequestRepository) *RightsHandler {
	return &RightsHandler{rights: rights}
}

// UpdateStatusRequest is the PATCH body for a rights request status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List handles GET /api/v1/rights-requests with optional status filter.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RightsHandler) List(c *gin.Context) {
	ws := middleware.Workspace(c)

	var status domain.RightsStatus
	if v := c.Query("status"); v != "" {
		s, ok := domain.ParseRightsStatus(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + v})
			return
		}
		status = s
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

	reqs, err := h.rights.ListByWorkspace(c.Request.Context(), ws.ID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rights requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rights_requests": reqs,
		"count":           len(reqs),
	})
}

// Get handles GET /api/v1/rights-requests/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RightsHandler) Get(c *gin.Context) {
	ws := middleware.Workspace(c)

	req, err := h.rights.GetByID(c.Request.Context(), ws.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rights request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rights request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rights_request": req})
}

// UpdateStatus handles PATCH /api/v1/rights-requests/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RightsHandler) UpdateStatus(c *gin.Context) {
	ws := middleware.Workspace(c)

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	status, ok := domain.ParseRightsStatus(body.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + body.Status})
		return
	}

	req, err := h.rights.UpdateStatus(c.Request.Context(), ws.ID, c.Param("id"), status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rights request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rights request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rights_request": req})
}
