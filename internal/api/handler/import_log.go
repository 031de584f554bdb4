package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopvine/shopvine/internal/api/middleware"
	"github.com/shopvine/shopvine/internal/repository"
	"gorm.io/gorm"
)

const (
	defaultRunListLimit = 20
	maxRunListLimit     = 100
)

// ImportLogHandler serves the read side of import runs and their log entries.
type ImportLogHandler struct {
	logs *repository.ImportLogRepository
}

// NewImportLogHandler creates a new import log handler.
// Parameters:
//   - logs: import run/log store.
// Returns:
//   - *ImportLogHandler: initialized handler.
func NewImportLogHandler(logs *repository.ImportLogRepository) *ImportLogHandler {
	return &ImportLogHandler{logs: logs}
}

// ListRuns handles GET /api/v1/imports. It returns recent runs for the
// workspace, newest first.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ImportLogHandler) ListRuns(c *gin.Context) {
	ws := middleware.Workspace(c)

	limit := defaultRunListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxRunListLimit {
		limit = maxRunListLimit
	}

	runs, err := h.logs.ListRuns(c.Request.Context(), ws.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list import runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun handles GET /api/v1/imports/:id. It returns one run with its full
// ordered log trail. Runs owned by another workspace come back 404, never 403.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ImportLogHandler) GetRun(c *gin.Context) {
	ws := middleware.Workspace(c)
	runID := c.Param("id")

	run, err := h.logs.GetRun(c.Request.Context(), ws.ID, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "import run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get import run"})
		return
	}

	entries, err := h.logs.ListEntries(c.Request.Context(), run.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list log entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":     run,
		"entries": entries,
	})
}
