package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopvine/shopvine/internal/api/middleware"
	"github.com/shopvine/shopvine/internal/domain"
	"github.com/shopvine/shopvine/internal/service"
)

// ImportHandler handles the import endpoints: single post, JSON batch, and
// CSV file upload.
type ImportHandler struct {
	imports      *service.ImportService
	maxBatchRows int
}

// NewImportHandler creates a new import handler.
// Parameters:
//   - imports: import service instance.
//   - maxBatchRows: upper bound on rows accepted per batch request.
// Returns:
//   - *ImportHandler: initialized handler.
func NewImportHandler(imports *service.ImportService, maxBatchRows int) *ImportHandler {
	if maxBatchRows <= 0 {
		maxBatchRows = 1000
	}
	return &ImportHandler{
		imports:      imports,
		maxBatchRows: maxBatchRows,
	}
}

// BatchImportRequest represents the JSON batch import request.
type BatchImportRequest struct {
	Rows []service.RawRow `json:"rows" binding:"required"`
}

// BatchImportResponse represents the batch import response.
type BatchImportResponse struct {
	RunID    string             `json:"run_id"`
	Status   domain.RunStatus   `json:"status"`
	Total    int                `json:"total"`
	Imported int                `json:"imported"`
	Failed   int                `json:"failed"`
	Skipped  int                `json:"skipped"`
	Errors   []service.RowError `json:"errors,omitempty"`
}

// CreateImport handles POST /api/v1/imports, the single-post manual path.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ImportHandler) CreateImport(c *gin.Context) {
	ws := middleware.Workspace(c)

	var row service.RawRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.imports.Run(c.Request.Context(), ws.ID, domain.ImportSourceManual, []service.RawRow{row})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed: " + err.Error()})
		return
	}

	run := result.Run
	switch {
	case run.Succeeded == 1:
		c.JSON(http.StatusCreated, gin.H{
			"run_id": run.ID,
			"post":   result.Posts[0],
		})
	case run.Skipped == 1:
		// resubmitting an already imported post is a no-op, not an error
		entries, _ := h.imports.RunEntries(c.Request.Context(), run.ID)
		c.JSON(http.StatusOK, gin.H{
			"run_id":           run.ID,
			"duplicate":        true,
			"existing_post_id": duplicatePostID(entries),
		})
	default:
		resp := gin.H{"run_id": run.ID, "error": "import failed"}
		if len(result.RowErrors) > 0 {
			resp["fields"] = result.RowErrors[0].Fields
			resp["error"] = result.RowErrors[0].Message
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
	}
}

// duplicatePostID digs the matched post ID out of the duplicate-check entry.
func duplicatePostID(entries []domain.ImportLogEntry) string {
	for _, e := range entries {
		if e.Step == domain.StepCheckingDuplicate && e.Status == domain.LogStatusWarning {
			if id, ok := e.Details["existing_post_id"].(string); ok {
				return id
			}
		}
	}
	return ""
}

// CreateBatch handles POST /api/v1/imports/batch.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ImportHandler) CreateBatch(c *gin.Context) {
	ws := middleware.Workspace(c)

	var req BatchImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	h.runBatch(c, ws.ID, domain.ImportSourceAPI, req.Rows)
}

// CreateCSV handles POST /api/v1/imports/csv, a multipart upload of a CSV file.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ImportHandler) CreateCSV(c *gin.Context) {
	ws := middleware.Workspace(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	rows, err := service.ParseCSVRows(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.runBatch(c, ws.ID, domain.ImportSourceCSV, rows)
}

func (h *ImportHandler) runBatch(c *gin.Context, workspaceID string, source domain.ImportSource, rows []service.RawRow) {
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one row is required"})
		return
	}
	if len(rows) > h.maxBatchRows {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch exceeds maximum row count"})
		return
	}

	result, err := h.imports.Run(c.Request.Context(), workspaceID, source, rows)
	if err != nil {
		if errors.Is(err, service.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one row is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed: " + err.Error()})
		return
	}

	run := result.Run
	c.JSON(http.StatusOK, BatchImportResponse{
		RunID:    run.ID,
		Status:   run.Status,
		Total:    run.TotalItems,
		Imported: run.Succeeded,
		Failed:   run.Failed,
		Skipped:  run.Skipped,
		Errors:   result.RowErrors,
	})
}
