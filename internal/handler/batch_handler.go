package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"privasee/internal/domain"
	"privasee/internal/export"
	"privasee/internal/service"
)

// BatchHandler handles the folder batch processing endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// ScanRequest is the request body for POST /api/batch/scan.
type ScanRequest struct {
	FolderPath string `json:"folder_path" binding:"required"`
}

// Scan handles POST /api/batch/scan
func (h *BatchHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	files, err := h.batchService.ScanFolder(req.FolderPath)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"folder_path": req.FolderPath,
		"files":       files,
		"count":       len(files),
	})
}

// BatchRequest is the request body for POST /api/batch.
type BatchRequest struct {
	FolderPath string                   `json:"folder_path" binding:"required"`
	Fields     []domain.FieldDefinition `json:"fields" binding:"required"`
}

// Run handles POST /api/batch
func (h *BatchHandler) Run(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	run, err := h.batchService.ProcessBatch(c.Request.Context(), &service.BatchInput{
		FolderPath: req.FolderPath,
		Fields:     req.Fields,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}

// GetRun handles GET /api/batch/runs/:id
func (h *BatchHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_RUN_ID", "run id must be a valid UUID")
		return
	}

	run, err := h.batchService.GetRun(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}

// ListRuns handles GET /api/batch/runs
func (h *BatchHandler) ListRuns(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	runs, total, err := h.batchService.ListRuns(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ExportRun handles GET /api/batch/runs/:id/export, streaming the run as
// an xlsx workbook.
func (h *BatchHandler) ExportRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_RUN_ID", "run id must be a valid UUID")
		return
	}

	run, err := h.batchService.GetRun(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	f, err := export.BatchRunXLSX(run)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	filename := fmt.Sprintf("batch_run_%s.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		HandleError(c, err)
	}
}
