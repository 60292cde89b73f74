package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"privasee/internal/domain"
	"privasee/internal/service"
)

// DeidentHandler handles the interactive upload/process/mask endpoints.
type DeidentHandler struct {
	deidentService service.DeidentService
}

// NewDeidentHandler creates a new DeidentHandler.
func NewDeidentHandler(deidentService service.DeidentService) *DeidentHandler {
	return &DeidentHandler{deidentService: deidentService}
}

// Upload handles POST /api/upload
func (h *DeidentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	sess, err := h.deidentService.Upload(c.Request.Context(), &service.UploadDocumentInput{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, gin.H{
		"session_id":        sess.ID,
		"filename":          sess.Filename,
		"page_count":        sess.PageCount,
		"file_size":         sess.FileSize,
		"preview_image_url": fmt.Sprintf("/api/files/temp_images/%s_page1.png", sess.ID),
	})
}

// ProcessRequest is the request body for POST /api/process.
type ProcessRequest struct {
	SessionID string                   `json:"session_id" binding:"required"`
	Fields    []domain.FieldDefinition `json:"fields" binding:"required"`
}

// Process handles POST /api/process
func (h *DeidentHandler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session_id must be a valid UUID")
		return
	}

	sess, err := h.deidentService.Process(c.Request.Context(), sessionID, req.Fields)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"session_id": sess.ID,
		"page_count": sess.PageCount,
		"entities":   sess.Entities,
	})
}

// EntityUpdate carries a replacement override for one detected entity.
type EntityUpdate struct {
	ID              string `json:"id" binding:"required"`
	ReplacementText string `json:"replacement_text"`
}

// ApprovalRequest is the request body for POST /api/approve-and-mask.
type ApprovalRequest struct {
	SessionID         string         `json:"session_id" binding:"required"`
	ApprovedEntityIDs []string       `json:"approved_entity_ids" binding:"required"`
	UpdatedEntities   []EntityUpdate `json:"updated_entities"`
}

// ApproveAndMask handles POST /api/approve-and-mask
func (h *DeidentHandler) ApproveAndMask(c *gin.Context) {
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session_id must be a valid UUID")
		return
	}

	replacements := make(map[string]string, len(req.UpdatedEntities))
	for _, u := range req.UpdatedEntities {
		replacements[u.ID] = u.ReplacementText
	}

	out, err := h.deidentService.ApproveAndMask(c.Request.Context(), &service.ApproveMaskInput{
		SessionID:    sessionID,
		ApprovedIDs:  req.ApprovedEntityIDs,
		Replacements: replacements,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	masked := 0
	for i := range out.Session.Entities {
		if out.Session.Entities[i].Approved {
			masked++
		}
	}

	RespondOK(c, gin.H{
		"session_id":       out.Session.ID,
		"original_pdf_url": fmt.Sprintf("/api/files/uploads/%s.pdf", out.Session.ID),
		"masked_pdf_url":   fmt.Sprintf("/api/files/output/%s_masked.pdf", out.Session.ID),
		"masked_image_url": fmt.Sprintf("/api/files/temp_images/%s_masked_page1.png", out.Session.ID),
		"entities_masked":  masked,
		"archive_url":      out.ArchiveURL,
	})
}

// Verify handles POST /api/sessions/:id/verify
func (h *DeidentHandler) Verify(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a valid UUID")
		return
	}

	result, err := h.deidentService.Verify(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// GetSession handles GET /api/sessions/:id
func (h *DeidentHandler) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a valid UUID")
		return
	}

	sess, err := h.deidentService.GetSession(sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// DownloadArchive handles GET /api/sessions/:id/archive
func (h *DeidentHandler) DownloadArchive(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a valid UUID")
		return
	}

	data, filename, err := h.deidentService.DownloadArchive(c.Request.Context(), sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// DeleteSession handles DELETE /api/sessions/:id
func (h *DeidentHandler) DeleteSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "session id must be a valid UUID")
		return
	}

	if err := h.deidentService.DeleteSession(c.Request.Context(), sessionID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"session_id": sessionID, "deleted": true})
}
