package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"privasee/internal/domain"
	"privasee/internal/service"
)

// TemplateHandler handles the strategy template and user config endpoints.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// ListTemplates handles GET /api/strategies/system
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates()
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"templates": templates, "count": len(templates)})
}

// GetTemplate handles GET /api/strategies/system/:name
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tmpl, err := h.templateService.GetTemplate(c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, tmpl)
}

// SaveConfigRequest is the request body for POST /api/configs.
type SaveConfigRequest struct {
	ConfigName string                   `json:"config_name" binding:"required"`
	Fields     []domain.FieldDefinition `json:"fields" binding:"required"`
}

// SaveConfig handles POST /api/configs
func (h *TemplateHandler) SaveConfig(c *gin.Context) {
	var req SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	cfg := &domain.RedactionConfig{Name: req.ConfigName, Fields: req.Fields}
	if err := h.templateService.SaveConfig(cfg); err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, cfg)
}

// ListConfigs handles GET /api/configs
func (h *TemplateHandler) ListConfigs(c *gin.Context) {
	configs, err := h.templateService.ListConfigs()
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"configs": configs, "count": len(configs)})
}

// GetConfig handles GET /api/configs/:name
func (h *TemplateHandler) GetConfig(c *gin.Context) {
	cfg, err := h.templateService.GetConfig(c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cfg)
}

// DeleteConfig handles DELETE /api/configs/:name
func (h *TemplateHandler) DeleteConfig(c *gin.Context) {
	if err := h.templateService.DeleteConfig(c.Param("name")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"config_name": c.Param("name"), "deleted": true})
}
