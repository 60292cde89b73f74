package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"privasee/internal/config"
)

// FileHandler serves the working-directory artifacts (uploaded PDFs, page
// previews, masked output) for download and preview.
type FileHandler struct {
	dataDir string
}

// NewFileHandler creates a new FileHandler rooted at the data directory.
func NewFileHandler(cfg *config.DirsConfig) *FileHandler {
	return &FileHandler{dataDir: cfg.DataDir}
}

var allowedFolders = map[string]bool{
	"uploads":     true,
	"temp_images": true,
	"output":      true,
}

var mediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Serve handles GET /api/files/:folder/:name
func (h *FileHandler) Serve(c *gin.Context) {
	folder := c.Param("folder")
	if !allowedFolders[folder] {
		RespondError(c, http.StatusBadRequest, "INVALID_FOLDER", "allowed folders: uploads, temp_images, output")
		return
	}

	// filepath.Base strips any traversal components from the name.
	name := filepath.Base(c.Param("name"))
	if name == "." || name == string(filepath.Separator) {
		RespondError(c, http.StatusBadRequest, "INVALID_FILENAME", "invalid file name")
		return
	}

	path := filepath.Join(h.dataDir, folder, name)
	if _, err := os.Stat(path); err != nil {
		RespondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "file not found: "+name)
		return
	}

	mediaType := mediaTypes[strings.ToLower(filepath.Ext(name))]
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	c.Header("Content-Type", mediaType)
	c.Header("Content-Disposition", "inline; filename="+name)
	c.File(path)
}
