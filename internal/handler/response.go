package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"privasee/internal/domain"
	"privasee/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "session not found"
	case errors.Is(err, domain.ErrNoEntities):
		return http.StatusBadRequest, "NO_ENTITIES", "no entities found in session; process the document first"
	case errors.Is(err, domain.ErrNoApprovedEntities):
		return http.StatusBadRequest, "NO_APPROVED_ENTITIES", "no approved entities to mask"
	case errors.Is(err, domain.ErrUnsupportedFile):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "only PDF files are accepted"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyFieldName):
		return http.StatusBadRequest, "EMPTY_FIELD_NAME", "field name cannot be empty"
	case errors.Is(err, domain.ErrDuplicateField):
		return http.StatusBadRequest, "DUPLICATE_FIELD", "field names must be unique"
	case errors.Is(err, domain.ErrNoFields):
		return http.StatusBadRequest, "NO_FIELDS", "at least one field definition is required"
	case errors.Is(err, domain.ErrArchiveNotFound):
		return http.StatusNotFound, "ARCHIVE_NOT_FOUND", "no archived document for session"
	case errors.Is(err, domain.ErrFolderNotFound):
		return http.StatusNotFound, "FOLDER_NOT_FOUND", "folder not found"
	case errors.Is(err, domain.ErrNoBatchInput):
		return http.StatusBadRequest, "NO_BATCH_INPUT", "no PDF files found in the folder"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("handler: [%v] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
