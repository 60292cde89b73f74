package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"privasee/internal/domain"
	"privasee/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{domain.ErrNoEntities, http.StatusBadRequest, "NO_ENTITIES"},
		{domain.ErrNoApprovedEntities, http.StatusBadRequest, "NO_APPROVED_ENTITIES"},
		{domain.ErrUnsupportedFile, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrEmptyFieldName, http.StatusBadRequest, "EMPTY_FIELD_NAME"},
		{domain.ErrDuplicateField, http.StatusBadRequest, "DUPLICATE_FIELD"},
		{domain.ErrNoFields, http.StatusBadRequest, "NO_FIELDS"},
		{domain.ErrFolderNotFound, http.StatusNotFound, "FOLDER_NOT_FOUND"},
		{domain.ErrNoBatchInput, http.StatusBadRequest, "NO_BATCH_INPUT"},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading session: %w", domain.ErrSessionNotFound)

	status, code, _ := handler.MapDomainError(wrapped)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "SESSION_NOT_FOUND", code)
}
