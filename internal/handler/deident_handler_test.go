package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"privasee/internal/domain"
	"privasee/internal/handler"
	"privasee/internal/service"
	"privasee/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, url string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, err = http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestDeidentHandler_Upload_Success(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("Upload", mock.Anything, mock.AnythingOfType("*service.UploadDocumentInput")).
		Return(&domain.Session{
			ID:        sessionID,
			Filename:  "report.pdf",
			FileSize:  21,
			PageCount: 2,
		}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "report.pdf")
	_, _ = part.Write([]byte("%PDF-1.4 test content"))
	_ = writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/upload", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, sessionID.String(), data["session_id"])
	assert.Equal(t, float64(2), data["page_count"])
	assert.Contains(t, data["preview_image_url"], sessionID.String()+"_page1.png")
	mockSvc.AssertExpectations(t)
}

func TestDeidentHandler_Upload_MissingFile(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
}

func TestDeidentHandler_Upload_UnsupportedFile(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	mockSvc.On("Upload", mock.Anything, mock.Anything).Return(nil, domain.ErrUnsupportedFile)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "notes.txt")
	_, _ = part.Write([]byte("plain text"))
	_ = writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/upload", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp.Error.Code)
}

func TestDeidentHandler_Process(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("Process", mock.Anything, sessionID, mock.Anything).
		Return(&domain.Session{
			ID:        sessionID,
			PageCount: 1,
			Entities: []domain.Entity{
				{ID: "e1", Category: "patient name", OriginalText: "John Smith", ReplacementText: "[REDACTED]"},
			},
		}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/process", handler.ProcessRequest{
		SessionID: sessionID.String(),
		Fields: []domain.FieldDefinition{
			{Name: "patient name", Description: "full name", Strategy: domain.StrategyBlackOut},
		},
	})

	h.Process(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["entities"], 1)
}

func TestDeidentHandler_Process_InvalidSessionID(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	w, c := jsonRequest(t, http.MethodPost, "/api/process", handler.ProcessRequest{
		SessionID: "not-a-uuid",
		Fields: []domain.FieldDefinition{
			{Name: "ssn", Description: "x", Strategy: domain.StrategyBlackOut},
		},
	})

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_SESSION_ID", resp.Error.Code)
	mockSvc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeidentHandler_ApproveAndMask(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("ApproveAndMask", mock.Anything, mock.MatchedBy(func(in *service.ApproveMaskInput) bool {
		return in.SessionID == sessionID &&
			len(in.ApprovedIDs) == 1 &&
			in.Replacements["e1"] == "Patient A"
	})).Return(&service.MaskOutput{
		Session: &domain.Session{
			ID: sessionID,
			Entities: []domain.Entity{
				{ID: "e1", Approved: true},
				{ID: "e2", Approved: false},
			},
		},
		MaskedPDFPath: "/data/output/masked.pdf",
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/approve-and-mask", handler.ApprovalRequest{
		SessionID:         sessionID.String(),
		ApprovedEntityIDs: []string{"e1"},
		UpdatedEntities:   []handler.EntityUpdate{{ID: "e1", ReplacementText: "Patient A"}},
	})

	h.ApproveAndMask(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["entities_masked"])
	assert.Contains(t, data["masked_pdf_url"], sessionID.String()+"_masked.pdf")
	mockSvc.AssertExpectations(t)
}

func TestDeidentHandler_ApproveAndMask_NoEntities(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("ApproveAndMask", mock.Anything, mock.Anything).Return(nil, domain.ErrNoEntities)

	w, c := jsonRequest(t, http.MethodPost, "/api/approve-and-mask", handler.ApprovalRequest{
		SessionID:         sessionID.String(),
		ApprovedEntityIDs: []string{},
	})

	h.ApproveAndMask(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "NO_ENTITIES", resp.Error.Code)
}

func TestDeidentHandler_GetSession_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("GetSession", sessionID).Return(nil, domain.ErrSessionNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/sessions/"+sessionID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: sessionID.String()}}

	h.GetSession(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "SESSION_NOT_FOUND", resp.Error.Code)
}

func TestDeidentHandler_DeleteSession(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("DeleteSession", mock.Anything, sessionID).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/sessions/"+sessionID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: sessionID.String()}}

	h.DeleteSession(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDeidentHandler_DownloadArchive(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("DownloadArchive", mock.Anything, sessionID).
		Return([]byte("%PDF-1.4 archived"), "masked_report.pdf", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/sessions/"+sessionID.String()+"/archive", nil)
	c.Params = gin.Params{{Key: "id", Value: sessionID.String()}}

	h.DownloadArchive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "masked_report.pdf")
	assert.Equal(t, "%PDF-1.4 archived", w.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestDeidentHandler_DownloadArchive_NotArchived(t *testing.T) {
	mockSvc := new(mocks.MockDeidentService)
	h := handler.NewDeidentHandler(mockSvc)

	sessionID := uuid.New()
	mockSvc.On("DownloadArchive", mock.Anything, sessionID).
		Return(nil, "", domain.ErrArchiveNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/sessions/"+sessionID.String()+"/archive", nil)
	c.Params = gin.Params{{Key: "id", Value: sessionID.String()}}

	h.DownloadArchive(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "ARCHIVE_NOT_FOUND", resp.Error.Code)
}
