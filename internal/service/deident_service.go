package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"privasee/internal/config"
	"privasee/internal/domain"
	"privasee/internal/mapping"
	"privasee/internal/masking"
	"privasee/internal/port"
	"privasee/internal/verify"
)

// UploadDocumentInput is the DTO for uploading a document and opening a session.
type UploadDocumentInput struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// ApproveMaskInput is the DTO for masking a session's approved entities.
type ApproveMaskInput struct {
	SessionID    uuid.UUID
	ApprovedIDs  []string
	Replacements map[string]string // entity id -> replacement override
}

// MaskOutput reports the artifacts produced by masking a session.
type MaskOutput struct {
	Session       *domain.Session `json:"session"`
	MaskedPDFPath string          `json:"masked_pdf_path"`
	ArchiveURL    string          `json:"archive_url,omitempty"`
}

// DeidentService defines the interactive de-identification contract:
// upload, detect, review, mask, verify.
type DeidentService interface {
	Upload(ctx context.Context, input *UploadDocumentInput) (*domain.Session, error)
	Process(ctx context.Context, sessionID uuid.UUID, fields []domain.FieldDefinition) (*domain.Session, error)
	ApproveAndMask(ctx context.Context, input *ApproveMaskInput) (*MaskOutput, error)
	Verify(ctx context.Context, sessionID uuid.UUID) (*verify.Result, error)
	GetSession(sessionID uuid.UUID) (*domain.Session, error)
	DownloadArchive(ctx context.Context, sessionID uuid.UUID) ([]byte, string, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

type deidentService struct {
	cfg       *config.Config
	sessions  port.SessionStore
	converter port.PageConverter
	extractor port.TextExtractor
	detector  port.EntityDetector
	masker    *masking.Masker
	verifier  *verify.Verifier
	gender    port.GenderDetector
	storage   port.ObjectStorage // optional archive target
}

// NewDeidentService creates a new DeidentService implementation. storage
// may be nil; masked documents are then kept on local disk only.
func NewDeidentService(
	cfg *config.Config,
	sessions port.SessionStore,
	converter port.PageConverter,
	extractor port.TextExtractor,
	detector port.EntityDetector,
	masker *masking.Masker,
	verifier *verify.Verifier,
	gender port.GenderDetector,
	storage port.ObjectStorage,
) DeidentService {
	return &deidentService{
		cfg:       cfg,
		sessions:  sessions,
		converter: converter,
		extractor: extractor,
		detector:  detector,
		masker:    masker,
		verifier:  verifier,
		gender:    gender,
		storage:   storage,
	}
}

// Upload validates and stores a PDF, renders its pages to images and opens
// a session for it.
func (s *deidentService) Upload(ctx context.Context, input *UploadDocumentInput) (*domain.Session, error) {
	if !strings.EqualFold(filepath.Ext(input.Filename), ".pdf") {
		return nil, domain.ErrUnsupportedFile
	}
	maxBytes := s.cfg.Server.MaxFileSizeMB * 1024 * 1024
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	sessionID := uuid.New()

	if err := os.MkdirAll(s.cfg.Dirs.UploadDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	pdfPath := filepath.Join(s.cfg.Dirs.UploadDir(), sessionID.String()+".pdf")
	written, err := saveUpload(input.Reader, pdfPath, maxBytes)
	if err != nil {
		return nil, err
	}

	pagePaths, err := s.converter.PDFToImages(ctx, pdfPath, s.cfg.Dirs.TempImageDir(), sessionID.String())
	if err != nil {
		removeQuietly(pdfPath)
		return nil, fmt.Errorf("rendering pages: %w", err)
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:              sessionID,
		Filename:        filepath.Base(input.Filename),
		FileSize:        written,
		PageCount:       len(pagePaths),
		OriginalPDFPath: pdfPath,
		PageImagePaths:  pagePaths,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sessions.Create(sess); err != nil {
		return nil, err
	}

	log.Printf("deidentService.Upload: session %s opened for %q (%d pages)", sessionID, sess.Filename, sess.PageCount)
	return sess, nil
}

// Process runs OCR and entity detection over every page of the session and
// assigns consistent replacements. One mapping scope spans all pages, so a
// value appearing on several pages maps to the same replacement.
func (s *deidentService) Process(ctx context.Context, sessionID uuid.UUID, fields []domain.FieldDefinition) (*domain.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateFieldDefinitions(fields); err != nil {
		return nil, err
	}

	mapper := mapping.NewMapper(mapping.NewGenerator(s.gender, 0))

	entities := make([]domain.Entity, 0)
	counter := 0
	for i, pagePath := range sess.PageImagePaths {
		pageNumber := i + 1

		imageBytes, err := os.ReadFile(pagePath)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", pageNumber, err)
		}

		// OCR context is best effort; detection still works from the
		// image alone.
		ocr, err := s.extractor.Analyze(ctx, imageBytes)
		if err != nil {
			log.Printf("deidentService.Process: OCR failed for session %s page %d: %v", sessionID, pageNumber, err)
			ocr = nil
		}

		candidates, err := s.detector.Detect(ctx, port.DetectInput{
			ImageBytes: imageBytes,
			MediaType:  "image/png",
			OCR:        ocr,
			Fields:     fields,
			PageNumber: pageNumber,
		})
		if err != nil {
			return nil, fmt.Errorf("detecting entities on page %d: %w", pageNumber, err)
		}

		for _, c := range candidates {
			counter++
			strategy := domain.StrategyFor(fields, c.Category)
			entities = append(entities, domain.Entity{
				ID:              fmt.Sprintf("%s_p%d_%d", sessionID, pageNumber, counter),
				Category:        c.Category,
				OriginalText:    c.OriginalText,
				ReplacementText: mapper.GetReplacement(c.Category, c.OriginalText, strategy),
				BoundingBox:     c.BoundingBox,
				Confidence:      c.Confidence,
				Approved:        true,
				PageNumber:      c.PageNumber,
			})
		}
	}

	sess.FieldDefinitions = fields
	sess.Entities = entities
	sess.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(sess); err != nil {
		return nil, err
	}

	log.Printf("deidentService.Process: session %s detected %d entities across %d pages", sessionID, len(entities), sess.PageCount)
	return sess, nil
}

// ApproveAndMask draws redaction boxes for the approved entities on every
// page and recomposes the masked PDF. Pages without entities pass through
// unmodified so the output keeps the full page count.
func (s *deidentService) ApproveAndMask(ctx context.Context, input *ApproveMaskInput) (*MaskOutput, error) {
	sess, err := s.sessions.Get(input.SessionID)
	if err != nil {
		return nil, err
	}
	if len(sess.Entities) == 0 {
		return nil, domain.ErrNoEntities
	}

	approved := applyReview(sess.Entities, input.ApprovedIDs, input.Replacements)
	selected := make([]domain.Entity, 0, len(approved))
	for i := range approved {
		if approved[i].Approved {
			selected = append(selected, approved[i])
		}
	}
	if len(selected) == 0 {
		return nil, domain.ErrNoApprovedEntities
	}

	byPage := make(map[int][]domain.Entity, len(selected))
	for i := range selected {
		byPage[selected[i].PageNumber] = append(byPage[selected[i].PageNumber], selected[i])
	}

	maskedPaths := make([]string, 0, len(sess.PageImagePaths))
	for i, pagePath := range sess.PageImagePaths {
		pageNumber := i + 1
		maskedPath := filepath.Join(s.cfg.Dirs.TempImageDir(), fmt.Sprintf("%s_masked_page%d.png", sess.ID, pageNumber))
		if err := s.masker.ApplyMasksFile(pagePath, byPage[pageNumber], maskedPath); err != nil {
			return nil, fmt.Errorf("masking page %d: %w", pageNumber, err)
		}
		maskedPaths = append(maskedPaths, maskedPath)
	}

	maskedPDFPath := filepath.Join(s.cfg.Dirs.OutputDir(), fmt.Sprintf("%s_masked.pdf", sess.ID))
	if err := s.converter.ImagesToPDF(ctx, maskedPaths, maskedPDFPath); err != nil {
		return nil, fmt.Errorf("composing masked PDF: %w", err)
	}

	sess.Entities = approved
	sess.MaskedImagePaths = maskedPaths
	sess.MaskedPDFPath = maskedPDFPath
	sess.UpdatedAt = time.Now().UTC()

	out := &MaskOutput{Session: sess, MaskedPDFPath: maskedPDFPath}
	if s.storage != nil && s.cfg.S3.Enabled {
		out.ArchiveURL = s.archive(ctx, sess, maskedPDFPath)
	}
	if err := s.sessions.Update(sess); err != nil {
		return nil, err
	}

	log.Printf("deidentService.ApproveAndMask: session %s masked %d entities", sess.ID, len(selected))
	return out, nil
}

// Verify OCRs the masked pages and scores residual leakage of the approved
// entities.
func (s *deidentService) Verify(ctx context.Context, sessionID uuid.UUID) (*verify.Result, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if len(sess.MaskedImagePaths) == 0 {
		return nil, domain.ErrNoApprovedEntities
	}

	checked := make([]domain.Entity, 0, len(sess.Entities))
	for i := range sess.Entities {
		if sess.Entities[i].Approved {
			checked = append(checked, sess.Entities[i])
		}
	}
	return s.verifier.Verify(ctx, sess.MaskedImagePaths, checked)
}

func (s *deidentService) GetSession(sessionID uuid.UUID) (*domain.Session, error) {
	return s.sessions.Get(sessionID)
}

// DownloadArchive fetches the archived masked PDF for the session from
// object storage and returns it with its download filename.
func (s *deidentService) DownloadArchive(ctx context.Context, sessionID uuid.UUID) ([]byte, string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, "", err
	}
	if s.storage == nil || sess.ArchiveKey == "" {
		return nil, "", domain.ErrArchiveNotFound
	}

	data, err := s.storage.Download(ctx, s.cfg.S3.Bucket, sess.ArchiveKey)
	if err != nil {
		return nil, "", fmt.Errorf("downloading archive for session %s: %w", sessionID, err)
	}
	return data, domain.MaskedFilePrefix + sess.Filename, nil
}

// DeleteSession removes the session together with every file it produced,
// including the archived object when one was uploaded. File and object
// removal are best effort; the session entry always goes away.
func (s *deidentService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	removeQuietly(sess.OriginalPDFPath)
	for _, p := range sess.PageImagePaths {
		removeQuietly(p)
	}
	for _, p := range sess.MaskedImagePaths {
		removeQuietly(p)
	}
	removeQuietly(sess.MaskedPDFPath)

	if s.storage != nil && sess.ArchiveKey != "" {
		if err := s.storage.Delete(ctx, s.cfg.S3.Bucket, sess.ArchiveKey); err != nil {
			log.Printf("deidentService.DeleteSession: deleting archive %s: %v", sess.ArchiveKey, err)
		}
	}

	return s.sessions.Delete(sessionID)
}

// archive uploads the masked PDF to object storage and returns a presigned
// URL. Archive failures are logged, never fatal.
func (s *deidentService) archive(ctx context.Context, sess *domain.Session, maskedPDFPath string) string {
	data, err := os.ReadFile(maskedPDFPath)
	if err != nil {
		log.Printf("deidentService.archive: reading masked PDF for session %s: %v", sess.ID, err)
		return ""
	}
	key := fmt.Sprintf("masked/%s/%s%s", sess.ID, domain.MaskedFilePrefix, sess.Filename)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.S3.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/pdf",
		Size:        int64(len(data)),
	}); err != nil {
		log.Printf("deidentService.archive: uploading masked PDF for session %s: %v", sess.ID, err)
		return ""
	}
	sess.ArchiveKey = key
	url, err := s.storage.GetPresignedURL(ctx, s.cfg.S3.Bucket, key, s.cfg.S3.PresignExpiry)
	if err != nil {
		log.Printf("deidentService.archive: presigning masked PDF for session %s: %v", sess.ID, err)
		return ""
	}
	return url
}

// applyReview returns a copy of entities with approval flags and
// replacement overrides applied. A nil ApprovedIDs list leaves the stored
// approval flags as they are.
func applyReview(entities []domain.Entity, approvedIDs []string, replacements map[string]string) []domain.Entity {
	out := make([]domain.Entity, len(entities))
	copy(out, entities)

	if approvedIDs != nil {
		approvedSet := make(map[string]struct{}, len(approvedIDs))
		for _, id := range approvedIDs {
			approvedSet[id] = struct{}{}
		}
		for i := range out {
			_, ok := approvedSet[out[i].ID]
			out[i].Approved = ok
		}
	}
	for i := range out {
		if r, ok := replacements[out[i].ID]; ok {
			out[i].ReplacementText = r
		}
	}
	return out
}

// saveUpload streams the reader to path, enforcing the size limit while
// copying so oversized bodies never land on disk.
func saveUpload(r io.Reader, path string, maxBytes int64) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating upload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	written, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	if err != nil {
		removeQuietly(path)
		return 0, fmt.Errorf("writing upload file: %w", err)
	}
	if written > maxBytes {
		removeQuietly(path)
		return 0, domain.ErrFileTooLarge
	}
	return written, nil
}

func removeQuietly(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("service: removing %s: %v", path, err)
	}
}
