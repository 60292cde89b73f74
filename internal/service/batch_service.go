package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"privasee/internal/config"
	"privasee/internal/domain"
	"privasee/internal/mapping"
	"privasee/internal/masking"
	"privasee/internal/port"
	"privasee/internal/verify"
)

// BatchInput is the DTO for processing a folder of documents.
type BatchInput struct {
	FolderPath string
	Fields     []domain.FieldDefinition
}

// BatchService defines the unattended folder-processing contract.
type BatchService interface {
	ScanFolder(folderPath string) ([]string, error)
	ProcessBatch(ctx context.Context, input *BatchInput) (*domain.BatchRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*domain.BatchRun, error)
	ListRuns(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error)
}

type batchService struct {
	cfg       *config.Config
	converter port.PageConverter
	extractor port.TextExtractor
	detector  port.EntityDetector
	masker    *masking.Masker
	verifier  *verify.Verifier
	gender    port.GenderDetector
	runs      port.BatchRunRepository // optional persistence
}

// NewBatchService creates a new BatchService implementation. runs may be
// nil; batch results are then returned but not persisted.
func NewBatchService(
	cfg *config.Config,
	converter port.PageConverter,
	extractor port.TextExtractor,
	detector port.EntityDetector,
	masker *masking.Masker,
	verifier *verify.Verifier,
	gender port.GenderDetector,
	runs port.BatchRunRepository,
) BatchService {
	return &batchService{
		cfg:       cfg,
		converter: converter,
		extractor: extractor,
		detector:  detector,
		masker:    masker,
		verifier:  verifier,
		gender:    gender,
		runs:      runs,
	}
}

// ScanFolder lists the PDF files eligible for batch processing, sorted by
// name. Prior masked outputs are excluded so reruns never reprocess them.
func (s *batchService) ScanFolder(folderPath string) ([]string, error) {
	info, err := os.Stat(folderPath)
	if err != nil || !info.IsDir() {
		return nil, domain.ErrFolderNotFound
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		if strings.HasPrefix(name, domain.MaskedFilePrefix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// ProcessBatch de-identifies every eligible PDF in the folder. Documents
// run concurrently up to the configured limit, each under its own timeout
// and with its own mapping scope, so replacement values never bleed across
// documents. A failing document becomes an error record; the batch always
// runs to completion.
func (s *batchService) ProcessBatch(ctx context.Context, input *BatchInput) (*domain.BatchRun, error) {
	if err := domain.ValidateFieldDefinitions(input.Fields); err != nil {
		return nil, err
	}
	files, err := s.ScanFolder(input.FolderPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrNoBatchInput
	}

	runID := uuid.New()
	log.Printf("batchService.ProcessBatch: run %s starting, %d documents in %s", runID, len(files), input.FolderPath)

	concurrency := s.cfg.Batch.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	docTimeout := time.Duration(s.cfg.Batch.DocumentTimeoutSecs) * time.Second

	results := make([]domain.DocumentResult, len(files))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, filename := range files {
		wg.Add(1)
		go func(idx int, filename string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			docCtx := ctx
			if docTimeout > 0 {
				var cancel context.CancelFunc
				docCtx, cancel = context.WithTimeout(ctx, docTimeout)
				defer cancel()
			}

			results[idx] = s.processDocument(docCtx, runID, idx, input.FolderPath, filename, input.Fields)
		}(i, filename)
	}
	wg.Wait()

	run := aggregate(runID, input.FolderPath, results)
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			log.Printf("batchService.ProcessBatch: persisting run %s: %v", runID, err)
		}
	}

	log.Printf("batchService.ProcessBatch: run %s finished, %d/%d succeeded, score %.1f",
		runID, run.SuccessfulDocuments, run.TotalDocuments, run.BatchScore)
	return run, nil
}

func (s *batchService) GetRun(ctx context.Context, id uuid.UUID) (*domain.BatchRun, error) {
	if s.runs == nil {
		return nil, domain.ErrNotFound
	}
	return s.runs.GetByID(ctx, id)
}

func (s *batchService) ListRuns(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error) {
	if s.runs == nil {
		return nil, 0, nil
	}
	return s.runs.List(ctx, offset, limit)
}

// processDocument runs the full pipeline for one file and never returns an
// error: failures become error records. Scratch images are removed on
// every path.
func (s *batchService) processDocument(ctx context.Context, runID uuid.UUID, idx int, folderPath, filename string, fields []domain.FieldDefinition) domain.DocumentResult {
	result := domain.DocumentResult{Filename: filename, Status: domain.DocumentStatusError}

	pdfPath := filepath.Join(folderPath, filename)
	stem := fmt.Sprintf("%s_%d", runID, idx)

	pagePaths, err := s.converter.PDFToImages(ctx, pdfPath, s.cfg.Dirs.TempImageDir(), stem)
	defer func() {
		for _, p := range pagePaths {
			removeQuietly(p)
		}
	}()
	if err != nil {
		result.Error = fmt.Sprintf("rendering pages: %v", err)
		return result
	}

	mapper := mapping.NewMapper(mapping.NewGenerator(s.gender, 0))

	var entities []domain.Entity
	for i, pagePath := range pagePaths {
		pageNumber := i + 1

		imageBytes, err := os.ReadFile(pagePath)
		if err != nil {
			result.Error = fmt.Sprintf("reading page %d: %v", pageNumber, err)
			return result
		}

		ocr, err := s.extractor.Analyze(ctx, imageBytes)
		if err != nil {
			log.Printf("batchService.processDocument: OCR failed for %s page %d: %v", filename, pageNumber, err)
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
			result.Error = fmt.Sprintf("detecting entities on page %d: %v", pageNumber, err)
			return result
		}

		for _, c := range candidates {
			strategy := domain.StrategyFor(fields, c.Category)
			entities = append(entities, domain.Entity{
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

	maskedFilename := domain.MaskedFilePrefix + filename
	maskedPDFPath := filepath.Join(folderPath, maskedFilename)
	result.MaskedFilename = maskedFilename
	result.EntitiesToMask = len(entities)

	// A clean document still produces an output file, so downstream
	// consumers can take the masked_ set wholesale.
	if len(entities) == 0 {
		if err := copyFile(pdfPath, maskedPDFPath); err != nil {
			result.Error = fmt.Sprintf("copying clean document: %v", err)
			return result
		}
		result.Status = domain.DocumentStatusSuccess
		result.Score = 100.0
		return result
	}

	byPage := make(map[int][]domain.Entity, len(entities))
	for i := range entities {
		byPage[entities[i].PageNumber] = append(byPage[entities[i].PageNumber], entities[i])
	}

	maskedPaths := make([]string, 0, len(pagePaths))
	defer func() {
		for _, p := range maskedPaths {
			removeQuietly(p)
		}
	}()
	for i, pagePath := range pagePaths {
		pageNumber := i + 1
		maskedPath := filepath.Join(s.cfg.Dirs.TempImageDir(), fmt.Sprintf("%s_masked_page%d.png", stem, pageNumber))
		if err := s.masker.ApplyMasksFile(pagePath, byPage[pageNumber], maskedPath); err != nil {
			result.Error = fmt.Sprintf("masking page %d: %v", pageNumber, err)
			return result
		}
		maskedPaths = append(maskedPaths, maskedPath)
	}

	if err := s.converter.ImagesToPDF(ctx, maskedPaths, maskedPDFPath); err != nil {
		result.Error = fmt.Sprintf("composing masked PDF: %v", err)
		return result
	}

	verification, err := s.verifier.Verify(ctx, maskedPaths, entities)
	if err != nil {
		result.Error = fmt.Sprintf("verifying masked output: %v", err)
		return result
	}

	result.Status = domain.DocumentStatusSuccess
	result.EntitiesMasked = verification.EntitiesMasked
	result.Score = verification.Score
	return result
}

// aggregate folds per-document results into the run record. The batch
// score is computed over the combined entity totals of successful
// documents, so large documents weigh proportionally.
func aggregate(runID uuid.UUID, folderPath string, results []domain.DocumentResult) *domain.BatchRun {
	run := &domain.BatchRun{
		ID:             runID,
		FolderPath:     folderPath,
		TotalDocuments: len(results),
		Results:        results,
		CreatedAt:      time.Now().UTC(),
	}

	totalEntities := 0
	maskedEntities := 0
	for i := range results {
		if results[i].Status != domain.DocumentStatusSuccess {
			continue
		}
		run.SuccessfulDocuments++
		totalEntities += results[i].EntitiesToMask
		maskedEntities += results[i].EntitiesMasked
	}
	run.BatchScore = verify.Score(maskedEntities, totalEntities)
	return run
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
