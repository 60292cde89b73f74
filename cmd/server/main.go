package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"privasee/internal/config"
	claudedetect "privasee/internal/detect/claude"
	"privasee/internal/handler"
	"privasee/internal/mapping/gender"
	"privasee/internal/masking"
	"privasee/internal/ocr"
	"privasee/internal/ocr/azure"
	"privasee/internal/ocr/tesseract"
	"privasee/internal/pdfconv"
	"privasee/internal/port"
	"privasee/internal/repository/postgres"
	"privasee/internal/router"
	"privasee/internal/service"
	"privasee/internal/session"
	s3storage "privasee/internal/storage/s3"
	"privasee/internal/verify"

	"github.com/jmoiron/sqlx"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, dir := range []string{cfg.Dirs.UploadDir(), cfg.Dirs.TempImageDir(), cfg.Dirs.OutputDir(), cfg.Dirs.ConfigsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	// Batch history persistence is optional; without a database the
	// batch endpoints still work, results are just not stored.
	var db *sqlx.DB
	var runRepo port.BatchRunRepository
	if cfg.DB.Host != "" {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			log.Printf("database unavailable, batch history disabled: %v", err)
		} else {
			defer db.Close()
			runRepo = postgres.NewBatchRunRepo(db)
		}
	}

	// OCR providers
	ocr.RegisterProvider("azure", func(c *config.OCRConfig) (port.TextExtractor, error) {
		return azure.NewClient(c)
	})
	ocr.RegisterProvider("tesseract", func(c *config.OCRConfig) (port.TextExtractor, error) {
		return tesseract.NewEngine(c), nil
	})
	extractor, err := ocr.NewExtractor(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR: %w", err)
	}

	detector := claudedetect.NewDetector(&cfg.Detect)
	converter := pdfconv.New(&cfg.PDF)
	masker := masking.New(&cfg.Mask)
	verifier := verify.New(extractor)
	genderNames := gender.New()
	sessions := session.NewStore()

	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Services
	deidentSvc := service.NewDeidentService(cfg, sessions, converter, extractor, detector, masker, verifier, genderNames, storage)
	batchSvc := service.NewBatchService(cfg, converter, extractor, detector, masker, verifier, genderNames, runRepo)
	templateSvc := service.NewTemplateService(&cfg.Dirs)

	// Handlers
	healthH := handler.NewHealthHandler(cfg, db)
	deidentH := handler.NewDeidentHandler(deidentSvc)
	batchH := handler.NewBatchHandler(batchSvc)
	templateH := handler.NewTemplateHandler(templateSvc)
	fileH := handler.NewFileHandler(&cfg.Dirs)

	r := router.Setup(cfg, healthH, deidentH, batchH, templateH, fileH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s (ocr=%s, detector=%s)", cfg.Server.Port, cfg.OCR.Provider, cfg.Detect.Provider)
	return srv.ListenAndServe()
}
