package pdfconv

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ImagesToPDF composes page images into a single multi-page PDF at
// pdfPath. Each image becomes one page sized at the converter's DPI so
// page dimensions match the rendered originals.
func (c *Converter) ImagesToPDF(ctx context.Context, imagePaths []string, pdfPath string) error {
	if len(imagePaths) == 0 {
		return fmt.Errorf("composing %s: no page images", filepath.Base(pdfPath))
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, imgPath := range imagePaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addPage(pdf, imgPath, c.dpi); err != nil {
			return fmt.Errorf("composing page %d: %w", i+1, err)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("composing page %d: %w", i+1, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(pdfPath), err)
	}
	return nil
}

// addPage appends one image as a full-bleed page. The page size is the
// image's pixel size scaled to points at the render DPI.
func addPage(pdf *fpdf.Fpdf, imgPath string, dpi int) error {
	f, err := os.Open(imgPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(imgPath), err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("rewinding %s: %w", filepath.Base(imgPath), err)
	}

	wPts := float64(cfg.Width) * 72.0 / float64(dpi)
	hPts := float64(cfg.Height) * 72.0 / float64(dpi)

	opts := fpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: wPts, Ht: hPts})
	pdf.RegisterImageOptionsReader(imgPath, opts, f)
	pdf.ImageOptions(imgPath, 0, 0, wPts, hPts, false, opts, 0, "")
	return pdf.Error()
}
